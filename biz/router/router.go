package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/slateworks/deckforge/biz/handler"
)

// Register configures all HTTP routes for the presentation service.
func Register(r *server.Hertz, decks *handler.DeckHandler, projects *handler.ProjectHandler, artifacts *handler.ArtifactHandler) {
	r.GET("/ping", handler.Ping)
	r.GET("/health", handler.Health)

	if decks != nil {
		r.POST("/generate", decks.Generate)
		r.POST("/generate_multi", decks.GenerateMulti)
	}

	v1 := r.Group("/api/v1")

	if projects != nil {
		pr := v1.Group("/projects")
		pr.POST("", projects.CreateProject)
		pr.GET("", projects.ListProjects)
		pr.GET("/:projectID", projects.GetProject)
		pr.PUT("/:projectID", projects.UpdateProject)
		pr.DELETE("/:projectID", projects.DeleteProject)
		pr.POST("/:projectID/presentation", projects.GeneratePresentation)

		cu := v1.Group("/customers")
		cu.POST("", projects.CreateCustomer)
		cu.GET("", projects.ListCustomers)
		cu.POST("/:customerName/presentation", projects.GenerateCustomerPresentation)
	}

	if artifacts != nil {
		v1.GET("/artifacts/*key", artifacts.Download)
	}
}
