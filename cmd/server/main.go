package main

import (
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	dalmodel "github.com/slateworks/deckforge/biz/dal/model"
	"github.com/slateworks/deckforge/biz/handler"
	"github.com/slateworks/deckforge/biz/middleware"
	"github.com/slateworks/deckforge/biz/router"
	"github.com/slateworks/deckforge/biz/service/assets"
	deckservice "github.com/slateworks/deckforge/biz/service/deck"
	"github.com/slateworks/deckforge/pkg/config"
	"github.com/slateworks/deckforge/pkg/database"
	"github.com/slateworks/deckforge/pkg/storage"
)

func main() {
	cfg := config.MustLoad("config.yaml")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&dalmodel.Customer{}, &dalmodel.Project{}); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	store, err := storage.New(cfg.Storage, cfg.Pipeline.OutputBucket)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	log.Printf("storage backend: %s, output bucket: %s", store.Type(), cfg.Pipeline.OutputBucket)

	resolver := assets.NewResolver(store, assets.Options{
		FetchTimeout: time.Duration(cfg.Pipeline.AssetFetchTimeoutSeconds) * time.Second,
		Concurrency:  cfg.Pipeline.AssetFetchConcurrency,
	})
	decks := deckservice.NewService(resolver, store)

	requestTimeout := time.Duration(cfg.Pipeline.RequestTimeoutSeconds) * time.Second
	deckHandler := handler.NewDeckHandler(decks, cfg.Server.MaxPayloadBytes, requestTimeout)
	projectHandler := handler.NewProjectHandler(db, decks, requestTimeout)
	artifactHandler := handler.NewArtifactHandler(store)

	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(int(cfg.Server.MaxPayloadBytes)+4096),
	)
	h.Use(middleware.Recovery())
	h.Use(middleware.Logging())
	h.Use(middleware.CORS(&cfg.CORS))

	router.Register(h, deckHandler, projectHandler, artifactHandler)

	h.Spin()
}
