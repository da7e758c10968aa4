package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dbdao "github.com/slateworks/deckforge/biz/dal/db"
	dalmodel "github.com/slateworks/deckforge/biz/dal/model"
	deckmodel "github.com/slateworks/deckforge/biz/model/deck"
	deckservice "github.com/slateworks/deckforge/biz/service/deck"
	"github.com/slateworks/deckforge/biz/service/metadata"
	"github.com/slateworks/deckforge/pkg/common"
	"github.com/slateworks/deckforge/pkg/validator"
)

// ProjectHandler serves the metadata endpoints and the record-backed
// presentation endpoints.
type ProjectHandler struct {
	db        *gorm.DB
	projects  *dbdao.ProjectDAO
	customers *dbdao.CustomerDAO
	decks     *deckservice.Service
	timeout   time.Duration
}

func NewProjectHandler(db *gorm.DB, decks *deckservice.Service, timeout time.Duration) *ProjectHandler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ProjectHandler{
		db:        db,
		projects:  dbdao.NewProjectDAO(),
		customers: dbdao.NewCustomerDAO(),
		decks:     decks,
		timeout:   timeout,
	}
}

// customerPayload is the wire shape of a customer record.
type customerPayload struct {
	CustomerName    string `json:"customer_name"`
	CustomerLogoURL string `json:"customer_logo_url,omitempty"`
}

// CreateProject stores a project record, creating the customer row on
// first sight.
//
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(ctx context.Context, c *app.RequestContext) {
	var record metadata.Record
	if err := decodeStrict(c.Request.Body(), &record); err != nil {
		writeError(ctx, c, err)
		return
	}
	if err := validateRecord(&record); err != nil {
		writeError(ctx, c, err)
		return
	}
	if record.ProjectID == "" {
		record.ProjectID = uuid.NewString()
	}

	if err := h.ensureCustomer(ctx, record.CustomerName, record.CustomerLogoURL); err != nil {
		writeError(ctx, c, err)
		return
	}

	entity := metadata.ToModel(&record)
	if err := h.projects.Create(ctx, h.db, entity); err != nil {
		writeError(ctx, c, err)
		return
	}

	hlog.CtxInfof(ctx, "created project %s for customer %s", entity.ProjectID, entity.CustomerName)
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: entity})
}

// GetProject fetches one project record.
//
// GET /api/v1/projects/:projectID
func (h *ProjectHandler) GetProject(ctx context.Context, c *app.RequestContext) {
	entity, err := h.projects.GetByProjectID(ctx, h.db, c.Param("projectID"))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: entity})
}

// ListProjects lists project records, optionally filtered by the
// customer_name query parameter.
//
// GET /api/v1/projects
func (h *ProjectHandler) ListProjects(ctx context.Context, c *app.RequestContext) {
	var (
		entities []dalmodel.Project
		err      error
	)
	if name := c.Query("customer_name"); name != "" {
		entities, err = h.projects.ListByCustomerName(ctx, h.db, name)
	} else {
		entities, err = h.projects.List(ctx, h.db)
	}
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: entities})
}

// UpdateProject updates a project record in place.
//
// PUT /api/v1/projects/:projectID
func (h *ProjectHandler) UpdateProject(ctx context.Context, c *app.RequestContext) {
	var record metadata.Record
	if err := decodeStrict(c.Request.Body(), &record); err != nil {
		writeError(ctx, c, err)
		return
	}
	record.ProjectID = c.Param("projectID")
	if err := validateRecord(&record); err != nil {
		writeError(ctx, c, err)
		return
	}

	if _, err := h.projects.GetByProjectID(ctx, h.db, record.ProjectID); err != nil {
		writeError(ctx, c, err)
		return
	}
	entity := metadata.ToModel(&record)
	if err := h.projects.Update(ctx, h.db, entity); err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: entity})
}

// DeleteProject soft-deletes a project record.
//
// DELETE /api/v1/projects/:projectID
func (h *ProjectHandler) DeleteProject(ctx context.Context, c *app.RequestContext) {
	projectID := c.Param("projectID")
	if _, err := h.projects.GetByProjectID(ctx, h.db, projectID); err != nil {
		writeError(ctx, c, err)
		return
	}
	if err := h.projects.Delete(ctx, h.db, projectID); err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Msg: "deleted"})
}

// CreateCustomer stores a customer record.
//
// POST /api/v1/customers
func (h *ProjectHandler) CreateCustomer(ctx context.Context, c *app.RequestContext) {
	var payload customerPayload
	if err := decodeStrict(c.Request.Body(), &payload); err != nil {
		writeError(ctx, c, err)
		return
	}
	if payload.CustomerName == "" {
		writeError(ctx, c, fmt.Errorf("%w: customer_name is required", deckmodel.ErrInvalidRequest))
		return
	}

	entity := &dalmodel.Customer{
		CustomerID:      uuid.NewString(),
		CustomerName:    payload.CustomerName,
		CustomerLogoURL: payload.CustomerLogoURL,
	}
	if err := h.customers.Create(ctx, h.db, entity); err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: entity})
}

// ListCustomers lists all customer records.
//
// GET /api/v1/customers
func (h *ProjectHandler) ListCustomers(ctx context.Context, c *app.RequestContext) {
	entities, err := h.customers.List(ctx, h.db)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Data: entities})
}

// GeneratePresentation assembles a one-slide deck from a stored
// project record, uploads it and returns the artifact URL.
//
// POST /api/v1/projects/:projectID/presentation
func (h *ProjectHandler) GeneratePresentation(ctx context.Context, c *app.RequestContext) {
	entity, err := h.projects.GetByProjectID(ctx, h.db, c.Param("projectID"))
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	spec, err := metadata.FromModel(entity)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	h.assembleAndRespond(ctx, c, []deckmodel.ProjectSpec{spec})
}

// GenerateCustomerPresentation assembles one slide per stored project
// of a customer, uploads the deck and returns the artifact URL.
//
// POST /api/v1/customers/:customerName/presentation
func (h *ProjectHandler) GenerateCustomerPresentation(ctx context.Context, c *app.RequestContext) {
	name := c.Param("customerName")
	entities, err := h.projects.ListByCustomerName(ctx, h.db, name)
	if err != nil {
		writeError(ctx, c, err)
		return
	}
	if len(entities) == 0 {
		writeError(ctx, c, gorm.ErrRecordNotFound)
		return
	}

	specs := make([]deckmodel.ProjectSpec, 0, len(entities))
	for i := range entities {
		spec, err := metadata.FromModel(&entities[i])
		if err != nil {
			writeError(ctx, c, fmt.Errorf("project %s: %w", entities[i].ProjectID, err))
			return
		}
		specs = append(specs, spec)
	}
	h.assembleAndRespond(ctx, c, specs)
}

func (h *ProjectHandler) assembleAndRespond(ctx context.Context, c *app.RequestContext, specs []deckmodel.ProjectSpec) {
	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	url, rendered, err := h.decks.AssembleAndUpload(reqCtx, &deckmodel.DeckRequest{Projects: specs})
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	resp := map[string]any{"presentation_url": url}
	if len(rendered.Warnings) > 0 {
		resp["warnings"] = rendered.Warnings
	}
	c.JSON(consts.StatusOK, resp)
}

// ensureCustomer creates the customer row on first reference. A logo
// seen on a project create seeds the customer record.
func (h *ProjectHandler) ensureCustomer(ctx context.Context, name, logoURL string) error {
	if name == "" {
		return fmt.Errorf("%w: customer_name is required", deckmodel.ErrInvalidRequest)
	}
	_, err := h.customers.GetByName(ctx, h.db, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return h.customers.Create(ctx, h.db, &dalmodel.Customer{
		CustomerID:      uuid.NewString(),
		CustomerName:    name,
		CustomerLogoURL: logoURL,
	})
}

// Stored record field limits.
const (
	maxCustomerNameLength = 100
	maxOverviewLength     = 5000
	maxDescriptionLength  = 1000
)

// validateRecord enforces the field limits on an inbound record.
func validateRecord(r *metadata.Record) error {
	if r.ProjectTitle == "" {
		return fmt.Errorf("%w: project_title is required", deckmodel.ErrInvalidRequest)
	}
	checks := []error{
		validator.ValidateTextLength("project_title", r.ProjectTitle, deckmodel.MaxTitleLength),
		validator.ValidateTextLength("customer_name", r.CustomerName, maxCustomerNameLength),
		validator.ValidateTextLength("project_overview", r.ProjectOverview, maxOverviewLength),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %s", deckmodel.ErrInvalidRequest, err.Error())
		}
	}
	for i, img := range r.Images {
		if img.ImageURL == "" {
			return fmt.Errorf("%w: images[%d].image_url is required", deckmodel.ErrInvalidRequest, i)
		}
		if err := validator.ValidateTextLength(fmt.Sprintf("images[%d].description", i), img.Description, maxDescriptionLength); err != nil {
			return fmt.Errorf("%w: %s", deckmodel.ErrInvalidRequest, err.Error())
		}
	}
	return nil
}
