package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	deckmodel "github.com/slateworks/deckforge/biz/model/deck"
	deckservice "github.com/slateworks/deckforge/biz/service/deck"
	"github.com/slateworks/deckforge/pkg/validator"
)

// DeckHandler serves the synchronous assembly endpoints.
type DeckHandler struct {
	decks      *deckservice.Service
	maxPayload int64
	timeout    time.Duration
}

// NewDeckHandler creates the handler. maxPayload and timeout fall back
// to defaults when zero.
func NewDeckHandler(decks *deckservice.Service, maxPayload int64, timeout time.Duration) *DeckHandler {
	if maxPayload <= 0 {
		maxPayload = validator.DefaultMaxPayloadSize
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &DeckHandler{decks: decks, maxPayload: maxPayload, timeout: timeout}
}

// Generate builds a single-slide deck and streams it back as a file
// download.
//
// POST /generate
func (h *DeckHandler) Generate(ctx context.Context, c *app.RequestContext) {
	body := c.Request.Body()
	if err := validator.ValidatePayloadSize(int64(len(body)), h.maxPayload); err != nil {
		writeError(ctx, c, wrapSizeError(err))
		return
	}

	var payload ProjectPayload
	if err := decodeStrict(body, &payload); err != nil {
		writeError(ctx, c, err)
		return
	}
	spec, err := payload.ToSpec()
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	rendered, err := h.decks.Assemble(reqCtx, &deckmodel.DeckRequest{
		Projects:     []deckmodel.ProjectSpec{spec},
		StrictAssets: payload.StrictAssets,
	})
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	hlog.CtxInfof(ctx, "generated presentation %q (%d bytes, %d warnings)",
		spec.Title, len(rendered.Data), len(rendered.Warnings))

	c.Response.Header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", attachmentName(spec.Title)))
	c.Data(consts.StatusOK, rendered.ContentType, rendered.Data)
}

// GenerateMulti builds one slide per project, uploads the deck to the
// artifact store and returns its URL.
//
// POST /generate_multi
func (h *DeckHandler) GenerateMulti(ctx context.Context, c *app.RequestContext) {
	body := c.Request.Body()
	if err := validator.ValidatePayloadSize(int64(len(body)), h.maxPayload); err != nil {
		writeError(ctx, c, wrapSizeError(err))
		return
	}

	var payload MultiPayload
	if err := decodeStrict(body, &payload); err != nil {
		writeError(ctx, c, err)
		return
	}

	req := &deckmodel.DeckRequest{StrictAssets: payload.StrictAssets}
	for i := range payload.Projects {
		spec, err := payload.Projects[i].ToSpec()
		if err != nil {
			writeError(ctx, c, fmt.Errorf("projects[%d]: %w", i, err))
			return
		}
		req.Projects = append(req.Projects, spec)
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	url, rendered, err := h.decks.AssembleAndUpload(reqCtx, req)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	hlog.CtxInfof(ctx, "generated multi-project presentation: %d slides, %d bytes",
		len(req.Projects), len(rendered.Data))

	resp := map[string]any{"presentation_url": url}
	if len(rendered.Warnings) > 0 {
		resp["warnings"] = rendered.Warnings
	}
	c.JSON(consts.StatusOK, resp)
}

// wrapSizeError keeps empty-body failures on the 400 path while
// oversize bodies stay 413.
func wrapSizeError(err error) error {
	if err == nil || errors.Is(err, validator.ErrPayloadTooLarge) {
		return err
	}
	return fmt.Errorf("%w: %s", deckmodel.ErrInvalidRequest, err.Error())
}
