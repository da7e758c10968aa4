package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"gorm.io/gorm"

	deckmodel "github.com/slateworks/deckforge/biz/model/deck"
	"github.com/slateworks/deckforge/biz/service/assets"
	"github.com/slateworks/deckforge/pkg/validator"
)

// ImagePayload is one captioned image in the wire format.
type ImagePayload struct {
	GCSURL string `json:"gcs_url"`
	Title  string `json:"title"`
}

// ProjectPayload is the wire shape of one project: the /generate body
// and each element of the /generate_multi projects array.
type ProjectPayload struct {
	Title        string         `json:"title"`
	LogoGCSURL   string         `json:"logo_gcs_url,omitempty"`
	TextContent  []string       `json:"text_content"`
	ImageData    []ImagePayload `json:"image_data"`
	IncludeEQI   bool           `json:"include_eqi"`
	StrictAssets bool           `json:"strict_assets,omitempty"`
}

// MultiPayload is the wire shape of a /generate_multi request.
type MultiPayload struct {
	Projects     []ProjectPayload `json:"projects"`
	StrictAssets bool             `json:"strict_assets,omitempty"`
}

// ToSpec converts the wire payload to the assembler's input schema,
// canonicalizing every asset URL.
func (p *ProjectPayload) ToSpec() (deckmodel.ProjectSpec, error) {
	spec := deckmodel.ProjectSpec{
		Title:               p.Title,
		Bullets:             p.TextContent,
		IncludeQualityBadge: p.IncludeEQI,
	}
	if p.LogoGCSURL != "" {
		ref, err := assets.ParseRef(p.LogoGCSURL)
		if err != nil {
			return deckmodel.ProjectSpec{}, fmt.Errorf("logo_gcs_url: %w", err)
		}
		spec.Logo = &ref
	}
	for i, img := range p.ImageData {
		ref, err := assets.ParseRef(img.GCSURL)
		if err != nil {
			return deckmodel.ProjectSpec{}, fmt.Errorf("image_data[%d].gcs_url: %w", i, err)
		}
		spec.Images = append(spec.Images, deckmodel.ImageItem{Asset: ref, Caption: img.Title})
	}
	return spec, nil
}

// decodeStrict parses JSON rejecting unknown fields, so typos surface
// as 400s instead of being silently dropped.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", deckmodel.ErrInvalidRequest, err.Error())
	}
	return nil
}

// attachmentName derives the download filename from the deck title.
func attachmentName(title string) string {
	return strings.ReplaceAll(title, " ", "_") + ".pptx"
}

// writeError maps pipeline error kinds onto HTTP responses. Internal
// errors are logged with an incident id and never leak detail.
func writeError(ctx context.Context, c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, validator.ErrPayloadTooLarge):
		c.JSON(consts.StatusRequestEntityTooLarge, map[string]any{"error": err.Error()})

	case errors.Is(err, deckmodel.ErrInvalidRequest), errors.Is(err, deckmodel.ErrInvalidAssetRef):
		c.JSON(consts.StatusBadRequest, map[string]any{"error": err.Error()})

	case errors.Is(err, deckmodel.ErrAssetUnavailable):
		c.JSON(consts.StatusBadGateway, map[string]any{"error": err.Error()})

	case errors.Is(err, deckmodel.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		c.JSON(consts.StatusGatewayTimeout, map[string]any{"error": "request timed out"})

	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(consts.StatusNotFound, map[string]any{"error": "not found"})

	default:
		incidentID := uuid.NewString()
		hlog.CtxErrorf(ctx, "internal error [%s]: %v", incidentID, err)
		c.JSON(consts.StatusInternalServerError, map[string]any{
			"error":       "internal error",
			"incident_id": incidentID,
		})
	}
}

// Ping answers liveness probes.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]any{"message": "pong"})
}

// Health reports service status and the available endpoints.
func Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]any{
		"status": "ok",
		"endpoints": map[string]string{
			"generate":       "POST /generate",
			"generate_multi": "POST /generate_multi",
			"health":         "GET /health",
		},
	})
}
