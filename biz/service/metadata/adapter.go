// Package metadata maps project records from the metadata store onto
// the assembler's input schema.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/slateworks/deckforge/biz/dal/model"
	deckmodel "github.com/slateworks/deckforge/biz/model/deck"
	"github.com/slateworks/deckforge/biz/service/assets"
)

// EQIFlag is the stored quality-badge marker, "Yes" or "No". Legacy
// records carry a JSON boolean instead; both decode to the canonical
// string form.
type EQIFlag string

const (
	EQIYes EQIFlag = "Yes"
	EQINo  EQIFlag = "No"
)

// UnmarshalJSON accepts "Yes"/"No" strings and legacy booleans.
func (f *EQIFlag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true":
		*f = EQIYes
		return nil
	case "false", "null":
		*f = EQINo
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("eqi must be \"Yes\", \"No\" or a boolean")
	}
	switch s {
	case "Yes", "yes":
		*f = EQIYes
	case "No", "no", "":
		*f = EQINo
	default:
		return fmt.Errorf("eqi must be \"Yes\" or \"No\", got %q", s)
	}
	return nil
}

// ImageEntry is one captioned image reference on a record.
type ImageEntry struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// Record is the wire form of a project record in the metadata store.
type Record struct {
	ProjectID       string       `json:"project_id,omitempty"`
	CustomerName    string       `json:"customer_name"`
	CustomerLogoURL string       `json:"customer_logo_url"`
	ProjectTitle    string       `json:"project_title"`
	ProjectOverview string       `json:"project_overview"`
	EQI             EQIFlag      `json:"eqi"`
	Images          []ImageEntry `json:"images"`
}

// ToProjectSpec maps a record onto the assembler's input schema.
// Asset URLs are canonicalized here so downstream components only see
// canonical references.
func ToProjectSpec(r *Record) (deckmodel.ProjectSpec, error) {
	spec := deckmodel.ProjectSpec{
		Title:               r.ProjectTitle,
		IncludeQualityBadge: r.EQI == EQIYes,
	}

	if r.CustomerLogoURL != "" {
		ref, err := assets.ParseRef(r.CustomerLogoURL)
		if err != nil {
			return deckmodel.ProjectSpec{}, fmt.Errorf("customer_logo_url: %w", err)
		}
		spec.Logo = &ref
	}

	if r.ProjectOverview != "" {
		// A single overview bullet; callers may split on newlines.
		spec.Bullets = []string{r.ProjectOverview}
	}

	for i, img := range r.Images {
		ref, err := assets.ParseRef(img.ImageURL)
		if err != nil {
			return deckmodel.ProjectSpec{}, fmt.Errorf("images[%d].image_url: %w", i, err)
		}
		spec.Images = append(spec.Images, deckmodel.ImageItem{
			Asset:   ref,
			Caption: img.Description,
		})
	}

	return spec, nil
}

// FromModel maps a stored project row onto the assembler's input schema.
func FromModel(p *model.Project) (deckmodel.ProjectSpec, error) {
	record := &Record{
		ProjectID:       p.ProjectID,
		CustomerName:    p.CustomerName,
		CustomerLogoURL: p.CustomerLogoURL,
		ProjectTitle:    p.ProjectTitle,
		ProjectOverview: p.ProjectOverview,
		EQI:             EQIFlag(p.EQI),
	}
	for _, img := range p.Images {
		record.Images = append(record.Images, ImageEntry{
			ImageURL:    img.ImageURL,
			Description: img.Description,
		})
	}
	return ToProjectSpec(record)
}

// ToModel converts an inbound record into a storable project row.
func ToModel(r *Record) *model.Project {
	entity := &model.Project{
		ProjectID:       r.ProjectID,
		CustomerName:    r.CustomerName,
		CustomerLogoURL: r.CustomerLogoURL,
		ProjectTitle:    r.ProjectTitle,
		ProjectOverview: r.ProjectOverview,
		EQI:             string(r.EQI),
	}
	if entity.EQI == "" {
		entity.EQI = string(EQINo)
	}
	for _, img := range r.Images {
		entity.Images = append(entity.Images, model.ImageRecord{
			ImageURL:    img.ImageURL,
			Description: img.Description,
		})
	}
	return entity
}
