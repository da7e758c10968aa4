// Package deck defines the request and document model shared by the
// presentation assembly pipeline.
package deck

import "fmt"

// ContentTypePPTX is the MIME type of the rendered presentation container.
const ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Field limits enforced at the gateway boundary.
const (
	MaxTitleLength   = 500
	MaxBulletLength  = 500
	MaxCaptionLength = 200
	MaxProjects      = 50
	MaxGridImages    = 8
)

// AssetRef is the canonical object-store reference for a remote asset.
// The canonical textual form is "gs://{bucket}/{path}".
type AssetRef struct {
	Bucket string
	Path   string
}

// String returns the canonical gs:// form of the reference.
func (r AssetRef) String() string {
	return "gs://" + r.Bucket + "/" + r.Path
}

// IsZero reports whether the reference is unset.
func (r AssetRef) IsZero() bool {
	return r.Bucket == "" && r.Path == ""
}

// ImageItem is one captioned image inside a project.
type ImageItem struct {
	Asset   AssetRef
	Caption string
}

// ProjectSpec describes a single slide: title, optional logo, bullet
// text, captioned images and the optional quality badge.
type ProjectSpec struct {
	Title               string
	Logo                *AssetRef
	Bullets             []string
	Images              []ImageItem
	IncludeQualityBadge bool
}

// Validate checks the per-project field constraints. The image count is
// deliberately not capped here; the layout engine keeps the first
// MaxGridImages and reports the rest as a warning.
func (p *ProjectSpec) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if len(p.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidRequest, MaxTitleLength)
	}
	for i, bullet := range p.Bullets {
		if len(bullet) > MaxBulletLength {
			return fmt.Errorf("%w: text_content[%d] exceeds %d characters", ErrInvalidRequest, i, MaxBulletLength)
		}
	}
	for i, img := range p.Images {
		if img.Asset.IsZero() {
			return fmt.Errorf("%w: image_data[%d].gcs_url is required", ErrInvalidRequest, i)
		}
		if len(img.Caption) > MaxCaptionLength {
			return fmt.Errorf("%w: image_data[%d].title exceeds %d characters", ErrInvalidRequest, i, MaxCaptionLength)
		}
	}
	return nil
}

// DeckRequest is an ordered batch of projects rendered as one artifact,
// one slide per project.
type DeckRequest struct {
	Projects []ProjectSpec

	// StrictAssets fails the whole request on any unavailable asset
	// instead of rendering a placeholder.
	StrictAssets bool
}

// Validate checks the request-level constraints and every project.
func (r *DeckRequest) Validate() error {
	if len(r.Projects) == 0 {
		return fmt.Errorf("%w: at least one project is required", ErrInvalidRequest)
	}
	if len(r.Projects) > MaxProjects {
		return fmt.Errorf("%w: more than %d projects", ErrInvalidRequest, MaxProjects)
	}
	for i := range r.Projects {
		if err := r.Projects[i].Validate(); err != nil {
			return fmt.Errorf("projects[%d]: %w", i, err)
		}
	}
	return nil
}

// Warning records a recoverable condition observed while assembling one
// project, e.g. a dropped surplus image or a placeholder substitution.
type Warning struct {
	Project int    `json:"project"`
	Message string `json:"message"`
}

// RenderedDeck is the serialized presentation plus assembly warnings.
type RenderedDeck struct {
	Data        []byte
	ContentType string
	Warnings    []Warning
}
