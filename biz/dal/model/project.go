// Package model defines the metadata store entities: the customers and
// projects collections consumed by the presentation pipeline.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ImageRecord is one captioned image reference stored on a project.
type ImageRecord struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// ImageList stores the image records as a JSON column so the schema
// stays identical across sqlite, mysql and postgres.
type ImageList []ImageRecord

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal image list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported image list column type %T", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Project is one row of the projects collection.
type Project struct {
	ID              uint           `gorm:"primaryKey" json:"-"`
	ProjectID       string         `gorm:"uniqueIndex;size:64" json:"project_id"`
	CustomerName    string         `gorm:"index;size:100" json:"customer_name"`
	CustomerLogoURL string         `gorm:"size:1024" json:"customer_logo_url"`
	ProjectTitle    string         `gorm:"size:500" json:"project_title"`
	ProjectOverview string         `gorm:"type:text" json:"project_overview"`
	EQI             string         `gorm:"size:8" json:"eqi"` // "Yes" or "No"
	Images          ImageList      `gorm:"type:text" json:"images"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Customer is one row of the customers collection.
type Customer struct {
	ID              uint           `gorm:"primaryKey" json:"-"`
	CustomerID      string         `gorm:"uniqueIndex;size:64" json:"customer_id"`
	CustomerName    string         `gorm:"uniqueIndex;size:100" json:"customer_name"`
	CustomerLogoURL string         `gorm:"size:1024" json:"customer_logo_url"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
