package db

import (
	"context"
	"errors"

	"github.com/slateworks/deckforge/biz/dal/model"
	"gorm.io/gorm"
)

// ProjectDAO wraps basic CRUD operations for project records.
type ProjectDAO struct{}

func NewProjectDAO() *ProjectDAO { return &ProjectDAO{} }

// Create persists a new project record.
func (dao *ProjectDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Project) error {
	if entity == nil {
		return errors.New("project must not be nil")
	}
	if entity.ProjectID == "" {
		return errors.New("project_id is required")
	}
	if entity.ProjectTitle == "" {
		return errors.New("project_title is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetByProjectID fetches a single project by its external identifier.
func (dao *ProjectDAO) GetByProjectID(ctx context.Context, db *gorm.DB, projectID string) (*model.Project, error) {
	if projectID == "" {
		return nil, errors.New("project_id is required")
	}
	var entity model.Project
	err := db.WithContext(ctx).Where("project_id = ?", projectID).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns all projects ordered by creation time.
func (dao *ProjectDAO) List(ctx context.Context, db *gorm.DB) ([]model.Project, error) {
	var entities []model.Project
	err := db.WithContext(ctx).Order("created_at ASC").Find(&entities).Error
	return entities, err
}

// ListByCustomerName returns a customer's projects ordered by creation time.
func (dao *ProjectDAO) ListByCustomerName(ctx context.Context, db *gorm.DB, customerName string) ([]model.Project, error) {
	if customerName == "" {
		return nil, errors.New("customer_name is required")
	}
	var entities []model.Project
	err := db.WithContext(ctx).
		Where("customer_name = ?", customerName).
		Order("created_at ASC").
		Find(&entities).Error
	return entities, err
}

// Update updates an existing project identified by project_id.
func (dao *ProjectDAO) Update(ctx context.Context, db *gorm.DB, entity *model.Project) error {
	if entity == nil {
		return errors.New("project must not be nil")
	}
	if entity.ProjectID == "" {
		return errors.New("project_id is required")
	}
	return db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ?", entity.ProjectID).
		Updates(entity).
		Error
}

// Delete performs a soft delete by project_id.
func (dao *ProjectDAO) Delete(ctx context.Context, db *gorm.DB, projectID string) error {
	if projectID == "" {
		return errors.New("project_id is required")
	}
	return db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&model.Project{}).
		Error
}
