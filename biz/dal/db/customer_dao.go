package db

import (
	"context"
	"errors"

	"github.com/slateworks/deckforge/biz/dal/model"
	"gorm.io/gorm"
)

// CustomerDAO wraps basic CRUD operations for customer records.
type CustomerDAO struct{}

func NewCustomerDAO() *CustomerDAO { return &CustomerDAO{} }

// Create persists a new customer record.
func (dao *CustomerDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Customer) error {
	if entity == nil {
		return errors.New("customer must not be nil")
	}
	if entity.CustomerID == "" {
		return errors.New("customer_id is required")
	}
	if entity.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetByName fetches a single customer by name.
func (dao *CustomerDAO) GetByName(ctx context.Context, db *gorm.DB, customerName string) (*model.Customer, error) {
	if customerName == "" {
		return nil, errors.New("customer_name is required")
	}
	var entity model.Customer
	err := db.WithContext(ctx).Where("customer_name = ?", customerName).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns all customers ordered by creation time.
func (dao *CustomerDAO) List(ctx context.Context, db *gorm.DB) ([]model.Customer, error) {
	var entities []model.Customer
	err := db.WithContext(ctx).Order("created_at ASC").Find(&entities).Error
	return entities, err
}

// Delete performs a soft delete by customer_id.
func (dao *CustomerDAO) Delete(ctx context.Context, db *gorm.DB, customerID string) error {
	if customerID == "" {
		return errors.New("customer_id is required")
	}
	return db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&model.Customer{}).
		Error
}
