package db

import (
	"context"
	"errors"
	"testing"

	"github.com/slateworks/deckforge/biz/dal/model"
	"gorm.io/gorm"
)

func TestCustomerDAO_Create(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewCustomerDAO()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		customer := &model.Customer{
			CustomerID:      "c-100",
			CustomerName:    "Acme",
			CustomerLogoURL: "gs://assets/logos/acme.png",
		}
		if err := dao.Create(ctx, db, customer); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		found, err := dao.GetByName(ctx, db, "Acme")
		if err != nil {
			t.Fatalf("GetByName failed: %v", err)
		}
		if found.CustomerID != "c-100" {
			t.Errorf("Expected customer_id c-100, got %s", found.CustomerID)
		}
	})

	t.Run("NilEntity", func(t *testing.T) {
		if err := dao.Create(ctx, db, nil); err == nil {
			t.Error("Expected error for nil entity")
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		err := dao.Create(ctx, db, &model.Customer{CustomerID: "c-101"})
		if err == nil {
			t.Error("Expected error for empty customer_name")
		}
	})

	t.Run("DuplicateName", func(t *testing.T) {
		first := &model.Customer{CustomerID: "c-1", CustomerName: "Duplicated"}
		second := &model.Customer{CustomerID: "c-2", CustomerName: "Duplicated"}
		if err := dao.Create(ctx, db, first); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := dao.Create(ctx, db, second); err == nil {
			t.Error("Expected error for duplicate customer_name")
		}
	})
}

func TestCustomerDAO_List(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewCustomerDAO()
	ctx := context.Background()

	for _, name := range []string{"Acme", "Globex"} {
		customer := &model.Customer{CustomerID: "c-" + name, CustomerName: name}
		if err := dao.Create(ctx, db, customer); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	customers, err := dao.List(ctx, db)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("Expected 2 customers, got %d", len(customers))
	}
	if customers[0].CustomerName != "Acme" {
		t.Errorf("Expected creation order, got %s first", customers[0].CustomerName)
	}
}

func TestCustomerDAO_Delete(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	dao := NewCustomerDAO()
	ctx := context.Background()

	customer := &model.Customer{CustomerID: "c-del", CustomerName: "Doomed"}
	if err := dao.Create(ctx, db, customer); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := dao.Delete(ctx, db, "c-del"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err := dao.GetByName(ctx, db, "Doomed")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound after delete, got %v", err)
	}
}
