// Package testutil provides test helpers for storage-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage"
)

// TestOwner is the owner id used by storage-backed tests.
const TestOwner = "test-owner"

// TestDB wraps an in-memory store with seeding helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
	// Categories maps seeded category names to their generated ids.
	Categories map[string]string
}

// SetupTestDB creates a migrated in-memory database and registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage:    store,
		Categories: make(map[string]string),
		t:          t,
	}
}

// SeedCategory creates an owned category and records its id by name.
func (db *TestDB) SeedCategory(name string, categoryType model.TransactionType) string {
	db.t.Helper()

	owner := TestOwner
	category := model.Category{
		ID:       uuid.NewString(),
		OwnerID:  &owner,
		Name:     name,
		Type:     categoryType,
		IsActive: true,
	}

	if err := db.Storage.CreateCategory(context.Background(), &category); err != nil {
		db.t.Fatalf("failed to seed category %q: %v", name, err)
	}

	db.Categories[name] = category.ID
	return category.ID
}

// SeedBasicCategories creates a small set of common categories.
func (db *TestDB) SeedBasicCategories() {
	db.t.Helper()
	db.SeedCategory("Salary", model.TransactionTypeIncome)
	db.SeedCategory("Groceries", model.TransactionTypeExpense)
	db.SeedCategory("Rent", model.TransactionTypeExpense)
	db.SeedCategory("Entertainment", model.TransactionTypeExpense)
}

// MustCategoryID returns the id of a seeded category or fails the test.
func (db *TestDB) MustCategoryID(name string) string {
	db.t.Helper()
	id, ok := db.Categories[name]
	if !ok {
		db.t.Fatalf("category %q was not seeded", name)
	}
	return id
}
