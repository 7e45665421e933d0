package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
)

// GetCategories returns the active categories visible to an owner: their own
// plus the shared defaults (owner_id IS NULL). Defaults sort first so they
// occupy stable positions.
func (s *SQLiteStorage) GetCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, owner_id, name, type, is_active, created_at
		FROM categories
		WHERE is_active = 1 AND (owner_id IS NULL OR owner_id = ?)
		ORDER BY owner_id IS NOT NULL, type, name`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "owner", ownerID, "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns one category, active or not.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, type, is_active, created_at
		FROM categories WHERE id = ?`, id)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetCategoryByName returns an active category by its owner-scoped name, or
// nil when no such category exists. Shared defaults match for every owner.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, ownerID, name string, categoryType model.TransactionType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, type, is_active, created_at
		FROM categories
		WHERE name = ? AND type = ? AND is_active = 1
			AND (owner_id IS NULL OR owner_id = ?)
		ORDER BY owner_id IS NULL
		LIMIT 1`, name, string(categoryType), ownerID)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory creates a new category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := category.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, type, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		category.OwnerID,
		category.Name,
		string(category.Type),
		category.IsActive,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("category %q (%s): %w", category.Name, category.Type, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "id", category.ID, "name", category.Name, "type", category.Type)
	return nil
}

// DeactivateCategory soft-deletes a category. Shared defaults are read-only
// and cannot be deactivated.
func (s *SQLiteStorage) DeactivateCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	var ownerID sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM categories WHERE id = ?`, id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query category: %w", err)
	}
	if !ownerID.Valid {
		return fmt.Errorf("category %s: %w", id, common.ErrSharedCategory)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE categories SET is_active = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	return nil
}

func scanCategory(row rowScanner) (model.Category, error) {
	var (
		cat       model.Category
		ownerID   sql.NullString
		catType   string
		createdAt time.Time
	)

	if err := row.Scan(&cat.ID, &ownerID, &cat.Name, &catType, &cat.IsActive, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, err
		}
		return model.Category{}, fmt.Errorf("failed to scan category: %w", err)
	}

	if ownerID.Valid {
		cat.OwnerID = &ownerID.String
	}
	cat.Type = model.TransactionType(catType)
	cat.CreatedAt = createdAt.UTC()
	return cat, nil
}
