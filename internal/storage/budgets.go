package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
)

const budgetColumns = `id, owner_id, category_id, amount, period, start_date, end_date, alert_threshold, is_active, created_at`

// GetBudgets returns an owner's budgets in creation order. Budget progress is
// never stored here; it is recomputed from the ledger by the analytics engine.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, ownerID string, activeOnly bool) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE owner_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, scanErr := scanBudget(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "owner", ownerID, "count", len(budgets))
	return budgets, nil
}

// GetBudgetByID returns one budget.
func (s *SQLiteStorage) GetBudgetByID(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)

	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// CreateBudget inserts a budget row. Renewal creates a fresh row through this
// same path; old budgets are never mutated.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if err := budget.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, owner_id, category_id, amount, period, start_date, end_date, alert_threshold, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID,
		budget.OwnerID,
		budget.CategoryID,
		budget.Amount.String(),
		string(budget.Period),
		budget.StartDate,
		budget.EndDate,
		budget.AlertThreshold,
		budget.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	slog.Info("created budget",
		"id", budget.ID,
		"period", budget.Period,
		"amount", budget.Amount.String())
	return nil
}

// DeactivateBudget soft-deletes a budget.
func (s *SQLiteStorage) DeactivateBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanBudget(row rowScanner) (model.Budget, error) {
	var (
		budget     model.Budget
		categoryID sql.NullString
		amount     string
		period     string
		startDate  time.Time
		endDate    sql.NullTime
		createdAt  time.Time
	)

	if err := row.Scan(
		&budget.ID,
		&budget.OwnerID,
		&categoryID,
		&amount,
		&period,
		&startDate,
		&endDate,
		&budget.AlertThreshold,
		&budget.IsActive,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Budget{}, err
		}
		return model.Budget{}, fmt.Errorf("failed to scan budget: %w", err)
	}

	if categoryID.Valid {
		budget.CategoryID = &categoryID.String
	}
	if endDate.Valid {
		end := endDate.Time.UTC()
		budget.EndDate = &end
	}
	budget.Period = model.BudgetPeriod(period)
	budget.StartDate = startDate.UTC()
	budget.CreatedAt = createdAt.UTC()

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Budget{}, fmt.Errorf("failed to parse budget amount %q: %w", amount, err)
	}
	budget.Amount = parsed

	return budget, nil
}
