package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/service"
)

const transactionColumns = `id, owner_id, category_id, type, status, amount, date, description, notes, hash`

// SaveTransactions saves multiple transactions to the database. Rows with a
// hash already present are skipped, which makes statement re-imports safe.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			`+transactionColumns+`
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		if txn.CategoryID != nil {
			if err := s.checkCategoryType(ctx, tx, *txn.CategoryID, txn.Type); err != nil {
				return err
			}
		}

		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.OwnerID,
			txn.CategoryID,
			string(txn.Type),
			string(txn.Status),
			txn.Amount.String(),
			txn.Date,
			txn.Description,
			txn.Notes,
			txn.Hash,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	slog.Debug("saved transactions", "count", len(transactions))
	return nil
}

// checkCategoryType enforces that a transaction's type matches its category's.
func (s *SQLiteStorage) checkCategoryType(ctx context.Context, tx *sql.Tx, categoryID string, txnType model.TransactionType) error {
	var catType string
	err := tx.QueryRowContext(ctx, `SELECT type FROM categories WHERE id = ?`, categoryID).Scan(&catType)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("category %s: %w", categoryID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query category type: %w", err)
	}
	if catType != string(txnType) {
		return fmt.Errorf("category %s is %s: %w", categoryID, catType, common.ErrCategoryTypeMismatch)
	}
	return nil
}

// GetTransactions returns the ledger slice matching the filter, ordered by
// date then id so results are stable across calls.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(filter.OwnerID, "filter.OwnerID"); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	conditions = append(conditions, "owner_id = ?")
	args = append(args, filter.OwnerID)

	if !filter.IncludeAllStatuses {
		conditions = append(conditions, "status = ?")
		args = append(args, string(model.TransactionStatusCompleted))
	}
	if filter.Start != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		conditions = append(conditions, "date < ?")
		args = append(args, *filter.End)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, string(*filter.Type))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date, id`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetTransactionByID returns a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateTransactionStatus moves a transaction through its settlement lifecycle.
func (s *SQLiteStorage) UpdateTransactionStatus(ctx context.Context, id string, status model.TransactionStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction from the ledger.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn        model.Transaction
		categoryID sql.NullString
		txnType    string
		status     string
		amount     string
		date       time.Time
	)

	if err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&categoryID,
		&txnType,
		&status,
		&amount,
		&date,
		&txn.Description,
		&txn.Notes,
		&txn.Hash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if categoryID.Valid {
		txn.CategoryID = &categoryID.String
	}
	txn.Type = model.TransactionType(txnType)
	txn.Status = model.TransactionStatus(status)
	txn.Date = date.UTC()

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	txn.Amount = parsed

	return txn, nil
}
