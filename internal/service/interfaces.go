// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/tallyhq/tally/internal/model"
)

// TransactionFilter defines filtering options for ledger queries. Start and
// End bound the window half-open; a nil bound means no filter on that side.
type TransactionFilter struct {
	Start      *time.Time
	End        *time.Time
	CategoryID *string
	Type       *model.TransactionType
	OwnerID    string
	// IncludeAllStatuses returns pending, cancelled, and failed transactions
	// in addition to completed ones.
	IncludeAllStatuses bool
	Limit              int
	Offset             int
}

// Storage defines the contract for the persistence layer. It is a dumb ledger
// fetcher: all aggregation, grouping, and rounding happens in the analytics
// engine over the slices this interface returns.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id string, status model.TransactionStatus) error
	DeleteTransaction(ctx context.Context, id string) error

	// Category operations
	GetCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, ownerID, name string, categoryType model.TransactionType) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	DeactivateCategory(ctx context.Context, id string) error

	// Budget operations
	GetBudgets(ctx context.Context, ownerID string, activeOnly bool) ([]model.Budget, error)
	GetBudgetByID(ctx context.Context, id string) (*model.Budget, error)
	CreateBudget(ctx context.Context, budget *model.Budget) error
	DeactivateBudget(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
