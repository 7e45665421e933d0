package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tallyhq/tally/internal/analytics"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// ownerID returns the owner profile all commands operate on. The binary is
// single-user by default, but storage and the engine still scope strictly by
// owner.
func ownerID() string {
	if owner := viper.GetString("profile.owner"); owner != "" {
		return owner
	}
	return "local"
}

// loadEngine fetches the owner's category definitions and builds a report
// engine over them.
func loadEngine(ctx context.Context, store service.Storage) (*analytics.Engine, error) {
	categories, err := store.GetCategories(ctx, ownerID())
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return analytics.NewEngine(categories), nil
}

// loadLedger fetches the owner's full ledger snapshot. All statuses are
// included; the engine applies the completed-only policy itself.
func loadLedger(ctx context.Context, store service.Storage) ([]model.Transaction, error) {
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{
		OwnerID:            ownerID(),
		IncludeAllStatuses: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return txns, nil
}

// parseDate parses a YYYY-MM-DD argument into a UTC calendar date.
func parseDate(arg string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", arg)
	}
	return d.UTC(), nil
}
