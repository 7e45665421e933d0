package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/testutil"
)

func makeBudget(amount string, opts ...func(*model.Budget)) model.Budget {
	b := model.Budget{
		ID:             uuid.NewString(),
		OwnerID:        testutil.TestOwner,
		Amount:         decimal.RequireFromString(amount),
		Period:         model.BudgetPeriodMonthly,
		StartDate:      day(2025, time.August, 1),
		AlertThreshold: 80,
		IsActive:       true,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func TestCreateAndGetBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	db.SeedBasicCategories()
	ctx := context.Background()

	groceries := db.MustCategoryID("Groceries")
	end := day(2025, time.August, 31)
	b := makeBudget("450.25", func(b *model.Budget) {
		b.CategoryID = &groceries
		b.EndDate = &end
	})

	require.NoError(t, db.Storage.CreateBudget(ctx, &b))

	got, err := db.Storage.GetBudgetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("450.25")), "amount round-trips exactly, got %s", got.Amount)
	assert.Equal(t, model.BudgetPeriodMonthly, got.Period)
	assert.Equal(t, day(2025, time.August, 1), got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, end, *got.EndDate)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, groceries, *got.CategoryID)
	assert.Equal(t, 80, got.AlertThreshold)
	assert.True(t, got.IsActive)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = db.Storage.GetBudgetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateBudget_NilFieldsRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	// All-category budget with a derived end date stores both as NULL.
	b := makeBudget("1000")
	require.NoError(t, db.Storage.CreateBudget(ctx, &b))

	got, err := db.Storage.GetBudgetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.EndDate)
}

func TestCreateBudget_RejectsInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	bad := makeBudget("0")
	err := db.Storage.CreateBudget(ctx, &bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be positive")
}

func TestGetBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	first := makeBudget("100")
	second := makeBudget("200")
	retired := makeBudget("300", func(b *model.Budget) { b.IsActive = false })

	require.NoError(t, db.Storage.CreateBudget(ctx, &first))
	require.NoError(t, db.Storage.CreateBudget(ctx, &second))
	require.NoError(t, db.Storage.CreateBudget(ctx, &retired))

	active, err := db.Storage.GetBudgets(ctx, testutil.TestOwner, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := db.Storage.GetBudgets(ctx, testutil.TestOwner, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	other, err := db.Storage.GetBudgets(ctx, "someone-else", false)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDeactivateBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	b := makeBudget("100")
	require.NoError(t, db.Storage.CreateBudget(ctx, &b))
	require.NoError(t, db.Storage.DeactivateBudget(ctx, b.ID))

	got, err := db.Storage.GetBudgetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = db.Storage.DeactivateBudget(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRenewedBudgetPersistsAlongsideOriginal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	end := day(2025, time.July, 31)
	original := makeBudget("500", func(b *model.Budget) {
		b.StartDate = day(2025, time.July, 1)
		b.EndDate = &end
	})
	require.NoError(t, db.Storage.CreateBudget(ctx, &original))

	successorEnd := day(2025, time.August, 31)
	successor := makeBudget("500", func(b *model.Budget) {
		b.StartDate = day(2025, time.August, 1)
		b.EndDate = &successorEnd
	})
	require.NoError(t, db.Storage.CreateBudget(ctx, &successor))

	all, err := db.Storage.GetBudgets(ctx, testutil.TestOwner, false)
	require.NoError(t, err)
	require.Len(t, all, 2, "renewal appends a row, never rewrites history")

	starts := []time.Time{all[0].StartDate, all[1].StartDate}
	assert.Contains(t, starts, day(2025, time.July, 1))
	assert.Contains(t, starts, day(2025, time.August, 1))
}
