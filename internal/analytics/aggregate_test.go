package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

func strPtr(s string) *string { return &s }

func txn(txnType model.TransactionType, amount string, day time.Time, opts ...func(*model.Transaction)) model.Transaction {
	t := model.Transaction{
		ID:      "txn-" + amount + "-" + day.Format("20060102"),
		OwnerID: "owner-1",
		Type:    txnType,
		Status:  model.TransactionStatusCompleted,
		Amount:  decimal.RequireFromString(amount),
		Date:    day,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func withCategory(id string) func(*model.Transaction) {
	return func(t *model.Transaction) { t.CategoryID = strPtr(id) }
}

func withStatus(status model.TransactionStatus) func(*model.Transaction) {
	return func(t *model.Transaction) { t.Status = status }
}

func TestAggregate_GroupByType(t *testing.T) {
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "1000", date(2025, time.January, 5)),
		txn(model.TransactionTypeExpense, "300", date(2025, time.January, 10)),
		txn(model.TransactionTypeExpense, "200", date(2025, time.January, 12)),
	}

	groups, err := Aggregate(ledger, Options{GroupBy: GroupByType})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Income always comes first
	assert.Equal(t, model.TransactionTypeIncome, groups[0].Key.Type)
	assert.Equal(t, model.TransactionTypeExpense, groups[1].Key.Type)

	income := groups[0].Stats
	assert.True(t, income.Sum.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, 1, income.Count)

	expense := groups[1].Stats
	assert.True(t, expense.Sum.Equal(decimal.RequireFromString("500")))
	assert.Equal(t, 2, expense.Count)
	require.NotNil(t, expense.Min)
	require.NotNil(t, expense.Max)
	assert.True(t, expense.Min.Equal(decimal.RequireFromString("200")))
	assert.True(t, expense.Max.Equal(decimal.RequireFromString("300")))
	assert.True(t, expense.Avg.Equal(decimal.RequireFromString("250")))
}

func TestAggregate_TypeKeysAlwaysPresent(t *testing.T) {
	groups, err := Aggregate(nil, Options{GroupBy: GroupByType})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	for _, g := range groups {
		assert.True(t, g.Stats.Sum.IsZero())
		assert.Zero(t, g.Stats.Count)
		assert.True(t, g.Stats.Avg.IsZero())
		assert.Nil(t, g.Stats.Min)
		assert.Nil(t, g.Stats.Max)
	}
}

func TestAggregate_ExcludesNonCompletedByDefault(t *testing.T) {
	ledger := []model.Transaction{
		txn(model.TransactionTypeExpense, "100", date(2025, time.March, 1)),
		txn(model.TransactionTypeExpense, "40", date(2025, time.March, 2), withStatus(model.TransactionStatusPending)),
		txn(model.TransactionTypeExpense, "60", date(2025, time.March, 3), withStatus(model.TransactionStatusFailed)),
		txn(model.TransactionTypeExpense, "80", date(2025, time.March, 4), withStatus(model.TransactionStatusCancelled)),
	}

	groups, err := Aggregate(ledger, Options{GroupBy: GroupNone})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Stats.Sum.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, 1, groups[0].Stats.Count)

	all, err := Aggregate(ledger, Options{GroupBy: GroupNone, IncludeAllStatuses: true})
	require.NoError(t, err)
	assert.True(t, all[0].Stats.Sum.Equal(decimal.RequireFromString("280")))
	assert.Equal(t, 4, all[0].Stats.Count)
}

func TestAggregate_GroupByCategoryKeepsFirstSeenOrder(t *testing.T) {
	ledger := []model.Transaction{
		txn(model.TransactionTypeExpense, "10", date(2025, time.May, 1), withCategory("groceries")),
		txn(model.TransactionTypeExpense, "20", date(2025, time.May, 2), withCategory("rent")),
		txn(model.TransactionTypeExpense, "30", date(2025, time.May, 3)), // uncategorized
		txn(model.TransactionTypeExpense, "40", date(2025, time.May, 4), withCategory("groceries")),
	}

	groups, err := Aggregate(ledger, Options{GroupBy: GroupByCategory})
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "groceries", groups[0].Key.CategoryID)
	assert.Equal(t, "rent", groups[1].Key.CategoryID)
	assert.Equal(t, "", groups[2].Key.CategoryID)
	assert.True(t, groups[0].Stats.Sum.Equal(decimal.RequireFromString("50")))
}

func TestAggregate_GroupByBucketZeroFills(t *testing.T) {
	start := date(2025, time.January, 1)
	end := date(2025, time.April, 1)
	buckets, err := BucketSeries(Interval{Start: &start, End: &end}, GranularityMonth)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	ledger := []model.Transaction{
		txn(model.TransactionTypeExpense, "55", date(2025, time.February, 14)),
	}

	groups, err := Aggregate(ledger, Options{GroupBy: GroupByBucket, Buckets: buckets})
	require.NoError(t, err)
	require.Len(t, groups, 3, "every declared bucket is present")

	assert.Equal(t, "2025-01", groups[0].Key.Bucket)
	assert.True(t, groups[0].Stats.Sum.IsZero())
	assert.True(t, groups[1].Stats.Sum.Equal(decimal.RequireFromString("55")))
	assert.True(t, groups[2].Stats.Sum.IsZero())
}

func TestAggregate_DecimalSumsAreExact(t *testing.T) {
	// 0.1 + 0.2 and friends: the classic binary-float drift cases
	ledger := make([]model.Transaction, 0, 1000)
	for i := 0; i < 1000; i++ {
		ledger = append(ledger, txn(model.TransactionTypeExpense, "0.10", date(2025, time.June, 1+i%28)))
	}

	groups, err := Aggregate(ledger, Options{GroupBy: GroupNone})
	require.NoError(t, err)
	assert.True(t, groups[0].Stats.Sum.Equal(decimal.RequireFromString("100")),
		"1000 dimes must sum to exactly 100, got %s", groups[0].Stats.Sum)
}

func TestAggregate_InvalidGrouping(t *testing.T) {
	_, err := Aggregate(nil, Options{GroupBy: GroupBy("merchant")})
	require.Error(t, err)

	var groupErr *InvalidGroupingError
	assert.ErrorAs(t, err, &groupErr)

	_, err = Aggregate(nil, Options{GroupBy: GroupByBucket})
	assert.ErrorAs(t, err, &groupErr, "bucket grouping without buckets is a caller bug")
}
