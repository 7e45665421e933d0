package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

func testEngine() *Engine {
	return NewEngine([]model.Category{
		{ID: "cat-salary", Name: "Salary", Type: model.TransactionTypeIncome, IsActive: true},
		{ID: "cat-groceries", Name: "Groceries", Type: model.TransactionTypeExpense, IsActive: true},
		{ID: "cat-rent", Name: "Rent", Type: model.TransactionTypeExpense, IsActive: true},
	})
}

func TestEngine_CategoryName(t *testing.T) {
	e := testEngine()

	assert.Equal(t, "Groceries", e.CategoryName("cat-groceries"))
	assert.Equal(t, "Uncategorized", e.CategoryName(""))
	assert.Equal(t, "cat-deleted", e.CategoryName("cat-deleted"), "unknown ids pass through rather than vanish")
}

func TestSummarize(t *testing.T) {
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "3000", date(2025, time.August, 1), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "1200", date(2025, time.August, 3), withCategory("cat-rent")),
		txn(model.TransactionTypeExpense, "300", date(2025, time.August, 10), withCategory("cat-groceries")),
		txn(model.TransactionTypeExpense, "999", date(2025, time.August, 11), withCategory("cat-groceries"), withStatus(model.TransactionStatusPending)),
	}

	s := Summarize(ledger)
	assert.True(t, s.Income.Equal(dec("3000")))
	assert.True(t, s.Expenses.Equal(dec("1500")))
	assert.True(t, s.Balance.Equal(dec("1500")))
	assert.True(t, s.SavingsRate.Equal(dec("50")))
	assert.Equal(t, 1, s.IncomeCount)
	assert.Equal(t, 2, s.ExpenseCount)
}

func TestSummarize_EmptyLedger(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Income.IsZero())
	assert.True(t, s.Expenses.IsZero())
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.SavingsRate.IsZero())
	assert.Zero(t, s.IncomeCount)
	assert.Zero(t, s.ExpenseCount)
}

func TestEngine_MonthlyReport(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "3000", date(2025, time.August, 1), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "1200", date(2025, time.August, 3), withCategory("cat-rent")),
		txn(model.TransactionTypeExpense, "100", date(2025, time.August, 3), withCategory("cat-groceries")),
		txn(model.TransactionTypeExpense, "200", date(2025, time.August, 20), withCategory("cat-groceries")),
		// Out of month, must not leak in.
		txn(model.TransactionTypeExpense, "5000", date(2025, time.July, 31), withCategory("cat-rent")),
		txn(model.TransactionTypeExpense, "5000", date(2025, time.September, 1), withCategory("cat-rent")),
	}

	report, err := e.MonthlyReport(ledger, 2025, time.August)
	require.NoError(t, err)

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, time.August, report.Month)
	assert.True(t, report.Summary.Income.Equal(dec("3000")))
	assert.True(t, report.Summary.Expenses.Equal(dec("1500")))

	require.Len(t, report.DailyTrend, 31, "one point per day of August, zero-filled")
	assert.Equal(t, "2025-08-01", report.DailyTrend[0].Label)
	assert.True(t, report.DailyTrend[0].Income.Equal(dec("3000")))
	assert.True(t, report.DailyTrend[2].Expenses.Equal(dec("1300")), "same-day expenses accumulate")
	assert.True(t, report.DailyTrend[15].Income.IsZero())
	assert.True(t, report.DailyTrend[15].Expenses.IsZero())

	// Breakdown rows carry names and per-type percentages.
	var rent CategoryTotal
	for _, row := range report.Categories {
		if row.CategoryID == "cat-rent" {
			rent = row
		}
	}
	assert.Equal(t, "Rent", rent.CategoryName)
	assert.True(t, rent.Total.Equal(dec("1200")))
	assert.True(t, rent.Percentage.Equal(dec("80")), "1200 of 1500 expense total")
}

func TestEngine_MonthlyReport_InvalidMonth(t *testing.T) {
	e := testEngine()

	var periodErr *InvalidPeriodError
	_, err := e.MonthlyReport(nil, 2025, time.Month(13))
	assert.ErrorAs(t, err, &periodErr)

	_, err = e.MonthlyReport(nil, 0, time.August)
	assert.ErrorAs(t, err, &periodErr)
}

func TestEngine_YearlyReport(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "3000", date(2025, time.January, 15), withCategory("cat-salary")),
		txn(model.TransactionTypeIncome, "3500", date(2025, time.June, 15), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "1000", date(2025, time.January, 20), withCategory("cat-rent")),
		txn(model.TransactionTypeExpense, "400", date(2025, time.June, 21), withCategory("cat-groceries")),
		txn(model.TransactionTypeExpense, "2500", date(2025, time.November, 2), withCategory("cat-rent")),
	}

	report, err := e.YearlyReport(ledger, 2025, 0)
	require.NoError(t, err)

	require.Len(t, report.Months, 12, "always twelve buckets regardless of activity")
	assert.Equal(t, "2025-01", report.Months[0].Label)
	assert.Equal(t, "2025-12", report.Months[11].Label)
	assert.True(t, report.Months[3].Income.IsZero(), "empty April is zero, not absent")

	require.Len(t, report.Quarters, 4)
	for q, quarter := range report.Quarters {
		assert.Equal(t, q+1, quarter.Quarter)
		income := decimal.Zero
		expenses := decimal.Zero
		for m := q * 3; m < q*3+3; m++ {
			income = income.Add(report.Months[m].Income)
			expenses = expenses.Add(report.Months[m].Expenses)
		}
		assert.True(t, quarter.Income.Equal(income), "Q%d income rolls up from its months", q+1)
		assert.True(t, quarter.Expenses.Equal(expenses), "Q%d expenses roll up from its months", q+1)
	}
	assert.True(t, report.Quarters[1].Income.Equal(dec("3500")))
	assert.True(t, report.Quarters[3].Expenses.Equal(dec("2500")))

	assert.Equal(t, time.June, report.Extremes.HighestIncome)
	assert.Equal(t, time.November, report.Extremes.HighestExpense)
	assert.Equal(t, time.June, report.Extremes.BestNet)

	// Top categories sort by total descending.
	require.NotEmpty(t, report.TopCategories)
	assert.Equal(t, "cat-rent", report.TopCategories[1].CategoryID)
	assert.True(t, report.TopCategories[1].Total.Equal(dec("3500")))
}

func TestEngine_YearlyReport_EmptyYear(t *testing.T) {
	e := testEngine()

	report, err := e.YearlyReport(nil, 2024, 3)
	require.NoError(t, err)

	require.Len(t, report.Months, 12)
	for _, p := range report.Months {
		assert.True(t, p.Income.IsZero())
		assert.True(t, p.Expenses.IsZero())
		assert.True(t, p.Net.IsZero())
	}
	assert.Equal(t, time.January, report.Extremes.HighestIncome)
	assert.Equal(t, time.January, report.Extremes.HighestExpense)
	assert.Equal(t, time.January, report.Extremes.BestNet)
	assert.Empty(t, report.TopCategories)
}

func TestEngine_YearlyReport_TopNLimit(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeExpense, "300", date(2025, time.March, 1), withCategory("cat-rent")),
		txn(model.TransactionTypeExpense, "200", date(2025, time.March, 2), withCategory("cat-groceries")),
		txn(model.TransactionTypeExpense, "100", date(2025, time.March, 3)),
	}

	report, err := e.YearlyReport(ledger, 2025, 2)
	require.NoError(t, err)
	require.Len(t, report.TopCategories, 2)
	assert.Equal(t, "Rent", report.TopCategories[0].CategoryName)
	assert.Equal(t, "Groceries", report.TopCategories[1].CategoryName)
}

func TestEngine_CategoryReport_UnboundedWindow(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeExpense, "10", date(2019, time.January, 1), withCategory("cat-groceries")),
		txn(model.TransactionTypeExpense, "20", date(2025, time.August, 1), withCategory("cat-groceries")),
	}

	report, err := e.CategoryReport(ledger, Interval{})
	require.NoError(t, err)
	require.Len(t, report.Categories, 1)
	assert.True(t, report.Categories[0].Total.Equal(dec("30")), "unbounded interval covers everything")
}

func TestEngine_Statistics(t *testing.T) {
	e := testEngine()
	now := date(2025, time.August, 13)
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "3000", date(2025, time.August, 1), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "500", date(2025, time.August, 5), withCategory("cat-groceries")),
		txn(model.TransactionTypeExpense, "999", date(2025, time.July, 5), withCategory("cat-rent")),
	}

	stats, err := e.Statistics(ledger, PeriodThisMonth, nil, now)
	require.NoError(t, err)

	assert.True(t, stats.Summary.Income.Equal(dec("3000")))
	assert.True(t, stats.Summary.Expenses.Equal(dec("500")))
	assert.Equal(t, 2, stats.TotalCount)
	assert.True(t, stats.AverageTransaction.Equal(dec("1750")), "average over income and expense magnitudes together")
}

func TestEngine_Statistics_InvalidToken(t *testing.T) {
	e := testEngine()

	var periodErr *InvalidPeriodError
	_, err := e.Statistics(nil, Period("fortnight"), nil, date(2025, time.August, 13))
	assert.ErrorAs(t, err, &periodErr)
}

func TestEngine_YearOverYear(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "1000", date(2024, time.March, 1), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "400", date(2024, time.March, 2), withCategory("cat-rent")),
		txn(model.TransactionTypeIncome, "1500", date(2025, time.March, 1), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "300", date(2025, time.March, 2), withCategory("cat-rent")),
	}

	cmp, err := e.YearOverYear(ledger, 2024, 2025)
	require.NoError(t, err)

	assert.True(t, cmp.IncomeGrowth.Equal(dec("50")))
	assert.True(t, cmp.ExpenseGrowth.Equal(dec("-25")))
	assert.True(t, cmp.Previous.Income.Equal(dec("1000")))
	assert.True(t, cmp.Current.Income.Equal(dec("1500")))
}

func TestEngine_YearOverYear_EmptyBaseline(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "1500", date(2025, time.March, 1), withCategory("cat-salary")),
	}

	cmp, err := e.YearOverYear(ledger, 2024, 2025)
	require.NoError(t, err)
	assert.True(t, cmp.IncomeGrowth.IsZero(), "no baseline yields zero growth, never an infinity")
}

func TestEngine_ReportsAreIdempotent(t *testing.T) {
	e := testEngine()
	ledger := []model.Transaction{
		txn(model.TransactionTypeIncome, "3000", date(2025, time.August, 1), withCategory("cat-salary")),
		txn(model.TransactionTypeExpense, "1500", date(2025, time.August, 3), withCategory("cat-rent")),
	}

	first, err := e.MonthlyReport(ledger, 2025, time.August)
	require.NoError(t, err)
	second, err := e.MonthlyReport(ledger, 2025, time.August)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same ledger, same report")
}
