package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// DefaultTopCategories is the top-N cutoff used by the yearly report when the
// caller does not request a specific count.
const DefaultTopCategories = 5

// Engine assembles reports from a ledger snapshot. It holds only category
// definitions for naming; every report method is a pure function of its
// arguments, so a single Engine may be shared across goroutines.
type Engine struct {
	categories map[string]model.Category
}

// NewEngine creates a report engine over the owner's category definitions.
func NewEngine(categories []model.Category) *Engine {
	cats := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		cats[c.ID] = c
	}
	return &Engine{categories: cats}
}

// CategoryName resolves a category id to its display name. The empty id maps
// to "Uncategorized"; unknown ids fall back to the id itself.
func (e *Engine) CategoryName(id string) string {
	if id == "" {
		return "Uncategorized"
	}
	if c, ok := e.categories[id]; ok {
		return c.Name
	}
	return id
}

// Summary holds the headline figures for one window.
type Summary struct {
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Balance      decimal.Decimal
	SavingsRate  decimal.Decimal
	IncomeCount  int
	ExpenseCount int
}

// CategoryTotal is one row of a category breakdown. Percentage is relative to
// the total of the row's transaction type.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Type         model.TransactionType
	Total        decimal.Decimal
	Average      decimal.Decimal
	Percentage   decimal.Decimal
	Count        int
}

// TrendPoint is one bucket of a trend series.
type TrendPoint struct {
	Start    time.Time
	Label    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// QuarterTotal is one quarter of the yearly report, rolled up from its three
// constituent months.
type QuarterTotal struct {
	Quarter  int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// MonthExtremes names the standout months of a year. All three default to
// January for a year with no activity.
type MonthExtremes struct {
	HighestIncome  time.Month
	HighestExpense time.Month
	BestNet        time.Month
}

// MonthlyReport is the month view: summary, category breakdown, and a daily
// trend zero-filled for every day of the month.
type MonthlyReport struct {
	Year       int
	Month      time.Month
	Summary    Summary
	Categories []CategoryTotal
	DailyTrend []TrendPoint
}

// YearlyReport is the year view: summary, twelve zero-filled monthly buckets,
// a quarterly roll-up derived from those buckets, the top categories by
// total, and the trend extremes.
type YearlyReport struct {
	Year          int
	Summary       Summary
	Months        []TrendPoint
	Quarters      []QuarterTotal
	TopCategories []CategoryTotal
	Extremes      MonthExtremes
}

// CategoryReport is the per-category totals view for an arbitrary window.
type CategoryReport struct {
	Interval   Interval
	Categories []CategoryTotal
}

// Statistics is the general-purpose dashboard view over an ad hoc window.
type Statistics struct {
	Interval           Interval
	Summary            Summary
	AverageTransaction decimal.Decimal
	TotalCount         int
	Categories         []CategoryTotal
}

// YearOverYear compares two independent yearly aggregates.
type YearOverYear struct {
	PreviousYear  int
	CurrentYear   int
	Previous      Summary
	Current       Summary
	IncomeGrowth  decimal.Decimal
	ExpenseGrowth decimal.Decimal
}

// FilterInterval returns the ledger entries whose date falls inside the
// interval, preserving order. An unbounded side acts as no filter.
func FilterInterval(txns []model.Transaction, iv Interval) []model.Transaction {
	filtered := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if iv.Contains(txn.Date) {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}

// Summarize computes the headline figures over a ledger slice. Completed
// transactions only; an empty slice yields all zeros.
func Summarize(txns []model.Transaction) Summary {
	groups, _ := Aggregate(txns, Options{GroupBy: GroupByType})
	income, _ := groups.Get(GroupKey{Type: model.TransactionTypeIncome})
	expense, _ := groups.Get(GroupKey{Type: model.TransactionTypeExpense})

	return Summary{
		Income:       income.Sum,
		Expenses:     expense.Sum,
		Balance:      Balance(income.Sum, expense.Sum),
		SavingsRate:  SavingsRate(income.Sum, expense.Sum),
		IncomeCount:  income.Count,
		ExpenseCount: expense.Count,
	}
}

// categoryBreakdown aggregates by category and type, attaching names and the
// percentage of each row's type total. Rows keep first-seen ledger order.
func (e *Engine) categoryBreakdown(txns []model.Transaction) []CategoryTotal {
	groups, _ := Aggregate(txns, Options{GroupBy: GroupByCategoryType})

	typeTotals := map[model.TransactionType]decimal.Decimal{
		model.TransactionTypeIncome:  decimal.Zero,
		model.TransactionTypeExpense: decimal.Zero,
	}
	for _, g := range groups {
		typeTotals[g.Key.Type] = typeTotals[g.Key.Type].Add(g.Stats.Sum)
	}

	rows := make([]CategoryTotal, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, CategoryTotal{
			CategoryID:   g.Key.CategoryID,
			CategoryName: e.CategoryName(g.Key.CategoryID),
			Type:         g.Key.Type,
			Total:        g.Stats.Sum,
			Count:        g.Stats.Count,
			Average:      g.Stats.Avg,
			Percentage:   PercentageOfTotal(g.Stats.Sum, typeTotals[g.Key.Type]),
		})
	}
	return rows
}

// trendSeries builds one TrendPoint per declared bucket, zero-filled so the
// series always has the fixed cardinality of the bucket series.
func trendSeries(txns []model.Transaction, buckets []Bucket) []TrendPoint {
	var incomeTxns, expenseTxns []model.Transaction
	for _, txn := range txns {
		switch txn.Type {
		case model.TransactionTypeIncome:
			incomeTxns = append(incomeTxns, txn)
		case model.TransactionTypeExpense:
			expenseTxns = append(expenseTxns, txn)
		}
	}

	opts := Options{GroupBy: GroupByBucket, Buckets: buckets}
	incomeGroups, _ := Aggregate(incomeTxns, opts)
	expenseGroups, _ := Aggregate(expenseTxns, opts)

	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		income := incomeGroups.Sum(GroupKey{Bucket: b.Label})
		expenses := expenseGroups.Sum(GroupKey{Bucket: b.Label})
		points = append(points, TrendPoint{
			Start:    b.Start,
			Label:    b.Label,
			Income:   income,
			Expenses: expenses,
			Net:      Balance(income, expenses),
		})
	}
	return points
}

func yearInterval(year int) Interval {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return Interval{Start: &start, End: &end}
}

// MonthlyReport builds the month view for the given calendar month.
func (e *Engine) MonthlyReport(txns []model.Transaction, year int, month time.Month) (*MonthlyReport, error) {
	if year <= 0 || month < time.January || month > time.December {
		return nil, &InvalidPeriodError{Reason: fmt.Sprintf("invalid report month %d-%d", year, month)}
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	iv := Interval{Start: &start, End: &end}

	days, err := BucketSeries(iv, GranularityDay)
	if err != nil {
		return nil, err
	}

	scoped := FilterInterval(txns, iv)
	return &MonthlyReport{
		Year:       year,
		Month:      month,
		Summary:    Summarize(scoped),
		Categories: e.categoryBreakdown(scoped),
		DailyTrend: trendSeries(scoped, days),
	}, nil
}

// YearlyReport builds the year view. topN bounds the category list; a
// non-positive value selects DefaultTopCategories.
func (e *Engine) YearlyReport(txns []model.Transaction, year, topN int) (*YearlyReport, error) {
	if year <= 0 {
		return nil, &InvalidPeriodError{Reason: fmt.Sprintf("invalid report year %d", year)}
	}
	if topN <= 0 {
		topN = DefaultTopCategories
	}

	iv := yearInterval(year)
	months, err := BucketSeries(iv, GranularityMonth)
	if err != nil {
		return nil, err
	}

	scoped := FilterInterval(txns, iv)
	trend := trendSeries(scoped, months)

	// The quarterly roll-up is summed from the monthly buckets rather than
	// recomputed from the ledger, so the two can never disagree.
	quarters := make([]QuarterTotal, 4)
	for q := range quarters {
		quarters[q].Quarter = q + 1
		quarters[q].Income = decimal.Zero
		quarters[q].Expenses = decimal.Zero
		for m := q * 3; m < q*3+3; m++ {
			quarters[q].Income = quarters[q].Income.Add(trend[m].Income)
			quarters[q].Expenses = quarters[q].Expenses.Add(trend[m].Expenses)
		}
		quarters[q].Net = Balance(quarters[q].Income, quarters[q].Expenses)
	}

	extremes := MonthExtremes{HighestIncome: time.January, HighestExpense: time.January, BestNet: time.January}
	for i, p := range trend {
		month := time.Month(i + 1)
		if p.Income.GreaterThan(trend[extremes.HighestIncome-1].Income) {
			extremes.HighestIncome = month
		}
		if p.Expenses.GreaterThan(trend[extremes.HighestExpense-1].Expenses) {
			extremes.HighestExpense = month
		}
		if p.Net.GreaterThan(trend[extremes.BestNet-1].Net) {
			extremes.BestNet = month
		}
	}

	top := e.categoryBreakdown(scoped)
	sort.SliceStable(top, func(i, j int) bool {
		if !top[i].Total.Equal(top[j].Total) {
			return top[i].Total.GreaterThan(top[j].Total)
		}
		return top[i].CategoryName < top[j].CategoryName
	})
	if len(top) > topN {
		top = top[:topN]
	}

	return &YearlyReport{
		Year:          year,
		Summary:       Summarize(scoped),
		Months:        trend,
		Quarters:      quarters,
		TopCategories: top,
		Extremes:      extremes,
	}, nil
}

// CategoryReport builds the per-category totals for a window. An unbounded
// interval covers the whole ledger.
func (e *Engine) CategoryReport(txns []model.Transaction, iv Interval) (*CategoryReport, error) {
	scoped := FilterInterval(txns, iv)
	return &CategoryReport{
		Interval:   iv,
		Categories: e.categoryBreakdown(scoped),
	}, nil
}

// Statistics builds the general-purpose dashboard view for a period token
// resolved against now.
func (e *Engine) Statistics(txns []model.Transaction, token Period, custom *DateRange, now time.Time) (*Statistics, error) {
	iv, err := Resolve(token, now, custom)
	if err != nil {
		return nil, err
	}

	scoped := FilterInterval(txns, iv)
	summary := Summarize(scoped)
	totalCount := summary.IncomeCount + summary.ExpenseCount

	return &Statistics{
		Interval:           iv,
		Summary:            summary,
		TotalCount:         totalCount,
		AverageTransaction: Average(summary.Income.Add(summary.Expenses), totalCount),
		Categories:         e.categoryBreakdown(scoped),
	}, nil
}

// YearOverYear compares two years' aggregates with the zero-guard growth
// policy: a zero previous year yields 0% growth, never an infinity.
func (e *Engine) YearOverYear(txns []model.Transaction, previousYear, currentYear int) (*YearOverYear, error) {
	if previousYear <= 0 || currentYear <= 0 {
		return nil, &InvalidPeriodError{Reason: fmt.Sprintf("invalid comparison years %d and %d", previousYear, currentYear)}
	}

	previous := Summarize(FilterInterval(txns, yearInterval(previousYear)))
	current := Summarize(FilterInterval(txns, yearInterval(currentYear)))

	return &YearOverYear{
		PreviousYear:  previousYear,
		CurrentYear:   currentYear,
		Previous:      previous,
		Current:       current,
		IncomeGrowth:  Growth(previous.Income, current.Income),
		ExpenseGrowth: Growth(previous.Expenses, current.Expenses),
	}, nil
}
