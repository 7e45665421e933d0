package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// BudgetProgress is the transient evaluation of a budget against the ledger.
// Percentage is capped at 100 for display; IsExceeded carries the uncapped
// over-limit signal so callers can tell "at limit" from "over limit".
type BudgetProgress struct {
	Budget         model.Budget
	Spent          decimal.Decimal
	Remaining      decimal.Decimal
	Percentage     decimal.Decimal
	IsExceeded     bool
	AlertTriggered bool
}

// PeriodEnd returns the inclusive last day of a budget period starting at the
// given date.
func PeriodEnd(start time.Time, period model.BudgetPeriod) time.Time {
	start = DateOf(start)
	switch period {
	case model.BudgetPeriodDaily:
		return start
	case model.BudgetPeriodWeekly:
		return start.AddDate(0, 0, 6)
	case model.BudgetPeriodYearly:
		return start.AddDate(1, 0, 0).AddDate(0, 0, -1)
	default: // monthly
		return start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	}
}

// budgetEnd resolves the inclusive end of a budget's window, deriving it from
// the period length when no explicit end date was stored.
func budgetEnd(b model.Budget) time.Time {
	if b.EndDate != nil {
		return DateOf(*b.EndDate)
	}
	return PeriodEnd(b.StartDate, b.Period)
}

// BudgetWindow returns the half-open interval a budget's spending is measured
// over: [startDate, endDate], with the end clamped to now for budgets whose
// window extends past the reference time.
func BudgetWindow(b model.Budget, now time.Time) Interval {
	start := DateOf(b.StartDate)
	end := budgetEnd(b)
	if today := DateOf(now); end.After(today) {
		end = today
	}
	exclusive := end.AddDate(0, 0, 1)
	return Interval{Start: &start, End: &exclusive}
}

// MatchingSpend sums the completed expense transactions inside the budget's
// window that match its category, or every category when CategoryID is nil.
func MatchingSpend(txns []model.Transaction, b model.Budget, now time.Time) decimal.Decimal {
	window := BudgetWindow(b, now)
	spent := decimal.Zero
	for _, txn := range txns {
		if txn.Status != model.TransactionStatusCompleted {
			continue
		}
		if txn.Type != model.TransactionTypeExpense {
			continue
		}
		if !window.Contains(txn.Date) {
			continue
		}
		if b.CategoryID != nil && (txn.CategoryID == nil || *txn.CategoryID != *b.CategoryID) {
			continue
		}
		spent = spent.Add(txn.Amount)
	}
	return spent
}

// EvaluateBudget derives the spent/remaining/percentage/exceeded/alert state
// from a budget definition and its matching ledger sum.
func EvaluateBudget(b model.Budget, spent decimal.Decimal) BudgetProgress {
	progress := BudgetProgress{
		Budget:     b,
		Spent:      spent,
		Remaining:  decimal.Zero,
		Percentage: decimal.Zero,
	}

	if remaining := b.Amount.Sub(spent); remaining.IsPositive() {
		progress.Remaining = remaining
	}
	progress.IsExceeded = spent.GreaterThan(b.Amount)

	if b.Amount.IsPositive() {
		uncapped := spent.Div(b.Amount).Mul(hundred).Round(2)
		progress.Percentage = uncapped
		if uncapped.GreaterThan(hundred) {
			progress.Percentage = hundred
		}
		progress.AlertTriggered = uncapped.GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertThreshold)))
	}

	return progress
}

// EvaluateBudgets evaluates each budget against the ledger slice, preserving
// the input order.
func EvaluateBudgets(budgets []model.Budget, txns []model.Transaction, now time.Time) []BudgetProgress {
	results := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		results = append(results, EvaluateBudget(b, MatchingSpend(txns, b, now)))
	}
	return results
}

// RenewBudget builds the successor of an expired budget: same owner,
// category, amount, period, and threshold, with the new window starting the
// day after the old one ended. The old budget is left untouched; renewal is
// an append-only history of budget periods.
func RenewBudget(b model.Budget, newID string) model.Budget {
	start := budgetEnd(b).AddDate(0, 0, 1)
	end := PeriodEnd(start, b.Period)
	return model.Budget{
		ID:             newID,
		OwnerID:        b.OwnerID,
		CategoryID:     b.CategoryID,
		Amount:         b.Amount,
		Period:         b.Period,
		StartDate:      start,
		EndDate:        &end,
		AlertThreshold: b.AlertThreshold,
		IsActive:       true,
	}
}
