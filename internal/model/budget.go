package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the recurrence length of a budget.
type BudgetPeriod string

const (
	// BudgetPeriodDaily renews every day.
	BudgetPeriodDaily BudgetPeriod = "daily"
	// BudgetPeriodWeekly renews every week.
	BudgetPeriodWeekly BudgetPeriod = "weekly"
	// BudgetPeriodMonthly renews every month.
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	// BudgetPeriodYearly renews every year.
	BudgetPeriodYearly BudgetPeriod = "yearly"
)

// Budget represents a spending limit over a period for one category, or for
// all of the owner's expense categories when CategoryID is nil. Progress is
// never persisted; it is recomputed from the ledger on every read.
type Budget struct {
	StartDate      time.Time
	CreatedAt      time.Time
	EndDate        *time.Time // inclusive; nil means derived from StartDate + Period
	CategoryID     *string    // nil means all categories
	ID             string
	OwnerID        string
	Period         BudgetPeriod
	Amount         decimal.Decimal
	AlertThreshold int // percentage, 1-100
	IsActive       bool
}

// Validate ensures the budget definition is well formed.
func (b *Budget) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("budget ID is required")
	}
	if b.OwnerID == "" {
		return fmt.Errorf("budget owner is required")
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("budget amount must be positive, got %s", b.Amount)
	}
	switch b.Period {
	case BudgetPeriodDaily, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
	default:
		return fmt.Errorf("invalid budget period: %q", b.Period)
	}
	if b.StartDate.IsZero() {
		return fmt.Errorf("budget start date is required")
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("budget end date %s precedes start date %s",
			b.EndDate.Format("2006-01-02"), b.StartDate.Format("2006-01-02"))
	}
	if b.AlertThreshold < 1 || b.AlertThreshold > 100 {
		return fmt.Errorf("alert threshold must be between 1 and 100, got %d", b.AlertThreshold)
	}
	return nil
}
