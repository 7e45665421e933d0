package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Balance returns income minus expenses, exact.
func Balance(income, expenses decimal.Decimal) decimal.Decimal {
	return income.Sub(expenses)
}

// SavingsRate returns (income - expenses) / income as a percentage rounded to
// two decimal places. Zero income yields 0, never NaN and never 100.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expenses).Div(income).Mul(hundred).Round(2)
}

// PercentageOfTotal returns part/whole as a percentage rounded to two decimal
// places, or 0 when the whole is not positive.
func PercentageOfTotal(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// Growth returns the percentage change from previous to current rounded to
// two decimal places, or 0 when previous is not positive.
func Growth(previous, current decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// Average returns total/count rounded to two decimal places, or 0 for an
// empty count.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}
