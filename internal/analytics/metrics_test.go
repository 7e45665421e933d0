package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalance(t *testing.T) {
	assert.True(t, Balance(dec("1000"), dec("300")).Equal(dec("700")))
	assert.True(t, Balance(dec("300"), dec("1000")).Equal(dec("-700")))
	assert.True(t, Balance(dec("0.30"), dec("0.10")).Equal(dec("0.20")), "no binary-float drift")
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		expenses string
		want     string
	}{
		{"typical", "1000", "600", "40"},
		{"overspent goes negative", "1000", "1500", "-50"},
		{"zero income yields zero", "0", "500", "0"},
		{"negative income yields zero", "-100", "50", "0"},
		{"rounds to cents", "3000", "1000", "66.67"},
		{"no spending", "1000", "0", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavingsRate(dec(tt.income), dec(tt.expenses))
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestPercentageOfTotal(t *testing.T) {
	assert.True(t, PercentageOfTotal(dec("25"), dec("200")).Equal(dec("12.5")))
	assert.True(t, PercentageOfTotal(dec("1"), dec("3")).Equal(dec("33.33")))
	assert.True(t, PercentageOfTotal(dec("50"), dec("0")).Equal(decimal.Zero), "zero whole guards, never NaN")
	assert.True(t, PercentageOfTotal(dec("50"), dec("-10")).Equal(decimal.Zero))
}

func TestGrowth(t *testing.T) {
	assert.True(t, Growth(dec("100"), dec("150")).Equal(dec("50")))
	assert.True(t, Growth(dec("150"), dec("100")).Equal(dec("-33.33")))
	assert.True(t, Growth(dec("0"), dec("100")).Equal(decimal.Zero), "no baseline, no growth figure")
	assert.True(t, Growth(dec("100"), dec("100")).Equal(decimal.Zero))
}

func TestAverage(t *testing.T) {
	assert.True(t, Average(dec("100"), 3).Equal(dec("33.33")))
	assert.True(t, Average(dec("100"), 0).Equal(decimal.Zero))
	assert.True(t, Average(dec("100"), -1).Equal(decimal.Zero))
	assert.True(t, Average(dec("0.30"), 2).Equal(dec("0.15")))
}
