package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	// Wednesday, 2025-08-13
	now := time.Date(2025, time.August, 13, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		name      string
		token     Period
		custom    *DateRange
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "today",
			token:     PeriodToday,
			wantStart: date(2025, time.August, 13),
			wantEnd:   date(2025, time.August, 14),
		},
		{
			name:      "yesterday",
			token:     PeriodYesterday,
			wantStart: date(2025, time.August, 12),
			wantEnd:   date(2025, time.August, 13),
		},
		{
			name:  "this week starts Sunday",
			token: PeriodThisWeek,
			// The Sunday before Wednesday the 13th
			wantStart: date(2025, time.August, 10),
			wantEnd:   date(2025, time.August, 17),
		},
		{
			name:      "last week",
			token:     PeriodLastWeek,
			wantStart: date(2025, time.August, 3),
			wantEnd:   date(2025, time.August, 10),
		},
		{
			name:      "this month",
			token:     PeriodThisMonth,
			wantStart: date(2025, time.August, 1),
			wantEnd:   date(2025, time.September, 1),
		},
		{
			name:      "last month",
			token:     PeriodLastMonth,
			wantStart: date(2025, time.July, 1),
			wantEnd:   date(2025, time.August, 1),
		},
		{
			name:      "this quarter is Q3",
			token:     PeriodThisQuarter,
			wantStart: date(2025, time.July, 1),
			wantEnd:   date(2025, time.October, 1),
		},
		{
			name:      "last quarter is Q2",
			token:     PeriodLastQuarter,
			wantStart: date(2025, time.April, 1),
			wantEnd:   date(2025, time.July, 1),
		},
		{
			name:      "this year",
			token:     PeriodThisYear,
			wantStart: date(2025, time.January, 1),
			wantEnd:   date(2026, time.January, 1),
		},
		{
			name:      "last year",
			token:     PeriodLastYear,
			wantStart: date(2024, time.January, 1),
			wantEnd:   date(2025, time.January, 1),
		},
		{
			name:      "custom range is end-inclusive",
			token:     PeriodCustom,
			custom:    &DateRange{Start: date(2025, time.March, 10), End: date(2025, time.March, 20)},
			wantStart: date(2025, time.March, 10),
			wantEnd:   date(2025, time.March, 21),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := Resolve(tt.token, now, tt.custom)
			require.NoError(t, err)
			require.True(t, iv.Bounded())
			assert.Equal(t, tt.wantStart, *iv.Start)
			assert.Equal(t, tt.wantEnd, *iv.End)
		})
	}
}

func TestResolve_AllTimeIsUnbounded(t *testing.T) {
	iv, err := Resolve(PeriodAllTime, time.Now(), nil)
	require.NoError(t, err)
	assert.Nil(t, iv.Start)
	assert.Nil(t, iv.End)
	assert.True(t, iv.Contains(date(1970, time.January, 1)))
	assert.True(t, iv.Contains(date(2999, time.December, 31)))
}

func TestResolve_Errors(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		token  Period
		custom *DateRange
	}{
		{
			name:  "unknown token",
			token: Period("fortnight"),
		},
		{
			name:  "custom without range",
			token: PeriodCustom,
		},
		{
			name:   "custom with end before start",
			token:  PeriodCustom,
			custom: &DateRange{Start: date(2025, time.May, 10), End: date(2025, time.May, 9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.token, now, tt.custom)
			require.Error(t, err)

			var periodErr *InvalidPeriodError
			assert.ErrorAs(t, err, &periodErr)
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	start := date(2025, time.January, 1)
	end := date(2025, time.February, 1)
	iv := Interval{Start: &start, End: &end}

	assert.True(t, iv.Contains(date(2025, time.January, 1)), "start is inclusive")
	assert.True(t, iv.Contains(date(2025, time.January, 31)))
	assert.False(t, iv.Contains(date(2025, time.February, 1)), "end is exclusive")
	assert.False(t, iv.Contains(date(2024, time.December, 31)))
}

func TestBucketSeries(t *testing.T) {
	t.Run("year by month has twelve buckets", func(t *testing.T) {
		iv, err := Resolve(PeriodCustom, time.Now(), &DateRange{
			Start: date(2025, time.January, 1),
			End:   date(2025, time.December, 31),
		})
		require.NoError(t, err)

		buckets, err := BucketSeries(iv, GranularityMonth)
		require.NoError(t, err)
		require.Len(t, buckets, 12)
		assert.Equal(t, "2025-01", buckets[0].Label)
		assert.Equal(t, "2025-12", buckets[11].Label)
		assert.Equal(t, date(2025, time.March, 1), buckets[2].Start)
		assert.Equal(t, date(2025, time.April, 1), buckets[2].End)
	})

	t.Run("month by day covers every calendar day", func(t *testing.T) {
		start := date(2025, time.February, 1)
		end := date(2025, time.March, 1)
		buckets, err := BucketSeries(Interval{Start: &start, End: &end}, GranularityDay)
		require.NoError(t, err)
		assert.Len(t, buckets, 28)
		assert.Equal(t, "2025-02-01", buckets[0].Label)
		assert.Equal(t, "2025-02-28", buckets[27].Label)
	})

	t.Run("week buckets align to Sunday", func(t *testing.T) {
		// Jan 2025: the 1st is a Wednesday
		start := date(2025, time.January, 1)
		end := date(2025, time.January, 15)
		buckets, err := BucketSeries(Interval{Start: &start, End: &end}, GranularityWeek)
		require.NoError(t, err)
		require.NotEmpty(t, buckets)
		assert.Equal(t, time.Sunday, buckets[0].Start.Weekday())
		for _, b := range buckets {
			assert.Equal(t, time.Sunday, b.Start.Weekday())
		}
	})

	t.Run("unbounded interval is rejected", func(t *testing.T) {
		_, err := BucketSeries(Interval{}, GranularityMonth)
		var periodErr *InvalidPeriodError
		assert.ErrorAs(t, err, &periodErr)
	})

	t.Run("unknown granularity is rejected", func(t *testing.T) {
		start := date(2025, time.January, 1)
		end := date(2025, time.February, 1)
		_, err := BucketSeries(Interval{Start: &start, End: &end}, Granularity("decade"))
		var periodErr *InvalidPeriodError
		assert.ErrorAs(t, err, &periodErr)
	})
}
