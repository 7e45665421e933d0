package analytics

import (
	"fmt"
	"time"
)

// Period is a semantic time-period token resolved against a reference time.
type Period string

// Recognized period tokens.
const (
	PeriodToday       Period = "today"
	PeriodYesterday   Period = "yesterday"
	PeriodThisWeek    Period = "this_week"
	PeriodLastWeek    Period = "last_week"
	PeriodThisMonth   Period = "this_month"
	PeriodLastMonth   Period = "last_month"
	PeriodThisQuarter Period = "this_quarter"
	PeriodLastQuarter Period = "last_quarter"
	PeriodThisYear    Period = "this_year"
	PeriodLastYear    Period = "last_year"
	PeriodAllTime     Period = "all_time"
	PeriodCustom      Period = "custom"
)

// Granularity selects the calendar unit for trend bucketing.
type Granularity string

// Supported bucket granularities.
const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// DateRange is an inclusive pair of calendar dates supplied with the custom
// period token.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Interval is a half-open date interval [Start, End). A nil bound means the
// interval is unbounded on that side; all_time has both bounds nil so the
// absence of a bound acts as "no filter" rather than a sentinel date.
type Interval struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether the given date falls inside the interval.
func (iv Interval) Contains(d time.Time) bool {
	d = DateOf(d)
	if iv.Start != nil && d.Before(*iv.Start) {
		return false
	}
	if iv.End != nil && !d.Before(*iv.End) {
		return false
	}
	return true
}

// Bounded reports whether both ends of the interval are set.
func (iv Interval) Bounded() bool {
	return iv.Start != nil && iv.End != nil
}

// DateOf normalizes a time to its calendar date at midnight UTC. The engine
// treats all transaction dates as plain local dates; pinning them to UTC
// midnight keeps interval arithmetic free of zone and DST ambiguity.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Sunday on or before the given date.
func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// quarterStart returns the first day of the calendar quarter containing d.
func quarterStart(d time.Time) time.Time {
	qm := time.Month((int(d.Month())-1)/3*3 + 1)
	return time.Date(d.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
}

// Resolve turns a period token into a concrete half-open interval relative to
// now. The custom argument is required for PeriodCustom and ignored otherwise.
// Weeks start on Sunday; quarters are fixed calendar quarters.
func Resolve(token Period, now time.Time, custom *DateRange) (Interval, error) {
	today := DateOf(now)

	span := func(start, end time.Time) Interval {
		return Interval{Start: &start, End: &end}
	}

	switch token {
	case PeriodToday:
		return span(today, today.AddDate(0, 0, 1)), nil
	case PeriodYesterday:
		return span(today.AddDate(0, 0, -1), today), nil
	case PeriodThisWeek:
		ws := weekStart(today)
		return span(ws, ws.AddDate(0, 0, 7)), nil
	case PeriodLastWeek:
		ws := weekStart(today)
		return span(ws.AddDate(0, 0, -7), ws), nil
	case PeriodThisMonth:
		ms := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return span(ms, ms.AddDate(0, 1, 0)), nil
	case PeriodLastMonth:
		ms := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return span(ms.AddDate(0, -1, 0), ms), nil
	case PeriodThisQuarter:
		qs := quarterStart(today)
		return span(qs, qs.AddDate(0, 3, 0)), nil
	case PeriodLastQuarter:
		qs := quarterStart(today)
		return span(qs.AddDate(0, -3, 0), qs), nil
	case PeriodThisYear:
		ys := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return span(ys, ys.AddDate(1, 0, 0)), nil
	case PeriodLastYear:
		ys := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		return span(ys, ys.AddDate(1, 0, 0)), nil
	case PeriodAllTime:
		return Interval{}, nil
	case PeriodCustom:
		if custom == nil {
			return Interval{}, &InvalidPeriodError{Token: token, Reason: "custom period requires an explicit start and end"}
		}
		start := DateOf(custom.Start)
		end := DateOf(custom.End)
		if end.Before(start) {
			return Interval{}, &InvalidPeriodError{Token: token, Reason: fmt.Sprintf(
				"end %s precedes start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))}
		}
		return span(start, end.AddDate(0, 0, 1)), nil
	default:
		return Interval{}, &InvalidPeriodError{Token: token, Reason: "unrecognized period token"}
	}
}

// Bucket is one sub-interval of a trend window. Start and End form a
// half-open range aligned to the bucket's calendar unit.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// BucketSeries generates the ordered calendar buckets spanned by a bounded
// interval: one bucket per calendar unit from the unit containing the first
// day through the unit containing the last. The series has fixed cardinality
// for a given window and granularity regardless of ledger contents; the
// aggregator zero-fills buckets with no transactions.
func BucketSeries(iv Interval, g Granularity) ([]Bucket, error) {
	if !iv.Bounded() {
		return nil, &InvalidPeriodError{Reason: "trend bucketing requires a bounded interval"}
	}

	var align func(time.Time) time.Time
	var next func(time.Time) time.Time
	var label func(time.Time) string

	switch g {
	case GranularityDay:
		align = func(d time.Time) time.Time { return d }
		next = func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }
		label = func(d time.Time) string { return d.Format("2006-01-02") }
	case GranularityWeek:
		align = weekStart
		next = func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }
		label = func(d time.Time) string { return d.Format("2006-01-02") }
	case GranularityMonth:
		align = func(d time.Time) time.Time {
			return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
		next = func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }
		label = func(d time.Time) string { return d.Format("2006-01") }
	case GranularityYear:
		align = func(d time.Time) time.Time {
			return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		next = func(d time.Time) time.Time { return d.AddDate(1, 0, 0) }
		label = func(d time.Time) string { return d.Format("2006") }
	default:
		return nil, &InvalidPeriodError{Reason: fmt.Sprintf("unsupported granularity %q", g)}
	}

	var buckets []Bucket
	for start := align(*iv.Start); start.Before(*iv.End); start = next(start) {
		buckets = append(buckets, Bucket{
			Start: start,
			End:   next(start),
			Label: label(start),
		})
	}
	return buckets, nil
}
