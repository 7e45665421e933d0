package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// GroupBy selects the grouping key for an aggregation pass.
type GroupBy string

// Supported grouping keys.
const (
	GroupNone           GroupBy = "none"
	GroupByType         GroupBy = "type"
	GroupByCategory     GroupBy = "category"
	GroupByCategoryType GroupBy = "category_type"
	GroupByBucket       GroupBy = "bucket"
)

// GroupKey identifies one aggregation group. Unused fields stay at their zero
// value for the chosen grouping; CategoryID is empty for uncategorized
// transactions.
type GroupKey struct {
	CategoryID string
	Bucket     string
	Type       model.TransactionType
}

// Stats holds the per-group aggregate values. Min and Max are nil for empty
// groups; Sum, Count, and Avg are zero-valued rather than absent.
type Stats struct {
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Sum   decimal.Decimal
	Avg   decimal.Decimal
	Count int
}

// Group pairs a key with its stats.
type Group struct {
	Key   GroupKey
	Stats Stats
}

// Groups is an ordered aggregation result. Ordering is stable and
// caller-independent: chronological for buckets, income before expense for
// types, first appearance in the ledger slice for categories.
type Groups []Group

// Get returns the stats for a key, or false if the key is absent.
func (g Groups) Get(key GroupKey) (Stats, bool) {
	for _, grp := range g {
		if grp.Key == key {
			return grp.Stats, true
		}
	}
	return Stats{}, false
}

// Sum returns the sum for a key, or zero if the key is absent.
func (g Groups) Sum(key GroupKey) decimal.Decimal {
	stats, ok := g.Get(key)
	if !ok {
		return decimal.Zero
	}
	return stats.Sum
}

// Options configures an aggregation pass.
type Options struct {
	GroupBy GroupBy
	// Buckets pre-declares the expected bucket keys for GroupByBucket.
	// Every bucket appears in the result, zero-filled when empty.
	Buckets []Bucket
	// IncludeAllStatuses counts pending, cancelled, and failed transactions
	// in addition to completed ones. Meant for audit-style queries.
	IncludeAllStatuses bool
}

// accumulator collects running values for one group before finalization.
type accumulator struct {
	min   *decimal.Decimal
	max   *decimal.Decimal
	sum   decimal.Decimal
	count int
}

func (a *accumulator) add(amount decimal.Decimal) {
	a.sum = a.sum.Add(amount)
	a.count++
	if a.min == nil || amount.LessThan(*a.min) {
		v := amount
		a.min = &v
	}
	if a.max == nil || amount.GreaterThan(*a.max) {
		v := amount
		a.max = &v
	}
}

func (a *accumulator) stats() Stats {
	s := Stats{
		Sum:   a.sum,
		Avg:   decimal.Zero,
		Count: a.count,
		Min:   a.min,
		Max:   a.max,
	}
	if a.count > 0 {
		s.Avg = a.sum.DivRound(decimal.NewFromInt(int64(a.count)), 2)
	}
	return s
}

// Aggregate groups the ledger slice by the requested key and computes sum,
// count, average, min, and max per group. Sums use exact decimal arithmetic.
// Only completed transactions are counted unless IncludeAllStatuses is set.
// An empty ledger is not an error: pre-declared keys come back zero-filled
// and everything else is simply absent.
func Aggregate(txns []model.Transaction, opts Options) (Groups, error) {
	switch opts.GroupBy {
	case GroupNone, GroupByType, GroupByCategory, GroupByCategoryType:
	case GroupByBucket:
		if len(opts.Buckets) == 0 {
			return nil, &InvalidGroupingError{GroupBy: opts.GroupBy, Reason: "bucket grouping requires a declared bucket series"}
		}
	default:
		return nil, &InvalidGroupingError{GroupBy: opts.GroupBy}
	}

	accs := make(map[GroupKey]*accumulator)
	var order []GroupKey

	declare := func(key GroupKey) *accumulator {
		acc, ok := accs[key]
		if !ok {
			acc = &accumulator{sum: decimal.Zero}
			accs[key] = acc
			order = append(order, key)
		}
		return acc
	}

	// Pre-declare fixed-domain keys so callers always see them, zero-filled.
	switch opts.GroupBy {
	case GroupByType:
		declare(GroupKey{Type: model.TransactionTypeIncome})
		declare(GroupKey{Type: model.TransactionTypeExpense})
	case GroupByBucket:
		for _, b := range opts.Buckets {
			declare(GroupKey{Bucket: b.Label})
		}
	}

	for _, txn := range txns {
		if !opts.IncludeAllStatuses && txn.Status != model.TransactionStatusCompleted {
			continue
		}

		var key GroupKey
		switch opts.GroupBy {
		case GroupNone:
		case GroupByType:
			key = GroupKey{Type: txn.Type}
		case GroupByCategory:
			key = GroupKey{CategoryID: categoryKey(txn.CategoryID)}
		case GroupByCategoryType:
			key = GroupKey{CategoryID: categoryKey(txn.CategoryID), Type: txn.Type}
		case GroupByBucket:
			label, ok := bucketFor(opts.Buckets, txn.Date)
			if !ok {
				// Outside the declared series; the caller's window filter
				// should have excluded it.
				continue
			}
			key = GroupKey{Bucket: label}
		}

		declare(key).add(txn.Amount)
	}

	groups := make(Groups, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{Key: key, Stats: accs[key].stats()})
	}
	return groups, nil
}

func categoryKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// bucketFor locates the declared bucket containing the given date.
func bucketFor(buckets []Bucket, date time.Time) (string, bool) {
	d := DateOf(date)
	for _, b := range buckets {
		if !d.Before(b.Start) && d.Before(b.End) {
			return b.Label, true
		}
	}
	return "", false
}
