package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/analytics"
)

// addPeriodFlags registers the shared period selection flags.
func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", string(analytics.PeriodThisMonth),
		"period token (today, yesterday, this_week, last_week, this_month, last_month, this_quarter, last_quarter, this_year, last_year, all_time)")
	cmd.Flags().String("from", "", "custom period start (YYYY-MM-DD); overrides --period")
	cmd.Flags().String("to", "", "custom period end (YYYY-MM-DD, inclusive); overrides --period")
}

// resolvePeriodFlags turns the period flags into a concrete interval.
// Providing --from/--to selects a custom range.
func resolvePeriodFlags(cmd *cobra.Command) (analytics.Interval, error) {
	token, custom, err := periodSelection(cmd)
	if err != nil {
		return analytics.Interval{}, err
	}
	return analytics.Resolve(token, time.Now(), custom)
}

// periodSelection extracts the period token and optional custom range without
// resolving them, for commands that pass both to the engine.
func periodSelection(cmd *cobra.Command) (analytics.Period, *analytics.DateRange, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if from != "" || to != "" {
		start, err := parseDate(from)
		if err != nil {
			return "", nil, err
		}
		end, err := parseDate(to)
		if err != nil {
			return "", nil, err
		}
		return analytics.PeriodCustom, &analytics.DateRange{Start: start, End: end}, nil
	}

	period, _ := cmd.Flags().GetString("period")
	return analytics.Period(period), nil, nil
}
