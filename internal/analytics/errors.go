package analytics

import "fmt"

// InvalidPeriodError indicates a malformed period token or custom date range.
// It signals a caller bug, never a data-quality state.
type InvalidPeriodError struct {
	Token  Period
	Reason string
}

func (e *InvalidPeriodError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("invalid period %q: %s", e.Token, e.Reason)
	}
	return fmt.Sprintf("invalid period: %s", e.Reason)
}

// InvalidGroupingError indicates an unsupported or misconfigured grouping key.
type InvalidGroupingError struct {
	GroupBy GroupBy
	Reason  string
}

func (e *InvalidGroupingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid grouping %q: %s", e.GroupBy, e.Reason)
	}
	return fmt.Sprintf("invalid grouping %q", e.GroupBy)
}
