// Package analytics turns a ledger of transactions into statistics, trends,
// category breakdowns, budget progress, and period-over-period comparisons.
//
// Everything in this package is pure computation: functions receive an
// in-memory ledger slice already scoped to one owner, perform no I/O, and
// allocate only local data. Callers may invoke any number of report functions
// concurrently over independent snapshots.
//
// Two error categories exist. Contract violations (bad period tokens, invalid
// custom ranges, unsupported grouping keys) fail fast with typed errors.
// Data-quality states (empty periods, zero income, no matching category) are
// valid zero results and never produce an error.
package analytics
