package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction adds to or subtracts from
// the owner's balance. The sign is always carried here, never by a negative
// amount.
type TransactionType string

const (
	// TransactionTypeIncome represents money received.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense represents money spent.
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionStatus tracks the settlement state of a transaction. Only
// completed transactions participate in financial totals.
type TransactionStatus string

const (
	// TransactionStatusPending marks a transaction awaiting settlement.
	TransactionStatusPending TransactionStatus = "pending"
	// TransactionStatusCompleted marks a settled transaction.
	TransactionStatusCompleted TransactionStatus = "completed"
	// TransactionStatusCancelled marks a transaction cancelled before settlement.
	TransactionStatusCancelled TransactionStatus = "cancelled"
	// TransactionStatusFailed marks a transaction that failed to settle.
	TransactionStatusFailed TransactionStatus = "failed"
)

// Transaction represents a single financial fact in an owner's ledger.
type Transaction struct {
	Date        time.Time
	CategoryID  *string // nil means uncategorized
	ID          string
	OwnerID     string
	Description string
	Notes       string
	Hash        string
	Type        TransactionType
	Status      TransactionStatus
	Amount      decimal.Decimal
}

// Validate ensures the transaction satisfies the ledger invariants.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	if t.OwnerID == "" {
		return fmt.Errorf("transaction owner is required")
	}
	if t.Type != TransactionTypeIncome && t.Type != TransactionTypeExpense {
		return fmt.Errorf("invalid transaction type: %q", t.Type)
	}
	switch t.Status {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusCancelled, TransactionStatusFailed:
	default:
		return fmt.Errorf("invalid transaction status: %q", t.Status)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	return nil
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		t.OwnerID,
		t.Date.Format("2006-01-02"),
		t.Amount.String(),
		t.Type,
		t.Description)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
