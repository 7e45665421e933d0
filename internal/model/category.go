package model

import (
	"fmt"
	"time"
)

// Category represents a named grouping for transactions. A category with a
// nil OwnerID is a system default shared read-only by all users.
type Category struct {
	CreatedAt time.Time
	OwnerID   *string
	ID        string
	Name      string
	Type      TransactionType
	IsActive  bool
}

// IsDefault reports whether the category is a shared system default.
func (c *Category) IsDefault() bool {
	return c.OwnerID == nil
}

// Validate ensures the category has valid data. A transaction's type must
// always equal its category's type; that cross-entity check lives in the
// storage layer where both records are visible.
func (c *Category) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("category ID is required")
	}
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if c.Type != TransactionTypeIncome && c.Type != TransactionTypeExpense {
		return fmt.Errorf("invalid category type: %q", c.Type)
	}
	return nil
}
