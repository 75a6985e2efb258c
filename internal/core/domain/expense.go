package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one ledger entry owned by a user.
type Expense struct {
	ExpenseID   string          `json:"expenseID"` // assigned by the store, immutable
	UserID      string          `json:"userID"`    // fixed at creation
	Amount      decimal.Decimal `json:"amount"`    // >= 0
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"` // UTC; never edited
	AuditFields
}

// ExpenseUpdate carries the mutable fields of an entry. Nil means "keep".
type ExpenseUpdate struct {
	Amount      *decimal.Decimal
	Category    *Category
	Description *string
	UpdatedAt   time.Time
}

// Apply returns a copy of e with the non-nil fields of u applied.
func (u ExpenseUpdate) Apply(e Expense) Expense {
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if !u.UpdatedAt.IsZero() {
		e.LastUpdatedAt = u.UpdatedAt
	}
	return e
}
