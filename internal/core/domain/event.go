package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEventType names a committed change to a user's ledger.
type LedgerEventType string

const (
	EventExpenseCreated    LedgerEventType = "expense.created"
	EventExpenseUpdated    LedgerEventType = "expense.updated"
	EventExpenseDeleted    LedgerEventType = "expense.deleted"
	EventAccountReconciled LedgerEventType = "account.reconciled"
)

// LedgerEvent describes a committed ledger change for downstream consumers.
type LedgerEvent struct {
	Type       LedgerEventType `json:"type"`
	UserID     string          `json:"userID"`
	ExpenseID  string          `json:"expenseID,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Category   Category        `json:"category,omitempty"`
	Delta      AggregateDelta  `json:"delta"`
	OccurredAt time.Time       `json:"occurredAt"`
}
