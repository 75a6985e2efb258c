package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID   string          `db:"expense_id"`
	UserID      string          `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	Date        time.Time       `db:"date"`
	AuditFields
}
