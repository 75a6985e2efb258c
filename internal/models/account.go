package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table: one aggregate per user.
type Account struct {
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Balance       decimal.Decimal `db:"balance"`
	TotalExpenses decimal.Decimal `db:"total_expenses"`
	AuditFields
}
