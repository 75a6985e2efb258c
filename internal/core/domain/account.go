package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAccountName is used when an account is created without a usable email hint.
const DefaultAccountName = "Unknown User"

// Account is the per-user aggregate kept in step with the user's expenses.
// Balance follows the "funds minus expenses" convention.
type Account struct {
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	AuditFields
}

// InitialBalance is the balance the account would hold with no live expenses.
func (a Account) InitialBalance() decimal.Decimal {
	return a.Balance.Add(a.TotalExpenses)
}

// AggregateDelta is an increment applied atomically to an Account.
type AggregateDelta struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

// IsZero reports whether applying d would change nothing.
func (d AggregateDelta) IsZero() bool {
	return d.Balance.IsZero() && d.TotalExpenses.IsZero()
}

// NameFromEmail derives a display name from the local part of an email
// address, falling back to DefaultAccountName.
func NameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return DefaultAccountName
	}
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return DefaultAccountName
	}
	return local
}
