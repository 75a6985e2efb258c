package dto

import (
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetBalanceRequest defines the data needed to overwrite an account balance.
type SetBalanceRequest struct {
	UserID  string           `json:"userId" binding:"required"`
	Balance *decimal.Decimal `json:"balance" binding:"required"`
}

// ProfileResponse returns an account's display name.
type ProfileResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

// AccountResponse defines the data returned for an account aggregate.
type AccountResponse struct {
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	LastUpdatedAt string          `json:"lastUpdatedAt,omitempty"`
}

// AccountSummaryResponse wraps an account aggregate.
type AccountSummaryResponse struct {
	Success bool            `json:"success"`
	Account AccountResponse `json:"account"`
}

// DeltaResponse describes an aggregate correction.
type DeltaResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

// ReconcileResponse wraps a reconciled account and the correction applied.
type ReconcileResponse struct {
	Success    bool            `json:"success"`
	Account    AccountResponse `json:"account"`
	Correction DeltaResponse   `json:"correction"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		UserID:        acc.UserID,
		Name:          acc.Name,
		Balance:       acc.Balance,
		TotalExpenses: acc.TotalExpenses,
	}
	if !acc.LastUpdatedAt.IsZero() {
		res.LastUpdatedAt = domain.FormatTimestamp(acc.LastUpdatedAt)
	}
	return res
}

// ToDeltaResponse converts a domain.AggregateDelta to its response DTO.
func ToDeltaResponse(d domain.AggregateDelta) DeltaResponse {
	return DeltaResponse{Balance: d.Balance, TotalExpenses: d.TotalExpenses}
}
