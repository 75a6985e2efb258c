package services

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account aggregates.
type AccountReaderSvc interface {
	// GetProfileName returns the account's display name.
	GetProfileName(ctx context.Context, userID string) (string, error)

	// GetAccountSummary returns the full aggregate.
	GetAccountSummary(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account aggregates.
type AccountWriterSvc interface {
	// SetBalance overwrites the balance and resets totalExpenses to zero.
	SetBalance(ctx context.Context, userID string, balance decimal.Decimal) (*domain.Account, error)
}

// AccountSvcFacade combines all account operations.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
