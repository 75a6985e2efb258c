package repositories

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account aggregates.
type AccountReader interface {
	// FindAccountByUserID retrieves the aggregate. Returns apperrors.ErrNotFound when absent.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// FindAccountByUserIDForUpdate also locks the aggregate when called inside RunInTx.
	FindAccountByUserIDForUpdate(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account aggregates.
type AccountWriter interface {
	// ApplyDelta atomically increments balance and totalExpenses. A missing
	// aggregate is created from the delta with defaultName.
	ApplyDelta(ctx context.Context, userID string, delta domain.AggregateDelta, defaultName string) (*domain.Account, error)

	// SetBalance sets balance and resets totalExpenses to zero. A missing
	// aggregate is created with defaultName; an existing name is kept.
	SetBalance(ctx context.Context, userID string, balance decimal.Decimal, defaultName string) (*domain.Account, error)
}

// AccountRepositoryFacade combines all account aggregate operations.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
