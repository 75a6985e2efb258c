package services

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
)

// LedgerEventPublisher announces committed ledger changes. Publishing is
// best effort; callers log failures and carry on.
type LedgerEventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}
