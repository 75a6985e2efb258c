package repositories

import "context"

// LedgerStore gives access to the entry and aggregate repositories. Inside
// RunInTx both are bound to the same transaction.
type LedgerStore interface {
	Expenses() ExpenseRepositoryFacade
	Accounts() AccountRepositoryFacade
}

// UnitOfWork runs fn atomically. If fn returns an error nothing it wrote is
// kept. Implementations do not retry.
type UnitOfWork interface {
	LedgerStore
	RunInTx(ctx context.Context, fn func(ctx context.Context, store LedgerStore) error) error
}
