package services

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/SscSPs/expense_tracker/internal/dto"
)

// LedgerWriterSvc defines the operations that change a user's ledger.
// Each one keeps the account aggregate in step with the entries.
type LedgerWriterSvc interface {
	// AddExpense records a new entry, categorizing it when no category is given.
	AddExpense(ctx context.Context, req dto.AddExpenseRequest) (*domain.Expense, error)

	// DeleteExpense removes an entry and refunds its amount to the aggregate.
	DeleteExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)

	// EditExpense updates an entry and applies the amount difference.
	EditExpense(ctx context.Context, userID, expenseID string, req dto.EditExpenseRequest) (*domain.Expense, error)
}

// LedgerReaderSvc defines read operations on a user's ledger.
type LedgerReaderSvc interface {
	// ListExpenses returns the user's entries, newest first.
	ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error)
}

// LedgerReconcilerSvc repairs an aggregate that drifted from its entries.
type LedgerReconcilerSvc interface {
	ReconcileAccount(ctx context.Context, userID string) (*domain.Account, domain.AggregateDelta, error)
}

// LedgerSvcFacade combines all ledger operations.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
	LedgerReconcilerSvc
}
