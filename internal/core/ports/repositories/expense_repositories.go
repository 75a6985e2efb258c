package repositories

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReader defines read operations for ledger entries.
type ExpenseReader interface {
	// FindExpenseByID retrieves one entry. Returns apperrors.ErrNotFound when absent.
	FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error)

	// FindExpenseByIDForUpdate is FindExpenseByID that also locks the entry
	// when called inside RunInTx.
	FindExpenseByIDForUpdate(ctx context.Context, userID, expenseID string) (*domain.Expense, error)

	// ListExpensesByUser returns the user's entries, newest date first.
	ListExpensesByUser(ctx context.Context, userID string) ([]domain.Expense, error)

	// SumExpensesByUser returns the total amount and count of the user's entries.
	SumExpensesByUser(ctx context.Context, userID string) (decimal.Decimal, int, error)
}

// ExpenseWriter defines write operations for ledger entries.
type ExpenseWriter interface {
	// SaveExpense allocates an ID and persists a new entry.
	SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)

	// UpdateExpense applies a partial update and returns the stored result.
	UpdateExpense(ctx context.Context, userID, expenseID string, update domain.ExpenseUpdate) (*domain.Expense, error)

	// DeleteExpense removes an entry and returns what was removed.
	DeleteExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)
}

// ExpenseRepositoryFacade combines all ledger entry operations.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
