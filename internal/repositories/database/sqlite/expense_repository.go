package sqlite

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/expense_tracker/internal/models"
	"github.com/SscSPs/expense_tracker/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const expenseColumns = `expense_id, user_id, amount, category, description, date, created_at, last_updated_at`

type expenseRepository struct {
	store *Store
	q     DBTX
}

var _ portsrepo.ExpenseRepositoryFacade = (*expenseRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var m models.Expense
	var date, createdAt, updatedAt string
	if err := row.Scan(&m.ExpenseID, &m.UserID, &m.Amount, &m.Category, &m.Description, &date, &createdAt, &updatedAt); err != nil {
		return m, err
	}
	var err error
	if m.Date, err = parseTime(date); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return m, err
	}
	return m, nil
}

func (r *expenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	expense.ExpenseID = r.store.newID()
	m := mapping.ToModelExpense(expense)

	query := `INSERT INTO expenses (` + expenseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		m.ExpenseID, m.UserID, m.Amount.String(), m.Category, m.Description,
		formatTime(m.Date), formatTime(m.CreatedAt), formatTime(m.LastUpdatedAt),
	)
	if err != nil {
		return nil, storageErr("save expense", err)
	}

	saved := mapping.ToDomainExpense(m)
	return &saved, nil
}

func (r *expenseRepository) FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = ? AND expense_id = ?`
	m, err := scanExpense(r.q.QueryRowContext(ctx, query, userID, expenseID))
	if err != nil {
		return nil, storageErr("find expense", err)
	}
	e := mapping.ToDomainExpense(m)
	return &e, nil
}

// FindExpenseByIDForUpdate is a plain read: SQLite transactions lock the
// whole database once they write, and the store runs on one connection.
func (r *expenseRepository) FindExpenseByIDForUpdate(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	return r.FindExpenseByID(ctx, userID, expenseID)
}

func (r *expenseRepository) ListExpensesByUser(ctx context.Context, userID string) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = ? ORDER BY date DESC, created_at DESC, expense_id ASC`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	defer rows.Close()

	var ms []models.Expense
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, storageErr("list expenses", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list expenses", err)
	}
	return mapping.ToDomainExpenseSlice(ms), nil
}

// SumExpensesByUser adds the amounts in Go; SQLite's SUM would go through REAL.
func (r *expenseRepository) SumExpensesByUser(ctx context.Context, userID string) (decimal.Decimal, int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT amount FROM expenses WHERE user_id = ?`, userID)
	if err != nil {
		return decimal.Zero, 0, storageErr("sum expenses", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	count := 0
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, 0, storageErr("sum expenses", err)
		}
		sum = sum.Add(amount)
		count++
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, 0, storageErr("sum expenses", err)
	}
	return sum, count, nil
}

func (r *expenseRepository) UpdateExpense(ctx context.Context, userID, expenseID string, update domain.ExpenseUpdate) (*domain.Expense, error) {
	original, err := r.FindExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	updated := update.Apply(*original)

	query := `UPDATE expenses SET amount = ?, category = ?, description = ?, last_updated_at = ? WHERE user_id = ? AND expense_id = ?`
	res, err := r.q.ExecContext(ctx, query,
		updated.Amount.String(), string(updated.Category), updated.Description, formatTime(updated.LastUpdatedAt),
		userID, expenseID,
	)
	if err != nil {
		return nil, storageErr("update expense", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &updated, nil
}

func (r *expenseRepository) DeleteExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	removed, err := r.FindExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	res, err := r.q.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = ? AND expense_id = ?`, userID, expenseID)
	if err != nil {
		return nil, storageErr("delete expense", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.ErrNotFound
	}
	return removed, nil
}
