package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/expense_tracker/internal/models"
	"github.com/SscSPs/expense_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const expenseColumns = `expense_id, user_id, amount, category, description, date, created_at, last_updated_at`

type PgxExpenseRepository struct {
	db    DBTX
	newID func() string
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.UserID,
		&m.Amount,
		&m.Category,
		&m.Description,
		&m.Date,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveExpense inserts a new entry under a freshly allocated ID.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	expense.ExpenseID = r.newID()
	m := mapping.ToModelExpense(expense)

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + expenseColumns
	saved, err := scanExpense(r.db.QueryRow(ctx, query,
		m.ExpenseID,
		m.UserID,
		m.Amount,
		m.Category,
		m.Description,
		m.Date,
		m.CreatedAt,
		m.LastUpdatedAt,
	))
	if err != nil {
		return nil, storageErr("save expense", err)
	}

	d := mapping.ToDomainExpense(saved)
	return &d, nil
}

func (r *PgxExpenseRepository) findExpense(ctx context.Context, userID, expenseID string, forUpdate bool) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1 AND expense_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanExpense(r.db.QueryRow(ctx, query, userID, expenseID))
	if err != nil {
		return nil, storageErr("find expense", err)
	}
	d := mapping.ToDomainExpense(m)
	return &d, nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	return r.findExpense(ctx, userID, expenseID, false)
}

// FindExpenseByIDForUpdate takes a row lock; it only lasts beyond the
// statement when the repository is bound to a transaction.
func (r *PgxExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	return r.findExpense(ctx, userID, expenseID, true)
}

func (r *PgxExpenseRepository) ListExpensesByUser(ctx context.Context, userID string) ([]domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC, expense_id ASC`
	rows, err := r.db.Query(ctx, query, userID)
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

func (r *PgxExpenseRepository) SumExpensesByUser(ctx context.Context, userID string) (decimal.Decimal, int, error) {
	var sum decimal.Decimal
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses WHERE user_id = $1`,
		userID,
	).Scan(&sum, &count)
	if err != nil {
		return decimal.Zero, 0, storageErr("sum expenses", err)
	}
	return sum, count, nil
}

// UpdateExpense writes only the fields set in update; NULL parameters keep
// the stored value.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, userID, expenseID string, update domain.ExpenseUpdate) (*domain.Expense, error) {
	var category *string
	if update.Category != nil {
		c := string(*update.Category)
		category = &c
	}
	var updatedAt *time.Time
	if !update.UpdatedAt.IsZero() {
		t := update.UpdatedAt.UTC()
		updatedAt = &t
	}

	query := `
		UPDATE expenses SET
			amount = COALESCE($3::numeric, amount),
			category = COALESCE($4::varchar, category),
			description = COALESCE($5::text, description),
			last_updated_at = COALESCE($6::timestamptz, last_updated_at)
		WHERE user_id = $1 AND expense_id = $2
		RETURNING ` + expenseColumns
	m, err := scanExpense(r.db.QueryRow(ctx, query,
		userID,
		expenseID,
		update.Amount,
		category,
		update.Description,
		updatedAt,
	))
	if err != nil {
		return nil, storageErr("update expense", err)
	}
	d := mapping.ToDomainExpense(m)
	return &d, nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	query := `DELETE FROM expenses WHERE user_id = $1 AND expense_id = $2 RETURNING ` + expenseColumns
	m, err := scanExpense(r.db.QueryRow(ctx, query, userID, expenseID))
	if err != nil {
		return nil, storageErr("delete expense", err)
	}
	d := mapping.ToDomainExpense(m)
	return &d, nil
}
