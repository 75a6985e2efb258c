package sqlite

import (
	"context"
	"database/sql"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/expense_tracker/internal/models"
	"github.com/SscSPs/expense_tracker/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const accountColumns = `user_id, name, balance, total_expenses, created_at, last_updated_at`

type accountRepository struct {
	store *Store
	q     DBTX
	tx    *sql.Tx // set when bound to RunInTx
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func scanAccount(row rowScanner) (models.Account, error) {
	var m models.Account
	var createdAt, updatedAt string
	if err := row.Scan(&m.UserID, &m.Name, &m.Balance, &m.TotalExpenses, &createdAt, &updatedAt); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return m, err
	}
	return m, nil
}

func findAccount(ctx context.Context, q DBTX, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = ?`
	m, err := scanAccount(q.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, storageErr("find account", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *accountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	return findAccount(ctx, r.q, userID)
}

func (r *accountRepository) FindAccountByUserIDForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	return findAccount(ctx, r.q, userID)
}

// write runs fn on the bound transaction, or on a fresh one.
func (r *accountRepository) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.inTx(ctx, fn)
}

// ApplyDelta reads, adds and writes back inside one transaction. Decimal
// TEXT columns cannot be incremented in SQL without going through REAL.
func (r *accountRepository) ApplyDelta(ctx context.Context, userID string, delta domain.AggregateDelta, defaultName string) (*domain.Account, error) {
	var out *domain.Account
	err := r.write(ctx, func(tx *sql.Tx) error {
		now := r.store.now().UTC()
		acc, err := findAccount(ctx, tx, userID)
		switch {
		case err == nil:
		case isNotFound(err):
			acc = &domain.Account{
				UserID:      userID,
				Name:        defaultName,
				AuditFields: domain.AuditFields{CreatedAt: now},
			}
		default:
			return err
		}
		acc.Balance = acc.Balance.Add(delta.Balance)
		acc.TotalExpenses = acc.TotalExpenses.Add(delta.TotalExpenses)
		acc.LastUpdatedAt = now
		if err := upsertAccount(ctx, tx, *acc); err != nil {
			return storageErr("apply aggregate delta", err)
		}
		out = acc
		return nil
	})
	return out, err
}

func (r *accountRepository) SetBalance(ctx context.Context, userID string, balance decimal.Decimal, defaultName string) (*domain.Account, error) {
	now := r.store.now().UTC()
	query := `
		INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, '0', ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = excluded.balance,
			total_expenses = '0',
			last_updated_at = excluded.last_updated_at
		RETURNING ` + accountColumns
	m, err := scanAccount(r.q.QueryRowContext(ctx, query,
		userID, defaultName, balance.String(), formatTime(now), formatTime(now),
	))
	if err != nil {
		return nil, storageErr("set balance", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func upsertAccount(ctx context.Context, q DBTX, acc domain.Account) error {
	m := mapping.ToModelAccount(acc)
	query := `
		INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = excluded.balance,
			total_expenses = excluded.total_expenses,
			last_updated_at = excluded.last_updated_at`
	_, err := q.ExecContext(ctx, query,
		m.UserID, m.Name, m.Balance.String(), m.TotalExpenses.String(),
		formatTime(m.CreatedAt), formatTime(m.LastUpdatedAt),
	)
	return err
}
