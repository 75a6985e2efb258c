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

const accountColumns = `user_id, name, balance, total_expenses, created_at, last_updated_at`

type PgxAccountRepository struct {
	db  DBTX
	now func() time.Time
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Balance,
		&m.TotalExpenses,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxAccountRepository) findAccount(ctx context.Context, userID string, forUpdate bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanAccount(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, storageErr("find account", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	return r.findAccount(ctx, userID, false)
}

func (r *PgxAccountRepository) FindAccountByUserIDForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	return r.findAccount(ctx, userID, true)
}

// ApplyDelta increments both aggregates in one statement, so concurrent
// deltas commute without a prior read.
func (r *PgxAccountRepository) ApplyDelta(ctx context.Context, userID string, delta domain.AggregateDelta, defaultName string) (*domain.Account, error) {
	now := r.now().UTC()
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = accounts.balance + EXCLUDED.balance,
			total_expenses = accounts.total_expenses + EXCLUDED.total_expenses,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + accountColumns
	m, err := scanAccount(r.db.QueryRow(ctx, query, userID, defaultName, delta.Balance, delta.TotalExpenses, now))
	if err != nil {
		return nil, storageErr("apply aggregate delta", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) SetBalance(ctx context.Context, userID string, balance decimal.Decimal, defaultName string) (*domain.Account, error) {
	now := r.now().UTC()
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			total_expenses = 0,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + accountColumns
	m, err := scanAccount(r.db.QueryRow(ctx, query, userID, defaultName, balance, now))
	if err != nil {
		return nil, storageErr("set balance", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}
