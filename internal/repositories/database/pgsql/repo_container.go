package pgsql

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements portsrepo.UnitOfWork on a pgx pool.
type Store struct {
	BaseRepository
	newID func() string
	now   func() time.Time
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// NewStore returns a ledger store backed by dbPool.
func NewStore(dbPool *pgxpool.Pool) *Store {
	return &Store{
		BaseRepository: BaseRepository{Pool: dbPool},
		newID:          uuid.NewString,
		now:            time.Now,
	}
}

func (s *Store) Expenses() portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{db: s.Pool, newID: s.newID}
}

func (s *Store) Accounts() portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{db: s.Pool, now: s.now}
}

// RunInTx runs fn inside one transaction. Locked reads made through the
// store fn receives hold their row locks until commit.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback(context.WithoutCancel(ctx), tx)
			panic(p)
		}
		if err != nil {
			_ = s.Rollback(context.WithoutCancel(ctx), tx)
		}
	}()

	if err = fn(ctx, txStore{store: s, tx: tx}); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

type txStore struct {
	store *Store
	tx    pgx.Tx
}

func (t txStore) Expenses() portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{db: t.tx, newID: t.store.newID}
}

func (t txStore) Accounts() portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{db: t.tx, now: t.store.now}
}
