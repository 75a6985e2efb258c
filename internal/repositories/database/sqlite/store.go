// Package sqlite is the embedded ledger store. Amounts are kept as decimal
// TEXT so no precision is lost, and timestamps as fixed-width UTC TEXT so
// they sort lexically.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements portsrepo.UnitOfWork on a database/sql handle opened with
// the modernc driver. The handle should be limited to one open connection.
type Store struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// NewStore wraps db. Migrations must already have been applied.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, newID: uuid.NewString, now: time.Now}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

func (s *Store) Expenses() portsrepo.ExpenseRepositoryFacade {
	return &expenseRepository{store: s, q: s.db}
}

func (s *Store) Accounts() portsrepo.AccountRepositoryFacade {
	return &accountRepository{store: s, q: s.db}
}

// RunInTx runs fn inside one database transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, txStore{store: s, tx: tx})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", apperrors.Storage("begin transaction", err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", apperrors.Storage("commit transaction", err))
	}
	return nil
}

type txStore struct {
	store *Store
	tx    *sql.Tx
}

func (t txStore) Expenses() portsrepo.ExpenseRepositoryFacade {
	return &expenseRepository{store: t.store, q: t.tx}
}

func (t txStore) Accounts() portsrepo.AccountRepositoryFacade {
	return &accountRepository{store: t.store, q: t.tx, tx: t.tx}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// storageErr maps driver errors onto the application's error kinds.
func storageErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return apperrors.Storage(op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
