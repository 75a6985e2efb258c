// Package memory is an in-process ledger store. All operations are
// serialised by one mutex; RunInTx holds it for the whole unit of work and
// undoes the unit's writes if it fails.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps expenses and account aggregates in maps.
type Store struct {
	mu       sync.Mutex
	expenses map[string]map[string]domain.Expense // userID -> expenseID -> entry
	accounts map[string]domain.Account
	newID    func() string
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		expenses: make(map[string]map[string]domain.Expense),
		accounts: make(map[string]domain.Account),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

var (
	_ portsrepo.UnitOfWork              = (*Store)(nil)
	_ portsrepo.ExpenseRepositoryFacade = expenseRepo{}
	_ portsrepo.AccountRepositoryFacade = accountRepo{}
)

// Expenses returns a repository whose calls each take the store lock.
func (s *Store) Expenses() portsrepo.ExpenseRepositoryFacade {
	return expenseRepo{access{store: s}}
}

// Accounts returns a repository whose calls each take the store lock.
func (s *Store) Accounts() portsrepo.AccountRepositoryFacade {
	return accountRepo{access{store: s}}
}

// RunInTx runs fn while holding the store lock. It is not reentrant: fn must
// use the LedgerStore it is given, not s.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) (err error) {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("begin transaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := &txLog{}
	defer func() {
		if p := recover(); p != nil {
			log.rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, txView{access{store: s, tx: log}}); err != nil {
		log.rollback()
		return err
	}
	return nil
}

type txLog struct {
	undo []func()
}

func (l *txLog) rollback() {
	for i := len(l.undo) - 1; i >= 0; i-- {
		l.undo[i]()
	}
	l.undo = nil
}

// access is shared by the repositories. With tx set the lock is already held
// by RunInTx and every write registers its inverse.
type access struct {
	store *Store
	tx    *txLog
}

func (a access) lock() func() {
	if a.tx != nil {
		return func() {}
	}
	a.store.mu.Lock()
	return a.store.mu.Unlock
}

func (a access) record(undo func()) {
	if a.tx != nil {
		a.tx.undo = append(a.tx.undo, undo)
	}
}

type txView struct {
	a access
}

func (v txView) Expenses() portsrepo.ExpenseRepositoryFacade { return expenseRepo{v.a} }
func (v txView) Accounts() portsrepo.AccountRepositoryFacade { return accountRepo{v.a} }

type expenseRepo struct {
	access
}

func (r expenseRepo) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("save expense", err)
	}
	defer r.lock()()

	expense.ExpenseID = r.store.newID()
	expense.Date = expense.Date.UTC()
	byID, ok := r.store.expenses[expense.UserID]
	if !ok {
		byID = make(map[string]domain.Expense)
		r.store.expenses[expense.UserID] = byID
	}
	byID[expense.ExpenseID] = expense
	r.record(func() { delete(byID, expense.ExpenseID) })

	saved := expense
	return &saved, nil
}

func (r expenseRepo) find(userID, expenseID string) (domain.Expense, bool) {
	e, ok := r.store.expenses[userID][expenseID]
	return e, ok
}

func (r expenseRepo) FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("find expense", err)
	}
	defer r.lock()()

	e, ok := r.find(userID, expenseID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

// FindExpenseByIDForUpdate needs no extra locking: inside RunInTx the store lock is held.
func (r expenseRepo) FindExpenseByIDForUpdate(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	return r.FindExpenseByID(ctx, userID, expenseID)
}

func (r expenseRepo) ListExpensesByUser(ctx context.Context, userID string) ([]domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("list expenses", err)
	}
	defer r.lock()()

	out := make([]domain.Expense, 0, len(r.store.expenses[userID]))
	for _, e := range r.store.expenses[userID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ExpenseID < out[j].ExpenseID
	})
	return out, nil
}

func (r expenseRepo) SumExpensesByUser(ctx context.Context, userID string) (decimal.Decimal, int, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, 0, apperrors.Storage("sum expenses", err)
	}
	defer r.lock()()

	sum := decimal.Zero
	for _, e := range r.store.expenses[userID] {
		sum = sum.Add(e.Amount)
	}
	return sum, len(r.store.expenses[userID]), nil
}

func (r expenseRepo) UpdateExpense(ctx context.Context, userID, expenseID string, update domain.ExpenseUpdate) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("update expense", err)
	}
	defer r.lock()()

	original, ok := r.find(userID, expenseID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	updated := update.Apply(original)
	byID := r.store.expenses[userID]
	byID[expenseID] = updated
	r.record(func() { byID[expenseID] = original })

	return &updated, nil
}

func (r expenseRepo) DeleteExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("delete expense", err)
	}
	defer r.lock()()

	removed, ok := r.find(userID, expenseID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	byID := r.store.expenses[userID]
	delete(byID, expenseID)
	r.record(func() { byID[expenseID] = removed })

	return &removed, nil
}

type accountRepo struct {
	access
}

func (r accountRepo) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("find account", err)
	}
	defer r.lock()()

	acc, ok := r.store.accounts[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r accountRepo) FindAccountByUserIDForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	return r.FindAccountByUserID(ctx, userID)
}

// put stores acc and registers the inverse write.
func (r accountRepo) put(acc domain.Account) {
	previous, existed := r.store.accounts[acc.UserID]
	r.store.accounts[acc.UserID] = acc
	r.record(func() {
		if existed {
			r.store.accounts[acc.UserID] = previous
		} else {
			delete(r.store.accounts, acc.UserID)
		}
	})
}

func (r accountRepo) ApplyDelta(ctx context.Context, userID string, delta domain.AggregateDelta, defaultName string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("apply aggregate delta", err)
	}
	defer r.lock()()

	now := r.store.now().UTC()
	acc, ok := r.store.accounts[userID]
	if !ok {
		acc = domain.Account{
			UserID:      userID,
			Name:        defaultName,
			AuditFields: domain.AuditFields{CreatedAt: now},
		}
	}
	acc.Balance = acc.Balance.Add(delta.Balance)
	acc.TotalExpenses = acc.TotalExpenses.Add(delta.TotalExpenses)
	acc.LastUpdatedAt = now
	r.put(acc)

	return &acc, nil
}

func (r accountRepo) SetBalance(ctx context.Context, userID string, balance decimal.Decimal, defaultName string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("set balance", err)
	}
	defer r.lock()()

	now := r.store.now().UTC()
	acc, ok := r.store.accounts[userID]
	if !ok {
		acc = domain.Account{
			UserID:      userID,
			Name:        defaultName,
			AuditFields: domain.AuditFields{CreatedAt: now},
		}
	}
	acc.Balance = balance
	acc.TotalExpenses = decimal.Zero
	acc.LastUpdatedAt = now
	r.put(acc)

	return &acc, nil
}
