// Package storetest holds the behaviour every ledger store adapter must share.
// Adapter packages embed LedgerStoreSuite in their own test suites.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// LedgerStoreSuite exercises a portsrepo.UnitOfWork. NewStore must return an
// empty store for every test.
type LedgerStoreSuite struct {
	suite.Suite
	NewStore func() portsrepo.UnitOfWork
	// Concurrency bounds the goroutines used by the concurrent tests.
	Concurrency int

	store portsrepo.UnitOfWork
	ctx   context.Context
}

func (s *LedgerStoreSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
	s.ctx = context.Background()
	if s.Concurrency == 0 {
		s.Concurrency = 8
	}
}

// Store returns the store under test.
func (s *LedgerStoreSuite) Store() portsrepo.UnitOfWork {
	return s.store
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *LedgerStoreSuite) newExpense(userID, amount string, date time.Time) domain.Expense {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Expense{
		UserID:      userID,
		Amount:      dec(amount),
		Category:    domain.CategoryFood,
		Description: "lunch",
		Date:        date.UTC().Truncate(time.Microsecond),
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func (s *LedgerStoreSuite) TestSaveAndFindExpense() {
	userID := uuid.NewString()
	date := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	saved, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, "42.50", date))
	s.Require().NoError(err)
	s.NotEmpty(saved.ExpenseID)

	found, err := s.store.Expenses().FindExpenseByID(s.ctx, userID, saved.ExpenseID)
	s.Require().NoError(err)
	s.Equal(saved.ExpenseID, found.ExpenseID)
	s.Equal(userID, found.UserID)
	s.True(dec("42.50").Equal(found.Amount), "amount %s", found.Amount)
	s.Equal(domain.CategoryFood, found.Category)
	s.Equal("lunch", found.Description)
	s.True(date.Equal(found.Date), "date %s", found.Date)
	s.Equal(time.UTC, found.Date.Location())

	_, err = s.store.Expenses().FindExpenseByID(s.ctx, uuid.NewString(), saved.ExpenseID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerStoreSuite) TestSaveExpense_AllocatesDistinctIDs() {
	userID := uuid.NewString()
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		saved, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, "1", time.Now()))
		s.Require().NoError(err)
		s.False(seen[saved.ExpenseID])
		seen[saved.ExpenseID] = true
	}
}

func (s *LedgerStoreSuite) TestListExpenses_NewestFirst() {
	userID := uuid.NewString()
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 5, 1} {
		_, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, fmt.Sprintf("%d", offset+1), base.AddDate(0, 0, offset)))
		s.Require().NoError(err)
	}
	_, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(uuid.NewString(), "99", base))
	s.Require().NoError(err)

	list, err := s.store.Expenses().ListExpensesByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(list, 4)
	for i := 1; i < len(list); i++ {
		s.False(list[i].Date.After(list[i-1].Date), "entries out of order at %d", i)
	}
	s.True(base.AddDate(0, 0, 5).Equal(list[0].Date))

	empty, err := s.store.Expenses().ListExpensesByUser(s.ctx, uuid.NewString())
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *LedgerStoreSuite) TestUpdateExpense_Partial() {
	userID := uuid.NewString()
	saved, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, "10", time.Now()))
	s.Require().NoError(err)

	amount := dec("12.25")
	updated, err := s.store.Expenses().UpdateExpense(s.ctx, userID, saved.ExpenseID, domain.ExpenseUpdate{
		Amount:    &amount,
		UpdatedAt: time.Now().UTC(),
	})
	s.Require().NoError(err)
	s.True(amount.Equal(updated.Amount))
	s.Equal(domain.CategoryFood, updated.Category)
	s.Equal("lunch", updated.Description)

	category := domain.CategoryHealth
	description := "clinic"
	updated, err = s.store.Expenses().UpdateExpense(s.ctx, userID, saved.ExpenseID, domain.ExpenseUpdate{
		Category:    &category,
		Description: &description,
		UpdatedAt:   time.Now().UTC(),
	})
	s.Require().NoError(err)
	s.True(amount.Equal(updated.Amount))
	s.Equal(domain.CategoryHealth, updated.Category)
	s.Equal("clinic", updated.Description)
	s.True(saved.Date.Equal(updated.Date), "date must not change")

	found, err := s.store.Expenses().FindExpenseByID(s.ctx, userID, saved.ExpenseID)
	s.Require().NoError(err)
	s.Equal("clinic", found.Description)

	_, err = s.store.Expenses().UpdateExpense(s.ctx, userID, uuid.NewString(), domain.ExpenseUpdate{Amount: &amount})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerStoreSuite) TestDeleteExpense() {
	userID := uuid.NewString()
	saved, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, "7.35", time.Now()))
	s.Require().NoError(err)

	removed, err := s.store.Expenses().DeleteExpense(s.ctx, userID, saved.ExpenseID)
	s.Require().NoError(err)
	s.Equal(saved.ExpenseID, removed.ExpenseID)
	s.True(dec("7.35").Equal(removed.Amount))

	_, err = s.store.Expenses().DeleteExpense(s.ctx, userID, saved.ExpenseID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.store.Expenses().FindExpenseByID(s.ctx, userID, saved.ExpenseID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerStoreSuite) TestSumExpenses() {
	userID := uuid.NewString()
	for _, amount := range []string{"0.10", "0.20", "3"} {
		_, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, amount, time.Now()))
		s.Require().NoError(err)
	}

	sum, count, err := s.store.Expenses().SumExpensesByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(3, count)
	s.True(dec("3.30").Equal(sum), "sum %s", sum)

	sum, count, err = s.store.Expenses().SumExpensesByUser(s.ctx, uuid.NewString())
	s.Require().NoError(err)
	s.Equal(0, count)
	s.True(sum.IsZero())
}

func (s *LedgerStoreSuite) TestApplyDelta_CreatesThenIncrements() {
	userID := uuid.NewString()
	accounts := s.store.Accounts()

	_, err := accounts.FindAccountByUserID(s.ctx, userID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	acc, err := accounts.ApplyDelta(s.ctx, userID, domain.AggregateDelta{Balance: dec("-42.50"), TotalExpenses: dec("42.50")}, "asha")
	s.Require().NoError(err)
	s.Equal("asha", acc.Name)
	s.True(dec("-42.50").Equal(acc.Balance))
	s.True(dec("42.50").Equal(acc.TotalExpenses))

	acc, err = accounts.ApplyDelta(s.ctx, userID, domain.AggregateDelta{Balance: dec("-7.50"), TotalExpenses: dec("7.50")}, "someone else")
	s.Require().NoError(err)
	s.Equal("asha", acc.Name, "name is set once")
	s.True(dec("-50").Equal(acc.Balance))
	s.True(dec("50").Equal(acc.TotalExpenses))

	found, err := accounts.FindAccountByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.True(dec("-50").Equal(found.Balance))
	s.True(dec("50").Equal(found.TotalExpenses))
}

func (s *LedgerStoreSuite) TestSetBalance() {
	userID := uuid.NewString()
	accounts := s.store.Accounts()

	acc, err := accounts.SetBalance(s.ctx, userID, dec("1000"), domain.DefaultAccountName)
	s.Require().NoError(err)
	s.Equal(domain.DefaultAccountName, acc.Name)
	s.True(dec("1000").Equal(acc.Balance))
	s.True(acc.TotalExpenses.IsZero())

	_, err = accounts.ApplyDelta(s.ctx, userID, domain.AggregateDelta{Balance: dec("-30"), TotalExpenses: dec("30")}, "ignored")
	s.Require().NoError(err)

	acc, err = accounts.SetBalance(s.ctx, userID, dec("500"), "ignored")
	s.Require().NoError(err)
	s.Equal(domain.DefaultAccountName, acc.Name)
	s.True(dec("500").Equal(acc.Balance))
	s.True(acc.TotalExpenses.IsZero(), "totalExpenses is reset")
}

func (s *LedgerStoreSuite) TestRunInTx_CommitsBothWrites() {
	userID := uuid.NewString()
	var saved *domain.Expense
	err := s.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		var err error
		saved, err = tx.Expenses().SaveExpense(ctx, s.newExpense(userID, "5", time.Now()))
		if err != nil {
			return err
		}
		_, err = tx.Accounts().ApplyDelta(ctx, userID, domain.AggregateDelta{Balance: dec("-5"), TotalExpenses: dec("5")}, "u")
		return err
	})
	s.Require().NoError(err)

	_, err = s.store.Expenses().FindExpenseByID(s.ctx, userID, saved.ExpenseID)
	s.NoError(err)
	acc, err := s.store.Accounts().FindAccountByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.True(dec("5").Equal(acc.TotalExpenses))
}

func (s *LedgerStoreSuite) TestRunInTx_RollsBackOnError() {
	userID := uuid.NewString()
	_, err := s.store.Accounts().SetBalance(s.ctx, userID, dec("100"), "u")
	s.Require().NoError(err)
	existing, err := s.store.Expenses().SaveExpense(s.ctx, s.newExpense(userID, "10", time.Now()))
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = s.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		if _, err := tx.Expenses().SaveExpense(ctx, s.newExpense(userID, "5", time.Now())); err != nil {
			return err
		}
		if _, err := tx.Expenses().DeleteExpense(ctx, userID, existing.ExpenseID); err != nil {
			return err
		}
		if _, err := tx.Accounts().ApplyDelta(ctx, userID, domain.AggregateDelta{Balance: dec("-5"), TotalExpenses: dec("5")}, "u"); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	list, err := s.store.Expenses().ListExpensesByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(existing.ExpenseID, list[0].ExpenseID)

	acc, err := s.store.Accounts().FindAccountByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.True(dec("100").Equal(acc.Balance))
	s.True(acc.TotalExpenses.IsZero())
}

func (s *LedgerStoreSuite) TestRunInTx_RollsBackNewAccount() {
	userID := uuid.NewString()
	err := s.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		if _, err := tx.Accounts().ApplyDelta(ctx, userID, domain.AggregateDelta{Balance: dec("-1"), TotalExpenses: dec("1")}, "u"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Error(err)

	_, err = s.store.Accounts().FindAccountByUserID(s.ctx, userID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerStoreSuite) TestConcurrentDeltasCommute() {
	userID := uuid.NewString()
	const n = 40
	amount := dec("2.5")

	g := new(errgroup.Group)
	g.SetLimit(s.Concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return s.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
				if _, err := tx.Expenses().SaveExpense(ctx, s.newExpense(userID, "2.5", time.Now())); err != nil {
					return err
				}
				_, err := tx.Accounts().ApplyDelta(ctx, userID, domain.AggregateDelta{Balance: amount.Neg(), TotalExpenses: amount}, "u")
				return err
			})
		})
	}
	s.Require().NoError(g.Wait())

	acc, err := s.store.Accounts().FindAccountByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.True(amount.Mul(decimal.NewFromInt(n)).Equal(acc.TotalExpenses), "total %s", acc.TotalExpenses)
	s.True(amount.Mul(decimal.NewFromInt(-n)).Equal(acc.Balance), "balance %s", acc.Balance)

	_, count, err := s.store.Expenses().SumExpensesByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(n, count)
}

func (s *LedgerStoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.store.Expenses().SaveExpense(ctx, s.newExpense(uuid.NewString(), "1", time.Now()))
	s.Error(err)
}
