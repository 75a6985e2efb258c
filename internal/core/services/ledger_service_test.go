package services_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/core/services"
	"github.com/SscSPs/expense_tracker/internal/dto"
	"github.com/SscSPs/expense_tracker/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// MockCategorizer is a mock type for the CategorizerSvc interface
type MockCategorizer struct {
	mock.Mock
}

func (m *MockCategorizer) Categorize(ctx context.Context, description string) domain.Category {
	args := m.Called(ctx, description)
	return args.Get(0).(domain.Category)
}

// MockPublisher is a mock type for the LedgerEventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// failingAccounts fails every ApplyDelta after the wrapped repository is reached.
type failingAccounts struct {
	portsrepo.AccountRepositoryFacade
	err error
}

func (f failingAccounts) ApplyDelta(ctx context.Context, userID string, delta domain.AggregateDelta, defaultName string) (*domain.Account, error) {
	return nil, f.err
}

type failingTxView struct {
	portsrepo.LedgerStore
	err error
}

func (v failingTxView) Accounts() portsrepo.AccountRepositoryFacade {
	return failingAccounts{AccountRepositoryFacade: v.LedgerStore.Accounts(), err: v.err}
}

// failingStore runs real transactions on a memory store whose aggregate
// writes fail, so every unit of work must roll back.
type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) RunInTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.LedgerStore) error) error {
	return f.Store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		return fn(ctx, failingTxView{LedgerStore: tx, err: f.err})
	})
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func strPtr(s string) *string {
	return &s
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	categorize *MockCategorizer
	publisher  *MockPublisher
	now        time.Time
	ledger     portssvc.LedgerSvcFacade
	accounts   portssvc.AccountSvcFacade
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.categorize = new(MockCategorizer)
	s.publisher = new(MockPublisher)
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ledger = services.NewLedgerService(s.store, s.categorize,
		services.WithEventPublisher(s.publisher),
		services.WithClock(func() time.Time { return s.now }))
	s.accounts = services.NewAccountService(s.store.Accounts())
}

func (s *LedgerServiceTestSuite) allowEvents() {
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
}

func (s *LedgerServiceTestSuite) add(userID, amount string) *domain.Expense {
	e, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID:   userID,
		Amount:   decPtr(amount),
		Date:     strPtr("2024-02-01T10:00:00Z"),
		Category: strPtr("Food"),
	})
	s.Require().NoError(err)
	return e
}

func (s *LedgerServiceTestSuite) account(userID string) *domain.Account {
	acc, err := s.accounts.GetAccountSummary(s.ctx, userID)
	s.Require().NoError(err)
	return acc
}

// assertConsistent checks totalExpenses against the live entries and the
// initial balance against want.
func (s *LedgerServiceTestSuite) assertConsistent(userID string, initial decimal.Decimal) {
	acc := s.account(userID)
	sum, _, err := s.store.Expenses().SumExpensesByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.True(sum.Equal(acc.TotalExpenses), "totalExpenses %s != sum %s", acc.TotalExpenses, sum)
	s.True(initial.Equal(acc.InitialBalance()), "initial balance %s != %s", acc.InitialBalance(), initial)
}

// --- AddExpense ---

func (s *LedgerServiceTestSuite) TestAddExpense_CreatesAccount() {
	s.allowEvents()

	e, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID:      "u1",
		Amount:      decPtr("12.50"),
		Date:        strPtr("2024-02-01"),
		Description: strPtr("pizza"),
		Category:    strPtr("food"),
		Email:       "alice@example.com",
	})
	s.Require().NoError(err)
	s.NotEmpty(e.ExpenseID)
	s.Equal(domain.CategoryFood, e.Category)
	s.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), e.Date)

	acc := s.account("u1")
	s.Equal("alice", acc.Name)
	s.True(dec("-12.50").Equal(acc.Balance))
	s.True(dec("12.50").Equal(acc.TotalExpenses))
	s.categorize.AssertNotCalled(s.T(), "Categorize", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestAddExpense_EmptyDateMeansNow() {
	s.allowEvents()

	e, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID: "u1", Amount: decPtr("1"), Date: strPtr(""), Category: strPtr("Other"),
	})
	s.Require().NoError(err)
	s.Equal(s.now, e.Date)
}

func (s *LedgerServiceTestSuite) TestAddExpense_CategorizesDescription() {
	s.allowEvents()
	s.categorize.On("Categorize", mock.Anything, "uber to airport").Return(domain.CategoryTransport).Once()

	e, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID: "u1", Amount: decPtr("30"), Date: strPtr(""), Description: strPtr("uber to airport"),
	})
	s.Require().NoError(err)
	s.Equal(domain.CategoryTransport, e.Category)
	s.categorize.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestAddExpense_NoCategoryNoDescriptionIsOther() {
	s.allowEvents()

	e, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID: "u1", Amount: decPtr("3"), Date: strPtr(""),
	})
	s.Require().NoError(err)
	s.Equal(domain.CategoryOther, e.Category)
	s.categorize.AssertNotCalled(s.T(), "Categorize", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestAddExpense_ZeroAmountStillCreatesAccount() {
	s.allowEvents()
	s.add("u1", "0")

	acc := s.account("u1")
	s.Equal(domain.DefaultAccountName, acc.Name)
	s.True(acc.Balance.IsZero())
	s.True(acc.TotalExpenses.IsZero())
}

func (s *LedgerServiceTestSuite) TestAddExpense_Validation() {
	tests := []struct {
		name string
		req  dto.AddExpenseRequest
	}{
		{"missing user", dto.AddExpenseRequest{Amount: decPtr("1"), Date: strPtr("")}},
		{"missing amount", dto.AddExpenseRequest{UserID: "u1", Date: strPtr("")}},
		{"missing date", dto.AddExpenseRequest{UserID: "u1", Amount: decPtr("1")}},
		{"negative amount", dto.AddExpenseRequest{UserID: "u1", Amount: decPtr("-1"), Date: strPtr("")}},
		{"bad date", dto.AddExpenseRequest{UserID: "u1", Amount: decPtr("1"), Date: strPtr("yesterday")}},
		{"bad category", dto.AddExpenseRequest{UserID: "u1", Amount: decPtr("1"), Date: strPtr(""), Category: strPtr("Groceries")}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.ledger.AddExpense(s.ctx, tt.req)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	_, err := s.accounts.GetAccountSummary(s.ctx, "u1")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestAddExpense_PublishesEvent() {
	s.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(ev domain.LedgerEvent) bool {
		return ev.Type == domain.EventExpenseCreated &&
			ev.UserID == "u1" &&
			ev.Amount.Equal(dec("8")) &&
			ev.Delta.Balance.Equal(dec("-8")) &&
			ev.Delta.TotalExpenses.Equal(dec("8")) &&
			ev.OccurredAt.Equal(s.now)
	})).Return(nil).Once()

	s.add("u1", "8")
	s.publisher.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestAddExpense_PublishFailureIsNotFatal() {
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	e := s.add("u1", "5")
	s.NotNil(e)
	s.True(dec("5").Equal(s.account("u1").TotalExpenses))
}

// --- DeleteExpense ---

func (s *LedgerServiceTestSuite) TestDeleteExpense_RefundsAmount() {
	s.allowEvents()
	keep := s.add("u1", "10")
	gone := s.add("u1", "4.25")

	removed, err := s.ledger.DeleteExpense(s.ctx, "u1", gone.ExpenseID)
	s.Require().NoError(err)
	s.Equal(gone.ExpenseID, removed.ExpenseID)

	acc := s.account("u1")
	s.True(dec("-10").Equal(acc.Balance))
	s.True(dec("10").Equal(acc.TotalExpenses))

	list, err := s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(keep.ExpenseID, list[0].ExpenseID)
}

func (s *LedgerServiceTestSuite) TestDeleteExpense_NotFound() {
	s.allowEvents()
	e := s.add("u1", "10")

	_, err := s.ledger.DeleteExpense(s.ctx, "u1", "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	// another user's id does not resolve
	_, err = s.ledger.DeleteExpense(s.ctx, "u2", e.ExpenseID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.assertConsistent("u1", decimal.Zero)
}

func (s *LedgerServiceTestSuite) TestAddListDeleteRoundTrip() {
	s.allowEvents()
	_, err := s.accounts.SetBalance(s.ctx, "u1", dec("100"))
	s.Require().NoError(err)

	e, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID: "u1", Amount: decPtr("42.50"), Date: strPtr(""), Category: strPtr("Food"),
	})
	s.Require().NoError(err)
	s.True(dec("57.50").Equal(s.account("u1").Balance))

	list, err := s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(e.ExpenseID, list[0].ExpenseID)
	s.True(dec("42.5").Equal(list[0].Amount))
	s.Equal(domain.CategoryFood, list[0].Category)

	_, err = s.ledger.DeleteExpense(s.ctx, "u1", e.ExpenseID)
	s.Require().NoError(err)

	list, err = s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(list)
	acc := s.account("u1")
	s.True(dec("100").Equal(acc.Balance))
	s.True(acc.TotalExpenses.IsZero())
}

// --- EditExpense ---

func (s *LedgerServiceTestSuite) TestEditExpense_AppliesDifference() {
	s.allowEvents()
	e := s.add("u1", "10")
	s.now = s.now.Add(time.Hour)

	updated, err := s.ledger.EditExpense(s.ctx, "u1", e.ExpenseID, dto.EditExpenseRequest{
		Amount:      decPtr("25.5"),
		Category:    strPtr("entertainment"),
		Description: strPtr("train"),
	})
	s.Require().NoError(err)
	s.True(dec("25.5").Equal(updated.Amount))
	s.Equal(domain.CategoryEntertainment, updated.Category)
	s.Equal("train", updated.Description)
	s.Equal(e.Date, updated.Date)
	s.Equal(s.now, updated.LastUpdatedAt)

	acc := s.account("u1")
	s.True(dec("-25.5").Equal(acc.Balance))
	s.True(dec("25.5").Equal(acc.TotalExpenses))
}

func (s *LedgerServiceTestSuite) TestEditExpense_NoAmountKeepsAggregate() {
	s.allowEvents()
	e := s.add("u1", "10")
	before := s.account("u1")

	updated, err := s.ledger.EditExpense(s.ctx, "u1", e.ExpenseID, dto.EditExpenseRequest{Description: strPtr("dinner")})
	s.Require().NoError(err)
	s.Equal("dinner", updated.Description)
	s.True(dec("10").Equal(updated.Amount))

	after := s.account("u1")
	s.True(before.Balance.Equal(after.Balance))
	s.True(before.TotalExpenses.Equal(after.TotalExpenses))
}

func (s *LedgerServiceTestSuite) TestEditExpense_Errors() {
	s.allowEvents()
	e := s.add("u1", "10")

	_, err := s.ledger.EditExpense(s.ctx, "u1", "missing", dto.EditExpenseRequest{Amount: decPtr("1")})
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.ledger.EditExpense(s.ctx, "u1", e.ExpenseID, dto.EditExpenseRequest{Amount: decPtr("-3")})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.ledger.EditExpense(s.ctx, "u1", e.ExpenseID, dto.EditExpenseRequest{Category: strPtr("Snacks")})
	s.ErrorIs(err, apperrors.ErrValidation)

	s.assertConsistent("u1", decimal.Zero)
}

// --- ListExpenses ---

func (s *LedgerServiceTestSuite) TestListExpenses_EmptyIsNotNil() {
	list, err := s.ledger.ListExpenses(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)

	_, err = s.ledger.ListExpenses(s.ctx, "")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestListExpenses_NewestFirst() {
	s.allowEvents()
	for _, date := range []string{"2024-01-05", "2024-03-01", "2024-02-10"} {
		_, err := s.ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
			UserID: "u1", Amount: decPtr("1"), Date: strPtr(date), Category: strPtr("Other"),
		})
		s.Require().NoError(err)
	}

	list, err := s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(time.March, list[0].Date.Month())
	s.Equal(time.February, list[1].Date.Month())
	s.Equal(time.January, list[2].Date.Month())
}

// --- ReconcileAccount ---

func (s *LedgerServiceTestSuite) TestReconcileAccount_AfterSetBalance() {
	s.allowEvents()
	s.add("u1", "30")
	s.add("u1", "20")

	_, err := s.accounts.SetBalance(s.ctx, "u1", dec("1000"))
	s.Require().NoError(err)
	acc := s.account("u1")
	s.True(acc.TotalExpenses.IsZero())

	reconciled, correction, err := s.ledger.ReconcileAccount(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(dec("50").Equal(correction.TotalExpenses))
	s.True(dec("-50").Equal(correction.Balance))
	s.True(dec("950").Equal(reconciled.Balance))
	s.True(dec("50").Equal(reconciled.TotalExpenses))
	s.assertConsistent("u1", dec("1000"))
}

func (s *LedgerServiceTestSuite) TestReconcileAccount_ConsistentIsNoop() {
	s.allowEvents()
	s.add("u1", "30")

	_, correction, err := s.ledger.ReconcileAccount(s.ctx, "u1")
	s.Require().NoError(err)
	s.True(correction.IsZero())
	s.publisher.AssertNumberOfCalls(s.T(), "Publish", 1)
}

func (s *LedgerServiceTestSuite) TestReconcileAccount_MissingAccount() {
	_, _, err := s.ledger.ReconcileAccount(s.ctx, "ghost")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Consistency under failure and concurrency ---

func (s *LedgerServiceTestSuite) TestStorageFailureRollsBackEntry() {
	failure := apperrors.Storage("apply delta", errors.New("disk full"))
	ledger := services.NewLedgerService(failingStore{Store: s.store, err: failure}, s.categorize)

	_, err := ledger.AddExpense(s.ctx, dto.AddExpenseRequest{
		UserID: "u1", Amount: decPtr("9"), Date: strPtr(""), Category: strPtr("Food"),
	})
	s.ErrorIs(err, apperrors.ErrStorage)

	list, err := s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(list)
	_, err = s.accounts.GetAccountSummary(s.ctx, "u1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestStorageFailureKeepsEntryOnDelete() {
	s.allowEvents()
	e := s.add("u1", "9")
	ledger := services.NewLedgerService(failingStore{Store: s.store, err: apperrors.Storage("apply delta", errors.New("io"))}, s.categorize)

	_, err := ledger.DeleteExpense(s.ctx, "u1", e.ExpenseID)
	s.ErrorIs(err, apperrors.ErrStorage)

	list, err := s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(list, 1)
	s.assertConsistent("u1", decimal.Zero)
}

func (s *LedgerServiceTestSuite) TestRandomOperationsStayConsistent() {
	s.allowEvents()
	rng := rand.New(rand.NewSource(42))
	amount := func() string {
		return decimal.New(rng.Int63n(100000), -2).String()
	}

	var live []string
	for i := 0; i < 300; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			live = append(live, s.add("u1", amount()).ExpenseID)
		case op == 1:
			id := live[rng.Intn(len(live))]
			_, err := s.ledger.EditExpense(s.ctx, "u1", id, dto.EditExpenseRequest{Amount: decPtr(amount())})
			s.Require().NoError(err)
		default:
			idx := rng.Intn(len(live))
			_, err := s.ledger.DeleteExpense(s.ctx, "u1", live[idx])
			s.Require().NoError(err)
			live = append(live[:idx], live[idx+1:]...)
		}
	}

	list, err := s.ledger.ListExpenses(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(list, len(live))
	s.assertConsistent("u1", decimal.Zero)
}

func (s *LedgerServiceTestSuite) TestConcurrentAddsAreNotLost() {
	s.allowEvents()
	const workers, perWorker = 8, 25

	g, ctx := errgroup.WithContext(s.ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				_, err := s.ledger.AddExpense(ctx, dto.AddExpenseRequest{
					UserID: "u1", Amount: decPtr("1.01"), Date: strPtr(""), Category: strPtr("Bills"),
				})
				if err != nil {
					return fmt.Errorf("add: %w", err)
				}
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	acc := s.account("u1")
	s.True(dec("202").Equal(acc.TotalExpenses), "got %s", acc.TotalExpenses)
	s.assertConsistent("u1", decimal.Zero)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
