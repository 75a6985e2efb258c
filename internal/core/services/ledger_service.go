package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/dto"
	"github.com/SscSPs/expense_tracker/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService keeps each user's account aggregate consistent with the
// add/edit/delete stream of their expenses. It holds no mutable state; every
// entry write and its aggregate delta run in one store transaction.
type ledgerService struct {
	BaseService
	store       portsrepo.UnitOfWork
	categorizer portssvc.CategorizerSvc
	publisher   portssvc.LedgerEventPublisher
	now         func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithEventPublisher announces committed changes through p.
func WithEventPublisher(p portssvc.LedgerEventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.publisher = p
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the ledger service.
func NewLedgerService(store portsrepo.UnitOfWork, categorizer portssvc.CategorizerSvc, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		store:       store,
		categorizer: categorizer,
		now:         time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) clock() time.Time {
	return s.now().UTC()
}

// AddExpense records a new expense and debits the account aggregate.
func (s *ledgerService) AddExpense(ctx context.Context, req dto.AddExpenseRequest) (*domain.Expense, error) {
	if req.UserID == "" || req.Amount == nil || req.Date == nil {
		return nil, fmt.Errorf("%w: missing required fields (userId, amount, date)", apperrors.ErrValidation)
	}
	amount := *req.Amount
	if err := accounting.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	now := s.clock()
	date := now
	if *req.Date != "" {
		parsed, err := domain.ParseTimestamp(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *req.Date)
		}
		date = parsed
	}

	category, err := s.resolveCategory(ctx, req.Category, req.Description)
	if err != nil {
		return nil, err
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	expense := domain.Expense{
		UserID:      req.UserID,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	delta := accounting.ExpenseAddedDelta(amount)

	var saved *domain.Expense
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		var txErr error
		saved, txErr = tx.Expenses().SaveExpense(ctx, expense)
		if txErr != nil {
			return txErr
		}
		// Always applied, even for a zero amount, so a first expense creates the account.
		_, txErr = tx.Accounts().ApplyDelta(ctx, req.UserID, delta, domain.NameFromEmail(req.Email))
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record expense", slog.String("user_id", req.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense recorded",
		slog.String("user_id", saved.UserID),
		slog.String("expense_id", saved.ExpenseID),
		slog.String("category", string(saved.Category)))
	s.publish(ctx, domain.EventExpenseCreated, saved, delta)
	return saved, nil
}

// resolveCategory picks the explicit category, else asks the categorizer when
// a description was supplied, else Other.
func (s *ledgerService) resolveCategory(ctx context.Context, explicit, description *string) (domain.Category, error) {
	if explicit != nil && *explicit != "" {
		category, ok := domain.ParseCategory(*explicit)
		if !ok {
			return "", fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, *explicit)
		}
		return category, nil
	}
	if description != nil && s.categorizer != nil {
		if category := s.categorizer.Categorize(ctx, *description); category.IsValid() {
			return category, nil
		}
	}
	return domain.CategoryOther, nil
}

// ListExpenses returns the user's expenses, newest first.
func (s *ledgerService) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID required", apperrors.ErrValidation)
	}
	expenses, err := s.store.Expenses().ListExpensesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", userID))
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	s.LogDebug(ctx, "Expenses listed", slog.String("user_id", userID), slog.Int("count", len(expenses)))
	return expenses, nil
}

// DeleteExpense removes an expense and refunds its amount.
func (s *ledgerService) DeleteExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	if userID == "" || expenseID == "" {
		return nil, fmt.Errorf("%w: user ID and expense ID required", apperrors.ErrValidation)
	}

	var removed *domain.Expense
	var delta domain.AggregateDelta
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		var txErr error
		removed, txErr = tx.Expenses().DeleteExpense(ctx, userID, expenseID)
		if txErr != nil {
			return txErr
		}
		delta = accounting.ExpenseRemovedDelta(removed.Amount)
		if delta.IsZero() {
			return nil
		}
		_, txErr = tx.Accounts().ApplyDelta(ctx, userID, delta, domain.DefaultAccountName)
		return txErr
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete expense",
				slog.String("user_id", userID), slog.String("expense_id", expenseID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Expense deleted", slog.String("user_id", userID), slog.String("expense_id", expenseID))
	s.publish(ctx, domain.EventExpenseDeleted, removed, delta)
	return removed, nil
}

// EditExpense updates amount, category or description and applies the amount difference.
func (s *ledgerService) EditExpense(ctx context.Context, userID, expenseID string, req dto.EditExpenseRequest) (*domain.Expense, error) {
	if userID == "" || expenseID == "" {
		return nil, fmt.Errorf("%w: user ID and expense ID required", apperrors.ErrValidation)
	}
	if req.Amount != nil {
		if err := accounting.ValidateAmount(*req.Amount); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
	}
	var category *domain.Category
	if req.Category != nil && *req.Category != "" {
		parsed, ok := domain.ParseCategory(*req.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, *req.Category)
		}
		category = &parsed
	}

	var updated *domain.Expense
	var delta domain.AggregateDelta
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		original, txErr := tx.Expenses().FindExpenseByIDForUpdate(ctx, userID, expenseID)
		if txErr != nil {
			return txErr
		}

		newAmount := original.Amount
		if req.Amount != nil {
			newAmount = *req.Amount
		}
		delta = accounting.ExpenseAmendedDelta(original.Amount, newAmount)

		updated, txErr = tx.Expenses().UpdateExpense(ctx, userID, expenseID, domain.ExpenseUpdate{
			Amount:      &newAmount,
			Category:    category,
			Description: req.Description,
			UpdatedAt:   s.clock(),
		})
		if txErr != nil {
			return txErr
		}
		if delta.IsZero() {
			return nil
		}
		_, txErr = tx.Accounts().ApplyDelta(ctx, userID, delta, domain.DefaultAccountName)
		return txErr
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to edit expense",
				slog.String("user_id", userID), slog.String("expense_id", expenseID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Expense edited",
		slog.String("user_id", userID),
		slog.String("expense_id", expenseID),
		slog.String("balance_delta", delta.Balance.String()))
	s.publish(ctx, domain.EventExpenseUpdated, updated, delta)
	return updated, nil
}

// ReconcileAccount recomputes totalExpenses from the live entries and shifts
// balance by the same correction, so balance+totalExpenses is unchanged.
func (s *ledgerService) ReconcileAccount(ctx context.Context, userID string) (*domain.Account, domain.AggregateDelta, error) {
	if userID == "" {
		return nil, domain.AggregateDelta{}, fmt.Errorf("%w: user ID required", apperrors.ErrValidation)
	}

	var account *domain.Account
	var delta domain.AggregateDelta
	var entries int
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerStore) error {
		var txErr error
		account, txErr = tx.Accounts().FindAccountByUserIDForUpdate(ctx, userID)
		if txErr != nil {
			return txErr
		}
		var sum decimal.Decimal
		sum, entries, txErr = tx.Expenses().SumExpensesByUser(ctx, userID)
		if txErr != nil {
			return txErr
		}
		delta = accounting.ReconciliationDelta(account.TotalExpenses, sum)
		if delta.IsZero() {
			return nil
		}
		account, txErr = tx.Accounts().ApplyDelta(ctx, userID, delta, account.Name)
		return txErr
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to reconcile account", slog.String("user_id", userID))
		}
		return nil, domain.AggregateDelta{}, err
	}

	s.LogInfo(ctx, "Account reconciled",
		slog.String("user_id", userID),
		slog.Int("entries", entries),
		slog.String("total_correction", delta.TotalExpenses.String()))
	if !delta.IsZero() {
		s.publishEvent(ctx, domain.LedgerEvent{
			Type:       domain.EventAccountReconciled,
			UserID:     userID,
			Delta:      delta,
			OccurredAt: s.clock(),
		})
	}
	return account, delta, nil
}

func (s *ledgerService) publish(ctx context.Context, eventType domain.LedgerEventType, e *domain.Expense, delta domain.AggregateDelta) {
	s.publishEvent(ctx, domain.LedgerEvent{
		Type:       eventType,
		UserID:     e.UserID,
		ExpenseID:  e.ExpenseID,
		Amount:     e.Amount,
		Category:   e.Category,
		Delta:      delta,
		OccurredAt: s.clock(),
	})
}

// publishEvent never affects the outcome of the operation that triggered it.
func (s *ledgerService) publishEvent(ctx context.Context, event domain.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogWarn(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(event.Type)),
			slog.String("user_id", event.UserID))
	}
}
