package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	cache       portsrepo.ProfileCache
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithProfileCache serves profile names through cache.
func WithProfileCache(cache portsrepo.ProfileCache) AccountServiceOption {
	return func(s *accountService) {
		s.cache = cache
	}
}

// NewAccountService creates a new account service with the provided dependencies
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	s := &accountService{accountRepo: repo}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetProfileName returns the account's display name. Names never change once
// set, so a cached value is always current. Cache failures are not fatal.
func (s *accountService) GetProfileName(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user ID required", apperrors.ErrValidation)
	}

	if s.cache != nil {
		name, err := s.cache.GetName(ctx, userID)
		if err == nil && name != "" {
			s.LogDebug(ctx, "Profile name served from cache", slog.String("user_id", userID))
			return name, nil
		}
		if err != nil && !errors.Is(err, portsrepo.ErrCacheMiss) {
			s.LogWarn(ctx, err, "Profile cache read failed", slog.String("user_id", userID))
		}
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("user_id", userID))
		}
		return "", err
	}

	name := account.Name
	if name == "" {
		name = domain.DefaultAccountName
	}

	if s.cache != nil {
		if err := s.cache.SetName(ctx, userID, name); err != nil {
			s.LogWarn(ctx, err, "Profile cache write failed", slog.String("user_id", userID))
		}
	}
	return name, nil
}

// GetAccountSummary returns the account aggregate.
func (s *accountService) GetAccountSummary(ctx context.Context, userID string) (*domain.Account, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID required", apperrors.ErrValidation)
	}
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("user_id", userID))
		}
		return nil, err
	}
	return account, nil
}

// SetBalance overwrites the balance and resets totalExpenses to zero. Live
// expenses are left alone; ReconcileAccount restores totalExpenses afterwards.
func (s *accountService) SetBalance(ctx context.Context, userID string, balance decimal.Decimal) (*domain.Account, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID and balance are required", apperrors.ErrValidation)
	}
	account, err := s.accountRepo.SetBalance(ctx, userID, balance, domain.DefaultAccountName)
	if err != nil {
		s.LogError(ctx, err, "Failed to set balance", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Balance set", slog.String("user_id", userID), slog.String("balance", balance.String()))
	return account, nil
}
