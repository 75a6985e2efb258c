package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepositoryFacade ---

func (m *MockAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByUserIDForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, userID string, delta domain.AggregateDelta, defaultName string) (*domain.Account, error) {
	args := m.Called(ctx, userID, delta, defaultName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, userID string, balance decimal.Decimal, defaultName string) (*domain.Account, error) {
	args := m.Called(ctx, userID, balance, defaultName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// MockProfileCache is a mock type for the ProfileCache interface
type MockProfileCache struct {
	mock.Mock
}

func (m *MockProfileCache) GetName(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockProfileCache) SetName(ctx context.Context, userID, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockRepo  *MockAccountRepository
	mockCache *MockProfileCache
	service   portssvc.AccountSvcFacade
	cached    portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockAccountRepository)
	suite.mockCache = new(MockProfileCache)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.cached = services.NewAccountService(suite.mockRepo, services.WithProfileCache(suite.mockCache))
}

func (suite *AccountServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func sampleAccount(userID, name string) *domain.Account {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Account{
		UserID:        userID,
		Name:          name,
		Balance:       decimal.RequireFromString("-40"),
		TotalExpenses: decimal.RequireFromString("40"),
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

// --- GetProfileName ---

func (suite *AccountServiceTestSuite) TestGetProfileName_Success() {
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "u1").Return(sampleAccount("u1", "alice"), nil).Once()

	name, err := suite.service.GetProfileName(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal("alice", name)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_EmptyNameFallsBack() {
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "u1").Return(sampleAccount("u1", ""), nil).Once()

	name, err := suite.service.GetProfileName(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal(domain.DefaultAccountName, name)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_NotFound() {
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "ghost").
		Return(nil, fmt.Errorf("%w: account ghost", apperrors.ErrNotFound)).Once()

	_, err := suite.service.GetProfileName(suite.ctx, "ghost")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_RequiresUserID() {
	_, err := suite.service.GetProfileName(suite.ctx, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_CacheHit() {
	suite.mockCache.On("GetName", suite.ctx, "u1").Return("alice", nil).Once()

	name, err := suite.cached.GetProfileName(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal("alice", name)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByUserID", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_CacheMissFillsCache() {
	suite.mockCache.On("GetName", suite.ctx, "u1").Return("", portsrepo.ErrCacheMiss).Once()
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "u1").Return(sampleAccount("u1", "alice"), nil).Once()
	suite.mockCache.On("SetName", suite.ctx, "u1", "alice").Return(nil).Once()

	name, err := suite.cached.GetProfileName(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal("alice", name)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_CacheFailuresAreNotFatal() {
	suite.mockCache.On("GetName", suite.ctx, "u1").Return("", errors.New("connection refused")).Once()
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "u1").Return(sampleAccount("u1", "alice"), nil).Once()
	suite.mockCache.On("SetName", suite.ctx, "u1", "alice").Return(errors.New("connection refused")).Once()

	name, err := suite.cached.GetProfileName(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal("alice", name)
}

func (suite *AccountServiceTestSuite) TestGetProfileName_NotFoundIsNotCached() {
	suite.mockCache.On("GetName", suite.ctx, "ghost").Return("", portsrepo.ErrCacheMiss).Once()
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "ghost").
		Return(nil, fmt.Errorf("%w: account ghost", apperrors.ErrNotFound)).Once()

	_, err := suite.cached.GetProfileName(suite.ctx, "ghost")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCache.AssertNotCalled(suite.T(), "SetName", mock.Anything, mock.Anything, mock.Anything)
}

// --- GetAccountSummary ---

func (suite *AccountServiceTestSuite) TestGetAccountSummary_Success() {
	expected := sampleAccount("u1", "alice")
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "u1").Return(expected, nil).Once()

	acc, err := suite.service.GetAccountSummary(suite.ctx, "u1")
	suite.Require().NoError(err)
	suite.Equal(expected, acc)
}

func (suite *AccountServiceTestSuite) TestGetAccountSummary_StorageError() {
	storageErr := apperrors.Storage("find account", errors.New("timeout"))
	suite.mockRepo.On("FindAccountByUserID", suite.ctx, "u1").Return(nil, storageErr).Once()

	_, err := suite.service.GetAccountSummary(suite.ctx, "u1")
	suite.ErrorIs(err, apperrors.ErrStorage)
}

// --- SetBalance ---

func (suite *AccountServiceTestSuite) TestSetBalance_Success() {
	balance := decimal.RequireFromString("1000")
	stored := &domain.Account{UserID: "u1", Name: domain.DefaultAccountName, Balance: balance, TotalExpenses: decimal.Zero}
	suite.mockRepo.On("SetBalance", suite.ctx, "u1", balance, domain.DefaultAccountName).Return(stored, nil).Once()

	acc, err := suite.service.SetBalance(suite.ctx, "u1", balance)
	suite.Require().NoError(err)
	suite.True(acc.Balance.Equal(balance))
	suite.True(acc.TotalExpenses.IsZero())
}

func (suite *AccountServiceTestSuite) TestSetBalance_RequiresUserID() {
	_, err := suite.service.SetBalance(suite.ctx, "", decimal.NewFromInt(5))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSetBalance_StorageError() {
	balance := decimal.NewFromInt(5)
	suite.mockRepo.On("SetBalance", suite.ctx, "u1", balance, domain.DefaultAccountName).
		Return(nil, apperrors.Storage("set balance", errors.New("disk full"))).Once()

	_, err := suite.service.SetBalance(suite.ctx, "u1", balance)
	suite.ErrorIs(err, apperrors.ErrStorage)
}

// --- Run Test Suite ---

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
