package memory_test

import (
	"context"
	"testing"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/expense_tracker/internal/repositories/memory"
	"github.com/SscSPs/expense_tracker/internal/repositories/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MemoryStoreTestSuite struct {
	storetest.LedgerStoreSuite
}

func (s *MemoryStoreTestSuite) TestRunInTx_RollsBackOnPanic() {
	store := s.Store()
	s.Panics(func() {
		_ = store.RunInTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerStore) error {
			_, _ = tx.Accounts().ApplyDelta(ctx, "u1", domain.AggregateDelta{Balance: decimal.NewFromInt(-1), TotalExpenses: decimal.NewFromInt(1)}, "u1")
			panic("boom")
		})
	})

	_, err := store.Accounts().FindAccountByUserID(context.Background(), "u1")
	s.ErrorIs(err, apperrors.ErrNotFound)

	// the lock must have been released
	_, err = store.Accounts().SetBalance(context.Background(), "u1", decimal.NewFromInt(10), "u1")
	s.NoError(err)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &MemoryStoreTestSuite{
		LedgerStoreSuite: storetest.LedgerStoreSuite{
			NewStore: func() portsrepo.UnitOfWork { return memory.NewStore() },
		},
	})
}
