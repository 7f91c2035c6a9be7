package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creditbot/config"
	"creditbot/models"
)

func setupDailyTest(now time.Time) (*MockUnitOfWork, *MockBalanceRepository, *MockTransactionRepository, *dailyService) {
	factory := new(MockUnitOfWorkFactory)
	uow := new(MockUnitOfWork)
	balanceRepo := new(MockBalanceRepository)
	txnRepo := new(MockTransactionRepository)
	uow.SetRepositories(nil, nil, balanceRepo, txnRepo, nil)
	factory.On("Create").Return(uow)

	svc := &dailyService{
		uowFactory:  factory,
		balanceRepo: balanceRepo,
		config:      config.NewTestConfig(""),
		now:         func() time.Time { return now },
	}
	return uow, balanceRepo, txnRepo, svc
}

func TestCanClaimDaily(t *testing.T) {
	ctx := context.Background()
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("claimable when never claimed", func(t *testing.T) {
		_, balanceRepo, _, svc := setupDailyTest(noon)
		balanceRepo.On("Get", ctx, "user1", "server1").Return(&models.Balance{Credits: 500}, nil)

		ok, err := svc.CanClaimDaily(ctx, "user1", "server1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not claimable twice in one day", func(t *testing.T) {
		_, balanceRepo, _, svc := setupDailyTest(noon)
		claimed := noon.Add(-3 * time.Hour)
		balanceRepo.On("Get", ctx, "user1", "server1").Return(&models.Balance{
			Credits:         500,
			LastDailyReward: &claimed,
		}, nil)

		ok, err := svc.CanClaimDaily(ctx, "user1", "server1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("eligibility resets at midnight", func(t *testing.T) {
		justAfterMidnight := time.Date(2025, 6, 15, 0, 0, 1, 0, time.UTC)
		_, balanceRepo, _, svc := setupDailyTest(justAfterMidnight)
		claimed := time.Date(2025, 6, 14, 23, 59, 59, 0, time.UTC)
		balanceRepo.On("Get", ctx, "user1", "server1").Return(&models.Balance{
			Credits:         500,
			LastDailyReward: &claimed,
		}, nil)

		ok, err := svc.CanClaimDaily(ctx, "user1", "server1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no account maps to ErrNoBalance", func(t *testing.T) {
		_, balanceRepo, _, svc := setupDailyTest(noon)
		balanceRepo.On("Get", ctx, "user1", "server1").Return(nil, nil)

		_, err := svc.CanClaimDaily(ctx, "user1", "server1")
		assert.ErrorIs(t, err, ErrNoBalance)
	})
}

func TestClaimDaily(t *testing.T) {
	ctx := context.Background()
	noon := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("grants the reward and stamps the claim", func(t *testing.T) {
		uow, balanceRepo, txnRepo, svc := setupDailyTest(noon)
		uow.On("Begin", mock.Anything).Return(nil)
		uow.On("Commit").Return(nil)
		uow.On("Rollback").Return(nil)

		balanceRepo.On("Get", ctx, "user1", "server1").Return(&models.Balance{Credits: 500}, nil)
		balanceRepo.On("Add", ctx, "user1", "server1", int64(100)).Return(int64(600), nil)
		balanceRepo.On("StampDailyReward", ctx, "user1", "server1", noon).Return(nil)
		txnRepo.On("Record", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
			return txn.Type == models.TransactionTypeDaily &&
				txn.Amount == 100 &&
				txn.NewBalance == 600
		})).Return(nil)

		result, err := svc.ClaimDaily(ctx, "user1", "server1")
		require.NoError(t, err)
		assert.True(t, result.Claimed)
		assert.Equal(t, int64(100), result.Amount)
		assert.Equal(t, int64(600), result.NewBalance)
		balanceRepo.AssertExpectations(t)
		uow.AssertCalled(t, "Commit")
	})

	t.Run("second claim the same day is declined", func(t *testing.T) {
		uow, balanceRepo, txnRepo, svc := setupDailyTest(noon)
		uow.On("Begin", mock.Anything).Return(nil)
		uow.On("Rollback").Return(nil)

		claimed := noon.Add(-1 * time.Hour)
		balanceRepo.On("Get", ctx, "user1", "server1").Return(&models.Balance{
			Credits:         600,
			LastDailyReward: &claimed,
		}, nil)

		_, err := svc.ClaimDaily(ctx, "user1", "server1")
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
		uow.AssertNotCalled(t, "Commit")
		txnRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("no account maps to ErrNoBalance", func(t *testing.T) {
		uow, balanceRepo, _, svc := setupDailyTest(noon)
		uow.On("Begin", mock.Anything).Return(nil)
		uow.On("Rollback").Return(nil)

		balanceRepo.On("Get", ctx, "user1", "server1").Return(nil, nil)

		_, err := svc.ClaimDaily(ctx, "user1", "server1")
		assert.ErrorIs(t, err, ErrNoBalance)
	})
}
