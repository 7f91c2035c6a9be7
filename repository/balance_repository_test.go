package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditbot/repository/testutil"
	"creditbot/service"
)

func TestBalanceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewBalanceRepository(db)

	testutil.SeedIdentity(t, db, "server1", "user1")
	testutil.SeedIdentity(t, db, "server1", "user2")

	t.Run("get before create returns nil", func(t *testing.T) {
		balance, err := repo.Get(ctx, "user1", "server1")
		require.NoError(t, err)
		assert.Nil(t, balance)
	})

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, "user1", "server1", 500))

		balance, err := repo.Get(ctx, "user1", "server1")
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, int64(500), balance.Credits)
		assert.Nil(t, balance.LastDailyReward)
	})

	t.Run("add returns the new balance", func(t *testing.T) {
		newBalance, err := repo.Add(ctx, "user1", "server1", 250)
		require.NoError(t, err)
		assert.Equal(t, int64(750), newBalance)
	})

	t.Run("add to a missing balance", func(t *testing.T) {
		_, err := repo.Add(ctx, "ghost", "server1", 100)
		assert.ErrorIs(t, err, service.ErrNoBalance)
	})

	t.Run("deduct succeeds with sufficient funds", func(t *testing.T) {
		newBalance, err := repo.Deduct(ctx, "user1", "server1", 50)
		require.NoError(t, err)
		assert.Equal(t, int64(700), newBalance)
	})

	t.Run("deduct never overdraws", func(t *testing.T) {
		_, err := repo.Deduct(ctx, "user1", "server1", 100000)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)

		balance, err := repo.Get(ctx, "user1", "server1")
		require.NoError(t, err)
		assert.Equal(t, int64(700), balance.Credits)
	})

	t.Run("deduct from a missing balance", func(t *testing.T) {
		_, err := repo.Deduct(ctx, "ghost", "server1", 10)
		assert.ErrorIs(t, err, service.ErrNoBalance)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := repo.Add(ctx, "user1", "server1", 0)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)

		_, err = repo.Deduct(ctx, "user1", "server1", -10)
		assert.ErrorIs(t, err, service.ErrInvalidAmount)
	})

	t.Run("stamp daily reward", func(t *testing.T) {
		claimedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.StampDailyReward(ctx, "user1", "server1", claimedAt))

		balance, err := repo.Get(ctx, "user1", "server1")
		require.NoError(t, err)
		require.NotNil(t, balance.LastDailyReward)
		assert.True(t, balance.LastDailyReward.Equal(claimedAt))

		err = repo.StampDailyReward(ctx, "ghost", "server1", claimedAt)
		assert.ErrorIs(t, err, service.ErrNoBalance)
	})
}

func TestBalanceRepositoryLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewBalanceRepository(db)

	users := map[string]int64{
		"alice": 10,
		"bob":   50,
		"carol": 50,
		"dave":  0,
	}
	for userID, credits := range users {
		testutil.SeedIdentity(t, db, "server1", userID)
		require.NoError(t, repo.Create(ctx, userID, "server1", credits))
	}
	// A balance on another server must never leak in
	testutil.SeedIdentity(t, db, "server2", "eve")
	require.NoError(t, repo.Create(ctx, "eve", "server2", 9999))

	t.Run("orders by credits with stable ties", func(t *testing.T) {
		entries, err := repo.GetLeaderboard(ctx, "server1", 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, "bob", entries[0].UserID)
		assert.Equal(t, "carol", entries[1].UserID)
		assert.Equal(t, "alice", entries[2].UserID)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, 3, entries[2].Rank)
	})

	t.Run("bottom returns everyone at the minimum", func(t *testing.T) {
		entries, err := repo.GetBottom(ctx, "server1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "dave", entries[0].UserID)
		assert.Equal(t, int64(0), entries[0].Credits)
	})

	t.Run("bottom includes ties", func(t *testing.T) {
		testutil.SeedIdentity(t, db, "server1", "erin")
		require.NoError(t, repo.Create(ctx, "erin", "server1", 0))

		entries, err := repo.GetBottom(ctx, "server1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "dave", entries[0].UserID)
		assert.Equal(t, "erin", entries[1].UserID)
	})

	t.Run("server totals", func(t *testing.T) {
		totalUsers, totalCredits, err := repo.GetServerTotals(ctx, "server1")
		require.NoError(t, err)
		assert.Equal(t, int64(5), totalUsers)
		assert.Equal(t, int64(110), totalCredits)
	})

	t.Run("empty server totals", func(t *testing.T) {
		totalUsers, totalCredits, err := repo.GetServerTotals(ctx, "nowhere")
		require.NoError(t, err)
		assert.Equal(t, int64(0), totalUsers)
		assert.Equal(t, int64(0), totalCredits)
	})
}

func TestBalanceRepositoryConcurrentDeducts(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewBalanceRepository(db)

	testutil.SeedIdentity(t, db, "server1", "user1")
	require.NoError(t, repo.Create(ctx, "user1", "server1", 100))

	// 20 workers each try to take 10; only 10 can succeed
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Deduct(ctx, "user1", "server1", 10); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)

	balance, err := repo.Get(ctx, "user1", "server1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Credits)
}
