package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditbot/models"
	"creditbot/repository/testutil"
)

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewTransactionRepository(db)

	testutil.SeedIdentity(t, db, "server1", "user1")

	t.Run("record assigns an id", func(t *testing.T) {
		txn := &models.Transaction{
			UserID:     "user1",
			ServerID:   "server1",
			Amount:     500,
			Type:       models.TransactionTypeInitial,
			Reason:     "Welcome credits",
			NewBalance: 500,
		}
		require.NoError(t, repo.Record(ctx, txn))
		assert.NotZero(t, txn.ID)
		assert.False(t, txn.Timestamp.IsZero())
	})

	t.Run("recent entries come back newest first", func(t *testing.T) {
		for _, amount := range []int64{100, -50, 25} {
			txType := models.TransactionTypeGameWin
			if amount < 0 {
				txType = models.TransactionTypeGameLoss
			}
			require.NoError(t, repo.Record(ctx, &models.Transaction{
				UserID:   "user1",
				ServerID: "server1",
				Amount:   amount,
				Type:     txType,
			}))
		}

		transactions, err := repo.GetRecentByUser(ctx, "user1", "server1", 2)
		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, int64(25), transactions[0].Amount)
		assert.Equal(t, int64(-50), transactions[1].Amount)
		assert.Equal(t, models.TransactionTypeGameLoss, transactions[1].Type)
	})

	t.Run("empty reason round-trips as empty", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, &models.Transaction{
			UserID:   "user1",
			ServerID: "server1",
			Amount:   1,
			Type:     models.TransactionTypeReward,
		}))

		transactions, err := repo.GetRecentByUser(ctx, "user1", "server1", 1)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Empty(t, transactions[0].Reason)
	})

	t.Run("count by server", func(t *testing.T) {
		count, err := repo.CountByServer(ctx, "server1")
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)

		count, err = repo.CountByServer(ctx, "nowhere")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
