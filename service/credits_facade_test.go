package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditbot/config"
	"creditbot/models"
)

// stubStats captures the limit passed through the facade.
type stubStats struct {
	gotLimit int
}

func (s *stubStats) GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error) {
	s.gotLimit = limit
	return []*models.LeaderboardEntry{}, nil
}

func (s *stubStats) GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error) {
	return []*models.LeaderboardEntry{}, nil
}

func (s *stubStats) GetServerStats(ctx context.Context, serverID string) (*models.ServerStats, error) {
	return &models.ServerStats{}, nil
}

func (s *stubStats) GetRecentTransactions(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error) {
	return []*models.Transaction{}, nil
}

func newTestFacade() *CreditsFacade {
	return NewCreditsFacade(config.NewTestConfig(""), nil, nil, nil, nil, nil)
}

func TestFacadeTransferValidation(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade()

	t.Run("zero amount", func(t *testing.T) {
		_, err := facade.Transfer(ctx, "a", "b", "server1", 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("above the configured maximum", func(t *testing.T) {
		_, err := facade.Transfer(ctx, "a", "b", "server1", 1001)
		assert.ErrorIs(t, err, ErrTransferOutOfBounds)
	})

	t.Run("self transfer", func(t *testing.T) {
		_, err := facade.Transfer(ctx, "a", "a", "server1", 50)
		assert.ErrorIs(t, err, ErrSelfTransfer)
	})
}

func TestFacadeAmountValidation(t *testing.T) {
	ctx := context.Background()
	facade := newTestFacade()

	_, err := facade.AddCredits(ctx, "a", "server1", 0, models.TransactionTypeReward, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = facade.SubtractCredits(ctx, "a", "server1", -1, models.TransactionTypePurchase, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFacadeLeaderboardDefaultLimit(t *testing.T) {
	stats := &stubStats{}
	facade := NewCreditsFacade(config.NewTestConfig(""), nil, nil, stats, nil, nil)

	_, err := facade.GetLeaderboard(context.Background(), "server1", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.gotLimit)

	_, err = facade.GetLeaderboard(context.Background(), "server1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.gotLimit)
}

func TestIsAdmin(t *testing.T) {
	facade := newTestFacade()

	t.Run("server owner", func(t *testing.T) {
		assert.True(t, facade.IsAdmin("owner1", "owner1", nil, false))
	})

	t.Run("administrator permission", func(t *testing.T) {
		assert.True(t, facade.IsAdmin("owner1", "user1", nil, true))
	})

	t.Run("configured admin role", func(t *testing.T) {
		assert.True(t, facade.IsAdmin("owner1", "user1", []string{"Members", "Moderator"}, false))
	})

	t.Run("regular member", func(t *testing.T) {
		assert.False(t, facade.IsAdmin("owner1", "user1", []string{"Members"}, false))
	})
}

func TestDeclineReason(t *testing.T) {
	facade := newTestFacade()

	cases := []struct {
		err  error
		want string
	}{
		{ErrInvalidAmount, "Amount must be a positive number."},
		{ErrTransferOutOfBounds, "Transfers must be between 1 and 1000 credits."},
		{ErrSelfTransfer, "You can't transfer credits to yourself."},
		{ErrInsufficientFunds, "You don't have enough credits for that."},
		{ErrNoBalance, "No credits account found on this server. Check your balance first to create one."},
		{ErrAlreadyClaimed, "You've already claimed your daily reward today. Come back after midnight!"},
		{errors.New("sqlite exploded"), "Something went wrong. Please try again."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, facade.DeclineReason(tc.err))
	}
}
