package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creditbot/database"
	"creditbot/models"
	"creditbot/service"
)

// BalanceRepository implements the BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.DB}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

// Get retrieves a user's balance on a server
func (r *BalanceRepository) Get(ctx context.Context, userID, serverID string) (*models.Balance, error) {
	query := `
		SELECT user_id, server_id, credits, last_transaction, last_daily_reward
		FROM user_credits
		WHERE user_id = ? AND server_id = ?
	`

	var balance models.Balance
	var lastDaily sql.NullTime
	err := r.q.QueryRowContext(ctx, query, userID, serverID).Scan(
		&balance.UserID,
		&balance.ServerID,
		&balance.Credits,
		&balance.LastTransaction,
		&lastDaily,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %s on server %s: %w", userID, serverID, err)
	}

	if lastDaily.Valid {
		t := lastDaily.Time
		balance.LastDailyReward = &t
	}

	return &balance, nil
}

// Create initializes a balance row with the given credits
func (r *BalanceRepository) Create(ctx context.Context, userID, serverID string, credits int64) error {
	query := `
		INSERT INTO user_credits (user_id, server_id, credits, last_transaction)
		VALUES (?, ?, ?, ?)
	`

	if _, err := r.q.ExecContext(ctx, query, userID, serverID, credits, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create balance for user %s on server %s: %w", userID, serverID, err)
	}

	return nil
}

// Add credits a balance atomically and returns the new balance
func (r *BalanceRepository) Add(ctx context.Context, userID, serverID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, service.ErrInvalidAmount
	}

	query := `
		UPDATE user_credits
		SET credits = credits + ?, last_transaction = ?
		WHERE user_id = ? AND server_id = ?
		RETURNING credits
	`

	var newBalance int64
	err := r.q.QueryRowContext(ctx, query, amount, time.Now().UTC(), userID, serverID).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, service.ErrNoBalance
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add credits for user %s on server %s: %w", userID, serverID, err)
	}

	return newBalance, nil
}

// Deduct debits a balance atomically, failing if insufficient funds. The
// balance check and the write are a single statement so a concurrent debit
// can never push the balance below zero.
func (r *BalanceRepository) Deduct(ctx context.Context, userID, serverID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, service.ErrInvalidAmount
	}

	query := `
		UPDATE user_credits
		SET credits = credits - ?, last_transaction = ?
		WHERE user_id = ? AND server_id = ? AND credits >= ?
		RETURNING credits
	`

	var newBalance int64
	err := r.q.QueryRowContext(ctx, query, amount, time.Now().UTC(), userID, serverID, amount).Scan(&newBalance)
	if err == sql.ErrNoRows {
		// Distinguish a missing balance from an insufficient one
		balance, getErr := r.Get(ctx, userID, serverID)
		if getErr != nil {
			return 0, fmt.Errorf("failed to check balance: %w", getErr)
		}
		if balance == nil {
			return 0, service.ErrNoBalance
		}
		return 0, service.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct credits for user %s on server %s: %w", userID, serverID, err)
	}

	return newBalance, nil
}

// StampDailyReward records the time of a successful daily claim
func (r *BalanceRepository) StampDailyReward(ctx context.Context, userID, serverID string, claimedAt time.Time) error {
	query := `
		UPDATE user_credits
		SET last_daily_reward = ?
		WHERE user_id = ? AND server_id = ?
	`

	result, err := r.q.ExecContext(ctx, query, claimedAt.UTC(), userID, serverID)
	if err != nil {
		return fmt.Errorf("failed to stamp daily reward for user %s on server %s: %w", userID, serverID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check daily reward stamp: %w", err)
	}
	if rows == 0 {
		return service.ErrNoBalance
	}

	return nil
}

// GetLeaderboard returns the top balances on a server, richest first
func (r *BalanceRepository) GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT uc.user_id, u.username, uc.credits
		FROM user_credits uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.server_id = ?
		ORDER BY uc.credits DESC, uc.user_id
		LIMIT ?
	`

	rows, err := r.q.QueryContext(ctx, query, serverID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for server %s: %w", serverID, err)
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

// GetBottom returns every balance tied at the server minimum
func (r *BalanceRepository) GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT uc.user_id, u.username, uc.credits
		FROM user_credits uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.server_id = ?
		  AND uc.credits = (SELECT MIN(credits) FROM user_credits WHERE server_id = ?)
		ORDER BY uc.user_id
	`

	rows, err := r.q.QueryContext(ctx, query, serverID, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bottom balances for server %s: %w", serverID, err)
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

// GetServerTotals returns the holder count and credit sum for a server
func (r *BalanceRepository) GetServerTotals(ctx context.Context, serverID string) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(credits), 0)
		FROM user_credits
		WHERE server_id = ?
	`

	var totalUsers, totalCredits int64
	if err := r.q.QueryRowContext(ctx, query, serverID).Scan(&totalUsers, &totalCredits); err != nil {
		return 0, 0, fmt.Errorf("failed to get totals for server %s: %w", serverID, err)
	}

	return totalUsers, totalCredits, nil
}

func scanLeaderboard(rows *sql.Rows) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.Credits); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard entries: %w", err)
	}

	return entries, nil
}
