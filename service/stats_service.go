package service

import (
	"context"
	"fmt"

	"creditbot/models"
)

// statsService implements the StatsService interface
type statsService struct {
	balanceRepo     BalanceRepository
	transactionRepo TransactionRepository
}

// NewStatsService creates a new stats service. Stats are read-only so the
// repositories are used directly, outside any unit of work.
func NewStatsService(balanceRepo BalanceRepository, transactionRepo TransactionRepository) StatsService {
	return &statsService{
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
	}
}

// GetLeaderboard returns the top balances on a server
func (s *statsService) GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error) {
	entries, err := s.balanceRepo.GetLeaderboard(ctx, serverID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

// GetBottom returns all users tied at the server's minimum balance
func (s *statsService) GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error) {
	entries, err := s.balanceRepo.GetBottom(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bottom balances: %w", err)
	}
	return entries, nil
}

// GetServerStats returns the aggregate economy snapshot for a server
func (s *statsService) GetServerStats(ctx context.Context, serverID string) (*models.ServerStats, error) {
	totalUsers, totalCredits, err := s.balanceRepo.GetServerTotals(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get server totals: %w", err)
	}

	totalTransactions, err := s.transactionRepo.CountByServer(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	stats := &models.ServerStats{
		ServerID:          serverID,
		TotalUsers:        totalUsers,
		TotalCredits:      totalCredits,
		TotalTransactions: totalTransactions,
	}
	if totalUsers > 0 {
		stats.AverageCredits = float64(totalCredits) / float64(totalUsers)
	}

	return stats, nil
}

// GetRecentTransactions returns a user's recent ledger entries
func (s *statsService) GetRecentTransactions(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error) {
	transactions, err := s.transactionRepo.GetRecentByUser(ctx, userID, serverID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}
