package service

import (
	"context"
	"errors"
	"fmt"

	"creditbot/config"
	"creditbot/models"

	log "github.com/sirupsen/logrus"
)

// CreditsFacade is the single entry point the bot layer talks to. It
// validates inputs before they reach the ledger and translates errors into
// user-facing decline messages.
type CreditsFacade struct {
	config   *config.Config
	ledger   LedgerService
	daily    DailyService
	stats    StatsService
	identity IdentityService
	backup   BackupService
}

// NewCreditsFacade creates a new credits facade
func NewCreditsFacade(cfg *config.Config, ledger LedgerService, daily DailyService, stats StatsService, identity IdentityService, backup BackupService) *CreditsFacade {
	return &CreditsFacade{
		config:   cfg,
		ledger:   ledger,
		daily:    daily,
		stats:    stats,
		identity: identity,
		backup:   backup,
	}
}

// EnsureMember registers the server and user records behind a command.
// Registration failures are logged and swallowed so a bookkeeping problem
// never blocks the command itself.
func (f *CreditsFacade) EnsureMember(ctx context.Context, serverID, serverName, userID, username, discriminator string) {
	if serverID != "" {
		if err := f.identity.EnsureServer(ctx, serverID, serverName); err != nil {
			log.WithFields(log.Fields{
				"serverID": serverID,
				"error":    err,
			}).Warn("Failed to register server")
		}
	}
	if userID == "" {
		return
	}
	if err := f.identity.EnsureUser(ctx, userID, username, discriminator); err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
			"error":  err,
		}).Warn("Failed to register user")
	}
}

// GetBalance returns a user's balance, ErrNoBalance if never initialized
func (f *CreditsFacade) GetBalance(ctx context.Context, userID, serverID string) (*models.Balance, error) {
	return f.ledger.GetBalance(ctx, userID, serverID)
}

// GetOrCreateBalance returns a user's balance, creating it with the
// configured initial credits on first contact. The second return value
// reports whether this call created it.
func (f *CreditsFacade) GetOrCreateBalance(ctx context.Context, userID, serverID string) (*models.Balance, bool, error) {
	return f.ledger.InitializeBalance(ctx, userID, serverID)
}

// AddCredits credits a user after validating the amount
func (f *CreditsFacade) AddCredits(ctx context.Context, userID, serverID string, amount int64, txType models.TransactionType, reason string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return f.ledger.AddCredits(ctx, userID, serverID, amount, txType, reason)
}

// SubtractCredits debits a user after validating the amount
func (f *CreditsFacade) SubtractCredits(ctx context.Context, userID, serverID string, amount int64, txType models.TransactionType, reason string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return f.ledger.SubtractCredits(ctx, userID, serverID, amount, txType, reason)
}

// Transfer moves credits between users, enforcing the configured bounds
func (f *CreditsFacade) Transfer(ctx context.Context, fromUserID, toUserID, serverID string, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount < f.config.MinTransfer || amount > f.config.MaxTransfer {
		return nil, ErrTransferOutOfBounds
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}
	return f.ledger.TransferCredits(ctx, fromUserID, toUserID, serverID, amount)
}

// CanClaimDaily reports whether the daily reward is currently claimable
func (f *CreditsFacade) CanClaimDaily(ctx context.Context, userID, serverID string) (bool, error) {
	return f.daily.CanClaimDaily(ctx, userID, serverID)
}

// ClaimDaily grants the daily reward if eligible
func (f *CreditsFacade) ClaimDaily(ctx context.Context, userID, serverID string) (*models.ClaimResult, error) {
	return f.daily.ClaimDaily(ctx, userID, serverID)
}

// GetLeaderboard returns the top balances on a server
func (f *CreditsFacade) GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = f.config.LeaderboardSize
	}
	return f.stats.GetLeaderboard(ctx, serverID, limit)
}

// GetBottom returns all users tied at the server minimum
func (f *CreditsFacade) GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error) {
	return f.stats.GetBottom(ctx, serverID)
}

// GetServerStats returns the aggregate economy snapshot for a server
func (f *CreditsFacade) GetServerStats(ctx context.Context, serverID string) (*models.ServerStats, error) {
	return f.stats.GetServerStats(ctx, serverID)
}

// GetRecentTransactions returns a user's recent ledger entries
func (f *CreditsFacade) GetRecentTransactions(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error) {
	return f.stats.GetRecentTransactions(ctx, userID, serverID, limit)
}

// Backup snapshots the store to the configured backup path
func (f *CreditsFacade) Backup(ctx context.Context) (string, error) {
	return f.backup.Backup(ctx)
}

// IsAdmin reports whether a member may use admin commands: the server
// owner, anyone holding Administrator, or anyone with a configured admin
// role name.
func (f *CreditsFacade) IsAdmin(ownerID, userID string, roleNames []string, hasAdministrator bool) bool {
	if userID == ownerID {
		return true
	}
	if hasAdministrator {
		return true
	}
	for _, name := range roleNames {
		for _, admin := range f.config.AdminRoles {
			if name == admin {
				return true
			}
		}
	}
	return false
}

// DeclineReason maps an error to a user-facing message. Unknown errors get
// a generic message so internals never leak into chat.
func (f *CreditsFacade) DeclineReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "Amount must be a positive number."
	case errors.Is(err, ErrTransferOutOfBounds):
		return fmt.Sprintf("Transfers must be between %d and %d credits.", f.config.MinTransfer, f.config.MaxTransfer)
	case errors.Is(err, ErrSelfTransfer):
		return "You can't transfer credits to yourself."
	case errors.Is(err, ErrInsufficientFunds):
		return "You don't have enough credits for that."
	case errors.Is(err, ErrNoBalance):
		return "No credits account found on this server. Check your balance first to create one."
	case errors.Is(err, ErrAlreadyClaimed):
		return "You've already claimed your daily reward today. Come back after midnight!"
	default:
		return "Something went wrong. Please try again."
	}
}
