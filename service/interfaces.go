package service

import (
	"context"
	"time"

	"creditbot/events"
	"creditbot/models"
)

// ServerRepository defines the interface for server data access
type ServerRepository interface {
	// Upsert registers a server or refreshes its name, reactivating it if
	// it was marked inactive
	Upsert(ctx context.Context, serverID, serverName string) error

	// Get retrieves a server by ID, nil if unknown
	Get(ctx context.Context, serverID string) (*models.Server, error)

	// SetActive marks a server active or inactive
	SetActive(ctx context.Context, serverID string, active bool) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert registers a user or refreshes mutable fields and last_seen
	Upsert(ctx context.Context, userID, username, discriminator string) error

	// Get retrieves a user by ID, nil if unknown
	Get(ctx context.Context, userID string) (*models.User, error)
}

// BalanceRepository defines the interface for per-server credit holdings
type BalanceRepository interface {
	// Get retrieves a user's balance on a server, nil if never initialized
	Get(ctx context.Context, userID, serverID string) (*models.Balance, error)

	// Create initializes a balance row with the given credits
	Create(ctx context.Context, userID, serverID string, credits int64) error

	// Add credits a balance atomically and returns the new balance
	Add(ctx context.Context, userID, serverID string, amount int64) (int64, error)

	// Deduct debits a balance atomically, failing with ErrInsufficientFunds
	// when the balance cannot cover the amount; returns the new balance
	Deduct(ctx context.Context, userID, serverID string, amount int64) (int64, error)

	// StampDailyReward records the time of a successful daily claim
	StampDailyReward(ctx context.Context, userID, serverID string, claimedAt time.Time) error

	// GetLeaderboard returns the top balances on a server, richest first
	GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error)

	// GetBottom returns every balance tied at the server minimum
	GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error)

	// GetServerTotals returns the holder count and credit sum for a server
	GetServerTotals(ctx context.Context, serverID string) (totalUsers int64, totalCredits int64, err error)
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Record appends a ledger entry
	Record(ctx context.Context, txn *models.Transaction) error

	// GetRecentByUser returns a user's most recent entries on a server
	GetRecentByUser(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error)

	// CountByServer returns the number of ledger entries for a server
	CountByServer(ctx context.Context, serverID string) (int64, error)
}

// LedgerService defines the interface for balance operations
type LedgerService interface {
	// GetBalance returns a user's balance, ErrNoBalance if never initialized
	GetBalance(ctx context.Context, userID, serverID string) (*models.Balance, error)

	// InitializeBalance creates a balance with the configured initial
	// credits; a no-op returning the existing balance if one exists
	InitializeBalance(ctx context.Context, userID, serverID string) (*models.Balance, bool, error)

	// AddCredits credits a user and records a ledger entry
	AddCredits(ctx context.Context, userID, serverID string, amount int64, txType models.TransactionType, reason string) (int64, error)

	// SubtractCredits debits a user and records a ledger entry, failing
	// with ErrInsufficientFunds when the balance cannot cover the amount
	SubtractCredits(ctx context.Context, userID, serverID string, amount int64, txType models.TransactionType, reason string) (int64, error)

	// TransferCredits moves credits between two users atomically
	TransferCredits(ctx context.Context, fromUserID, toUserID, serverID string, amount int64) (*models.TransferResult, error)
}

// DailyService defines the interface for the daily reward
type DailyService interface {
	// CanClaimDaily reports whether the user's last claim predates the most
	// recent local midnight
	CanClaimDaily(ctx context.Context, userID, serverID string) (bool, error)

	// ClaimDaily grants the daily reward if eligible; grant, ledger entry
	// and claim stamp commit together
	ClaimDaily(ctx context.Context, userID, serverID string) (*models.ClaimResult, error)
}

// StatsService defines the interface for read-side queries
type StatsService interface {
	// GetLeaderboard returns the top balances on a server
	GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error)

	// GetBottom returns all users tied at the server's minimum balance
	GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error)

	// GetServerStats returns the aggregate economy snapshot for a server
	GetServerStats(ctx context.Context, serverID string) (*models.ServerStats, error)

	// GetRecentTransactions returns a user's recent ledger entries
	GetRecentTransactions(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error)
}

// IdentityService defines the interface for server/user registration
type IdentityService interface {
	// EnsureServer registers or refreshes a server record
	EnsureServer(ctx context.Context, serverID, serverName string) error

	// EnsureUser registers or refreshes a user record
	EnsureUser(ctx context.Context, userID, username, discriminator string) error
}

// BackupService defines the interface for store snapshots
type BackupService interface {
	// Backup snapshots the store to the configured backup path
	Backup(ctx context.Context) (string, error)

	// BackupTo snapshots the store to an explicit path
	BackupTo(ctx context.Context, path string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	ServerRepository() ServerRepository
	UserRepository() UserRepository
	BalanceRepository() BalanceRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
