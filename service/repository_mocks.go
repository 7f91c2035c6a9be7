package service

import (
	"context"
	"time"

	"creditbot/events"
	"creditbot/models"

	"github.com/stretchr/testify/mock"
)

// MockServerRepository is a mock implementation of ServerRepository
type MockServerRepository struct {
	mock.Mock
}

func (m *MockServerRepository) Upsert(ctx context.Context, serverID, serverName string) error {
	args := m.Called(ctx, serverID, serverName)
	return args.Error(0)
}

func (m *MockServerRepository) Get(ctx context.Context, serverID string) (*models.Server, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Server), args.Error(1)
}

func (m *MockServerRepository) SetActive(ctx context.Context, serverID string, active bool) error {
	args := m.Called(ctx, serverID, active)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, userID, username, discriminator string) error {
	args := m.Called(ctx, userID, username, discriminator)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Get(ctx context.Context, userID, serverID string) (*models.Balance, error) {
	args := m.Called(ctx, userID, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Create(ctx context.Context, userID, serverID string, credits int64) error {
	args := m.Called(ctx, userID, serverID, credits)
	return args.Error(0)
}

func (m *MockBalanceRepository) Add(ctx context.Context, userID, serverID string, amount int64) (int64, error) {
	args := m.Called(ctx, userID, serverID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) Deduct(ctx context.Context, userID, serverID string, amount int64) (int64, error) {
	args := m.Called(ctx, userID, serverID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) StampDailyReward(ctx context.Context, userID, serverID string, claimedAt time.Time) error {
	args := m.Called(ctx, userID, serverID, claimedAt)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetLeaderboard(ctx context.Context, serverID string, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, serverID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockBalanceRepository) GetBottom(ctx context.Context, serverID string) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockBalanceRepository) GetServerTotals(ctx context.Context, serverID string) (int64, int64, error) {
	args := m.Called(ctx, serverID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetRecentByUser(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, serverID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByServer(ctx context.Context, serverID string) (int64, error) {
	args := m.Called(ctx, serverID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher discards every event. Handy when a test doesn't care
// about events.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	serverRepo      ServerRepository
	userRepo        UserRepository
	balanceRepo     BalanceRepository
	transactionRepo TransactionRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories returned by the getters. A nil
// event bus falls back to a no-op publisher.
func (m *MockUnitOfWork) SetRepositories(serverRepo ServerRepository, userRepo UserRepository, balanceRepo BalanceRepository, transactionRepo TransactionRepository, eventBus EventPublisher) {
	m.serverRepo = serverRepo
	m.userRepo = userRepo
	m.balanceRepo = balanceRepo
	m.transactionRepo = transactionRepo
	if eventBus == nil {
		eventBus = NoopEventPublisher{}
	}
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ServerRepository() ServerRepository {
	return m.serverRepo
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) BalanceRepository() BalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
