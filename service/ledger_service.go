package service

import (
	"context"
	"fmt"

	"creditbot/config"
	"creditbot/events"
	"creditbot/models"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory  UnitOfWorkFactory
	balanceRepo BalanceRepository
	config      *config.Config
}

// NewLedgerService creates a new ledger service. Reads go through the
// plain balance repository; every write runs inside a unit of work.
func NewLedgerService(uowFactory UnitOfWorkFactory, balanceRepo BalanceRepository, cfg *config.Config) LedgerService {
	return &ledgerService{
		uowFactory:  uowFactory,
		balanceRepo: balanceRepo,
		config:      cfg,
	}
}

// GetBalance returns a user's balance on a server
func (s *ledgerService) GetBalance(ctx context.Context, userID, serverID string) (*models.Balance, error) {
	balance, err := s.balanceRepo.Get(ctx, userID, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, ErrNoBalance
	}
	return balance, nil
}

// InitializeBalance creates a balance with the configured initial credits.
// Returns the balance and whether it was created by this call.
func (s *ledgerService) InitializeBalance(ctx context.Context, userID, serverID string) (*models.Balance, bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.BalanceRepository().Get(ctx, userID, serverID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing balance: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	initial := s.config.InitialCredits
	if err := uow.BalanceRepository().Create(ctx, userID, serverID, initial); err != nil {
		return nil, false, fmt.Errorf("failed to create balance: %w", err)
	}

	txn := &models.Transaction{
		UserID:     userID,
		ServerID:   serverID,
		Amount:     initial,
		Type:       models.TransactionTypeInitial,
		Reason:     "Welcome credits",
		NewBalance: initial,
	}
	if err := RecordBalanceChange(ctx, uow, txn); err != nil {
		return nil, false, fmt.Errorf("failed to record initial balance: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:         userID,
		ServerID:       serverID,
		InitialCredits: initial,
	})

	if err := uow.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	balance, err := s.balanceRepo.Get(ctx, userID, serverID)
	if err != nil {
		return nil, true, fmt.Errorf("failed to reload balance: %w", err)
	}
	return balance, true, nil
}

// AddCredits credits a user and records a ledger entry
func (s *ledgerService) AddCredits(ctx context.Context, userID, serverID string, amount int64, txType models.TransactionType, reason string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	txType = models.NormalizeCreditType(txType)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.BalanceRepository().Add(ctx, userID, serverID, amount)
	if err != nil {
		return 0, err
	}

	txn := &models.Transaction{
		UserID:     userID,
		ServerID:   serverID,
		Amount:     amount,
		Type:       txType,
		Reason:     reason,
		NewBalance: newBalance,
	}
	if err := RecordBalanceChange(ctx, uow, txn); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

// SubtractCredits debits a user and records a ledger entry
func (s *ledgerService) SubtractCredits(ctx context.Context, userID, serverID string, amount int64, txType models.TransactionType, reason string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	txType = models.NormalizeDebitType(txType)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.BalanceRepository().Deduct(ctx, userID, serverID, amount)
	if err != nil {
		return 0, err
	}

	txn := &models.Transaction{
		UserID:     userID,
		ServerID:   serverID,
		Amount:     -amount,
		Type:       txType,
		Reason:     reason,
		NewBalance: newBalance,
	}
	if err := RecordBalanceChange(ctx, uow, txn); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

// TransferCredits moves credits between two users on the same server. Both
// legs and both ledger entries commit in one transaction, so a transfer
// either happens completely or not at all.
func (s *ledgerService) TransferCredits(ctx context.Context, fromUserID, toUserID, serverID string, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	fromBalance, err := uow.BalanceRepository().Deduct(ctx, fromUserID, serverID, amount)
	if err != nil {
		return nil, err
	}

	toBalance, err := uow.BalanceRepository().Add(ctx, toUserID, serverID, amount)
	if err != nil {
		return nil, err
	}

	fromTxn := &models.Transaction{
		UserID:     fromUserID,
		ServerID:   serverID,
		Amount:     -amount,
		Type:       models.TransactionTypeTransferOut,
		Reason:     fmt.Sprintf("Transfer to %s", toUserID),
		NewBalance: fromBalance,
	}
	if err := RecordBalanceChange(ctx, uow, fromTxn); err != nil {
		return nil, err
	}

	toTxn := &models.Transaction{
		UserID:     toUserID,
		ServerID:   serverID,
		Amount:     amount,
		Type:       models.TransactionTypeTransferIn,
		Reason:     fmt.Sprintf("Transfer from %s", fromUserID),
		NewBalance: toBalance,
	}
	if err := RecordBalanceChange(ctx, uow, toTxn); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		FromUserID:     fromUserID,
		ToUserID:       toUserID,
		Amount:         amount,
		FromNewBalance: fromBalance,
		ToNewBalance:   toBalance,
	}, nil
}
