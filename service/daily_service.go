package service

import (
	"context"
	"fmt"
	"time"

	"creditbot/config"
	"creditbot/events"
	"creditbot/models"
)

// dailyService implements the DailyService interface
type dailyService struct {
	uowFactory  UnitOfWorkFactory
	balanceRepo BalanceRepository
	config      *config.Config

	// now is swappable so boundary behavior can be tested
	now func() time.Time
}

// NewDailyService creates a new daily reward service
func NewDailyService(uowFactory UnitOfWorkFactory, balanceRepo BalanceRepository, cfg *config.Config) DailyService {
	return &dailyService{
		uowFactory:  uowFactory,
		balanceRepo: balanceRepo,
		config:      cfg,
		now:         time.Now,
	}
}

// CanClaimDaily reports whether the user's last claim predates the most
// recent local midnight
func (s *dailyService) CanClaimDaily(ctx context.Context, userID, serverID string) (bool, error) {
	balance, err := s.balanceRepo.Get(ctx, userID, serverID)
	if err != nil {
		return false, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return false, ErrNoBalance
	}

	loc := s.config.DailyResetLocation()
	return !ClaimedToday(balance.LastDailyReward, s.now(), loc), nil
}

// ClaimDaily grants the daily reward. Eligibility is re-checked inside the
// transaction, and the grant, ledger entry and claim stamp commit together
// so a failure leaves no partial state behind.
func (s *dailyService) ClaimDaily(ctx context.Context, userID, serverID string) (*models.ClaimResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.BalanceRepository().Get(ctx, userID, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, ErrNoBalance
	}

	claimedAt := s.now()
	loc := s.config.DailyResetLocation()
	if ClaimedToday(balance.LastDailyReward, claimedAt, loc) {
		return nil, ErrAlreadyClaimed
	}

	amount := s.config.DailyReward
	newBalance, err := uow.BalanceRepository().Add(ctx, userID, serverID, amount)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:     userID,
		ServerID:   serverID,
		Amount:     amount,
		Type:       models.TransactionTypeDaily,
		Reason:     "Daily reward",
		NewBalance: newBalance,
	}
	if err := RecordBalanceChange(ctx, uow, txn); err != nil {
		return nil, err
	}

	if err := uow.BalanceRepository().StampDailyReward(ctx, userID, serverID, claimedAt); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.DailyClaimedEvent{
		UserID:     userID,
		ServerID:   serverID,
		Amount:     amount,
		NewBalance: newBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ClaimResult{
		Claimed:    true,
		Amount:     amount,
		NewBalance: newBalance,
	}, nil
}
