package service

import (
	"context"
	"fmt"

	"creditbot/events"
	"creditbot/models"
)

// RecordBalanceChange appends a ledger entry and emits the matching event.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, txn *models.Transaction) error {
	// Record the ledger entry
	if err := uow.TransactionRepository().Record(ctx, txn); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	// Emit balance change event (will be flushed after transaction commits)
	event := events.BalanceChangeEvent{
		UserID:          txn.UserID,
		ServerID:        txn.ServerID,
		OldBalance:      txn.NewBalance - txn.Amount,
		NewBalance:      txn.NewBalance,
		TransactionType: txn.Type,
		ChangeAmount:    txn.Amount,
	}
	uow.EventBus().Publish(event)

	return nil
}
