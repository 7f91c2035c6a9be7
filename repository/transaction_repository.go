package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creditbot/database"
	"creditbot/models"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.DB}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Record appends a ledger entry and fills in its assigned ID and timestamp
func (r *TransactionRepository) Record(ctx context.Context, txn *models.Transaction) error {
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO transactions (user_id, server_id, amount, transaction_type, reason, new_balance, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.q.ExecContext(ctx, query,
		txn.UserID,
		txn.ServerID,
		txn.Amount,
		string(txn.Type),
		nullString(txn.Reason),
		txn.NewBalance,
		txn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction for user %s on server %s: %w", txn.UserID, txn.ServerID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction id: %w", err)
	}
	txn.ID = id

	return nil
}

// GetRecentByUser returns a user's most recent ledger entries on a server
func (r *TransactionRepository) GetRecentByUser(ctx context.Context, userID, serverID string, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, server_id, amount, transaction_type, reason, new_balance, timestamp
		FROM transactions
		WHERE user_id = ? AND server_id = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.q.QueryContext(ctx, query, userID, serverID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s on server %s: %w", userID, serverID, err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var reason sql.NullString
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.ServerID,
			&txn.Amount,
			&txn.Type,
			&reason,
			&txn.NewBalance,
			&txn.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Reason = reason.String
		transactions = append(transactions, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// CountByServer returns the number of ledger entries for a server
func (r *TransactionRepository) CountByServer(ctx context.Context, serverID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE server_id = ?
	`

	var count int64
	if err := r.q.QueryRowContext(ctx, query, serverID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for server %s: %w", serverID, err)
	}

	return count, nil
}
