package models

import "time"

// TransactionType classifies a ledger entry. The set is closed: anything
// outside it is coerced to a fallback type before it reaches the store.
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeDaily       TransactionType = "daily"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
	TransactionTypeGameWin     TransactionType = "game_win"
	TransactionTypeGameLoss    TransactionType = "game_loss"
	TransactionTypeAdminAdd    TransactionType = "admin_add"
	TransactionTypeAdminRemove TransactionType = "admin_remove"
	TransactionTypePurchase    TransactionType = "purchase"
	TransactionTypeReward      TransactionType = "reward"
)

// transactionTypeDescriptions is the catalog of human-readable labels
// shown in transaction history.
var transactionTypeDescriptions = map[TransactionType]string{
	TransactionTypeInitial:     "Initial balance",
	TransactionTypeDaily:       "Daily reward",
	TransactionTypeTransferIn:  "Transfer received",
	TransactionTypeTransferOut: "Transfer sent",
	TransactionTypeGameWin:     "Game winnings",
	TransactionTypeGameLoss:    "Game loss",
	TransactionTypeAdminAdd:    "Admin credit",
	TransactionTypeAdminRemove: "Admin debit",
	TransactionTypePurchase:    "Purchase",
	TransactionTypeReward:      "Reward",
}

// IsValid reports whether t is part of the catalog.
func (t TransactionType) IsValid() bool {
	_, ok := transactionTypeDescriptions[t]
	return ok
}

// Description returns the catalog label for t, or the raw value for
// anything unknown.
func (t TransactionType) Description() string {
	if desc, ok := transactionTypeDescriptions[t]; ok {
		return desc
	}
	return string(t)
}

// NormalizeCreditType coerces an unknown type on a credit (add) operation
// to the generic reward type.
func NormalizeCreditType(t TransactionType) TransactionType {
	if t.IsValid() {
		return t
	}
	return TransactionTypeReward
}

// NormalizeDebitType coerces an unknown type on a debit (subtract)
// operation to the generic purchase type.
func NormalizeDebitType(t TransactionType) TransactionType {
	if t.IsValid() {
		return t
	}
	return TransactionTypePurchase
}

// Transaction is one append-only ledger entry. Amount is signed: positive
// for credits, negative for debits. NewBalance is the balance immediately
// after the entry was applied.
type Transaction struct {
	ID         int64           `json:"id"`
	UserID     string          `json:"user_id"`
	ServerID   string          `json:"server_id"`
	Amount     int64           `json:"amount"`
	Type       TransactionType `json:"transaction_type"`
	Reason     string          `json:"reason,omitempty"`
	NewBalance int64           `json:"new_balance"`
	Timestamp  time.Time       `json:"timestamp"`
}
