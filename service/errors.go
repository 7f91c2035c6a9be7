package service

import "errors"

// Sentinel errors for declined operations. Callers distinguish these with
// errors.Is; anything else is a storage or infrastructure failure.
var (
	// ErrInvalidAmount is returned for zero or negative amounts
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrTransferOutOfBounds is returned when a transfer amount falls
	// outside the configured min/max range
	ErrTransferOutOfBounds = errors.New("transfer amount out of bounds")

	// ErrSelfTransfer is returned when sender and recipient are the same
	ErrSelfTransfer = errors.New("cannot transfer credits to yourself")

	// ErrInsufficientFunds is returned when a debit exceeds the balance
	ErrInsufficientFunds = errors.New("insufficient credits")

	// ErrNoBalance is returned when a user has no balance on the server
	ErrNoBalance = errors.New("no balance on this server")

	// ErrAlreadyClaimed is returned when the daily reward was already
	// claimed since the last local midnight
	ErrAlreadyClaimed = errors.New("daily reward already claimed")
)
