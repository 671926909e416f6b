package service

import "errors"

// User-facing error taxonomy. Callers match these with errors.Is and react
// per case; everything else is a transient store failure to retry or report.
var (
	// ErrInsufficientFunds means a debit would overdraw the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBettingClosed means the draw exists but no longer accepts bets.
	ErrBettingClosed = errors.New("betting closed for draw")

	// ErrDrawNotFound means the referenced draw does not exist.
	ErrDrawNotFound = errors.New("draw not found")

	// ErrInvalidInput means a malformed sequence, tier or amount.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyFinalized is the idempotency guard on draw finalization.
	// A duplicate call is success-adjacent: nothing was re-settled.
	ErrAlreadyFinalized = errors.New("draw already finalized")

	// ErrAlreadyProcessed is the idempotency guard on request approval.
	ErrAlreadyProcessed = errors.New("request already processed")

	ErrUserNotFound    = errors.New("user not found")
	ErrBetNotFound     = errors.New("bet not found")
	ErrRequestNotFound = errors.New("request not found")

	// ErrLedgerMismatch means the sum of a user's ledger entries diverged
	// from the stored balance. This is an invariant violation, not a
	// recoverable condition.
	ErrLedgerMismatch = errors.New("ledger sum does not match balance")
)
