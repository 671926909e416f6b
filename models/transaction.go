package models

import (
	"time"
)

// TransactionKind represents the kind of ledger entry
type TransactionKind string

const (
	TransactionKindInitial           TransactionKind = "initial"
	TransactionKindStake             TransactionKind = "stake"
	TransactionKindWin               TransactionKind = "win"
	TransactionKindDepositApproved   TransactionKind = "deposit_approved"
	TransactionKindWithdrawalRequest TransactionKind = "withdrawal_request"
	TransactionKindWithdrawalRefund  TransactionKind = "withdrawal_rejected_refund"
	TransactionKindAdjustment        TransactionKind = "adjustment"
)

// Transaction is one immutable, append-only ledger entry. Positive amounts
// are credits, negative amounts are debits. The sum of a user's entries
// always equals the user's stored balance.
type Transaction struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	Amount      int64           `db:"amount"`
	Kind        TransactionKind `db:"kind"`
	Description string          `db:"description"`
	ReferenceID *int64          `db:"reference_id"` // bet or request id, when correlated
	CreatedAt   time.Time       `db:"created_at"`
}
