package models

import "time"

// RequestStatus represents the state of a deposit or withdrawal request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// DepositRequest is a player's claim of an external payment, identified by
// its UTR. Funds are credited only when an operator approves the request.
type DepositRequest struct {
	ID         int64         `db:"id"`
	UserID     int64         `db:"user_id"`
	Amount     int64         `db:"amount"`
	UTR        string        `db:"utr"`
	Status     RequestStatus `db:"status"`
	CreatedAt  time.Time     `db:"created_at"`
	ResolvedAt *time.Time    `db:"resolved_at"`
}

// WithdrawalRequest is a player's request to pay out to PayoutID. The amount
// is debited when the request is created; rejection refunds it, approval
// changes nothing further on the balance.
type WithdrawalRequest struct {
	ID         int64         `db:"id"`
	UserID     int64         `db:"user_id"`
	Amount     int64         `db:"amount"`
	PayoutID   string        `db:"payout_id"`
	Status     RequestStatus `db:"status"`
	CreatedAt  time.Time     `db:"created_at"`
	ResolvedAt *time.Time    `db:"resolved_at"`
}
