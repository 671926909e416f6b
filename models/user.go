package models

import (
	"time"
)

// User represents a player account with a denormalized balance.
// The balance is only ever mutated through the account helpers in the
// service package, so it always reconciles with the transactions ledger.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Balance   int64     `db:"balance"`
	PayoutID  string    `db:"payout_id"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
