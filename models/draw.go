package models

import (
	"time"
)

// WinningSequenceLength is the number of balls drawn per round.
const WinningSequenceLength = 5

// Draw represents a scheduled round of the number-draw game.
// A draw is open for betting until BettingClosesAt, results are published
// at ResultPublishAt, and Completed flips exactly once when an operator
// finalizes the draw with its winning sequence.
type Draw struct {
	ID              int64     `db:"id"`
	Cycle           int       `db:"cycle"`
	BettingClosesAt time.Time `db:"betting_closes_at"`
	ResultPublishAt time.Time `db:"result_publish_at"`
	WinningSequence []int16   `db:"winning_sequence"` // nil until finalized
	Completed       bool      `db:"completed"`
	CreatedAt       time.Time `db:"created_at"`
}

// IsOpenForBetting reports whether a bet may still be placed at the given time.
func (d *Draw) IsOpenForBetting(now time.Time) bool {
	return !d.Completed && now.Before(d.BettingClosesAt)
}
