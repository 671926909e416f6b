package models

import "time"

// BetStatus represents the settlement state of a bet
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
)

// Bet represents a player's staked guess at a prefix of a draw's winning
// sequence. Status and PotentialWin are mutated exactly once, by settlement.
type Bet struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	DrawID       int64     `db:"draw_id"`
	Tier         int       `db:"tier"` // required leading-match length: 1, 2, 3 or 5
	Numbers      []int16   `db:"numbers"`
	Amount       int64     `db:"amount"`
	PotentialWin int64     `db:"potential_win"`
	Status       BetStatus `db:"status"`
	Acknowledged bool      `db:"acknowledged"`
	CreatedAt    time.Time `db:"created_at"`
}

// MatchRun returns the length of the contiguous run of positions, starting
// at index 0, where the bet's numbers equal the winning sequence. A mismatch
// at any position stops the count; non-leading matches never count.
func (b *Bet) MatchRun(winning []int16) int {
	run := 0
	for i := 0; i < len(b.Numbers) && i < len(winning); i++ {
		if b.Numbers[i] != winning[i] {
			break
		}
		run++
	}
	return run
}

// SettlementReport summarizes the outcome of finalizing a draw.
type SettlementReport struct {
	DrawID      int64
	Wins        int
	Losses      int
	TotalPayout int64
}
