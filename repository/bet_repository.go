package repository

import (
	"context"
	"fmt"

	"luckyball/database"
	"luckyball/models"
	"luckyball/service"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the service.BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, user_id, draw_id, tier, numbers, amount, potential_win, status, acknowledged, created_at`

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.DrawID,
		&bet.Tier,
		&bet.Numbers,
		&bet.Amount,
		&bet.PotentialWin,
		&bet.Status,
		&bet.Acknowledged,
		&bet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// Create inserts a new pending bet and fills in its generated fields
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (user_id, draw_id, tier, numbers, amount, potential_win)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, acknowledged, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.DrawID,
		bet.Tier,
		bet.Numbers,
		bet.Amount,
		bet.PotentialWin,
	).Scan(&bet.ID, &bet.Status, &bet.Acknowledged, &bet.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet for user %d: %w", bet.UserID, err)
	}

	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}

	return bet, nil
}

// GetByUser returns bets for a specific user, newest first
func (r *BetRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return r.list(ctx, query, userID, limit)
}

// GetRecent returns the most recent bets across all users
func (r *BetRepository) GetRecent(ctx context.Context, limit int) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		ORDER BY created_at DESC
		LIMIT $1
	`

	return r.list(ctx, query, limit)
}

// GetPendingByDrawForUpdate returns all pending bets of a draw with their
// rows locked. Settlement only ever touches bets fetched through this query,
// so a resumed settlement cannot resolve a bet twice.
func (r *BetRepository) GetPendingByDrawForUpdate(ctx context.Context, drawID int64) ([]*models.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE draw_id = $1 AND status = 'pending'
		ORDER BY id ASC
		FOR UPDATE
	`

	return r.list(ctx, query, drawID)
}

// MarkSettled transitions a bet from pending to won or lost. Winners get
// potential_win replaced by the actual payout; losers keep the advertised
// prize so history still shows what the bet would have paid. The pending
// guard makes the transition happen exactly once.
func (r *BetRepository) MarkSettled(ctx context.Context, id int64, status models.BetStatus, payout int64) error {
	query := `
		UPDATE bets
		SET status = $2,
		    potential_win = CASE WHEN $2 = 'won' THEN $3 ELSE potential_win END
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, status, payout)
	if err != nil {
		return fmt.Errorf("failed to settle bet %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bet %d is not pending", id)
	}

	return nil
}

// Acknowledge marks a won bet as celebrated by its owner
func (r *BetRepository) Acknowledge(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE bets
		SET acknowledged = TRUE
		WHERE id = $1 AND user_id = $2 AND status = 'won'
	`

	result, err := r.q.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge bet %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrBetNotFound
	}

	return nil
}

func (r *BetRepository) list(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}
