package repository

import (
	"context"
	"fmt"
	"time"

	"luckyball/database"
	"luckyball/models"

	"github.com/jackc/pgx/v5"
)

// DrawRepository implements the service.DrawRepository interface
type DrawRepository struct {
	q queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// newDrawRepositoryWithTx creates a new draw repository with a transaction
func newDrawRepositoryWithTx(tx queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

const drawColumns = `id, cycle, betting_closes_at, result_publish_at, winning_sequence, completed, created_at`

func scanDraw(row pgx.Row) (*models.Draw, error) {
	var draw models.Draw
	err := row.Scan(
		&draw.ID,
		&draw.Cycle,
		&draw.BettingClosesAt,
		&draw.ResultPublishAt,
		&draw.WinningSequence,
		&draw.Completed,
		&draw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// Create creates a new draw with the given betting and result schedule
func (r *DrawRepository) Create(ctx context.Context, cycle int, bettingClosesAt, resultPublishAt time.Time) (*models.Draw, error) {
	query := `
		INSERT INTO draws (cycle, betting_closes_at, result_publish_at)
		VALUES ($1, $2, $3)
		RETURNING ` + drawColumns

	draw, err := scanDraw(r.q.QueryRow(ctx, query, cycle, bettingClosesAt, resultPublishAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	return draw, nil
}

// GetByID retrieves a draw by its ID
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*models.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", id, err)
	}

	return draw, nil
}

// GetByIDForUpdate retrieves a draw by ID with a row lock, serializing
// concurrent bet placement and finalization on the same draw
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1 FOR UPDATE`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for update %d: %w", id, err)
	}

	return draw, nil
}

// GetActive returns the earliest not-completed draw whose result publish
// time is still in the future, or nil when no draw is active
func (r *DrawRepository) GetActive(ctx context.Context, now time.Time) (*models.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE NOT completed AND result_publish_at > $1
		ORDER BY betting_closes_at ASC
		LIMIT 1
	`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, now))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active draw: %w", err)
	}

	return draw, nil
}

// Finalize atomically transitions a draw from not-completed to completed,
// storing its winning sequence. It returns false when the draw was already
// completed (or does not exist), which makes double finalization detectable
// without re-reading under a lock.
func (r *DrawRepository) Finalize(ctx context.Context, id int64, winningSequence []int16) (bool, error) {
	query := `
		UPDATE draws
		SET winning_sequence = $2, completed = TRUE
		WHERE id = $1 AND NOT completed
	`

	result, err := r.q.Exec(ctx, query, id, winningSequence)
	if err != nil {
		return false, fmt.Errorf("failed to finalize draw %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListRecent returns the most recently settled draws, newest first
func (r *DrawRepository) ListRecent(ctx context.Context, limit int) ([]*models.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE completed
		ORDER BY result_publish_at DESC
		LIMIT $1
	`

	return r.list(ctx, query, limit)
}

// ListAll returns every draw, newest first
func (r *DrawRepository) ListAll(ctx context.Context) ([]*models.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		ORDER BY result_publish_at DESC
	`

	return r.list(ctx, query)
}

func (r *DrawRepository) list(ctx context.Context, query string, args ...any) ([]*models.Draw, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	defer rows.Close()

	var draws []*models.Draw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draws: %w", err)
	}

	return draws, nil
}
