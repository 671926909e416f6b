package repository

import (
	"context"
	"fmt"

	"luckyball/database"
	"luckyball/models"

	"github.com/jackc/pgx/v5"
)

// RequestRepository implements data access for deposit and withdrawal
// requests. The two request kinds live in separate tables but share the
// same pending -> approved/rejected state machine, enforced here with
// status-guarded updates.
type RequestRepository struct {
	q queryable
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{q: db.Pool}
}

// newRequestRepositoryWithTx creates a new request repository with a transaction
func newRequestRepositoryWithTx(tx queryable) *RequestRepository {
	return &RequestRepository{q: tx}
}

// CreateDeposit inserts a new pending deposit request
func (r *RequestRepository) CreateDeposit(ctx context.Context, req *models.DepositRequest) error {
	query := `
		INSERT INTO deposit_requests (user_id, amount, utr)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at
	`

	err := r.q.QueryRow(ctx, query, req.UserID, req.Amount, req.UTR).
		Scan(&req.ID, &req.Status, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit request for user %d: %w", req.UserID, err)
	}

	return nil
}

// GetDepositForUpdate retrieves a deposit request with a row lock
func (r *RequestRepository) GetDepositForUpdate(ctx context.Context, id int64) (*models.DepositRequest, error) {
	query := `
		SELECT id, user_id, amount, utr, status, created_at, resolved_at
		FROM deposit_requests
		WHERE id = $1
		FOR UPDATE
	`

	var req models.DepositRequest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.Amount,
		&req.UTR,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit request %d: %w", id, err)
	}

	return &req, nil
}

// ResolveDeposit transitions a deposit request from pending to the given
// terminal status. Returns false when the request was not pending anymore.
func (r *RequestRepository) ResolveDeposit(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	query := `
		UPDATE deposit_requests
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to resolve deposit request %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListPendingDeposits returns all pending deposit requests, oldest first
func (r *RequestRepository) ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error) {
	query := `
		SELECT id, user_id, amount, utr, status, created_at, resolved_at
		FROM deposit_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deposits: %w", err)
	}
	defer rows.Close()

	var requests []*models.DepositRequest
	for rows.Next() {
		var req models.DepositRequest
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.Amount,
			&req.UTR,
			&req.Status,
			&req.CreatedAt,
			&req.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deposit requests: %w", err)
	}

	return requests, nil
}

// CreateWithdrawal inserts a new pending withdrawal request
func (r *RequestRepository) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	query := `
		INSERT INTO withdrawal_requests (user_id, amount, payout_id)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at
	`

	err := r.q.QueryRow(ctx, query, req.UserID, req.Amount, req.PayoutID).
		Scan(&req.ID, &req.Status, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request for user %d: %w", req.UserID, err)
	}

	return nil
}

// GetWithdrawalForUpdate retrieves a withdrawal request with a row lock
func (r *RequestRepository) GetWithdrawalForUpdate(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	query := `
		SELECT id, user_id, amount, payout_id, status, created_at, resolved_at
		FROM withdrawal_requests
		WHERE id = $1
		FOR UPDATE
	`

	var req models.WithdrawalRequest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.Amount,
		&req.PayoutID,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request %d: %w", id, err)
	}

	return &req, nil
}

// ResolveWithdrawal transitions a withdrawal request from pending to the
// given terminal status. Returns false when the request was not pending.
func (r *RequestRepository) ResolveWithdrawal(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	query := `
		UPDATE withdrawal_requests
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to resolve withdrawal request %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListPendingWithdrawals returns all pending withdrawal requests, oldest first
func (r *RequestRepository) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	query := `
		SELECT id, user_id, amount, payout_id, status, created_at, resolved_at
		FROM withdrawal_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	defer rows.Close()

	var requests []*models.WithdrawalRequest
	for rows.Next() {
		var req models.WithdrawalRequest
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.Amount,
			&req.PayoutID,
			&req.Status,
			&req.CreatedAt,
			&req.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawal requests: %w", err)
	}

	return requests, nil
}
