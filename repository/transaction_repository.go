package repository

import (
	"context"
	"fmt"

	"luckyball/database"
	"luckyball/models"
)

// TransactionRepository implements append-only access to the ledger
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Record appends a ledger entry. Entries are immutable; there is no update.
func (r *TransactionRepository) Record(ctx context.Context, entry *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, amount, kind, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Amount,
		entry.Kind,
		entry.Description,
		entry.ReferenceID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record transaction for user %d: %w", entry.UserID, err)
	}

	return nil
}

// GetByUser returns ledger entries for a specific user, newest first
func (r *TransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, kind, description, reference_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.Transaction
	for rows.Next() {
		var entry models.Transaction
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Kind,
			&entry.Description,
			&entry.ReferenceID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return entries, nil
}

// GetRecent returns the most recent ledger entries across all users
func (r *TransactionRepository) GetRecent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, kind, description, reference_id, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	defer rows.Close()

	var entries []*models.Transaction
	for rows.Next() {
		var entry models.Transaction
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Kind,
			&entry.Description,
			&entry.ReferenceID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return entries, nil
}

// SumByUser returns the sum of all ledger entries for a user. The result
// must always equal the user's stored balance.
func (r *TransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %d: %w", userID, err)
	}

	return sum, nil
}
