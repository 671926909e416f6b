package repository

import (
	"context"
	"fmt"

	"luckyball/database"
	"luckyball/models"
	"luckyball/service"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, name, phone, balance, payout_id, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Phone,
		&user.Balance,
		&user.PayoutID,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return user, nil
}

// GetByIDForUpdate retrieves a user by ID with a row lock. Every balance
// write updates the user row, so holding this lock keeps the balance and the
// ledger mutually consistent for the rest of the transaction.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user for update %d: %w", userID, err)
	}

	return user, nil
}

// GetByPhone retrieves a user by their contact handle
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by phone %s: %w", phone, err)
	}

	return user, nil
}

// Create creates a new user with the initial balance
func (r *UserRepository) Create(ctx context.Context, name, phone string, initialBalance int64) (*models.User, error) {
	query := `
		INSERT INTO users (name, phone, balance)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, name, phone, initialBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", phone, err)
	}

	return user, nil
}

// UpdateProfile updates a user's display name, contact handle and payout destination
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, name, phone, payoutID string) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, payout_id = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, name, phone, payoutID, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}

	return nil
}

// AddBalance adds to a user's balance atomically and returns the new balance
func (r *UserRepository) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		return 0, service.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", userID, err)
	}

	return newBalance, nil
}

// DeductBalance deducts from a user's balance atomically, failing with
// service.ErrInsufficientFunds when the balance does not cover the amount.
// The guard is part of the UPDATE itself, so two concurrent deductions that
// would jointly overdraw can never both succeed.
func (r *UserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Distinguish a missing user from insufficient funds
		user, getErr := r.GetByID(ctx, userID)
		if getErr != nil {
			return 0, fmt.Errorf("failed to check user: %w", getErr)
		}
		if user == nil {
			return 0, service.ErrUserNotFound
		}
		return 0, service.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}

	return newBalance, nil
}

// GetAll returns all players, newest first
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE NOT is_admin
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
