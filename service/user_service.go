package service

import (
	"context"
	"fmt"

	"luckyball/config"
	"luckyball/events"
	"luckyball/models"
)

type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// CreateUser creates a player with the configured starting balance and the
// matching initial ledger entry, atomically
func (s *userService) CreateUser(ctx context.Context, name, phone string) (*models.User, error) {
	if name == "" || phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrInvalidInput)
	}

	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().Create(ctx, name, phone, cfg.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if cfg.StartingBalance > 0 {
		entry := &models.Transaction{
			UserID:      user.ID,
			Amount:      cfg.StartingBalance,
			Kind:        models.TransactionKindInitial,
			Description: "Welcome balance",
		}
		if err := uow.TransactionRepository().Record(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:         user.ID,
		Name:           user.Name,
		InitialBalance: user.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetUser retrieves a player by ID
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfile updates a player's display name, contact handle and payout id
func (s *userService) UpdateProfile(ctx context.Context, userID int64, name, phone, payoutID string) error {
	if name == "" || phone == "" {
		return fmt.Errorf("%w: name and phone are required", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdateProfile(ctx, userID, name, phone, payoutID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListTransactions returns a player's ledger entries, newest first
func (s *userService) ListTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetByUser(ctx, userID, limit)
}

// ListRecentTransactions returns the most recent ledger entries across all
// players for the operator console
func (s *userService) ListRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetRecent(ctx, limit)
}

// ListUsers returns all players for the operator console
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().GetAll(ctx)
}

// AdjustBalance applies a signed operator adjustment to a player's balance,
// with the usual ledger entry. Negative adjustments can fail with
// ErrInsufficientFunds; the balance never goes negative.
func (s *userService) AdjustBalance(ctx context.Context, userID int64, amount int64, reason string) error {
	if amount == 0 {
		return fmt.Errorf("%w: adjustment amount must be non-zero", ErrInvalidInput)
	}
	if reason == "" {
		reason = "Operator adjustment"
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if amount > 0 {
		if _, err := Credit(ctx, uow, userID, amount, models.TransactionKindAdjustment, reason, nil); err != nil {
			return err
		}
	} else {
		if _, err := Debit(ctx, uow, userID, -amount, models.TransactionKindAdjustment, reason, nil); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reconcile verifies that the sum of a player's ledger entries equals the
// stored balance. A mismatch is an invariant violation and surfaces as
// ErrLedgerMismatch for alerting. The user row is read under a lock: every
// balance write updates that row in the same transaction as its ledger entry,
// so a credit committing between the balance read and the ledger sum cannot
// produce a phantom mismatch.
func (s *userService) Reconcile(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	sum, err := uow.TransactionRepository().SumByUser(ctx, userID)
	if err != nil {
		return err
	}

	if sum != user.Balance {
		return fmt.Errorf("%w: user %d has balance %d but ledger sum %d",
			ErrLedgerMismatch, userID, user.Balance, sum)
	}

	return nil
}
