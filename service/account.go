package service

import (
	"context"
	"fmt"

	"luckyball/events"
	"luckyball/models"
)

// Credit adds amount to a user's balance and appends the matching ledger
// entry within the caller's unit of work. This is the single entry point for
// all credits in the system: the balance change and the ledger entry either
// commit together or not at all.
func Credit(ctx context.Context, uow UnitOfWork, userID, amount int64, kind models.TransactionKind, description string, referenceID *int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive, got %d", ErrInvalidInput, amount)
	}

	newBalance, err := uow.UserRepository().AddBalance(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to credit user %d: %w", userID, err)
	}

	entry := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		ReferenceID: referenceID,
	}
	if err := uow.TransactionRepository().Record(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to record credit: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		NewBalance:   newBalance,
		ChangeAmount: amount,
		Kind:         kind,
	})

	return newBalance, nil
}

// Debit removes amount from a user's balance and appends the matching ledger
// entry (with a negative amount) within the caller's unit of work. Fails with
// ErrInsufficientFunds before any side effect when the balance cannot cover
// the amount.
func Debit(ctx context.Context, uow UnitOfWork, userID, amount int64, kind models.TransactionKind, description string, referenceID *int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive, got %d", ErrInvalidInput, amount)
	}

	newBalance, err := uow.UserRepository().DeductBalance(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	entry := &models.Transaction{
		UserID:      userID,
		Amount:      -amount,
		Kind:        kind,
		Description: description,
		ReferenceID: referenceID,
	}
	if err := uow.TransactionRepository().Record(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to record debit: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		NewBalance:   newBalance,
		ChangeAmount: -amount,
		Kind:         kind,
	})

	return newBalance, nil
}
