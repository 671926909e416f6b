package service

import (
	"context"
	"fmt"

	"luckyball/events"
	"luckyball/models"
)

type approvalService struct {
	uowFactory UnitOfWorkFactory
}

// NewApprovalService creates a new request approval service
func NewApprovalService(uowFactory UnitOfWorkFactory) ApprovalService {
	return &approvalService{
		uowFactory: uowFactory,
	}
}

// RequestDeposit records a player's claim of an external payment. No funds
// move until an operator approves the request.
func (s *approvalService) RequestDeposit(ctx context.Context, userID int64, amount int64, utr string) (*models.DepositRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive, got %d", ErrInvalidInput, amount)
	}
	if utr == "" {
		return nil, fmt.Errorf("%w: missing UTR", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req := &models.DepositRequest{
		UserID: userID,
		Amount: amount,
		UTR:    utr,
	}
	if err := uow.RequestRepository().CreateDeposit(ctx, req); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return req, nil
}

// RequestWithdrawal debits the amount immediately and records a pending
// payout request. When the balance cannot cover the amount the request is
// not persisted at all. Rejection later refunds the debit; approval changes
// nothing further on the balance.
func (s *approvalService) RequestWithdrawal(ctx context.Context, userID int64, amount int64, payoutID string) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive, got %d", ErrInvalidInput, amount)
	}
	if payoutID == "" {
		return nil, fmt.Errorf("%w: missing payout destination", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req := &models.WithdrawalRequest{
		UserID:   userID,
		Amount:   amount,
		PayoutID: payoutID,
	}
	if err := uow.RequestRepository().CreateWithdrawal(ctx, req); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Withdrawal request to %s", payoutID)
	if _, err := Debit(ctx, uow, userID, amount, models.TransactionKindWithdrawalRequest, description, &req.ID); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return req, nil
}

// ApproveDeposit credits the requested amount and marks the request
// approved, exactly once
func (s *approvalService) ApproveDeposit(ctx context.Context, requestID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.RequestRepository().GetDepositForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	resolved, err := uow.RequestRepository().ResolveDeposit(ctx, requestID, models.RequestStatusApproved)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrAlreadyProcessed
	}

	description := fmt.Sprintf("Deposit approved (UTR %s)", req.UTR)
	if _, err := Credit(ctx, uow, req.UserID, req.Amount, models.TransactionKindDepositApproved, description, &req.ID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.RequestResolvedEvent{
		RequestID: requestID,
		UserID:    req.UserID,
		Kind:      "deposit",
		Approved:  true,
		Amount:    req.Amount,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RejectDeposit marks the request rejected. No balance effect: nothing was
// credited when the request was created.
func (s *approvalService) RejectDeposit(ctx context.Context, requestID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.RequestRepository().GetDepositForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	resolved, err := uow.RequestRepository().ResolveDeposit(ctx, requestID, models.RequestStatusRejected)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrAlreadyProcessed
	}

	uow.EventBus().Publish(events.RequestResolvedEvent{
		RequestID: requestID,
		UserID:    req.UserID,
		Kind:      "deposit",
		Approved:  false,
		Amount:    req.Amount,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ApproveWithdrawal marks the request approved. The amount was already
// debited at request time, so approval moves no funds.
func (s *approvalService) ApproveWithdrawal(ctx context.Context, requestID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.RequestRepository().GetWithdrawalForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	resolved, err := uow.RequestRepository().ResolveWithdrawal(ctx, requestID, models.RequestStatusApproved)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrAlreadyProcessed
	}

	uow.EventBus().Publish(events.RequestResolvedEvent{
		RequestID: requestID,
		UserID:    req.UserID,
		Kind:      "withdrawal",
		Approved:  true,
		Amount:    req.Amount,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RejectWithdrawal refunds the amount debited at request time and marks the
// request rejected. The status guard makes the refund happen at most once,
// even for a rejection retried after an approval.
func (s *approvalService) RejectWithdrawal(ctx context.Context, requestID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.RequestRepository().GetWithdrawalForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	resolved, err := uow.RequestRepository().ResolveWithdrawal(ctx, requestID, models.RequestStatusRejected)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrAlreadyProcessed
	}

	description := fmt.Sprintf("Withdrawal %d rejected, refund to balance", requestID)
	if _, err := Credit(ctx, uow, req.UserID, req.Amount, models.TransactionKindWithdrawalRefund, description, &req.ID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.RequestResolvedEvent{
		RequestID: requestID,
		UserID:    req.UserID,
		Kind:      "withdrawal",
		Approved:  false,
		Amount:    req.Amount,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListPendingDeposits returns all pending deposit requests for the operator
func (s *approvalService) ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.RequestRepository().ListPendingDeposits(ctx)
}

// ListPendingWithdrawals returns all pending withdrawal requests for the operator
func (s *approvalService) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.RequestRepository().ListPendingWithdrawals(ctx)
}
