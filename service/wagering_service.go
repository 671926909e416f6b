package service

import (
	"context"
	"fmt"
	"time"

	"luckyball/config"
	"luckyball/events"
	"luckyball/models"
)

type wageringService struct {
	uowFactory UnitOfWorkFactory
}

// NewWageringService creates a new wagering service
func NewWageringService(uowFactory UnitOfWorkFactory) WageringService {
	return &wageringService{
		uowFactory: uowFactory,
	}
}

// PlaceBet validates a bet against an open draw, debits the entry fee and
// inserts the pending bet. The draw check, the stake debit, its ledger entry
// and the bet insert are one transaction: a debited stake with no recorded
// bet can never be observed. Preconditions are checked in order: draw exists,
// draw open, then the sequence itself, so a malformed bet on a closed draw
// reports the closed draw.
func (s *wageringService) PlaceBet(ctx context.Context, userID, drawID int64, numbers []int16, tier int) (*models.Bet, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Lock the draw row so a concurrent finalization cannot slip between
	// the open check and the bet insert
	draw, err := uow.DrawRepository().GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}
	if !draw.IsOpenForBetting(time.Now().UTC()) {
		return nil, ErrBettingClosed
	}

	if !cfg.Prizes.HasTier(tier) {
		return nil, fmt.Errorf("%w: unknown tier %d", ErrInvalidInput, tier)
	}
	if len(numbers) != tier {
		return nil, fmt.Errorf("%w: tier %d requires %d numbers, got %d", ErrInvalidInput, tier, tier, len(numbers))
	}
	for _, n := range numbers {
		if n < 0 || n > 9 {
			return nil, fmt.Errorf("%w: number %d out of range", ErrInvalidInput, n)
		}
	}

	bet := &models.Bet{
		UserID:       userID,
		DrawID:       drawID,
		Tier:         tier,
		Numbers:      numbers,
		Amount:       cfg.EntryFee,
		PotentialWin: cfg.Prizes.JackpotFor(tier),
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet record: %w", err)
	}

	description := fmt.Sprintf("Stake: %d-ball bet on draw %d", tier, drawID)
	if _, err := Debit(ctx, uow, userID, cfg.EntryFee, models.TransactionKindStake, description, &bet.ID); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		UserID: userID,
		BetID:  bet.ID,
		DrawID: drawID,
		Tier:   tier,
		Amount: cfg.EntryFee,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bet, nil
}

// ListBets returns a player's bets, newest first
func (s *wageringService) ListBets(ctx context.Context, userID int64, limit int) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}

	return bets, nil
}

// ListRecentBets returns the most recent bets across all players
func (s *wageringService) ListRecentBets(ctx context.Context, limit int) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent bets: %w", err)
	}

	return bets, nil
}

// AcknowledgeBet marks a won bet as celebrated by its owner
func (s *wageringService) AcknowledgeBet(ctx context.Context, userID, betID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.BetRepository().Acknowledge(ctx, betID, userID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
