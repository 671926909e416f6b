package service

import (
	"context"
	"fmt"

	"luckyball/config"
	"luckyball/events"
	"luckyball/models"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

// FinalizeDraw stores the winning sequence and settles every pending bet of
// the draw. The not-completed to completed transition is a compare-and-set,
// so of two concurrent calls exactly one performs the per-bet work and the
// other sees ErrAlreadyFinalized without re-crediting anyone. Settlement
// only touches bets still pending, which also makes a resumed run safe.
func (s *settlementService) FinalizeDraw(ctx context.Context, drawID int64, winningSequence []int16) (*models.SettlementReport, error) {
	if len(winningSequence) != models.WinningSequenceLength {
		return nil, fmt.Errorf("%w: winning sequence must have %d numbers, got %d",
			ErrInvalidInput, models.WinningSequenceLength, len(winningSequence))
	}
	for _, n := range winningSequence {
		if n < 0 || n > 9 {
			return nil, fmt.Errorf("%w: number %d out of range", ErrInvalidInput, n)
		}
	}

	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	finalized, err := uow.DrawRepository().Finalize(ctx, drawID, winningSequence)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize draw: %w", err)
	}
	if !finalized {
		draw, err := uow.DrawRepository().GetByID(ctx, drawID)
		if err != nil {
			return nil, fmt.Errorf("failed to get draw: %w", err)
		}
		if draw == nil {
			return nil, ErrDrawNotFound
		}
		return nil, ErrAlreadyFinalized
	}

	bets, err := uow.BetRepository().GetPendingByDrawForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending bets: %w", err)
	}

	report := &models.SettlementReport{DrawID: drawID}
	for _, bet := range bets {
		payout := cfg.Prizes.PayoutFor(bet.Tier, bet.MatchRun(winningSequence))

		if payout > 0 {
			if err := uow.BetRepository().MarkSettled(ctx, bet.ID, models.BetStatusWon, payout); err != nil {
				return nil, fmt.Errorf("failed to mark bet %d won: %w", bet.ID, err)
			}

			description := fmt.Sprintf("Won %d-ball bet on draw %d", bet.Tier, drawID)
			if _, err := Credit(ctx, uow, bet.UserID, payout, models.TransactionKindWin, description, &bet.ID); err != nil {
				return nil, fmt.Errorf("failed to credit winnings for bet %d: %w", bet.ID, err)
			}

			report.Wins++
			report.TotalPayout += payout
		} else {
			if err := uow.BetRepository().MarkSettled(ctx, bet.ID, models.BetStatusLost, 0); err != nil {
				return nil, fmt.Errorf("failed to mark bet %d lost: %w", bet.ID, err)
			}
			report.Losses++
		}
	}

	uow.EventBus().Publish(events.DrawFinalizedEvent{
		DrawID:      drawID,
		Wins:        report.Wins,
		Losses:      report.Losses,
		TotalPayout: report.TotalPayout,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"drawID":      drawID,
		"wins":        report.Wins,
		"losses":      report.Losses,
		"totalPayout": report.TotalPayout,
	}).Info("Draw settled")

	return report, nil
}
