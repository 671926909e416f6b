package service

import (
	"context"
	"fmt"
	"time"

	"luckyball/config"
	"luckyball/models"
)

type drawService struct {
	uowFactory UnitOfWorkFactory
}

// NewDrawService creates a new draw lifecycle service
func NewDrawService(uowFactory UnitOfWorkFactory) DrawService {
	return &drawService{
		uowFactory: uowFactory,
	}
}

// CreateDraw schedules a new draw: betting closes after the configured
// window, results publish after the configured delay beyond that.
func (s *drawService) CreateDraw(ctx context.Context, cycle int) (*models.Draw, error) {
	cfg := config.Get()

	now := time.Now().UTC()
	bettingClosesAt := now.Add(cfg.BettingWindow)
	resultPublishAt := bettingClosesAt.Add(cfg.ResultDelay)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draw, err := uow.DrawRepository().Create(ctx, cycle, bettingClosesAt, resultPublishAt)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return draw, nil
}

// GetActiveDraw returns the earliest not-completed draw whose results are
// still pending, or nil when no draw is active
func (s *drawService) GetActiveDraw(ctx context.Context) (*models.Draw, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.DrawRepository().GetActive(ctx, time.Now().UTC())
}

// ListRecentDraws returns the most recently settled draws
func (s *drawService) ListRecentDraws(ctx context.Context, limit int) ([]*models.Draw, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.DrawRepository().ListRecent(ctx, limit)
}

// ListAllDraws returns every draw for the operator console
func (s *drawService) ListAllDraws(ctx context.Context) ([]*models.Draw, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.DrawRepository().ListAll(ctx)
}
