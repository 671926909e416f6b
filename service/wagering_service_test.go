package service

import (
	"context"
	"testing"
	"time"

	"luckyball/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWageringMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockTransactionRepository, *MockBetRepository, *MockDrawRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	mockBetRepo := new(MockBetRepository)
	mockDrawRepo := new(MockDrawRepository)
	mockRequestRepo := new(MockRequestRepository)

	mockUoW.SetRepositories(mockUserRepo, mockTransactionRepo, mockBetRepo, mockDrawRepo, mockRequestRepo)

	return mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, mockBetRepo, mockDrawRepo
}

func openDraw(id int64) *models.Draw {
	now := time.Now().UTC()
	return &models.Draw{
		ID:              id,
		Cycle:           1,
		BettingClosesAt: now.Add(20 * time.Minute),
		ResultPublishAt: now.Add(25 * time.Minute),
	}
}

func TestWageringService_PlaceBet_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo, mockBetRepo, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(openDraw(7), nil)

	mockBetRepo.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.UserID == 42 &&
			b.DrawID == 7 &&
			b.Tier == 2 &&
			len(b.Numbers) == 2 &&
			b.Amount == 10 &&
			b.PotentialWin == 500
	})).Return(nil).Run(func(args mock.Arguments) {
		bet := args.Get(1).(*models.Bet)
		bet.ID = 99
		bet.Status = models.BetStatusPending
	})

	mockUserRepo.On("DeductBalance", ctx, int64(42), int64(10)).Return(int64(990), nil)

	mockTransactionRepo.On("Record", ctx, mock.MatchedBy(func(e *models.Transaction) bool {
		return e.UserID == 42 &&
			e.Amount == -10 &&
			e.Kind == models.TransactionKindStake &&
			e.ReferenceID != nil && *e.ReferenceID == 99
	})).Return(nil)

	bet, err := service.PlaceBet(ctx, 42, 7, []int16{1, 2}, 2)

	require.NoError(t, err)
	require.NotNil(t, bet)
	assert.Equal(t, int64(99), bet.ID)
	assert.Equal(t, models.BetStatusPending, bet.Status)
	assert.Equal(t, int64(500), bet.PotentialWin)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockTransactionRepo.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
	mockDrawRepo.AssertExpectations(t)
}

func TestWageringService_PlaceBet_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _, mockBetRepo, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(openDraw(7), nil)
	mockBetRepo.On("Create", ctx, mock.AnythingOfType("*models.Bet")).Return(nil)
	mockUserRepo.On("DeductBalance", ctx, int64(42), int64(10)).Return(int64(0), ErrInsufficientFunds)

	bet, err := service.PlaceBet(ctx, 42, 7, []int16{1, 2}, 2)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, bet)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWageringService_PlaceBet_BettingClosed(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, _, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	closedDraw := openDraw(7)
	closedDraw.BettingClosesAt = time.Now().UTC().Add(-time.Minute)
	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(closedDraw, nil)

	bet, err := service.PlaceBet(ctx, 42, 7, []int16{1, 2}, 2)

	assert.ErrorIs(t, err, ErrBettingClosed)
	assert.Nil(t, bet)
}

func TestWageringService_PlaceBet_CompletedDrawRejected(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, _, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	completedDraw := openDraw(7)
	completedDraw.Completed = true
	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(completedDraw, nil)

	_, err := service.PlaceBet(ctx, 42, 7, []int16{1, 2}, 2)

	assert.ErrorIs(t, err, ErrBettingClosed)
}

func TestWageringService_PlaceBet_DrawNotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, _, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(404)).Return(nil, nil)

	_, err := service.PlaceBet(ctx, 42, 404, []int16{1, 2}, 2)

	assert.ErrorIs(t, err, ErrDrawNotFound)
}

func TestWageringService_PlaceBet_InvalidInput(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, mockBetRepo, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(openDraw(7), nil)

	tests := []struct {
		name    string
		numbers []int16
		tier    int
	}{
		{"unknown tier", []int16{1, 2, 3, 4}, 4},
		{"wrong sequence length", []int16{1, 2, 3}, 2},
		{"digit out of range", []int16{1, 12}, 2},
		{"negative digit", []int16{-1, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet, err := service.PlaceBet(ctx, 42, 7, tt.numbers, tt.tier)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, bet)
		})
	}

	mockBetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWageringService_PlaceBet_ClosedDrawWinsOverBadInput(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, _, mockDrawRepo := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	closedDraw := openDraw(7)
	closedDraw.BettingClosesAt = time.Now().UTC().Add(-time.Minute)
	mockDrawRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(closedDraw, nil)

	// A malformed sequence on a closed draw reports the closed draw
	_, err := service.PlaceBet(ctx, 42, 7, []int16{1, 12, 99}, 4)

	assert.ErrorIs(t, err, ErrBettingClosed)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestWageringService_AcknowledgeBet(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, mockBetRepo, _ := newWageringMocks()

	service := NewWageringService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("Acknowledge", ctx, int64(99), int64(42)).Return(nil)

	err := service.AcknowledgeBet(ctx, 42, 99)

	require.NoError(t, err)
	mockBetRepo.AssertExpectations(t)
}
