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

func newDrawMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockDrawRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	mockBetRepo := new(MockBetRepository)
	mockDrawRepo := new(MockDrawRepository)
	mockRequestRepo := new(MockRequestRepository)

	mockUoW.SetRepositories(mockUserRepo, mockTransactionRepo, mockBetRepo, mockDrawRepo, mockRequestRepo)

	return mockFactory, mockUoW, mockDrawRepo
}

func TestDrawService_CreateDraw_Schedule(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockDrawRepo := newDrawMocks()

	service := NewDrawService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	before := time.Now().UTC()

	var capturedCloses, capturedPublish time.Time
	mockDrawRepo.On("Create", ctx, 12,
		mock.MatchedBy(func(ts time.Time) bool { capturedCloses = ts; return true }),
		mock.MatchedBy(func(ts time.Time) bool { capturedPublish = ts; return true }),
	).Return(&models.Draw{ID: 1, Cycle: 12}, nil)

	draw, err := service.CreateDraw(ctx, 12)

	require.NoError(t, err)
	assert.Equal(t, 12, draw.Cycle)

	after := time.Now().UTC()

	// Betting window is 30 minutes, results publish 5 minutes after close
	assert.True(t, !capturedCloses.Before(before.Add(30*time.Minute)))
	assert.True(t, !capturedCloses.After(after.Add(30*time.Minute)))
	assert.Equal(t, 5*time.Minute, capturedPublish.Sub(capturedCloses))

	mockDrawRepo.AssertExpectations(t)
}

func TestDrawService_GetActiveDraw_NoneActive(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockDrawRepo := newDrawMocks()

	service := NewDrawService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockDrawRepo.On("GetActive", ctx, mock.AnythingOfType("time.Time")).Return(nil, nil)

	draw, err := service.GetActiveDraw(ctx)

	require.NoError(t, err)
	assert.Nil(t, draw)
}

func TestDrawService_ListRecentDraws(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockDrawRepo := newDrawMocks()

	service := NewDrawService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	draws := []*models.Draw{{ID: 3, Completed: true}, {ID: 2, Completed: true}}
	mockDrawRepo.On("ListRecent", ctx, 10).Return(draws, nil)

	got, err := service.ListRecentDraws(ctx, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
}
