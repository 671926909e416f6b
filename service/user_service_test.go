package service

import (
	"context"
	"testing"

	"luckyball/events"
	"luckyball/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockTransactionRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	mockBetRepo := new(MockBetRepository)
	mockDrawRepo := new(MockDrawRepository)
	mockRequestRepo := new(MockRequestRepository)

	mockUoW.SetRepositories(mockUserRepo, mockTransactionRepo, mockBetRepo, mockDrawRepo, mockRequestRepo)

	return mockFactory, mockUoW, mockUserRepo, mockTransactionRepo
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockTransactionRepo := newUserMocks()

	service := NewUserService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	created := &models.User{ID: 1, Name: "Priya", Phone: "9900112233", Balance: 1000}
	mockUserRepo.On("Create", ctx, "Priya", "9900112233", int64(1000)).Return(created, nil)

	mockTransactionRepo.On("Record", ctx, mock.MatchedBy(func(e *models.Transaction) bool {
		return e.UserID == 1 && e.Amount == 1000 &&
			e.Kind == models.TransactionKindInitial && e.ReferenceID == nil
	})).Return(nil)

	user, err := service.CreateUser(ctx, "Priya", "9900112233")

	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Balance)

	published := mockUoW.PublishedEvents()
	require.Len(t, published, 1)
	event, ok := published[0].(events.UserCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), event.UserID)
	assert.Equal(t, int64(1000), event.InitialBalance)

	mockUserRepo.AssertExpectations(t)
	mockTransactionRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_MissingFields(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _ := newUserMocks()

	service := NewUserService(mockFactory)

	_, err := service.CreateUser(ctx, "", "9900112233")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.CreateUser(ctx, "Priya", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newUserMocks()

	service := NewUserService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

	user, err := service.GetUser(ctx, 404)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, user)
}

func TestUserService_AdjustBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("positive adjustment credits", func(t *testing.T) {
		mockFactory, mockUoW, mockUserRepo, mockTransactionRepo := newUserMocks()
		service := NewUserService(mockFactory)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUserRepo.On("AddBalance", ctx, int64(42), int64(250)).Return(int64(1250), nil)
		mockTransactionRepo.On("Record", ctx, mock.MatchedBy(func(e *models.Transaction) bool {
			return e.Amount == 250 && e.Kind == models.TransactionKindAdjustment &&
				e.Description == "Goodwill credit"
		})).Return(nil)

		err := service.AdjustBalance(ctx, 42, 250, "Goodwill credit")
		require.NoError(t, err)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("negative adjustment debits", func(t *testing.T) {
		mockFactory, mockUoW, mockUserRepo, mockTransactionRepo := newUserMocks()
		service := NewUserService(mockFactory)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUserRepo.On("DeductBalance", ctx, int64(42), int64(250)).Return(int64(750), nil)
		mockTransactionRepo.On("Record", ctx, mock.MatchedBy(func(e *models.Transaction) bool {
			return e.Amount == -250 && e.Kind == models.TransactionKindAdjustment
		})).Return(nil)

		err := service.AdjustBalance(ctx, 42, -250, "Chargeback")
		require.NoError(t, err)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("zero adjustment rejected", func(t *testing.T) {
		mockFactory, _, _, _ := newUserMocks()
		service := NewUserService(mockFactory)

		err := service.AdjustBalance(ctx, 42, 0, "nothing")
		assert.ErrorIs(t, err, ErrInvalidInput)
		mockFactory.AssertNotCalled(t, "Create")
	})
}

func TestUserService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("balance matches ledger", func(t *testing.T) {
		mockFactory, mockUoW, mockUserRepo, mockTransactionRepo := newUserMocks()
		service := NewUserService(mockFactory)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUserRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(&models.User{ID: 42, Balance: 990}, nil)
		mockTransactionRepo.On("SumByUser", ctx, int64(42)).Return(int64(990), nil)

		err := service.Reconcile(ctx, 42)
		require.NoError(t, err)

		// The balance read must take the row lock, not the plain read, so a
		// concurrent credit cannot land between the read and the ledger sum
		mockUserRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("mismatch surfaces as ledger error", func(t *testing.T) {
		mockFactory, mockUoW, mockUserRepo, mockTransactionRepo := newUserMocks()
		service := NewUserService(mockFactory)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUserRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(&models.User{ID: 42, Balance: 990}, nil)
		mockTransactionRepo.On("SumByUser", ctx, int64(42)).Return(int64(1000), nil)

		err := service.Reconcile(ctx, 42)
		assert.ErrorIs(t, err, ErrLedgerMismatch)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockFactory, mockUoW, mockUserRepo, _ := newUserMocks()
		service := NewUserService(mockFactory)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockUserRepo.On("GetByIDForUpdate", ctx, int64(404)).Return(nil, nil)

		err := service.Reconcile(ctx, 404)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
