package service

import (
	"context"
	"time"

	"luckyball/events"
	"luckyball/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, name, phone string, initialBalance int64) (*models.User, error) {
	args := m.Called(ctx, name, phone, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID int64, name, phone, payoutID string) error {
	args := m.Called(ctx, userID, name, phone, payoutID)
	return args.Error(0)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, entry *models.Transaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetRecent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetRecent(ctx context.Context, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingByDrawForUpdate(ctx context.Context, drawID int64) ([]*models.Bet, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) MarkSettled(ctx context.Context, id int64, status models.BetStatus, payout int64) error {
	args := m.Called(ctx, id, status, payout)
	return args.Error(0)
}

func (m *MockBetRepository) Acknowledge(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, cycle int, bettingClosesAt, resultPublishAt time.Time) (*models.Draw, error) {
	args := m.Called(ctx, cycle, bettingClosesAt, resultPublishAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByID(ctx context.Context, id int64) (*models.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetActive(ctx context.Context, now time.Time) (*models.Draw, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) Finalize(ctx context.Context, id int64, winningSequence []int16) (bool, error) {
	args := m.Called(ctx, id, winningSequence)
	return args.Bool(0), args.Error(1)
}

func (m *MockDrawRepository) ListRecent(ctx context.Context, limit int) ([]*models.Draw, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Draw), args.Error(1)
}

func (m *MockDrawRepository) ListAll(ctx context.Context) ([]*models.Draw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Draw), args.Error(1)
}

// MockRequestRepository is a mock implementation of RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) CreateDeposit(ctx context.Context, req *models.DepositRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) GetDepositForUpdate(ctx context.Context, id int64) (*models.DepositRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositRequest), args.Error(1)
}

func (m *MockRequestRepository) ResolveDeposit(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DepositRequest), args.Error(1)
}

func (m *MockRequestRepository) CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) GetWithdrawalForUpdate(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockRequestRepository) ResolveWithdrawal(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

// capturingPublisher collects events published during a unit of work so
// tests can assert on them without a real bus
type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(event events.Event) {
	p.published = append(p.published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plugged in with SetRepositories; Begin/Commit/Rollback go through testify
// expectations.
type MockUnitOfWork struct {
	mock.Mock
	userRepo        UserRepository
	transactionRepo TransactionRepository
	betRepo         BetRepository
	drawRepo        DrawRepository
	requestRepo     RequestRepository
	publisher       capturingPublisher
}

// SetRepositories wires the mock repositories this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	userRepo UserRepository,
	transactionRepo TransactionRepository,
	betRepo BetRepository,
	drawRepo DrawRepository,
	requestRepo RequestRepository,
) {
	m.userRepo = userRepo
	m.transactionRepo = transactionRepo
	m.betRepo = betRepo
	m.drawRepo = drawRepo
	m.requestRepo = requestRepo
}

// PublishedEvents returns the events staged during the unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.publisher.published
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) TransactionRepository() TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) DrawRepository() DrawRepository {
	return m.drawRepo
}

func (m *MockUnitOfWork) RequestRepository() RequestRepository {
	return m.requestRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return &m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
