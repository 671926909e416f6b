package service

import (
	"context"
	"time"

	"luckyball/events"
	"luckyball/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByIDForUpdate retrieves a user by ID with a row lock, blocking
	// concurrent balance writes for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, userID int64) (*models.User, error)

	// GetByPhone retrieves a user by their contact handle
	GetByPhone(ctx context.Context, phone string) (*models.User, error)

	// Create creates a new user with the initial balance
	Create(ctx context.Context, name, phone string, initialBalance int64) (*models.User, error)

	// UpdateProfile updates name, contact handle and payout destination
	UpdateProfile(ctx context.Context, userID int64, name, phone, payoutID string) error

	// AddBalance adds to a user's balance atomically, returning the new balance
	AddBalance(ctx context.Context, userID int64, amount int64) (int64, error)

	// DeductBalance deducts from a user's balance atomically, returning the
	// new balance; fails with ErrInsufficientFunds rather than overdrawing
	DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error)

	// GetAll returns all players
	GetAll(ctx context.Context) ([]*models.User, error)
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Record appends a ledger entry
	Record(ctx context.Context, entry *models.Transaction) error

	// GetByUser returns ledger entries for a specific user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)

	// GetRecent returns the most recent ledger entries across all users
	GetRecent(ctx context.Context, limit int) ([]*models.Transaction, error)

	// SumByUser returns the sum of all entries for a user
	SumByUser(ctx context.Context, userID int64) (int64, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts a new pending bet
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by its ID
	GetByID(ctx context.Context, id int64) (*models.Bet, error)

	// GetByUser returns bets for a specific user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Bet, error)

	// GetRecent returns the most recent bets across all users
	GetRecent(ctx context.Context, limit int) ([]*models.Bet, error)

	// GetPendingByDrawForUpdate returns a draw's pending bets, row-locked
	GetPendingByDrawForUpdate(ctx context.Context, drawID int64) ([]*models.Bet, error)

	// MarkSettled transitions a pending bet to won or lost exactly once
	MarkSettled(ctx context.Context, id int64, status models.BetStatus, payout int64) error

	// Acknowledge marks a won bet as celebrated by its owner
	Acknowledge(ctx context.Context, id, userID int64) error
}

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	// Create creates a new draw with the given schedule
	Create(ctx context.Context, cycle int, bettingClosesAt, resultPublishAt time.Time) (*models.Draw, error)

	// GetByID retrieves a draw by its ID
	GetByID(ctx context.Context, id int64) (*models.Draw, error)

	// GetByIDForUpdate retrieves a draw by ID with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Draw, error)

	// GetActive returns the earliest not-completed draw still awaiting results
	GetActive(ctx context.Context, now time.Time) (*models.Draw, error)

	// Finalize atomically flips a draw to completed; false when already done
	Finalize(ctx context.Context, id int64, winningSequence []int16) (bool, error)

	// ListRecent returns the most recently settled draws
	ListRecent(ctx context.Context, limit int) ([]*models.Draw, error)

	// ListAll returns every draw
	ListAll(ctx context.Context) ([]*models.Draw, error)
}

// RequestRepository defines the interface for deposit and withdrawal requests
type RequestRepository interface {
	CreateDeposit(ctx context.Context, req *models.DepositRequest) error
	GetDepositForUpdate(ctx context.Context, id int64) (*models.DepositRequest, error)
	ResolveDeposit(ctx context.Context, id int64, status models.RequestStatus) (bool, error)
	ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error)

	CreateWithdrawal(ctx context.Context, req *models.WithdrawalRequest) error
	GetWithdrawalForUpdate(ctx context.Context, id int64) (*models.WithdrawalRequest, error)
	ResolveWithdrawal(ctx context.Context, id int64, status models.RequestStatus) (bool, error)
	ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error)
}

// UserService defines the interface for player account operations
type UserService interface {
	// CreateUser creates a player with the starting balance
	CreateUser(ctx context.Context, name, phone string) (*models.User, error)

	// GetUser retrieves a player by ID
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// UpdateProfile updates a player's name, contact handle and payout id
	UpdateProfile(ctx context.Context, userID int64, name, phone, payoutID string) error

	// ListTransactions returns a player's ledger entries
	ListTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)

	// ListRecentTransactions returns the most recent ledger entries across
	// all players
	ListRecentTransactions(ctx context.Context, limit int) ([]*models.Transaction, error)

	// ListUsers returns all players for the operator console
	ListUsers(ctx context.Context) ([]*models.User, error)

	// AdjustBalance applies a signed operator adjustment
	AdjustBalance(ctx context.Context, userID int64, amount int64, reason string) error

	// Reconcile verifies the ledger sum against the stored balance
	Reconcile(ctx context.Context, userID int64) error
}

// WageringService defines the interface for bet placement
type WageringService interface {
	// PlaceBet validates and accepts a bet against an open draw, debiting
	// the entry fee and inserting the pending bet atomically
	PlaceBet(ctx context.Context, userID, drawID int64, numbers []int16, tier int) (*models.Bet, error)

	// ListBets returns a player's bets
	ListBets(ctx context.Context, userID int64, limit int) ([]*models.Bet, error)

	// ListRecentBets returns the most recent bets for the operator console
	ListRecentBets(ctx context.Context, limit int) ([]*models.Bet, error)

	// AcknowledgeBet marks a won bet as celebrated
	AcknowledgeBet(ctx context.Context, userID, betID int64) error
}

// SettlementService defines the interface for draw finalization
type SettlementService interface {
	// FinalizeDraw stores the winning sequence and settles every pending
	// bet of the draw exactly once
	FinalizeDraw(ctx context.Context, drawID int64, winningSequence []int16) (*models.SettlementReport, error)
}

// ApprovalService defines the interface for the operator approval workflow
type ApprovalService interface {
	// RequestDeposit records a player's claim of an external payment
	RequestDeposit(ctx context.Context, userID int64, amount int64, utr string) (*models.DepositRequest, error)

	// RequestWithdrawal debits the amount and records a pending payout request
	RequestWithdrawal(ctx context.Context, userID int64, amount int64, payoutID string) (*models.WithdrawalRequest, error)

	ApproveDeposit(ctx context.Context, requestID int64) error
	RejectDeposit(ctx context.Context, requestID int64) error
	ApproveWithdrawal(ctx context.Context, requestID int64) error
	RejectWithdrawal(ctx context.Context, requestID int64) error

	ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error)
}

// DrawService defines the interface for the draw lifecycle
type DrawService interface {
	// CreateDraw schedules a new draw for the given cycle
	CreateDraw(ctx context.Context, cycle int) (*models.Draw, error)

	// GetActiveDraw returns the draw currently accepting bets or awaiting
	// results, or nil when there is none
	GetActiveDraw(ctx context.Context) (*models.Draw, error)

	// ListRecentDraws returns the most recently settled draws
	ListRecentDraws(ctx context.Context, limit int) ([]*models.Draw, error)

	// ListAllDraws returns every draw for the operator console
	ListAllDraws(ctx context.Context) ([]*models.Draw, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	TransactionRepository() TransactionRepository
	BetRepository() BetRepository
	DrawRepository() DrawRepository
	RequestRepository() RequestRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
