package cmd

import (
	"context"
	"fmt"

	"luckyball/config"
	"luckyball/database"
	"luckyball/events"
	"luckyball/repository"
	"luckyball/service"

	log "github.com/sirupsen/logrus"
)

// Services bundles the engine's operation surface. The transport layer
// (HTTP, console, whatever the deployment uses) is handed this struct and
// calls straight into the services; it is deliberately not part of this
// repository.
type Services struct {
	User       service.UserService
	Wagering   service.WageringService
	Settlement service.SettlementService
	Approval   service.ApprovalService
	Draw       service.DrawService
	EventBus   *events.Bus
}

// Run initializes the engine and blocks until the context is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting luckyball ledger engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	services := Build(db)
	registerObservers(services.EventBus)

	log.WithFields(log.Fields{
		"entryFee":        cfg.EntryFee,
		"startingBalance": cfg.StartingBalance,
		"bettingWindow":   cfg.BettingWindow,
	}).Info("Ledger engine ready")

	<-ctx.Done()
	log.Info("Shutting down ledger engine")
	return nil
}

// Build wires the unit-of-work factory and all services over an open
// database handle
func Build(db *database.DB) *Services {
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	return &Services{
		User:       service.NewUserService(uowFactory),
		Wagering:   service.NewWageringService(uowFactory),
		Settlement: service.NewSettlementService(uowFactory),
		Approval:   service.NewApprovalService(uowFactory),
		Draw:       service.NewDrawService(uowFactory),
		EventBus:   eventBus,
	}
}

// registerObservers attaches structured-log handlers for the domain events.
// A notification or push layer would subscribe here the same way.
func registerObservers(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e := event.(events.BalanceChangeEvent)
		log.WithFields(log.Fields{
			"userID":       e.UserID,
			"changeAmount": e.ChangeAmount,
			"newBalance":   e.NewBalance,
			"kind":         e.Kind,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypeDrawFinalized, func(ctx context.Context, event events.Event) {
		e := event.(events.DrawFinalizedEvent)
		log.WithFields(log.Fields{
			"drawID":      e.DrawID,
			"wins":        e.Wins,
			"losses":      e.Losses,
			"totalPayout": e.TotalPayout,
		}).Info("Draw finalized")
	})

	bus.Subscribe(events.EventTypeRequestResolved, func(ctx context.Context, event events.Event) {
		e := event.(events.RequestResolvedEvent)
		log.WithFields(log.Fields{
			"requestID": e.RequestID,
			"userID":    e.UserID,
			"kind":      e.Kind,
			"approved":  e.Approved,
			"amount":    e.Amount,
		}).Info("Request resolved")
	})
}
