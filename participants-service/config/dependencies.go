package config

import (
	"fmt"

	"github.com/draftea/order-saga/participants-service/application"
	"github.com/draftea/order-saga/participants-service/domain"
	"github.com/draftea/order-saga/participants-service/handlers"
	"github.com/draftea/order-saga/participants-service/infrastructure"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	ReservationRepository domain.ReservationRepository

	// HTTP Handlers
	ParticipantHandlers *handlers.ParticipantHandlers
}

func BuildDependencies(config *Config, logger zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	if config.Database.Driver == "memory" {
		logger.Warn().Msg("using in-memory storage, reservations will not survive a restart")
		deps.ReservationRepository = infrastructure.NewMemoryReservationRepository()
	} else {
		db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		deps.DB = db
		deps.ReservationRepository = infrastructure.NewPostgresReservationRepository(db)
	}

	rules := config.DomainRules()
	repo := deps.ReservationRepository

	// Initialize use cases
	operations := handlers.Operations{
		ReservePayment:   application.NewReservePayment(repo, rules, logger.With().Str("participant", "payment").Logger()),
		RefundPayment:    application.NewRefundPayment(repo, logger.With().Str("participant", "payment").Logger()),
		ReserveInventory: application.NewReserveInventory(repo, rules, logger.With().Str("participant", "inventory").Logger()),
		ReleaseInventory: application.NewReleaseInventory(repo, logger.With().Str("participant", "inventory").Logger()),
		ShipOrder:        application.NewShipOrder(repo, logger.With().Str("participant", "shipping").Logger()),
		SendNotification: application.NewSendNotification(repo, rules, nil, logger.With().Str("participant", "notification").Logger()),
	}

	// Initialize handlers
	deps.ParticipantHandlers = handlers.NewParticipantHandlers(operations, logger)

	return deps, nil
}

func (d *Dependencies) Close() error {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
