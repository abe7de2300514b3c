package config

import (
	"context"
	"fmt"

	"github.com/draftea/order-saga/order-service/application"
	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/order-service/handlers"
	"github.com/draftea/order-saga/order-service/infrastructure"
	"github.com/draftea/order-saga/shared/events"
	sharedinfra "github.com/draftea/order-saga/shared/infrastructure"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	OrderRepository domain.OrderRepository
	EventStore      events.EventStore

	// Saga
	Orchestrator *saga.Orchestrator

	// Use Cases
	CreateOrder            *application.CreateOrder
	GetOrder               *application.GetOrder
	ResumeIncompleteOrders *application.ResumeIncompleteOrders
	RetryCompensation      *application.RetryCompensation

	// HTTP Handlers
	OrderHandlers *handlers.OrderHandlers

	// Event Handlers
	OrderEventHandlers *handlers.OrderEventHandlers

	// Infrastructure
	EventPublisher  events.Publisher
	EventSubscriber events.Subscriber
	closers         []func() error

	config *Config
	logger zerolog.Logger
}

func BuildDependencies(ctx context.Context, config *Config, logger zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{config: config, logger: logger}

	if err := deps.buildStorage(config, logger); err != nil {
		return nil, err
	}

	if err := deps.buildMessaging(ctx, config, logger); err != nil {
		deps.Close()
		return nil, err
	}

	participants := domain.Participants{
		Payment:      infrastructure.NewHTTPParticipant("payment", config.Participants.PaymentURL, config.Participants.Timeout, logger),
		Inventory:    infrastructure.NewHTTPParticipant("inventory", config.Participants.InventoryURL, config.Participants.Timeout, logger),
		Shipping:     infrastructure.NewHTTPParticipant("shipping", config.Participants.ShippingURL, config.Participants.Timeout, logger),
		Notification: infrastructure.NewHTTPParticipant("notification", config.Participants.NotificationURL, config.Participants.Timeout, logger),
	}

	catalog, err := domain.NewOrderSagaCatalog(participants)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to build order saga: %w", err)
	}

	outbox := infrastructure.NewCompensationOutbox(deps.EventStore, deps.EventPublisher, logger)
	deps.Orchestrator = saga.NewOrchestrator(catalog, deps.OrderRepository,
		saga.WithRetryPolicy(saga.RetryPolicy{
			MaxAttempts:      config.Saga.MaxRetryAttempts,
			Delay:            config.Saga.RetryDelay,
			FailOnExhaustion: config.Saga.FailOnRetryExhaustion,
		}),
		saga.WithCallTimeout(config.Participants.Timeout),
		saga.WithLogger(logger),
		saga.WithPublisher(deps.EventPublisher),
		saga.WithCompensationFailureHandler(outbox),
	)
	compensator := saga.NewCompensator(catalog, nil, config.Participants.Timeout, logger)

	// Initialize use cases
	deps.CreateOrder = application.NewCreateOrder(deps.OrderRepository, deps.Orchestrator, deps.EventPublisher, logger)
	deps.GetOrder = application.NewGetOrder(deps.OrderRepository)
	deps.ResumeIncompleteOrders = application.NewResumeIncompleteOrders(
		deps.OrderRepository,
		deps.Orchestrator,
		config.Saga.RecoveryWorkers,
		config.Saga.RecoveryBatchSize,
		config.Saga.RecoveryStaleAfter,
		logger,
	)
	deps.RetryCompensation = application.NewRetryCompensation(deps.OrderRepository, compensator, deps.EventPublisher, logger)

	// Initialize handlers
	deps.OrderHandlers = handlers.NewOrderHandlers(deps.CreateOrder, deps.GetOrder)
	deps.OrderEventHandlers = handlers.NewOrderEventHandlers(deps.RetryCompensation, logger)

	return deps, nil
}

func (d *Dependencies) buildStorage(config *Config, logger zerolog.Logger) error {
	if config.Database.Driver == "memory" {
		logger.Warn().Msg("using in-memory storage, saga runs will not survive a restart")
		d.OrderRepository = infrastructure.NewMemoryOrderRepository()
		d.EventStore = sharedinfra.NewMemoryEventStore()
		return nil
	}

	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.DB = db
	d.closers = append(d.closers, func() error {
		if err := db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		return nil
	})

	d.OrderRepository = infrastructure.NewPostgresOrderRepository(db)
	d.EventStore = sharedinfra.NewPostgresEventStore(db)
	return nil
}

func (d *Dependencies) buildMessaging(ctx context.Context, config *Config, logger zerolog.Logger) error {
	if !config.AWS.Enabled {
		bus := sharedinfra.NewMemoryEventBus(logger)
		d.EventPublisher = bus
		d.EventSubscriber = bus
		return nil
	}

	awsOptions := sharedinfra.AWSOptions{
		Region:   config.AWS.Region,
		Endpoint: config.AWS.Endpoint,
	}

	publisher, err := sharedinfra.NewSNSPublisherAdapter(ctx, config.AWS.SNSTopicArn, awsOptions, logger)
	if err != nil {
		return fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	d.EventPublisher = publisher
	d.closers = append(d.closers, func() error {
		if err := publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
		return nil
	})

	subscriber := sharedinfra.NewSQSSubscriberAdapter(config.AWS.SQSQueueURL, awsOptions, logger,
		sharedinfra.WithWorkers(config.AWS.SQSWorkers),
	)
	d.EventSubscriber = subscriber
	d.closers = append(d.closers, func() error {
		if err := subscriber.Close(); err != nil {
			return fmt.Errorf("failed to close event subscriber: %w", err)
		}
		return nil
	})

	return nil
}

// SubscribeHandlers subscribes the order event handlers to compensation
// failures. The in-memory bus delivers on the publisher's call path, so there
// the handlers run behind an AsyncEventHandler that redelivers with backoff,
// the way SQS does for the AWS subscriber.
func (d *Dependencies) SubscribeHandlers(ctx context.Context) error {
	var handler events.EventHandler = d.OrderEventHandlers

	if !d.config.AWS.Enabled {
		async := sharedinfra.NewAsyncEventHandler(d.OrderEventHandlers, d.logger,
			sharedinfra.WithRedeliveryDelay(d.config.Saga.ReconcileDelay),
			sharedinfra.WithMaxDeliveries(d.config.Saga.ReconcileAttempts),
		)
		if err := async.Start(ctx); err != nil {
			return fmt.Errorf("failed to start event handler: %w", err)
		}
		d.closers = append(d.closers, async.Close)
		handler = async
	}

	if err := d.EventSubscriber.Subscribe(ctx, events.SagaCompensationFailedEvent, handler); err != nil {
		return fmt.Errorf("failed to subscribe to compensation failures: %w", err)
	}
	return nil
}

// Close closes all dependencies, last opened first
func (d *Dependencies) Close() error {
	var errs []error

	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
