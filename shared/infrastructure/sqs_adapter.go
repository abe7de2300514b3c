package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/draftea/order-saga/shared/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SQSSubscriberAdapter adapts SQSEventSubscriber to the events.Subscriber interface
type SQSSubscriberAdapter struct {
	subscriber *SQSEventSubscriber
	queueURL   string
	awsOptions AWSOptions
	options    []SQSSubscriberOption
	logger     zerolog.Logger
}

// NewSQSSubscriberAdapter creates a new SQS subscriber adapter
func NewSQSSubscriberAdapter(queueURL string, awsOptions AWSOptions, logger zerolog.Logger, opts ...SQSSubscriberOption) *SQSSubscriberAdapter {
	return &SQSSubscriberAdapter{
		queueURL:   queueURL,
		awsOptions: awsOptions,
		options:    opts,
		logger:     logger,
	}
}

// filteredHandler only forwards events of the subscribed type
type filteredHandler struct {
	id        string
	eventType string
	handler   events.EventHandler
}

func (h *filteredHandler) HandlerID() string {
	return h.id
}

func (h *filteredHandler) Handle(ctx context.Context, event *events.Event) error {
	if h.eventType != "" && !event.Topic.Matches(events.Topic(h.eventType)) {
		return nil
	}
	return h.handler.Handle(ctx, event)
}

// Subscribe starts consuming the queue. eventType may be a topic pattern; an
// empty eventType delivers every event.
func (s *SQSSubscriberAdapter) Subscribe(ctx context.Context, eventType string, handler events.EventHandler) error {
	if s.subscriber != nil {
		return errors.New("subscriber is already running")
	}

	cfg, err := loadAWSConfig(ctx, s.awsOptions)
	if err != nil {
		return err
	}

	client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if s.awsOptions.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.awsOptions.Endpoint)
		}
	})

	id := "event-handler"
	if identified, ok := handler.(interface{ HandlerID() string }); ok {
		id = identified.HandlerID()
	}

	s.subscriber = NewSQSEventSubscriber(client, s.queueURL, &filteredHandler{
		id:        id,
		eventType: eventType,
		handler:   handler,
	}, s.logger, s.options...)

	if err := s.subscriber.Start(ctx); err != nil {
		s.subscriber = nil
		return errors.Wrap(err, "failed to start SQS subscriber")
	}

	return nil
}

// Close stops the subscriber
func (s *SQSSubscriberAdapter) Close() error {
	if s.subscriber == nil {
		return nil
	}

	if err := s.subscriber.Stop(context.Background()); err != nil {
		return errors.Wrap(err, "failed to stop SQS subscriber")
	}

	s.subscriber = nil
	return nil
}
