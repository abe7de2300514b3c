package events

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/draftea/order-saga/shared/models"
)

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidReceiver = errors.New("receiver should be a pointer")
)

// Topic is a dot separated event name. Patterns may use "*" for one segment
// and a leading or trailing "#" for any prefix or suffix.
type Topic string

func NewTopic(topic string) (Topic, error) {
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return Topic(topic), nil
}

func (t Topic) String() string {
	return string(t)
}

// Matches reports whether the topic matches the pattern
func (t Topic) Matches(pattern Topic) bool {
	p := pattern.String()

	switch {
	case p == "#":
		return true
	case strings.HasPrefix(p, "#") && strings.HasSuffix(p, "#"):
		return strings.Contains(t.String(), strings.Trim(p, "#"))
	case strings.HasPrefix(p, "#"):
		return strings.HasSuffix(t.String(), strings.TrimPrefix(p, "#"))
	case strings.HasSuffix(p, "#"):
		return strings.HasPrefix(t.String(), strings.TrimSuffix(p, "#"))
	}

	patternParts := strings.Split(p, ".")
	topicParts := strings.Split(t.String(), ".")
	if len(patternParts) != len(topicParts) {
		return false
	}
	for i, part := range patternParts {
		if part != "*" && part != topicParts[i] {
			return false
		}
	}
	return true
}

// Metadata carries transport attributes and routing hints
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key string, value string) {
	m[key] = value
}

func (m Metadata) Clone() Metadata {
	clone := make(Metadata, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event represents a domain event
type Event struct {
	ID            models.ID   `json:"id"`
	AggregateID   models.ID   `json:"aggregate_id"`
	Topic         Topic       `json:"topic"`
	EventType     string      `json:"event_type"`
	Version       string      `json:"version"`
	Data          interface{} `json:"data"`
	Metadata      Metadata    `json:"metadata"`
	Timestamp     time.Time   `json:"timestamp"`
	CorrelationID models.ID   `json:"correlation_id"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
}

// Subscriber subscribes to events
type Subscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event *Event) error
}

// EventStore stores and retrieves events
type EventStore interface {
	SaveEvents(ctx context.Context, aggregateID models.ID, events []*Event, expectedVersion int) error
	GetEvents(ctx context.Context, aggregateID models.ID) ([]*Event, error)
	GetEventsByType(ctx context.Context, eventType string, offset, limit int) ([]*Event, error)
}

// AnyVersion skips the optimistic concurrency check of EventStore.SaveEvents
const AnyVersion = -1

// NewEvent creates a new domain event
func NewEvent(aggregateID models.ID, eventType string, data interface{}) *Event {
	return &Event{
		ID:          models.GenerateUUID(),
		AggregateID: aggregateID,
		Topic:       Topic(eventType),
		EventType:   eventType,
		Version:     "1.0",
		Data:        data,
		Metadata:    make(Metadata),
		Timestamp:   time.Now().UTC(),
	}
}

// WithCorrelationID sets correlation ID
func (e *Event) WithCorrelationID(correlationID models.ID) *Event {
	e.CorrelationID = correlationID
	return e
}

// WithMetadata adds metadata
func (e *Event) WithMetadata(key string, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// MarshalPayload marshals the event payload
func (e *Event) MarshalPayload() (json.RawMessage, error) {
	switch data := e.Data.(type) {
	case json.RawMessage:
		return data, nil
	case []byte:
		return data, nil
	default:
		return json.Marshal(e.Data)
	}
}

// UnmarshalPayload decodes the event payload into v, which must be a pointer.
// Payloads read back from a transport are generic maps and go through JSON.
func (e *Event) UnmarshalPayload(v interface{}) error {
	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Ptr {
		return ErrInvalidReceiver
	}

	payload := reflect.ValueOf(e.Data)
	if payload.IsValid() && target.Elem().Type() == payload.Type() {
		target.Elem().Set(payload)
		return nil
	}

	if payload.IsValid() && payload.Kind() == reflect.Ptr && target.Type() == payload.Type() {
		target.Elem().Set(payload.Elem())
		return nil
	}

	raw, err := e.MarshalPayload()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Clone creates a copy of the event
func (e *Event) Clone() *Event {
	clone := *e
	clone.Metadata = e.Metadata.Clone()
	return &clone
}

// Event Types Constants
const (
	// Saga lifecycle events
	SagaStartedEvent       = "saga.started"
	SagaStepCompletedEvent = "saga.step.completed"
	SagaCompletedEvent     = "saga.completed"
	SagaFailedEvent        = "saga.failed"
	SagaCompensatedEvent   = "saga.compensated"

	// Compensation reconciliation events
	SagaCompensationFailedEvent    = "saga.compensation.failed"
	SagaCompensationRecoveredEvent = "saga.compensation.recovered"

	// Order events
	OrderCreatedEvent = "order.created"
)
