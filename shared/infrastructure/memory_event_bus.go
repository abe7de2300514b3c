package infrastructure

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/models"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

var (
	_ events.Publisher  = (*MemoryEventBus)(nil)
	_ events.Subscriber = (*MemoryEventBus)(nil)
	_ events.EventStore = (*MemoryEventStore)(nil)
)

type subscription struct {
	pattern events.Topic
	handler events.EventHandler
}

// MemoryEventBus delivers events synchronously to in-process subscribers and
// keeps the publish history. Handler errors are logged, never returned to the
// publisher.
type MemoryEventBus struct {
	subscriptions *xsync.MapOf[uint64, subscription]
	nextID        atomic.Uint64
	mu            sync.RWMutex
	history       []*events.Event
	logger        zerolog.Logger
}

// NewMemoryEventBus creates an empty bus
func NewMemoryEventBus(logger zerolog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		subscriptions: xsync.NewMapOf[uint64, subscription](),
		logger:        logger,
	}
}

// Subscribe registers handler for events whose topic matches eventType. An
// empty eventType subscribes to everything.
func (b *MemoryEventBus) Subscribe(_ context.Context, eventType string, handler events.EventHandler) error {
	if handler == nil {
		return errors.New("handler is required")
	}

	pattern := events.Topic(eventType)
	if eventType == "" {
		pattern = "#"
	}

	b.subscriptions.Store(b.nextID.Add(1), subscription{pattern: pattern, handler: handler})
	return nil
}

// Publish records and dispatches the events in order
func (b *MemoryEventBus) Publish(ctx context.Context, evts ...*events.Event) error {
	for _, event := range evts {
		b.mu.Lock()
		b.history = append(b.history, event.Clone())
		b.mu.Unlock()

		for _, sub := range b.matching(event) {
			if err := sub.handler.Handle(ctx, event.Clone()); err != nil {
				b.logger.Error().
					Err(err).
					Str("event_id", event.ID.String()).
					Str("event_type", event.EventType).
					Msg("in-memory event handler failed")
			}
		}
	}
	return nil
}

func (b *MemoryEventBus) matching(event *events.Event) []subscription {
	var ids []uint64
	b.subscriptions.Range(func(id uint64, sub subscription) bool {
		if event.Topic.Matches(sub.pattern) {
			ids = append(ids, id)
		}
		return true
	})

	// subscription order
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	subs := make([]subscription, 0, len(ids))
	for _, id := range ids {
		if sub, ok := b.subscriptions.Load(id); ok {
			subs = append(subs, sub)
		}
	}
	return subs
}

// History returns the published events, optionally filtered by type
func (b *MemoryEventBus) History(eventType string) []*events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []*events.Event
	for _, event := range b.history {
		if eventType == "" || event.EventType == eventType {
			result = append(result, event)
		}
	}
	return result
}

// MemoryEventStore is an EventStore backed by a concurrent map
type MemoryEventStore struct {
	streams *xsync.MapOf[models.ID, []*events.Event]
}

// NewMemoryEventStore creates an empty store
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		streams: xsync.NewMapOf[models.ID, []*events.Event](),
	}
}

// SaveEvents appends to the aggregate stream, honoring expectedVersion
func (s *MemoryEventStore) SaveEvents(_ context.Context, aggregateID models.ID, evts []*events.Event, expectedVersion int) error {
	if len(evts) == 0 {
		return nil
	}

	var conflict error
	s.streams.Compute(aggregateID, func(stream []*events.Event, _ bool) ([]*events.Event, bool) {
		if expectedVersion != events.AnyVersion && len(stream) != expectedVersion {
			conflict = errors.Errorf("concurrency conflict: expected version %d, got %d", expectedVersion, len(stream))
			return stream, false
		}

		next := make([]*events.Event, len(stream), len(stream)+len(evts))
		copy(next, stream)
		for _, event := range evts {
			next = append(next, event.Clone())
		}
		return next, false
	})

	return conflict
}

// GetEvents returns the aggregate stream in append order
func (s *MemoryEventStore) GetEvents(_ context.Context, aggregateID models.ID) ([]*events.Event, error) {
	stream, _ := s.streams.Load(aggregateID)
	return append([]*events.Event{}, stream...), nil
}

// GetEventsByType returns events of a type ordered by timestamp
func (s *MemoryEventStore) GetEventsByType(_ context.Context, eventType string, offset, limit int) ([]*events.Event, error) {
	var matched []*events.Event
	s.streams.Range(func(_ models.ID, stream []*events.Event) bool {
		for _, event := range stream {
			if event.EventType == eventType {
				matched = append(matched, event)
			}
		}
		return true
	})

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})

	if offset >= len(matched) {
		return []*events.Event{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}
