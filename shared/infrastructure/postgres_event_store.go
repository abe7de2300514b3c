package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var _ events.EventStore = (*PostgresEventStore)(nil)

// PostgresEventStore keeps an append-only stream of events per aggregate
type PostgresEventStore struct {
	db *sqlx.DB
}

// NewPostgresEventStore creates a new PostgresEventStore
func NewPostgresEventStore(db *sqlx.DB) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

type postgresEvent struct {
	ID            string         `db:"id"`
	AggregateID   string         `db:"aggregate_id"`
	EventType     string         `db:"event_type"`
	Version       string         `db:"version"`
	Data          []byte         `db:"data"`
	Metadata      []byte         `db:"metadata"`
	Timestamp     time.Time      `db:"timestamp"`
	CorrelationID sql.NullString `db:"correlation_id"`
	StreamVersion int            `db:"stream_version"`
}

const selectEvents = `
	SELECT id, aggregate_id, event_type, version, data, metadata,
		   timestamp, correlation_id, stream_version
	FROM saga_events`

// SaveEvents appends events to the aggregate stream. expectedVersion is the
// stream version the caller last saw, or events.AnyVersion to append blindly.
func (es *PostgresEventStore) SaveEvents(ctx context.Context, aggregateID models.ID, evts []*events.Event, expectedVersion int) error {
	if len(evts) == 0 {
		return nil
	}

	tx, err := es.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	// lock the stream so concurrent appends get consecutive versions
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", aggregateID.String()); err != nil {
		return errors.Wrap(err, "failed to lock event stream")
	}

	var currentVersion int
	err = tx.GetContext(ctx, &currentVersion,
		"SELECT COALESCE(MAX(stream_version), 0) FROM saga_events WHERE aggregate_id = $1",
		aggregateID.String())
	if err != nil {
		return errors.Wrap(err, "failed to get current version")
	}

	if expectedVersion != events.AnyVersion && currentVersion != expectedVersion {
		return errors.Errorf("concurrency conflict: expected version %d, got %d", expectedVersion, currentVersion)
	}

	query := `
		INSERT INTO saga_events (
			id, aggregate_id, event_type, version, data, metadata,
			timestamp, correlation_id, stream_version
		) VALUES (
			:id, :aggregate_id, :event_type, :version, :data, :metadata,
			:timestamp, :correlation_id, :stream_version
		)`

	for i, event := range evts {
		row, err := toPostgresEvent(event, currentVersion+i+1)
		if err != nil {
			return err
		}

		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return errors.Wrap(err, "failed to insert event")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit events")
}

// GetEvents retrieves all events for an aggregate
func (es *PostgresEventStore) GetEvents(ctx context.Context, aggregateID models.ID) ([]*events.Event, error) {
	var rows []postgresEvent
	err := es.db.SelectContext(ctx, &rows, selectEvents+" WHERE aggregate_id = $1 ORDER BY stream_version ASC", aggregateID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get events")
	}

	return toDomainEvents(rows)
}

// GetEventsByType retrieves events by type with pagination
func (es *PostgresEventStore) GetEventsByType(ctx context.Context, eventType string, offset, limit int) ([]*events.Event, error) {
	var rows []postgresEvent
	err := es.db.SelectContext(ctx, &rows, selectEvents+" WHERE event_type = $1 ORDER BY timestamp ASC LIMIT $2 OFFSET $3", eventType, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get events by type")
	}

	return toDomainEvents(rows)
}

func toPostgresEvent(event *events.Event, streamVersion int) (*postgresEvent, error) {
	data, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event data")
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event metadata")
	}

	return &postgresEvent{
		ID:            event.ID.String(),
		AggregateID:   event.AggregateID.String(),
		EventType:     event.EventType,
		Version:       event.Version,
		Data:          data,
		Metadata:      metadata,
		Timestamp:     event.Timestamp,
		CorrelationID: sql.NullString{String: event.CorrelationID.String(), Valid: event.CorrelationID != ""},
		StreamVersion: streamVersion,
	}, nil
}

func toDomainEvents(rows []postgresEvent) ([]*events.Event, error) {
	result := make([]*events.Event, len(rows))
	for i, row := range rows {
		metadata := make(events.Metadata)
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
				return nil, errors.Wrapf(err, "failed to unmarshal metadata of event %s", row.ID)
			}
		}

		result[i] = &events.Event{
			ID:            models.ID(row.ID),
			AggregateID:   models.ID(row.AggregateID),
			Topic:         events.Topic(row.EventType),
			EventType:     row.EventType,
			Version:       row.Version,
			Data:          json.RawMessage(row.Data),
			Metadata:      metadata,
			Timestamp:     row.Timestamp,
			CorrelationID: models.ID(row.CorrelationID.String),
		}
	}
	return result, nil
}
