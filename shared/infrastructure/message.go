package infrastructure

import (
	"encoding/json"
	"time"

	"github.com/draftea/order-saga/shared/events"
	"github.com/draftea/order-saga/shared/models"
	"github.com/pkg/errors"
)

// envelope is the wire format shared by the SNS publisher and the SQS
// subscriber (raw message delivery).
type envelope struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Metadata      events.Metadata `json:"metadata"`
	Payload       json.RawMessage `json:"payload"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

func encodeEvent(event *events.Event) ([]byte, error) {
	payload, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	metadata := make(events.Metadata, len(event.Metadata))
	for k, v := range event.Metadata {
		if k == SQSMessageIDKey || k == SQSReceiptHandleKey {
			continue
		}
		metadata[k] = v
	}

	return json.Marshal(&envelope{
		ID:            event.ID.String(),
		AggregateID:   event.AggregateID.String(),
		Topic:         event.Topic.String(),
		EventType:     event.EventType,
		Version:       event.Version,
		Metadata:      metadata,
		Payload:       payload,
		CorrelationID: event.CorrelationID.String(),
		Timestamp:     event.Timestamp,
	})
}

func decodeEvent(body []byte) (*events.Event, error) {
	var msg envelope
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal message")
	}

	if msg.EventType == "" {
		msg.EventType = msg.Topic
	}

	topic, err := events.NewTopic(msg.Topic)
	if err != nil {
		return nil, errors.Wrapf(err, "message %s", msg.ID)
	}

	if msg.Metadata == nil {
		msg.Metadata = make(events.Metadata)
	}

	return &events.Event{
		ID:            models.ID(msg.ID),
		AggregateID:   models.ID(msg.AggregateID),
		Topic:         topic,
		EventType:     msg.EventType,
		Version:       msg.Version,
		Data:          msg.Payload,
		Metadata:      msg.Metadata,
		Timestamp:     msg.Timestamp,
		CorrelationID: models.ID(msg.CorrelationID),
	}, nil
}
