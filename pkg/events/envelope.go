package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shery7378/multifront/pkg/enums"
)

// DomainEvent is what services hand to a Publisher.
type DomainEvent struct {
	EventType     enums.EventType
	AggregateType enums.AggregateType
	AggregateID   string
	Data          any
	Version       int
	OccurredAt    time.Time
}

// PayloadEnvelope is the stable wire format of every published event.
type PayloadEnvelope struct {
	Version       int                 `json:"version"`
	EventID       string              `json:"eventId"`
	EventType     enums.EventType     `json:"eventType"`
	AggregateType enums.AggregateType `json:"aggregateType"`
	AggregateID   string              `json:"aggregateId"`
	OccurredAt    time.Time           `json:"occurredAt"`
	Data          json.RawMessage     `json:"data"`
}

// NewEnvelope stamps the event with an id and timestamp and encodes its data.
func NewEnvelope(event DomainEvent) (PayloadEnvelope, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return PayloadEnvelope{}, err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.Version == 0 {
		event.Version = 1
	}
	return PayloadEnvelope{
		Version:       event.Version,
		EventID:       uuid.NewString(),
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		OccurredAt:    event.OccurredAt,
		Data:          payload,
	}, nil
}
