package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shery7378/multifront/pkg/logger"
)

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

type sender interface {
	Send(ctx context.Context, data []byte, attrs map[string]string, orderingKey string) (string, error)
}

// PubSubPublisher sends envelopes to a Pub/Sub topic.
type PubSubPublisher struct {
	sender sender
	logg   *logger.Logger
}

func NewPubSubPublisher(s sender, logg *logger.Logger) (*PubSubPublisher, error) {
	if s == nil {
		return nil, errors.New("pubsub sender required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &PubSubPublisher{sender: s, logg: logg}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, event DomainEvent) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	attrs := map[string]string{
		"event_type":     string(envelope.EventType),
		"aggregate_type": string(envelope.AggregateType),
		"aggregate_id":   envelope.AggregateID,
		"event_id":       envelope.EventID,
	}
	// one ordering key per aggregate keeps a checkout's events in sequence
	msgID, err := p.sender.Send(ctx, raw, attrs, envelope.AggregateID)
	if err != nil {
		return fmt.Errorf("publish %s: %w", envelope.EventType, err)
	}
	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": envelope.EventType,
		"message_id": msgID,
	}), "domain event published")
	return nil
}

// LogPublisher only logs events. It backs local runs without Pub/Sub.
type LogPublisher struct {
	logg *logger.Logger
}

func NewLogPublisher(logg *logger.Logger) *LogPublisher {
	return &LogPublisher{logg: logg}
}

func (p *LogPublisher) Publish(ctx context.Context, event DomainEvent) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	if p.logg != nil {
		p.logg.Info(p.logg.WithFields(ctx, map[string]any{
			"event_id":     envelope.EventID,
			"event_type":   envelope.EventType,
			"aggregate_id": envelope.AggregateID,
			"data":         string(envelope.Data),
		}), "domain event (log only)")
	}
	return nil
}
