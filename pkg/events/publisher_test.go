package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shery7378/multifront/pkg/enums"
	"github.com/shery7378/multifront/pkg/logger"
)

type fakeSender struct {
	data        []byte
	attrs       map[string]string
	orderingKey string
	err         error
}

func (f *fakeSender) Send(ctx context.Context, data []byte, attrs map[string]string, orderingKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.data = data
	f.attrs = attrs
	f.orderingKey = orderingKey
	return "msg-1", nil
}

func orderPlacedEvent() DomainEvent {
	return DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateCheckout,
		AggregateID:   "chk-1",
		Data:          OrderPlaced{CheckoutID: "chk-1", OrderIDs: []string{"101", "102"}, StoreIDs: []string{"a", "b"}},
	}
}

func TestPubSubPublisherSendsEnvelope(t *testing.T) {
	sender := &fakeSender{}
	pub, err := NewPubSubPublisher(sender, logger.Nop())
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	if err := pub.Publish(context.Background(), orderPlacedEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	var env PayloadEnvelope
	if err := json.Unmarshal(sender.data, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.EventType != enums.EventOrderPlaced || env.Version != 1 || env.EventID == "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	var data OrderPlaced
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.OrderIDs) != 2 || data.OrderIDs[0] != "101" {
		t.Fatalf("unexpected order ids %v", data.OrderIDs)
	}
	if sender.attrs["event_type"] != "order_placed" || sender.attrs["aggregate_id"] != "chk-1" {
		t.Fatalf("unexpected attributes %v", sender.attrs)
	}
	if sender.orderingKey != "chk-1" {
		t.Fatalf("expected aggregate id as ordering key, got %q", sender.orderingKey)
	}
}

func TestPubSubPublisherPropagatesSendErrors(t *testing.T) {
	pub, _ := NewPubSubPublisher(&fakeSender{err: errors.New("unavailable")}, logger.Nop())
	if err := pub.Publish(context.Background(), orderPlacedEvent()); err == nil {
		t.Fatalf("expected send error")
	}
}

func TestNewEnvelopeRejectsUnencodableData(t *testing.T) {
	_, err := NewEnvelope(DomainEvent{EventType: enums.EventOrderPlaced, Data: make(chan int)})
	if err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestLogPublisher(t *testing.T) {
	if err := NewLogPublisher(logger.Nop()).Publish(context.Background(), orderPlacedEvent()); err != nil {
		t.Fatalf("log publisher: %v", err)
	}
}
