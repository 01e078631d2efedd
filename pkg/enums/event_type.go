package enums

// EventType names the domain events this service emits.
type EventType string

const (
	EventOrderPlaced EventType = "order_placed"
)

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// AggregateType names the entity an event is about.
type AggregateType string

const (
	AggregateCheckout AggregateType = "checkout"
)
