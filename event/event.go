package event

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AggregateProduct        = "Product"
	AggregateProductVariant = "ProductVariant"
	AggregateUnknown        = "Unknown"
)

// Event is a domain event produced by the application layer when an aggregate
// is mutated. Events are persisted to the outbox in the same transaction as
// the mutation and relayed to the message bus later.
type Event interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
}

// Header carries the fields common to every domain event. Embed it in an
// event struct and provide EventType() on the struct itself.
type Header struct {
	ID          uuid.UUID `json:"eventId"`
	AggregateId uuid.UUID `json:"aggregateId"`
	At          time.Time `json:"occurredAt"`
}

func NewHeader(aggregateId uuid.UUID) Header {
	return Header{
		ID:          uuid.New(),
		AggregateId: aggregateId,
		At:          time.Now().In(time.UTC),
	}
}

func (h Header) EventID() uuid.UUID {
	return h.ID
}

func (h Header) AggregateID() uuid.UUID {
	return h.AggregateId
}

func (h Header) OccurredAt() time.Time {
	return h.At
}

// Encode serializes an event to its outbox payload form.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// AggregateTypeFor derives the aggregate classification from an event type
// tag. The derivation is best effort and falls back to "Unknown" for tags
// that do not follow the product naming convention.
func AggregateTypeFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, AggregateProductVariant):
		return AggregateProductVariant
	case strings.HasPrefix(eventType, AggregateProduct):
		return AggregateProduct
	default:
		return AggregateUnknown
	}
}
