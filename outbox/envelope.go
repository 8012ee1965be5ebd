package outbox

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   Status = "PENDING"
	StatusPublished Status = "PUBLISHED"
	StatusFailed    Status = "FAILED"
)

type Status string

// Envelope is one row of the outbox table: a serialized domain event together
// with its delivery bookkeeping. Envelopes are created PENDING inside the
// business transaction that produced the event, and mutated only by the relay
// afterwards.
type Envelope struct {
	Id               uuid.UUID
	AggregateType    string
	AggregateId      uuid.UUID
	EventType        string
	Payload          []byte
	CreatedAt        time.Time
	Status           Status
	ProcessedAt      sql.NullTime
	DeliveryAttempts int
	LastError        sql.NullString

	// PublishError records the outcome of the current delivery attempt. It is
	// transient, CommitBatch translates it into a status update.
	PublishError error
}

// NewEnvelope creates a PENDING envelope for a serialized event.
func NewEnvelope(aggregateId uuid.UUID, aggregateType, eventType string, payload []byte) *Envelope {
	return &Envelope{
		Id:            uuid.New(),
		AggregateType: aggregateType,
		AggregateId:   aggregateId,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now().In(time.UTC),
		Status:        StatusPending,
	}
}

// Batch is a set of envelopes claimed for delivery. The claiming DB
// transaction is held open until CommitBatch records each envelope's outcome,
// which is what keeps the rows invisible to other relay instances.
type Batch struct {
	Id        uuid.UUID
	Envelopes []*Envelope

	tx *sql.Tx
}

func (s Status) String() string {
	return string(s)
}
