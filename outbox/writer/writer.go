package writer

import (
	"context"
	"database/sql"

	"devcart/product-outbox-relay/event"
	"devcart/product-outbox-relay/log"
	"devcart/product-outbox-relay/outbox"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type inserter interface {
	Insert(ctx context.Context, tx *sql.Tx, envelopes []*outbox.Envelope) error
}

// Writer persists domain events to the outbox table. It must be called with
// the transaction of the business operation that produced the events, so that
// the mutation and its envelopes commit or roll back together. The Writer
// never talks to the message bus; delivery happens later, via the relay.
type Writer struct {
	repo inserter
}

func New(repo inserter) Writer {
	return Writer{
		repo: repo,
	}
}

func (w Writer) Write(ctx context.Context, tx *sql.Tx, ev event.Event) error {
	return w.WriteBatch(ctx, tx, []event.Event{ev})
}

// WriteBatch enqueues one PENDING envelope per event inside the caller's
// transaction. A serialization failure is non-retryable and returned
// immediately; the caller must abort the transaction in that case, as no
// envelope may exist for an event that cannot be encoded.
func (w Writer) WriteBatch(ctx context.Context, tx *sql.Tx, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	envelopes := make([]*outbox.Envelope, 0, len(events))
	for _, ev := range events {
		payload, err := event.Encode(ev)
		if err != nil {
			return errors.Wrapf(err, "writer: could not serialize a %s event for aggregate %s", ev.EventType(), ev.AggregateID())
		}

		envelopes = append(envelopes, outbox.NewEnvelope(ev.AggregateID(), event.AggregateTypeFor(ev.EventType()), ev.EventType(), payload))
	}

	if err := w.repo.Insert(ctx, tx, envelopes); err != nil {
		return errors.Wrap(err, "writer: could not enqueue envelopes in the outbox")
	}

	log.Logger.WithFields(logrus.Fields{"num_events": len(events)}).Debug("enqueued domain events in the outbox")

	return nil
}
