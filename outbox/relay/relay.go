package relay

import (
	"context"
	"io"
	"time"

	nr "github.com/newrelic/go-agent/v3/newrelic"

	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/event"
	"devcart/product-outbox-relay/log"
	"devcart/product-outbox-relay/newrelic"
	"devcart/product-outbox-relay/outbox"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type repository interface {
	ClaimPendingBatch(ctx context.Context) (*outbox.Batch, error)
	ClaimRetryableFailedBatch(ctx context.Context) (*outbox.Batch, error)
	CommitBatch(ctx context.Context, batch *outbox.Batch)
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type publisher interface {
	io.Closer
	Publish(env *outbox.Envelope) error
}

// Relay drives claimed envelopes through the publisher on a fixed interval.
// Ticks run on a single goroutine and therefore never overlap; exclusivity
// across concurrently running relay instances comes from the store's
// skip-locked claim semantics, not from any in-process coordination.
type Relay struct {
	repo  repository
	pub   publisher
	cfg   *config.Config
	nrApp *nr.Application
}

func New(repo repository, pub publisher, cfg *config.Config, nrApp *nr.Application) *Relay {
	return &Relay{
		repo:  repo,
		pub:   pub,
		cfg:   cfg,
		nrApp: nrApp,
	}
}

// Run ticks until the context is cancelled. Each tick is bounded by the
// configured tick timeout so that a stuck publish cannot starve later ticks.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.GetPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, r.cfg.GetTickTimeout())
			r.Tick(tickCtx)
			cancel()
		}
	}
}

// Tick performs one relay pass: deliver a batch of PENDING envelopes, then a
// batch of retry-eligible FAILED envelopes. A claim error aborts the tick;
// nothing is lost because unclaimed rows remain PENDING and the next tick
// starts from scratch.
func (r *Relay) Tick(ctx context.Context) {
	ctx, txn := newrelic.ContextWithTxn(ctx, "relay: Relay.Tick()", r.nrApp)
	defer txn.End()

	if err := r.deliverBatch(ctx, txn, r.repo.ClaimPendingBatch); err != nil {
		log.Logger.WithError(err).Error("an unexpected error occurred claiming pending envelopes, aborting the tick")
		txn.NoticeError(err)
		return
	}

	if err := r.deliverBatch(ctx, txn, r.repo.ClaimRetryableFailedBatch); err != nil {
		log.Logger.WithError(err).Error("an unexpected error occurred claiming retryable envelopes, aborting the tick")
		txn.NoticeError(err)
	}
}

// RunCleanup deletes old PUBLISHED envelopes on a longer schedule than the
// delivery ticks. PENDING and FAILED envelopes survive regardless of age.
func (r *Relay) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.GetCleanupInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanupPass(ctx)
		}
	}
}

func (r *Relay) cleanupPass(ctx context.Context) {
	cutoff := time.Now().In(time.UTC).Add(-r.cfg.GetRetentionPeriod())
	rows, err := r.repo.DeletePublishedBefore(ctx, cutoff)
	if err != nil {
		log.Logger.WithError(err).Error("an error occurred whilst deleting published envelopes")
		return
	}

	if rows > 0 {
		log.Logger.Infof("deleted %d published envelopes older than %s", rows, cutoff)
	}
}

func (r *Relay) deliverBatch(ctx context.Context, txn *nr.Transaction, claim func(ctx context.Context) (*outbox.Batch, error)) error {
	batch, err := claim(ctx)
	if err != nil {
		if errors.Is(err, outbox.ErrNoEvents) {
			return nil
		}
		return err
	}

	log.Logger.WithFields(logrus.Fields{
		"batch_id":      batch.Id.String(),
		"num_envelopes": len(batch.Envelopes),
	}).Debug("delivering a claimed batch")

	for _, env := range batch.Envelopes {
		env.PublishError = r.deliver(ctx, env)
		if env.PublishError != nil {
			txn.NoticeError(env.PublishError)
		}
	}

	r.repo.CommitBatch(ctx, batch)

	return nil
}

// deliver publishes one envelope. Envelopes are processed independently, a
// failure here never affects the rest of the batch. A tick timeout is treated
// as a publish failure so the envelope is retried on a later tick.
func (r *Relay) deliver(ctx context.Context, env *outbox.Envelope) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "tick deadline exceeded before envelope was published")
	}

	if _, err := event.Decode(env.EventType, env.Payload); err != nil {
		log.Logger.WithFields(logrus.Fields{"envelope_id": env.Id, "event_type": env.EventType}).WithError(err).Error("claimed envelope has an undecodable payload")
		return err
	}

	if err := r.pub.Publish(env); err != nil {
		log.Logger.WithError(err).Debug("error encountered whilst publishing an envelope")
		return err
	}

	return nil
}
