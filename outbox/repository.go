package outbox

import (
	"context"
	"database/sql"
	"time"

	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/log"
	s "devcart/product-outbox-relay/outbox/data/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoEvents = errors.New("no events eligible for claiming")

	columns = []string{"id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at", "status", "processed_at", "delivery_attempts", "last_error"}
)

type queryProvider interface {
	InsertSql() string
	ClaimPendingSql(limit int) string
	ClaimRetryableFailedSql(limit int) string
	MarkPublishedSql() string
	MarkFailedSql() string
	ResetToPendingSql(idCount int) string
	DeletePublishedBeforeSql() string
	CountByStatusSql() string
}

type Repository struct {
	db            *sql.DB
	cfg           *config.Config
	queryProvider queryProvider
}

func NewRepository(db *sql.DB, cfg *config.Config) Repository {
	return NewRepositoryWithQueryProvider(db, cfg, newQueryProvider(cfg.DBDriver, cfg.DBOutboxTable, columns))
}

func NewRepositoryWithQueryProvider(db *sql.DB, cfg *config.Config, qp queryProvider) Repository {
	return Repository{
		db:            db,
		cfg:           cfg,
		queryProvider: qp,
	}
}

// Insert persists envelopes inside the caller's transaction. It is the only
// repository operation available to event producers, everything else belongs
// to the relay. The envelopes are written exactly as given, with a PENDING
// status and zero delivery attempts.
func (r Repository) Insert(ctx context.Context, tx *sql.Tx, envelopes []*Envelope) error {
	q := r.queryProvider.InsertSql()
	for _, env := range envelopes {
		_, err := tx.ExecContext(ctx, q, env.Id, env.AggregateType, env.AggregateId, env.EventType, env.Payload, env.CreatedAt, env.Status.String(), env.ProcessedAt, env.DeliveryAttempts, env.LastError)
		if err != nil {
			return errors.Errorf("outbox: error inserting envelope %s into the outbox: %s", env.Id, err)
		}
	}

	return nil
}

// ClaimPendingBatch claims up to the configured batch size of PENDING
// envelopes, oldest first. Claimed rows are locked by an open transaction and
// skipped by concurrent claimants; they remain PENDING in storage until the
// batch is committed. The special ErrNoEvents value is returned when there is
// nothing to claim.
func (r Repository) ClaimPendingBatch(ctx context.Context) (*Batch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Errorf("outbox: error starting a claim transaction: %s", err)
	}

	envelopes, err := r.fetchEnvelopes(ctx, tx, r.queryProvider.ClaimPendingSql(r.cfg.BatchSize))
	if err != nil {
		rollback(tx)
		return nil, err
	}

	if len(envelopes) == 0 {
		rollback(tx)
		return nil, ErrNoEvents
	}

	return &Batch{Id: uuid.New(), Envelopes: envelopes, tx: tx}, nil
}

// ClaimRetryableFailedBatch claims FAILED envelopes that still have delivery
// attempts left and whose last attempt is older than the retry cool-down. The
// claimed rows are reset to PENDING within the claiming transaction before
// being returned, so they run through delivery exactly like a fresh batch.
func (r Repository) ClaimRetryableFailedBatch(ctx context.Context) (*Batch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Errorf("outbox: error starting a claim transaction: %s", err)
	}

	retryAfter := time.Now().In(time.UTC).Add(-r.cfg.GetRetryDelay())
	envelopes, err := r.fetchEnvelopes(ctx, tx, r.queryProvider.ClaimRetryableFailedSql(r.cfg.BatchSize), r.cfg.MaxRetries, retryAfter)
	if err != nil {
		rollback(tx)
		return nil, err
	}

	if len(envelopes) == 0 {
		rollback(tx)
		return nil, ErrNoEvents
	}

	ids := make([]interface{}, 0, len(envelopes))
	for _, env := range envelopes {
		ids = append(ids, env.Id)
	}

	if _, err = tx.ExecContext(ctx, r.queryProvider.ResetToPendingSql(len(ids)), ids...); err != nil {
		rollback(tx)
		return nil, errors.Errorf("outbox: error resetting failed envelopes to pending: %s", err)
	}

	for _, env := range envelopes {
		env.Status = StatusPending
		env.ProcessedAt = sql.NullTime{}
		env.LastError = sql.NullString{}
	}

	return &Batch{Id: uuid.New(), Envelopes: envelopes, tx: tx}, nil
}

// CommitBatch records the delivery outcome of every envelope in the batch and
// commits the claiming transaction, releasing the row locks. Envelopes without
// a PublishError are marked PUBLISHED; the rest are marked FAILED with their
// delivery attempts incremented.
func (r Repository) CommitBatch(ctx context.Context, batch *Batch) {
	log.Logger.WithFields(logrus.Fields{
		"batch_id":      batch.Id.String(),
		"num_envelopes": len(batch.Envelopes),
	}).Debug("starting batch commit")

	if batch.tx == nil {
		log.Logger.Errorf("cannot commit batch %s because it has no claim transaction", batch.Id)
		return
	}

	for _, env := range batch.Envelopes {
		if env.PublishError != nil {
			r.markFailed(ctx, batch.tx, env)
		} else {
			r.markPublished(ctx, batch.tx, env)
		}
	}

	if err := batch.tx.Commit(); err != nil {
		log.Logger.Errorf("error occurred committing the claim transaction for batch %s: %s", batch.Id, err)
	}
}

// DeletePublishedBefore removes PUBLISHED envelopes created before the cutoff.
// PENDING and FAILED envelopes are never touched, regardless of age.
func (r Repository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.queryProvider.DeletePublishedBeforeSql(), cutoff)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r Repository) CountPending(ctx context.Context) (uint, error) {
	return r.countByStatus(ctx, StatusPending)
}

func (r Repository) CountFailed(ctx context.Context) (uint, error) {
	return r.countByStatus(ctx, StatusFailed)
}

func (r Repository) countByStatus(ctx context.Context, status Status) (uint, error) {
	var count uint
	err := r.db.QueryRowContext(ctx, r.queryProvider.CountByStatusSql(), status.String()).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r Repository) fetchEnvelopes(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]*Envelope, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Errorf("outbox: error claiming a batch of envelopes: %s", err)
	}
	defer rows.Close()

	var envelopes []*Envelope
	for rows.Next() {
		env := &Envelope{}
		err = rows.Scan(&env.Id, &env.AggregateType, &env.AggregateId, &env.EventType, &env.Payload, &env.CreatedAt, &env.Status, &env.ProcessedAt, &env.DeliveryAttempts, &env.LastError)
		if err != nil {
			return nil, errors.Errorf("outbox: error scanning a claimed envelope: %s", err)
		}
		envelopes = append(envelopes, env)
	}

	return envelopes, rows.Err()
}

func (r Repository) markPublished(ctx context.Context, tx *sql.Tx, env *Envelope) {
	_, err := tx.ExecContext(ctx, r.queryProvider.MarkPublishedSql(), env.Id)
	if err != nil {
		log.Logger.Errorf("error occurred marking envelope %s as published: %s", env.Id, err)
	}
}

func (r Repository) markFailed(ctx context.Context, tx *sql.Tx, env *Envelope) {
	q := r.queryProvider.MarkFailedSql()

	log.Logger.WithFields(logrus.Fields{"query": q, "error_reason": env.PublishError, "id": env.Id}).Debug("updating failed envelope")

	_, err := tx.ExecContext(ctx, q, env.PublishError.Error(), env.Id)
	if err != nil {
		log.Logger.Errorf("error occurred marking envelope %s as failed: %s", env.Id, err)
	}
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Logger.Errorf("error rolling back the claim transaction: %s", err)
	}
}

func newQueryProvider(d config.DbDriver, table string, columns []string) queryProvider {
	switch true {
	case d.Postgres():
		return &s.PostgresQueryProvider{
			Table:   table,
			Columns: columns,
		}
	case d.MySQL():
		return &s.MysqlQueryProvider{
			Table:   table,
			Columns: columns,
		}
	}

	return nil
}
