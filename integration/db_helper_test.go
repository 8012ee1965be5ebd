//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"devcart/product-outbox-relay/outbox"

	"github.com/google/uuid"
)

func purgeOutboxTable() {
	_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s;", cfg.DBOutboxTable))
	if err != nil {
		panic(fmt.Sprintf("an error occurred cleaning the outbox table for tests: %s", err))
	}
}

// insertEnvelopes writes envelopes through the repository exactly as a
// producing service would, inside a single transaction. Status, attempts and
// processed_at are written as set on the envelope, which lets tests seed
// failed or already published rows.
func insertEnvelopes(envs []*outbox.Envelope) {
	tx, err := db.Begin()
	if err != nil {
		panic(fmt.Sprintf("error creating a DB transaction: %s", err))
	}

	if err = repo.Insert(context.Background(), tx, envs); err != nil {
		panic(fmt.Sprintf("failed to insert envelopes: %s", err))
	}

	if err = tx.Commit(); err != nil {
		panic(fmt.Sprintf("error committing DB transaction: %s", err))
	}
}

func getEnvelope(id uuid.UUID) *outbox.Envelope {
	q := fmt.Sprintf("SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, status, processed_at, delivery_attempts, last_error FROM %s WHERE id = ?", cfg.DBOutboxTable)
	if cfg.DBDriver.Postgres() {
		q = strings.Replace(q, "?", "$1", 1)
	}

	env := &outbox.Envelope{}
	row := db.QueryRow(q, id)
	err := row.Scan(&env.Id, &env.AggregateType, &env.AggregateId, &env.EventType, &env.Payload, &env.CreatedAt, &env.Status, &env.ProcessedAt, &env.DeliveryAttempts, &env.LastError)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			panic(fmt.Sprintf("no envelope found with ID %s", id))
		}
		panic(fmt.Sprintf("an error occurred scanning the envelope: %s", err))
	}

	return env
}

func envelopeExists(id uuid.UUID) bool {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", cfg.DBOutboxTable)
	if cfg.DBDriver.Postgres() {
		q = strings.Replace(q, "?", "$1", 1)
	}

	var count int
	res := db.QueryRow(q, id)
	if err := res.Scan(&count); err != nil {
		panic(err)
	}

	return count > 0
}
