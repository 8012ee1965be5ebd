//go:build benchmarks
// +build benchmarks

package benchmarks

import (
	"context"
	"database/sql"
	"fmt"

	benchkafka "devcart/product-outbox-relay/benchmarks/kafka"
	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/event"
	"devcart/product-outbox-relay/kafka"
	"devcart/product-outbox-relay/outbox"
	"devcart/product-outbox-relay/outbox/data"

	"github.com/google/uuid"
)

var (
	repo         outbox.Repository
	cfg          *config.Config
	db           *sql.DB
	pub          kafka.Publisher
	syncProducer *benchkafka.SyncProducer
)

func init() {
	cfg = createConfig()

	db, _ = data.NewDB(cfg)
	purgeOutboxTable()

	repo = outbox.NewRepository(db, cfg)
	syncProducer = benchkafka.NewSyncProducer(cfg.KafkaHost)
	pub = kafka.NewPublisherWithProducer(syncProducer, cfg.BusTopic)
}

func purgeOutboxTable() {
	_, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s;", cfg.DBOutboxTable))
	if err != nil {
		panic(fmt.Sprintf("an error occurred cleaning the outbox table for benchmarks: %s", err))
	}
}

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

func newProductCreatedEnvelope() *outbox.Envelope {
	ev := event.ProductCreated{
		Header: event.NewHeader(uuid.New()),
		Name:   "bench",
	}
	payload, err := event.Encode(ev)
	if err != nil {
		panic(err)
	}

	return outbox.NewEnvelope(ev.AggregateID(), event.AggregateProduct, ev.EventType(), payload)
}

func createConfig() *config.Config {
	cfg = &config.Config{
		DBHost:        "localhost",
		DBPort:        13306,
		DBUser:        "product-outbox-relay",
		DBPass:        "product-outbox-relay",
		DBSchema:      "product-outbox-relay",
		DBDriver:      config.MySQL,
		DBOutboxTable: "outbox_events",
		KafkaHost:     []string{"localhost:9092"},
		BusTopic:      "benchProductEvents",
		MaxRetries:    3,
	}

	return cfg
}
