//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"net/http/httptest"
	"os"
	"reflect"
	"time"

	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/event"
	h "devcart/product-outbox-relay/integration/http"
	testkafka "devcart/product-outbox-relay/integration/kafka"
	"devcart/product-outbox-relay/kafka"
	"devcart/product-outbox-relay/log"
	"devcart/product-outbox-relay/outbox"
	"devcart/product-outbox-relay/outbox/data"
	"devcart/product-outbox-relay/outbox/relay"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
)

const (
	testModeDocker = "docker"
)

var (
	cfg          *config.Config
	db           *sql.DB
	syncProducer *testkafka.SyncProducer
	repo         outbox.Repository
	rel          *relay.Relay
	server       *httptest.Server
)

func init() {
	server = httptest.NewServer(h.GetHttpTestHandlerFunc())
	setupConfig()

	db, _ = data.NewDB(cfg)
	purgeOutboxTable()

	repo = outbox.NewRepository(db, cfg)

	syncProducer = testkafka.NewSyncProducer(cfg.KafkaHost)
	pub := kafka.NewPublisherWithProducer(syncProducer, cfg.BusTopic)

	rel = relay.New(repo, pub, cfg, nil)
}

func runRelayTick() {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetTickTimeout())
	defer cancel()
	rel.Tick(ctx)
}

func returnErrorFromSyncProducerForPayload(payload string, err error) {
	syncProducer.AddError(payload, err)
}

func newProductCreatedEnvelope(name string) *outbox.Envelope {
	ev := event.ProductCreated{
		Header:      event.NewHeader(uuid.New()),
		Name:        name,
		Description: "a " + name,
	}
	payload, err := event.Encode(ev)
	if err != nil {
		panic(err)
	}

	return outbox.NewEnvelope(ev.AggregateID(), event.AggregateProduct, ev.EventType(), payload)
}

func expectationFor(env *outbox.Envelope) testkafka.MessageExpectation {
	return testkafka.MessageExpectation{
		Env: env,
		Key: []byte(env.Id.String()),
		Headers: []*sarama.RecordHeader{
			{Key: []byte("envelope_id"), Value: []byte(env.Id.String())},
			{Key: []byte("event_type"), Value: []byte(env.EventType)},
			{Key: []byte("aggregate_type"), Value: []byte(env.AggregateType)},
			{Key: []byte("aggregate_id"), Value: []byte(env.AggregateId.String())},
		},
	}
}

//gocyclo:ignore
func consumeFromKafkaUntilMessagesReceived(exp []testkafka.MessageExpectation) *testkafka.ConsumerHandler {
	doneCh := make(chan bool)
	ctx, cancel := context.WithCancel(context.Background())

	toFind := make([]testkafka.MessageExpectation, len(exp))
	copy(toFind, exp)
	cons := &testkafka.ConsumerHandler{
		Consume: func(consumed *sarama.ConsumerMessage, c *testkafka.ConsumerHandler) {
			j := 0
			for _, m := range toFind {
				headersAreSame := reflect.DeepEqual(consumed.Headers, m.Headers)
				keysAreSame := bytes.Equal(consumed.Key, m.Key)
				if !headersAreSame || !keysAreSame || !bytes.Equal(m.Env.Payload, consumed.Value) {
					toFind[j] = m
					j++
				}
			}
			toFind = toFind[:j]
			if len(toFind) == 0 {
				c.MessagesFound = true
			}
		},
	}

	cl, err := sarama.NewConsumerGroup(cfg.KafkaHost, "test-cons", kafka.NewSaramaConfig(false, false))
	if err != nil {
		log.Logger.WithError(err).Panic("error occurred creating Kafka consumer group client")
	}

	go func() {
		for {
			log.Logger.Debugf("about to consume topic %s", cfg.BusTopic)
			if err := cl.Consume(ctx, []string{cfg.BusTopic}, cons); err != nil {
				log.Logger.WithError(err).Panic("error when consuming from Kafka")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for {
			if cons.MessagesFound {
				doneCh <- true
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	select {
	case <-time.After(10 * time.Second):
		break
	case <-doneCh:
		break
	}

	cancel()

	if err := cl.Close(); err != nil {
		log.Logger.WithError(err).Panic("error occurred closing Kafka client")
	}

	return cons
}

func setupConfig() *config.Config {
	var runInDocker bool
	if os.Getenv("GO_TEST_MODE") == testModeDocker {
		runInDocker = true
	}

	cfg = &config.Config{
		DBUser:                 "product-outbox-relay",
		DBPass:                 "product-outbox-relay",
		DBSchema:               "product-outbox-relay",
		DBOutboxTable:          "outbox_events",
		KafkaHost:              []string{"localhost:9092"},
		BusTopic:               "testProductEvents",
		SidecarProxyUrl:        server.URL,
		BatchSize:              250,
		MaxRetries:             3,
		RetryDelayMinutes:      5,
		PollIntervalMs:         1000,
		TickTimeoutMs:          60000,
		CleanupRetentionDays:   7,
		CleanupIntervalMinutes: 60,
	}

	if os.Getenv("DB_DRIVER") == string(config.MySQL) {
		cfg.DBDriver = config.MySQL
		cfg.DBPort = 13306
	} else {
		cfg.DBDriver = config.Postgres
		cfg.DBPort = 15432
	}

	if runInDocker {
		cfg.DBHost = cfg.DBDriver.String()
		cfg.DBPort = cfg.DBPort - 10000
		cfg.KafkaHost = []string{"kafka:29092"}
	} else {
		cfg.DBHost = "localhost"
	}

	return cfg
}
