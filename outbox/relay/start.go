package relay

import (
	"context"

	nr "github.com/newrelic/go-agent/v3/newrelic"

	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/kafka"
	"devcart/product-outbox-relay/log"
	"devcart/product-outbox-relay/outbox"
)

// Start wires a Relay to a Kafka publisher and runs the delivery and cleanup
// loops until the context is cancelled. The returned func closes the
// publisher and should be deferred by the caller.
func Start(ctx context.Context, cfg *config.Config, repo outbox.Repository, nrApp *nr.Application) func() {
	log.Logger.WithField("config", cfg).Info("starting outbox relay")

	pub := kafka.NewPublisher(cfg.KafkaHost, cfg.BusTopic, kafka.NewSaramaConfig(cfg.TLSEnable, cfg.TLSSkipVerifyPeer))

	r := New(repo, pub, cfg, nrApp)
	go r.Run(ctx)
	go r.RunCleanup(ctx)

	return func() {
		if err := pub.Close(); err != nil {
			log.Logger.WithError(err).Error("error closing kafka publisher during shutdown")
		}
	}
}
