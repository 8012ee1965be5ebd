package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	nr "github.com/newrelic/go-agent/v3/newrelic"

	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/job"
	"devcart/product-outbox-relay/log"
	"devcart/product-outbox-relay/newrelic"
	"devcart/product-outbox-relay/outbox"
	"devcart/product-outbox-relay/outbox/data"
	"devcart/product-outbox-relay/outbox/relay"
	"devcart/product-outbox-relay/prometheus"
)

func main() {
	nrApp, stopAgent := newrelic.StartAgent()
	defer stopAgent()

	ctx, cancel := context.WithCancel(context.Background())
	cfg, err := config.NewConfig()
	if err != nil {
		log.Logger.Fatalf("unable to create configuration: %s", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	db, dbClose := data.NewDB(cfg)
	defer dbClose()

	repo := outbox.NewRepository(db, cfg)

	if cfg.RunCleanup {
		exitCode := job.RunCleanup(ctx, repo, cfg)
		if exitCode > 0 {
			dbClose() // we call this manually because os.Exit() does not respect defer
			os.Exit(exitCode)
		}
		return
	}

	runRelay(ctx, nrApp, db, repo, cfg)
}

func runRelay(ctx context.Context, nrApp *nr.Application, db *sql.DB, repo outbox.Repository, cfg *config.Config) {
	stopRelay := relay.Start(ctx, cfg, repo, nrApp)
	defer stopRelay()

	go prometheus.ObservePendingEvents(repo, ctx)
	go prometheus.ObserveFailedEvents(repo, ctx)
	prometheus.StartHttpServer(cfg, db, repo)
}
