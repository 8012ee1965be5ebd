package prometheus

import (
	"net/http"

	"devcart/product-outbox-relay/config"
	h "devcart/product-outbox-relay/http"
	"devcart/product-outbox-relay/log"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func StartHttpServer(cfg *config.Config, db h.Pinger, counter h.Counter) {
	http.Handle("/metrics", promhttp.Handler())
	http.Handle("/healthz", h.NewHealthzHandler(cfg.GetDependencySystemAddresses(), db))
	http.Handle("/outbox/metrics", h.NewMetricsHandler(counter))
	http.Handle("/outbox/health", h.NewHealthHandler(counter, cfg.FailedEventsThreshold))

	err := http.ListenAndServe(":80", nil)
	if err != nil {
		log.Logger.Fatalf("failed to start prometheus HTTP server: %s", err)
	}
}
