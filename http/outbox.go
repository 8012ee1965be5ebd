package http

import (
	"context"
	"encoding/json"
	"net/http"

	"devcart/product-outbox-relay/log"
)

// Counter reports how many envelopes sit in each non-terminal-success state.
type Counter interface {
	CountPending(ctx context.Context) (uint, error)
	CountFailed(ctx context.Context) (uint, error)
}

type outboxMetrics struct {
	PendingEvents uint `json:"pendingEvents"`
	FailedEvents  uint `json:"failedEvents"`
}

type outboxHealth struct {
	Status        string `json:"status"`
	PendingEvents uint   `json:"pendingEvents"`
	FailedEvents  uint   `json:"failedEvents"`
	Message       string `json:"message,omitempty"`
}

type metricsHandler struct {
	counter Counter
}

// NewMetricsHandler returns a handler exposing the outbox backlog counts as a
// JSON document for consumption by dashboards and probes.
func NewMetricsHandler(counter Counter) http.Handler {
	return &metricsHandler{counter: counter}
}

func (h metricsHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	pending, failed, err := countOutbox(req.Context(), h.counter)
	if err != nil {
		log.Logger.WithError(err).Error("unable to count outbox envelopes")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJson(w, http.StatusOK, outboxMetrics{PendingEvents: pending, FailedEvents: failed})
}

type healthHandler struct {
	counter         Counter
	failedThreshold uint
}

// NewHealthHandler returns a handler that reports the outbox as DOWN when the
// number of terminally failed envelopes breaches the configured threshold. A
// breach means envelopes are being lost to the dead-letter state faster than
// operators are resolving them.
func NewHealthHandler(counter Counter, failedThreshold uint) http.Handler {
	return &healthHandler{
		counter:         counter,
		failedThreshold: failedThreshold,
	}
}

func (h healthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	pending, failed, err := countOutbox(req.Context(), h.counter)
	if err != nil {
		log.Logger.WithError(err).Error("unable to count outbox envelopes")
		writeJson(w, http.StatusServiceUnavailable, outboxHealth{Status: "DOWN", Message: "unable to query the outbox"})
		return
	}

	body := outboxHealth{
		Status:        "UP",
		PendingEvents: pending,
		FailedEvents:  failed,
	}

	if failed >= h.failedThreshold {
		body.Status = "DOWN"
		body.Message = "failed events have breached the configured threshold"
		writeJson(w, http.StatusServiceUnavailable, body)
		return
	}

	writeJson(w, http.StatusOK, body)
}

func countOutbox(ctx context.Context, counter Counter) (pending uint, failed uint, err error) {
	pending, err = counter.CountPending(ctx)
	if err != nil {
		return 0, 0, err
	}

	failed, err = counter.CountFailed(ctx)
	if err != nil {
		return 0, 0, err
	}

	return pending, failed, nil
}

func writeJson(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Logger.WithError(err).Error("unable to write outbox response body")
	}
}
