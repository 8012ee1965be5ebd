package prometheus

import (
	"context"
	"time"

	"devcart/product-outbox-relay/log"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var outboxFailedEvents prom.Gauge

type failedSizer interface {
	CountFailed(ctx context.Context) (uint, error)
}

func init() {
	outboxFailedEvents = promauto.NewGauge(prom.GaugeOpts{
		Name: "outbox_failed_events",
		Help: "The number of envelopes that have exhausted their delivery attempts",
	})
}

func ObserveFailedEvents(sizer failedSizer, ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		size, err := sizer.CountFailed(ctx)
		if err != nil {
			log.Logger.WithError(err).Error("an error occurred counting failed envelopes")
			time.Sleep(time.Second * 1)
			continue
		}

		outboxFailedEvents.Set(float64(size))

		time.Sleep(time.Second * 1)
	}
}
