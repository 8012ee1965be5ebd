package prometheus

import (
	"context"
	"time"

	"devcart/product-outbox-relay/log"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var outboxPendingEvents prom.Gauge

type pendingSizer interface {
	CountPending(ctx context.Context) (uint, error)
}

func init() {
	outboxPendingEvents = promauto.NewGauge(prom.GaugeOpts{
		Name: "outbox_pending_events",
		Help: "The number of envelopes in the outbox awaiting publication",
	})
}

func ObservePendingEvents(sizer pendingSizer, ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		size, err := sizer.CountPending(ctx)
		if err != nil {
			log.Logger.WithError(err).Error("an error occurred counting pending envelopes")
			time.Sleep(time.Second * 1)
			continue
		}

		outboxPendingEvents.Set(float64(size))

		time.Sleep(time.Second * 1)
	}
}
