package job

import (
	"context"
	"net/http"
	"time"

	"devcart/product-outbox-relay/config"
	"devcart/product-outbox-relay/log"
)

type PublishedDeleter interface {
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type cleanup struct {
	pd        PublishedDeleter
	retention time.Duration
	SidecarQuitter
}

// RunCleanup executes a single cleanup pass and returns a process exit code.
// It backs the one-shot cleanup mode used when the retention sweep runs as a
// scheduled job instead of inside the relay process.
func RunCleanup(ctx context.Context, repo PublishedDeleter, cfg *config.Config) int {
	j := newCleanupWithDefaultClient(repo, cfg.GetRetentionPeriod())
	if cfg.SidecarProxyUrl != "" {
		j.EnableSideCarProxyQuit(cfg.SidecarProxyUrl)
	}

	_, err := j.Execute(ctx)
	if err != nil {
		return 1
	}

	return 0
}

func newCleanupWithDefaultClient(pd PublishedDeleter, retention time.Duration) *cleanup {
	return newCleanup(pd, retention, http.DefaultClient)
}

func newCleanup(pd PublishedDeleter, retention time.Duration, cl httpPoster) *cleanup {
	return &cleanup{
		pd:        pd,
		retention: retention,
		SidecarQuitter: SidecarQuitter{
			Client: cl,
		},
	}
}

// Execute deletes published envelopes older than the retention window. Only
// envelopes in the PUBLISHED state are ever deleted, pending and failed ones
// are kept whatever their age.
func (c *cleanup) Execute(ctx context.Context) (int64, error) {
	cutoff := time.Now().In(time.UTC).Add(-c.retention)

	rows, err := c.pd.DeletePublishedBefore(ctx, cutoff)
	if err != nil {
		log.Logger.WithError(err).Error("an error occurred whilst deleting published envelopes")
		return 0, err
	}

	log.Logger.Infof("deleted %d published envelopes older than %s", rows, cutoff)

	if c.QuitSidecar {
		err = c.Quit()
		if err != nil {
			return 0, err
		}
	}

	return rows, nil
}
