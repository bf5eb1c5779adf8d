package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/magic-auth/internal/metrics"
	"github.com/ErlanBelekov/magic-auth/internal/repository"
	"github.com/robfig/cron/v3"
)

const purgeTimeout = 30 * time.Second

// Janitor periodically deletes expired login codes. Expiry is already
// enforced at redemption time; the purge keeps the collection from growing
// without bound.
type Janitor struct {
	codes  repository.CodeRepository
	cron   *cron.Cron
	spec   string
	logger *slog.Logger
}

func New(codes repository.CodeRepository, spec string, logger *slog.Logger) *Janitor {
	return &Janitor{
		codes:  codes,
		cron:   cron.New(),
		spec:   spec,
		logger: logger.With("component", "janitor"),
	}
}

// Start schedules the purge and begins running it.
func (j *Janitor) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.purge(ctx) }); err != nil {
		return fmt.Errorf("schedule purge: %w", err)
	}
	j.cron.Start()
	j.logger.Info("janitor started", "schedule", j.spec)
	return nil
}

// Stop halts the schedule and waits for an in-flight purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) purge(ctx context.Context) {
	purgeCtx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	n, err := j.codes.DeleteExpired(purgeCtx, time.Now())
	if err != nil {
		j.logger.ErrorContext(purgeCtx, "purge expired codes", "error", err)
		return
	}
	if n > 0 {
		metrics.CodesPurgedTotal.Add(float64(n))
		j.logger.InfoContext(purgeCtx, "purged expired codes", "count", n)
	}
}
