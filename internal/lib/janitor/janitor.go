// Package janitor periodically removes expired sessions.
package janitor

import (
	"band-manager/internal/lib/logger/sl"
	"band-manager/internal/lib/metrics"
	"context"
	"fmt"
	"github.com/robfig/cron/v3"
	"log/slog"
)

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type Janitor struct {
	log    *slog.Logger
	cron   *cron.Cron
	purger SessionPurger
}

// New schedules the purge with a standard cron expression or descriptor such as "@hourly".
func New(log *slog.Logger, purger SessionPurger, schedule string) (*Janitor, error) {
	const op = "janitor.New"

	j := &Janitor{
		log:    log.With(slog.String("component", "janitor")),
		cron:   cron.New(),
		purger: purger,
	}

	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, fmt.Errorf("%s: invalid schedule %q: %w", op, schedule, err)
	}

	return j, nil
}

// Run performs a single purge.
func (j *Janitor) Run() {
	const op = "janitor.Run"

	log := j.log.With(slog.String("op", op))

	purged, err := j.purger.PurgeExpiredSessions(context.Background())
	if err != nil {
		log.Error("failed to purge expired sessions", sl.Err(err))
		return
	}

	metrics.RecordSessionsPurged(purged)
	log.Debug("expired sessions purged", slog.Int64("count", purged))
}

// AddJob schedules an extra housekeeping task alongside the session purge.
func (j *Janitor) AddJob(schedule, name string, job func()) error {
	const op = "janitor.AddJob"

	if _, err := j.cron.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("%s: invalid schedule %q for %s: %w", op, schedule, name, err)
	}

	j.log.Debug("job scheduled", slog.String("job", name), slog.String("schedule", schedule))

	return nil
}

func (j *Janitor) Start() {
	j.log.Info("janitor started")
	j.cron.Start()
}

// Stop waits for a running purge to finish or for ctx to expire.
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
		j.log.Info("janitor stopped")
	case <-ctx.Done():
		j.log.Warn("janitor stop timed out")
	}
}
