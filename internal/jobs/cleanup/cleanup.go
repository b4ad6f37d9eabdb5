// Package cleanup periodically removes source photos that are past their
// retention window. Generated results stay; only visitor uploads expire.
package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Purger interface {
	PurgeStaleUploads(ctx context.Context, cutoff time.Time) (int, error)
}

// StatsSource reports completed generation totals; the sweep logs them so the
// exhibition team can read uptake off the logs without a dashboard.
type StatsSource interface {
	CountByCategory(ctx context.Context, category string) (int64, error)
}

type Job struct {
	purger    Purger
	stats     StatsSource
	retention time.Duration
	interval  time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func New(purger Purger, retention, interval time.Duration, log *zap.Logger) *Job {
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{
		purger:    purger,
		retention: retention,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// AttachStats adds per-category generation totals to each sweep's log output.
// Stats are optional; the job runs without them when postgres is down.
func (j *Job) AttachStats(source StatsSource) {
	j.stats = source
}

// Run blocks until ctx is cancelled, purging once per interval. The first
// sweep runs immediately so a restart does not postpone overdue deletions.
func (j *Job) Run(ctx context.Context) {
	if j.purger == nil || j.retention <= 0 || j.interval <= 0 {
		return
	}

	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Job) sweep(ctx context.Context) {
	cutoff := j.now().Add(-j.retention)
	deleted, err := j.purger.PurgeStaleUploads(ctx, cutoff)
	if err != nil {
		j.log.Warn("upload cleanup sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		j.log.Info("upload cleanup sweep finished", zap.Int("deleted", deleted))
	}

	j.logStats(ctx)
}

func (j *Job) logStats(ctx context.Context) {
	if j.stats == nil {
		return
	}

	fields := make([]zap.Field, 0, 3)
	for _, category := range []string{"past", "present", "future"} {
		count, err := j.stats.CountByCategory(ctx, category)
		if err != nil {
			j.log.Warn("generation stats unavailable", zap.Error(err))
			return
		}
		fields = append(fields, zap.Int64(category, count))
	}
	j.log.Info("completed generations to date", fields...)
}
