package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"eventsearch/internal/domain"
)

// GeoCacheJanitor periodically removes expired geo cache entries.
type GeoCacheJanitor struct {
	cache   domain.GeoCacheRepository
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewGeoCacheJanitor schedules purges with a cron spec such as "@hourly" or "0 * * * *".
func NewGeoCacheJanitor(cache domain.GeoCacheRepository, schedule string, timeout time.Duration, logger *slog.Logger) (*GeoCacheJanitor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	j := &GeoCacheJanitor{
		cache:   cache,
		cron:    cron.New(),
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
	if _, err := j.cron.AddFunc(schedule, func() { _, _ = j.Purge(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule geo cache purge %q: %w", schedule, err)
	}
	return j, nil
}

func (j *GeoCacheJanitor) Start() { j.cron.Start() }

// Stop stops the scheduler; the returned context is done once a running purge finishes.
func (j *GeoCacheJanitor) Stop() context.Context { return j.cron.Stop() }

// Purge deletes expired entries now.
func (j *GeoCacheJanitor) Purge(ctx context.Context) (int64, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	n, err := j.cache.PurgeExpired(ctx, j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "geo cache purge failed", slog.Any("error", err))
		return 0, fmt.Errorf("purge geo cache: %w", err)
	}
	j.logger.InfoContext(ctx, "geo cache purged", slog.Int64("removed", n))
	return n, nil
}
