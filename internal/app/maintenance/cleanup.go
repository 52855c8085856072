// Package maintenance runs scheduled housekeeping for the listing service.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ehomehq/ehome/internal/monitoring"
	"github.com/ehomehq/ehome/pkg/logger"
)

const (
	// JobCachePurge removes expired rows from the database cache tier.
	JobCachePurge = "cache_purge"

	defaultCachePurgeSpec = "@hourly"
)

// CachePurger deletes expired cache entries and reports how many were removed.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type job struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

// Cleaner coordinates background maintenance tasks on a cron schedule.
type Cleaner struct {
	purger CachePurger
	cron   *cron.Cron
	now    func() time.Time
	log    *zap.Logger

	cachePurgeSchedule string
	jobs               []job
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithCachePurgeSchedule overrides the cron expression for the cache purge.
func WithCachePurgeSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.cachePurgeSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil purger disables the cache purge job,
// which is the case for every cache driver except the database tier.
func NewCleaner(purger CachePurger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		purger:             purger,
		now:                time.Now,
		cachePurgeSchedule: defaultCachePurgeSpec,
		log:                logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	if cleaner.purger != nil {
		cleaner.jobs = append(cleaner.jobs, job{
			name:     JobCachePurge,
			schedule: cleaner.cachePurgeSchedule,
			run:      cleaner.purgeCache,
		})
	}

	return cleaner
}

// ScheduleInterval returns the gap between the next two activations of a cron
// expression, relative to now.
func ScheduleInterval(spec string, now time.Time) (time.Duration, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, fmt.Errorf("maintenance: parse schedule %q: %w", spec, err)
	}
	first := schedule.Next(now)
	return schedule.Next(first).Sub(first), nil
}

// CachePurgeSchedule returns the cron expression of the cache purge job.
func (c *Cleaner) CachePurgeSchedule() string {
	return c.cachePurgeSchedule
}

// Enabled reports whether any job is registered.
func (c *Cleaner) Enabled() bool {
	return len(c.jobs) > 0
}

// Start registers jobs with the cron scheduler and launches it if at least one job is enabled.
func (c *Cleaner) Start() error {
	if !c.Enabled() {
		return nil
	}

	for _, j := range c.jobs {
		j := j
		if _, err := c.cron.AddFunc(j.schedule, func() {
			if err := c.execute(context.Background(), j); err != nil {
				c.log.Warn("maintenance job failed", zap.String("job", j.name), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", j.name, err)
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every job sequentially and aggregates their errors.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	for _, j := range c.jobs {
		errs = multierr.Append(errs, c.execute(ctx, j))
	}
	return errs
}

func (c *Cleaner) execute(ctx context.Context, j job) error {
	start := c.now()
	err := j.run(ctx)
	duration := c.now().Sub(start)

	if err != nil {
		monitoring.RecordMaintenanceRun(j.name, "failure", err.Error(), duration)
		return fmt.Errorf("maintenance: %s: %w", j.name, err)
	}
	monitoring.RecordMaintenanceRun(j.name, "success", "", duration)
	return nil
}

func (c *Cleaner) purgeCache(ctx context.Context) error {
	if c.purger == nil {
		return errors.New("cache purger not configured")
	}
	removed, err := c.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	monitoring.RecordCachePurge(removed)
	if removed > 0 {
		c.log.Debug("purged expired cache entries", zap.Int64("rows", removed))
	}
	return nil
}
