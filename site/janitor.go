package site

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"barklounge/cache"
	"barklounge/contact"
	"barklounge/store"
)

// DefaultSweep runs the janitor every five minutes.
const DefaultSweep = "@every 5m"

// Janitor drops idle visitor stores, stale cache files and idle rate
// limiter buckets on a cron schedule.
type Janitor struct {
	registry    *store.Registry
	files       *cache.Files
	contact     *contact.ContactModule
	cacheMaxAge time.Duration
	idle        time.Duration
	cron        *cron.Cron
	log         *zap.Logger
}

// NewJanitor sweeps files older than cacheMaxAge and rate limiter buckets
// idle for idle. files and contactModule may be nil.
func NewJanitor(reg *store.Registry, files *cache.Files, contactModule *contact.ContactModule,
	cacheMaxAge, idle time.Duration, log *zap.Logger) *Janitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Janitor{
		registry:    reg,
		files:       files,
		contact:     contactModule,
		cacheMaxAge: cacheMaxAge,
		idle:        idle,
		cron:        cron.New(),
		log:         log.Named("janitor"),
	}
}

func (j *Janitor) Sweep() {
	evicted := j.registry.EvictIdle()

	removed := 0
	if j.files != nil && j.cacheMaxAge > 0 {
		n, err := j.files.ClearOld(j.cacheMaxAge)
		if err != nil {
			j.log.Warn("clearing old cache files", zap.Error(err))
		}
		removed = n
	}

	pruned := 0
	if j.contact != nil {
		pruned = j.contact.PruneLimiter(j.idle)
	}

	j.log.Debug("sweep done",
		zap.Int("stores_evicted", evicted),
		zap.Int("stores_live", j.registry.Len()),
		zap.Int("cache_files_removed", removed),
		zap.Int("limiter_buckets_pruned", pruned))
}

// Start schedules Sweep on spec, a robfig/cron expression.
func (j *Janitor) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.Sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule. The returned context is done once a running
// sweep has finished.
func (j *Janitor) Stop() context.Context {
	return j.cron.Stop()
}
