package jobs

import (
	"context"

	"github.com/wonny/liquidity/pkg/logger"
)

// ExpiringCache drops expired entries (fetcher.Service)
type ExpiringCache interface {
	Cleanup() int
}

// CacheCleanupJob cleans up expired series cache entries
type CacheCleanupJob struct {
	cache    ExpiringCache
	schedule string
	logger   *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cache ExpiringCache, schedule string, log *logger.Logger) *CacheCleanupJob {
	if schedule == "" {
		schedule = "0 */5 * * * *" // Every 5 minutes
	}
	return &CacheCleanupJob{
		cache:    cache,
		schedule: schedule,
		logger:   log.WithField("job", "cache_cleanup"),
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return j.schedule
}

// Run executes the job
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	removed := j.cache.Cleanup()
	if removed > 0 {
		j.logger.WithField("removed", removed).Debug("Expired cache entries removed")
	}
	return nil
}
