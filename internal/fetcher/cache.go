package fetcher

import (
	"sync"
	"time"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/logger"
)

type cacheEntry struct {
	series    contracts.Series
	fetchedAt time.Time
}

// SeriesCache is an in-memory TTL cache of downloaded series
// ⭐ SSOT: 프로세스 내 시계열 캐싱은 이 구조체에서만
type SeriesCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	logger  *logger.Logger
}

// CacheStats is a point-in-time view of the cache
type CacheStats struct {
	TotalCount   int `json:"total_count"`
	ExpiredCount int `json:"expired_count"`
}

// NewSeriesCache creates a new series cache
func NewSeriesCache(ttl time.Duration, log *logger.Logger) *SeriesCache {
	return &SeriesCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  log,
	}
}

// Get returns a cached series that has not expired
func (c *SeriesCache) Get(key string) (contracts.Series, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.expired(entry) {
		return contracts.Series{}, false
	}
	return entry.series, true
}

// Set stores s under key. Empty series are never cached.
func (c *SeriesCache) Set(key string, s contracts.Series) {
	if s.IsEmpty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{series: s, fetchedAt: c.now()}
}

// Delete removes key from the cache
func (c *SeriesCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear drops every entry and returns how many there were
func (c *SeriesCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	c.logger.WithField("count", n).Info("Cleared series cache")
	return n
}

// Len returns the number of entries, expired included
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CleanExpired removes expired entries
func (c *SeriesCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Debug("Cleaned expired series from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *SeriesCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{TotalCount: len(c.entries)}
	for _, entry := range c.entries {
		if c.expired(entry) {
			stats.ExpiredCount++
		}
	}
	return stats
}

func (c *SeriesCache) expired(entry cacheEntry) bool {
	return c.now().Sub(entry.fetchedAt) > c.ttl
}
