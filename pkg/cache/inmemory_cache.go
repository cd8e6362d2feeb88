package cache

import (
	"sync"
	"time"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/metrics"
)

// InMemoryCacheOptions configures NewInMemoryCache.
type InMemoryCacheOptions struct {
	Enabled        bool
	MaxEntries     int
	TTLSeconds     int
	EvictionPolicy EvictionPolicyType
}

// InMemoryCache stores analysis responses keyed by the exact raw review
// text. Lookups are linear scans; the entry count is bounded by
// MaxEntries, so scans stay cheap. All methods are safe for concurrent
// use.
type InMemoryCache struct {
	mu         sync.Mutex
	enabled    bool
	maxEntries int
	ttlSeconds int
	policy     EvictionPolicy
	entries    []CacheEntry
	hitCount   int64
	missCount  int64
}

func NewInMemoryCache(options InMemoryCacheOptions) *InMemoryCache {
	return &InMemoryCache{
		enabled:    options.Enabled,
		maxEntries: options.MaxEntries,
		ttlSeconds: options.TTLSeconds,
		policy:     policyFor(options.EvictionPolicy),
	}
}

func (c *InMemoryCache) IsEnabled() bool {
	return c.enabled
}

// AddEntry stores a response under the raw review text, replacing any
// existing entry for the same text. When the cache is full the configured
// eviction policy picks the victim.
func (c *InMemoryCache) AddEntry(reviewText string, responseBody []byte) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for i := range c.entries {
		if c.entries[i].ReviewText == reviewText {
			c.entries[i].ResponseBody = responseBody
			c.entries[i].Timestamp = now
			c.entries[i].LastAccessAt = now
			c.entries[i].ExpiresAt = c.expiry(now)
			return
		}
	}

	c.purgeExpired(now)
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if victim := c.policy.SelectVictim(c.entries); victim >= 0 {
			c.entries = append(c.entries[:victim], c.entries[victim+1:]...)
		}
	}

	c.entries = append(c.entries, CacheEntry{
		ReviewText:   reviewText,
		ResponseBody: responseBody,
		Timestamp:    now,
		LastAccessAt: now,
		ExpiresAt:    c.expiry(now),
	})
}

// Lookup returns the cached response for the exact review text. An expired
// entry counts as a miss and is dropped on the spot.
func (c *InMemoryCache) Lookup(reviewText string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for i := range c.entries {
		entry := &c.entries[i]
		if entry.ReviewText != reviewText {
			continue
		}
		if !entry.ExpiresAt.IsZero() && now.After(entry.ExpiresAt) {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
		entry.HitCount++
		entry.LastAccessAt = now
		c.hitCount++
		metrics.RecordCacheHit()
		return entry.ResponseBody, true
	}

	c.missCount++
	metrics.RecordCacheMiss()
	return nil, false
}

func (c *InMemoryCache) GetStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		TotalEntries: len(c.entries),
		HitCount:     c.hitCount,
		MissCount:    c.missCount,
	}
	if total := c.hitCount + c.missCount; total > 0 {
		stats.HitRatio = float64(c.hitCount) / float64(total)
	}
	return stats
}

func (c *InMemoryCache) expiry(now time.Time) time.Time {
	if c.ttlSeconds <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(c.ttlSeconds) * time.Second)
}

// purgeExpired drops expired entries so they never count against capacity.
// Callers must hold c.mu.
func (c *InMemoryCache) purgeExpired(now time.Time) {
	kept := c.entries[:0]
	for _, entry := range c.entries {
		if !entry.ExpiresAt.IsZero() && now.After(entry.ExpiresAt) {
			continue
		}
		kept = append(kept, entry)
	}
	c.entries = kept
}
