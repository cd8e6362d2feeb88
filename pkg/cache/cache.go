package cache

import "time"

// EvictionPolicyType selects the strategy used when the cache is full.
type EvictionPolicyType string

const (
	FIFOEvictionType EvictionPolicyType = "fifo"
	LRUEvictionType  EvictionPolicyType = "lru"
	LFUEvictionType  EvictionPolicyType = "lfu"
)

// CacheEntry is one cached analysis, keyed by the raw review text. Two
// reviews that normalize to the same cleaned text still get separate
// entries, because keyword explanations depend on the original wording.
type CacheEntry struct {
	ReviewText   string
	ResponseBody []byte
	Timestamp    time.Time
	LastAccessAt time.Time
	HitCount     int
	ExpiresAt    time.Time
}

// CacheStats summarizes cache effectiveness since process start.
type CacheStats struct {
	TotalEntries int     `json:"total_entries"`
	HitCount     int64   `json:"hit_count"`
	MissCount    int64   `json:"miss_count"`
	HitRatio     float64 `json:"hit_ratio"`
}
