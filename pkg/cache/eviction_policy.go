package cache

// EvictionPolicy picks which entry to drop when the cache is at capacity.
// SelectVictim returns -1 for an empty entry list.
type EvictionPolicy interface {
	SelectVictim(entries []CacheEntry) int
}

type FIFOPolicy struct{}

func (p *FIFOPolicy) SelectVictim(entries []CacheEntry) int {
	if len(entries) == 0 {
		return -1
	}

	victim := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[victim].Timestamp) {
			victim = i
		}
	}
	return victim
}

type LRUPolicy struct{}

func (p *LRUPolicy) SelectVictim(entries []CacheEntry) int {
	if len(entries) == 0 {
		return -1
	}

	victim := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].LastAccessAt.Before(entries[victim].LastAccessAt) {
			victim = i
		}
	}
	return victim
}

type LFUPolicy struct{}

func (p *LFUPolicy) SelectVictim(entries []CacheEntry) int {
	if len(entries) == 0 {
		return -1
	}

	victim := 0
	for i := 1; i < len(entries); i++ {
		if entries[i].HitCount < entries[victim].HitCount {
			victim = i
		} else if entries[i].HitCount == entries[victim].HitCount {
			// Tie on frequency falls back to least recently used.
			if entries[i].LastAccessAt.Before(entries[victim].LastAccessAt) {
				victim = i
			}
		}
	}
	return victim
}

func policyFor(policyType EvictionPolicyType) EvictionPolicy {
	switch policyType {
	case LRUEvictionType:
		return &LRUPolicy{}
	case LFUEvictionType:
		return &LFUPolicy{}
	default:
		return &FIFOPolicy{}
	}
}
