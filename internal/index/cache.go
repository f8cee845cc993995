package index

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
)

// cacheKey identifies one query. Point queries use low == high.
type cacheKey struct {
	kind      string
	low, high float64
}

func (k cacheKey) cacheable() bool {
	return !math.IsNaN(k.low) && !math.IsNaN(k.high)
}

// cacheEntry is a doubly-linked list node holding one query result.
type cacheEntry struct {
	key     cacheKey
	records []dataset.Record
	prev    *cacheEntry
	next    *cacheEntry
}

// resultCache is a fixed-capacity LRU of query results. Stored and returned
// slices are copies, so callers may modify what they get.
type resultCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
	head    *cacheEntry // Most recently used.
	tail    *cacheEntry // Least recently used.
	limit   int

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports result cache effectiveness.
type CacheStats struct {
	Hits     int64 `json:"hits"     yaml:"hits"`
	Misses   int64 `json:"misses"   yaml:"misses"`
	Entries  int   `json:"entries"  yaml:"entries"`
	Capacity int   `json:"capacity" yaml:"capacity"`
}

// HitRate returns hits as a fraction of lookups, 0 before the first lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// newResultCache returns nil when limit is not positive; a nil cache never hits.
func newResultCache(limit int) *resultCache {
	if limit <= 0 {
		return nil
	}

	return &resultCache{entries: make(map[cacheKey]*cacheEntry, limit), limit: limit}
}

func (c *resultCache) get(key cacheKey) ([]dataset.Record, bool) {
	if c == nil || !key.cacheable() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil, false
	}

	c.hits.Add(1)
	c.moveToFront(ent)

	return slices.Clone(ent.records), true
}

func (c *resultCache) put(key cacheKey, records []dataset.Record) {
	if c == nil || !key.cacheable() {
		return
	}

	records = slices.Clone(records)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		ent.records = records
		c.moveToFront(ent)

		return
	}

	if len(c.entries) >= c.limit {
		c.evictTail()
	}

	ent := &cacheEntry{key: key, records: records}
	c.entries[key] = ent
	c.addToFront(ent)
}

func (c *resultCache) stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Entries:  len(c.entries),
		Capacity: c.limit,
	}
}

func (c *resultCache) addToFront(ent *cacheEntry) {
	ent.prev = nil
	ent.next = c.head

	if c.head != nil {
		c.head.prev = ent
	}

	c.head = ent

	if c.tail == nil {
		c.tail = ent
	}
}

func (c *resultCache) unlink(ent *cacheEntry) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.head = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.tail = ent.prev
	}

	ent.prev, ent.next = nil, nil
}

func (c *resultCache) moveToFront(ent *cacheEntry) {
	if c.head == ent {
		return
	}

	c.unlink(ent)
	c.addToFront(ent)
}

func (c *resultCache) evictTail() {
	victim := c.tail
	if victim == nil {
		return
	}

	c.unlink(victim)
	delete(c.entries, victim.key)
}
