package main

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// RouteCache memoizes computed paths
// The floor graph never changes after startup, so an entry stays valid
// for the life of the process
type RouteCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]cacheEntry
	order    []uint64 // insertion order for FIFO eviction
	hash     func(start, end string) uint64

	hits   int
	misses int
}

// cacheEntry keeps the endpoints so a hash collision reads as a miss
type cacheEntry struct {
	start string
	end   string
	path  []string
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Size   int `json:"size"`
}

// NewRouteCache creates a cache holding at most capacity paths
// A non-positive capacity disables caching
func NewRouteCache(capacity int) *RouteCache {
	return &RouteCache{
		capacity: capacity,
		entries:  make(map[uint64]cacheEntry),
		hash:     routeKey,
	}
}

func routeKey(start, end string) uint64 {
	return xxhash.Sum64String(start + "\x00" + end)
}

// Get returns a copy of the cached path for (start, end)
func (c *RouteCache) Get(start, end string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[c.hash(start, end)]
	if !ok || entry.start != start || entry.end != end {
		c.misses++
		return nil, false
	}
	c.hits++
	return append([]string(nil), entry.path...), true
}

// Put stores a path, evicting the oldest entry when full
// A colliding key is overwritten by the newer pair
func (c *RouteCache) Put(start, end string, path []string) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.hash(start, end)
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{
		start: start,
		end:   end,
		path:  append([]string(nil), path...),
	}
}

// Stats returns the current counters
func (c *RouteCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
}
