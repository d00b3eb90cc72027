// Package cache provides the process-wide TTL cache that sits in front of
// document store reads.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/wptable/rankmatrix/pkg/metrics"
)

// Default bounds.
const (
	DefaultTTL      = time.Hour
	DefaultCapacity = 100
)

// Cache maps fingerprints to computed values.
type Cache interface {
	// Get returns the value stored under key if it is younger than the TTL.
	// Expired entries are removed on access.
	Get(key string) (any, bool)

	// Set stores value under key, evicting the oldest entry when full.
	Set(key string, value any)

	// Clear drops every entry and returns how many were removed.
	Clear() int

	Len() int

	Info() Info
}

// Info is a point-in-time view of the cache for the admin endpoint.
type Info struct {
	Size       int         `json:"size"`
	Capacity   int         `json:"capacity"`
	TTLSeconds float64     `json:"ttl_seconds"`
	Entries    []EntryInfo `json:"entries"`
}

// EntryInfo describes a single cached fingerprint.
type EntryInfo struct {
	Key        string  `json:"key"`
	AgeSeconds float64 `json:"age_seconds"`
	Expired    bool    `json:"expired"`
}

// entry is a cached value with the time it was stored.
type entry struct {
	value    any
	storedAt time.Time
}

// ttlCache implements Cache with a map guarded by a single mutex.
// Expiry is lazy and eviction scans for the smallest insertion time.
type ttlCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// New creates a cache with configuration options.
func New(opts ...Option) Cache {
	c := &ttlCache{
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[string]entry, c.capacity)
	return c
}

func (c *ttlCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		metrics.RecordCacheExpiration()
		metrics.UpdateCacheSize(len(c.entries))
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	c.entries[key] = entry{value: value, storedAt: c.now()}
	metrics.UpdateCacheSize(len(c.entries))
}

// evictOldest removes the entry with the smallest insertion time.
// Must be called with c.mu held.
func (c *ttlCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.storedAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		metrics.RecordCacheEviction()
	}
}

func (c *ttlCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]entry, c.capacity)
	metrics.RecordCacheClear()
	metrics.UpdateCacheSize(0)
	return n
}

func (c *ttlCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ttlCache) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	info := Info{
		Size:       len(c.entries),
		Capacity:   c.capacity,
		TTLSeconds: c.ttl.Seconds(),
		Entries:    make([]EntryInfo, 0, len(c.entries)),
	}
	for k, e := range c.entries {
		age := now.Sub(e.storedAt)
		info.Entries = append(info.Entries, EntryInfo{
			Key:        k,
			AgeSeconds: age.Seconds(),
			Expired:    age >= c.ttl,
		})
	}
	sort.Slice(info.Entries, func(i, j int) bool {
		return info.Entries[i].AgeSeconds > info.Entries[j].AgeSeconds
	})
	return info
}
