package cache

import "time"

// Option applies a configuration option to the cache.
type Option func(*ttlCache)

// WithTTL sets how long an entry stays fresh. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *ttlCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity sets the maximum number of entries. Non-positive values are ignored.
func WithCapacity(capacity int) Option {
	return func(c *ttlCache) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(c *ttlCache) {
		if now != nil {
			c.now = now
		}
	}
}
