// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package cache provides the in-memory TTL cache that sits in front of the
// upstream content sources.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// DefaultCleanupInterval is how often the janitor purges expired entries
// when no interval is given.
const DefaultCleanupInterval = time.Minute

// Entry represents a cached item with expiration
type Entry[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// Stats tracks cache performance counters
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe in-memory cache with a single default TTL.
//
// Expired entries are dropped lazily on Get and in bulk by Cleanup. Run the
// janitor (RunJanitor) to bound memory held by keys that are never read again.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	ttl     time.Duration
	now     func() time.Time

	statsMu sync.Mutex
	stats   Stats

	// onSizeChange is notified with the entry count after bulk changes.
	onSizeChange func(int)
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now          func() time.Time
	onSizeChange func(int)
}

// WithClock overrides time.Now. Tests use it to expire entries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSizeObserver registers a callback invoked with the entry count after
// Set, Clear and Cleanup.
func WithSizeObserver(fn func(int)) Option {
	return func(o *options) { o.onSizeChange = fn }
}

// New creates a cache whose entries live for ttl.
//
//	c := cache.New[[]models.ContentItem](5 * time.Minute)
//	c.Set("tmdb:trending", items)
//	if items, ok := c.Get("tmdb:trending"); ok {
//	    // use cached items
//	}
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		entries:      make(map[string]Entry[V]),
		ttl:          ttl,
		now:          o.now,
		onSizeChange: o.onSizeChange,
		stats:        Stats{LastCleanup: o.now()},
	}
}

// TTL returns the default time-to-live.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get retrieves a value by key. Expired entries are removed and reported as misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return zero, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.ExpiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.recordMiss()
		c.recordEvictions(1)
		return zero, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry[V]{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.setTotalKeys(size)
}

// Delete removes a specific cache entry by key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.recordEvictions(1)
	}
	c.setTotalKeys(size)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry[V])
	c.mu.Unlock()

	c.recordEvictions(evictions)
	c.setTotalKeys(0)
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache[V]) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// Cleanup removes all expired entries and returns how many were dropped.
func (c *Cache[V]) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	evicted := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += int64(evicted)
	c.stats.LastCleanup = now
	c.statsMu.Unlock()
	c.setTotalKeys(size)

	return evicted
}

// RunJanitor calls Cleanup every interval until ctx is canceled.
func (c *Cache[V]) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

func (c *Cache[V]) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
}

func (c *Cache[V]) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}

func (c *Cache[V]) recordEvictions(n int64) {
	c.statsMu.Lock()
	c.stats.Evictions += n
	c.statsMu.Unlock()
}

func (c *Cache[V]) setTotalKeys(n int) {
	c.statsMu.Lock()
	c.stats.TotalKeys = int64(n)
	c.statsMu.Unlock()

	if c.onSizeChange != nil {
		c.onSizeChange(n)
	}
}

// GenerateKey creates a cache key from a namespace and parameters
func GenerateKey(namespace string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", namespace, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, hash[:16])
}
