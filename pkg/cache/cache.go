// Package cache provides a small bounded LRU result cache with TTL, keyed
// by the canonical serialization of resolved query parameters.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/model"
)

const (
	DefaultMaxSize = 256
	DefaultTTL     = time.Minute
)

type entry struct {
	key        string
	results    []model.CandidateResult
	insertedAt time.Time
}

// Result holds candidate lists between turns so repeated and paginated
// queries skip the domain lookup. An entry older than the TTL is treated as
// absent on Get and evicted; at capacity the least recently used entry is
// dropped first.
type Result struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	order   *list.List
	entries map[string]*list.Element
}

type Option func(*Result)

// WithMaxSize bounds the number of entries.
func WithMaxSize(n int) Option {
	return func(c *Result) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Result) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the wall clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Result) {
		c.now = now
	}
}

// New creates an empty cache.
func New(opts ...Option) *Result {
	c := &Result{
		maxSize: DefaultMaxSize,
		ttl:     DefaultTTL,
		now:     time.Now,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached candidate list for the key. Expired entries are
// evicted and reported as absent.
func (c *Result) Get(key string) ([]model.CandidateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}

	c.order.MoveToFront(el)
	return e.results, true
}

// Set stores the candidate list, evicting the oldest entry first when at
// capacity.
func (c *Result) Set(key string, results []model.CandidateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.results = results
		e.insertedAt = c.now()
		c.order.MoveToFront(el)
		return
	}

	for len(c.entries) >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}

	el := c.order.PushFront(&entry{
		key:        key,
		results:    results,
		insertedAt: c.now(),
	})
	c.entries[key] = el
}

// Len returns the current entry count.
func (c *Result) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cleanup removes expired entries regardless of access patterns.
func (c *Result) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, el := range c.entries {
		if now.Sub(el.Value.(*entry).insertedAt) > c.ttl {
			c.order.Remove(el)
			delete(c.entries, key)
		}
	}
}

// StartCleanup runs Cleanup on the given interval until the context is
// done, bounding worst-case memory.
func (c *Result) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Cleanup()
			}
		}
	}()
}
