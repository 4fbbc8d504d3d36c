// Package session keeps short-lived per-thread conversational state and
// interprets short follow-up replies against it.
package session

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/model"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 20 * time.Minute

const shardCount = 16

// Store holds SessionState keyed by thread id with TTL expiry. Entries are
// sharded so unrelated conversations never contend on one lock. Eviction is
// lazy on Get; StartSweep adds a periodic pass for memory hygiene.
type Store struct {
	ttl    time.Duration
	now    func() time.Time
	shards [shardCount]*shard
}

type shard struct {
	mu      sync.Mutex
	entries map[model.ThreadID]*model.SessionState
}

type StoreOption func(*Store)

// WithTTL overrides the inactivity window.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock injects the wall clock, used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[model.ThreadID]*model.SessionState)}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) shardFor(id model.ThreadID) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// Get returns the session for the thread, or nil when missing or expired.
// An expired entry is deleted as a side effect.
func (s *Store) Get(id model.ThreadID) *model.SessionState {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	state, ok := sh.entries[id]
	if !ok {
		return nil
	}
	if s.now().Sub(state.UpdatedAt) > s.ttl {
		delete(sh.entries, id)
		return nil
	}
	return state
}

// Put stores the session, stamping its update time.
func (s *Store) Put(state *model.SessionState) {
	if state == nil || state.ThreadID == "" {
		return
	}
	state.UpdatedAt = s.now()

	sh := s.shardFor(state.ThreadID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.entries[state.ThreadID] = state
}

// Delete removes the session. Deleting a missing session is a no-op.
func (s *Store) Delete(id model.ThreadID) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.entries, id)
}

// Sweep removes every expired entry.
func (s *Store) Sweep() {
	now := s.now()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, state := range sh.entries {
			if now.Sub(state.UpdatedAt) > s.ttl {
				delete(sh.entries, id)
			}
		}
		sh.mu.Unlock()
	}
}

// StartSweep runs Sweep on the given interval until the context is done.
// Lazy eviction already guarantees correctness; this only bounds memory.
func (s *Store) StartSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
