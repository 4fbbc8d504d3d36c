package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/cache"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/gt"
)

func results(n int) []model.CandidateResult {
	out := make([]model.CandidateResult, n)
	for i := range out {
		out[i] = model.CandidateResult{
			Restaurant: &model.Restaurant{ID: model.RestaurantID(fmt.Sprintf("r%d", i))},
		}
	}
	return out
}

func TestCacheGetSet(t *testing.T) {
	c := cache.New()

	_, ok := c.Get("missing")
	gt.False(t, ok)

	c.Set("a", results(3))
	got, ok := c.Get("a")
	gt.True(t, ok)
	gt.A(t, got).Length(3)

	// Update in place does not grow the cache.
	c.Set("a", results(1))
	got, ok = c.Get("a")
	gt.True(t, ok)
	gt.A(t, got).Length(1)
	gt.V(t, c.Len()).Equal(1)
}

func TestCacheTTL(t *testing.T) {
	now := time.Date(2026, 6, 5, 10, 0, 0, 0, time.UTC)
	c := cache.New(
		cache.WithTTL(time.Minute),
		cache.WithClock(func() time.Time { return now }),
	)

	c.Set("a", results(2))

	now = now.Add(59 * time.Second)
	_, ok := c.Get("a")
	gt.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("a")
	gt.False(t, ok)
	gt.V(t, c.Len()).Equal(0)
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(cache.WithMaxSize(2))

	c.Set("a", results(1))
	c.Set("b", results(1))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	gt.True(t, ok)

	c.Set("c", results(1))
	gt.V(t, c.Len()).Equal(2)

	_, ok = c.Get("b")
	gt.False(t, ok)
	_, ok = c.Get("a")
	gt.True(t, ok)
	_, ok = c.Get("c")
	gt.True(t, ok)
}

func TestCacheCleanup(t *testing.T) {
	now := time.Date(2026, 6, 5, 10, 0, 0, 0, time.UTC)
	c := cache.New(
		cache.WithTTL(time.Minute),
		cache.WithClock(func() time.Time { return now }),
	)

	c.Set("old", results(1))
	now = now.Add(2 * time.Minute)
	c.Set("fresh", results(1))

	c.Cleanup()
	gt.V(t, c.Len()).Equal(1)
	_, ok := c.Get("fresh")
	gt.True(t, ok)
}
