package resolver_test

import (
	"testing"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/gt"
)

// fixedNow is Friday 2026-06-05 10:00 in Zagreb.
func fixedTemporal(t *testing.T) *resolver.Temporal {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Zagreb")
	gt.NoError(t, err)
	now := time.Date(2026, 6, 5, 10, 0, 0, 0, loc)

	tr, err := resolver.NewTemporal(resolver.WithClock(func() time.Time { return now }))
	gt.NoError(t, err)
	return tr
}

func TestTemporalResolve(t *testing.T) {
	tr := fixedTemporal(t)

	t.Run("no temporal expression", func(t *testing.T) {
		_, ok := tr.Resolve("ima li lignje")
		gt.False(t, ok)
	})

	t.Run("now words", func(t *testing.T) {
		at, ok := tr.Resolve("je li sada otvoren")
		gt.True(t, ok)
		gt.V(t, at.Hour()).Equal(10)
	})

	t.Run("weekday naming today advances a full week", func(t *testing.T) {
		at, ok := tr.Resolve("radi li petkom")
		gt.True(t, ok)
		gt.V(t, at.Day()).Equal(12)
		gt.V(t, at.Weekday()).Equal(time.Friday)
		// Noon default when no clock is given.
		gt.V(t, at.Hour()).Equal(12)
	})

	t.Run("today keeps the weekday on the same date", func(t *testing.T) {
		at, ok := tr.Resolve("radi li danas petak u 20:00")
		gt.True(t, ok)
		gt.V(t, at.Day()).Equal(5)
		gt.V(t, at.Hour()).Equal(20)
	})

	t.Run("future weekday with clock", func(t *testing.T) {
		at, ok := tr.Resolve("je li otvoren u subotu u 9:30")
		gt.True(t, ok)
		gt.V(t, at.Weekday()).Equal(time.Saturday)
		gt.V(t, at.Day()).Equal(6)
		gt.V(t, at.Hour()).Equal(9)
		gt.V(t, at.Minute()).Equal(30)
	})

	t.Run("sutra", func(t *testing.T) {
		at, ok := tr.Resolve("radi li sutra")
		gt.True(t, ok)
		gt.V(t, at.Day()).Equal(6)
	})

	t.Run("veceras implies the evening", func(t *testing.T) {
		at, ok := tr.Resolve("je li otvoreno veceras")
		gt.True(t, ok)
		gt.V(t, at.Day()).Equal(5)
		gt.V(t, at.Hour()).Equal(20)
	})

	t.Run("bare clock means today", func(t *testing.T) {
		at, ok := tr.Resolve("u 18.30")
		gt.True(t, ok)
		gt.V(t, at.Day()).Equal(5)
		gt.V(t, at.Hour()).Equal(18)
		gt.V(t, at.Minute()).Equal(30)
	})

	t.Run("croatian date without year", func(t *testing.T) {
		at, ok := tr.Resolve("radi li 20.6.")
		gt.True(t, ok)
		gt.V(t, at.Month()).Equal(time.June)
		gt.V(t, at.Day()).Equal(20)
		gt.V(t, at.Year()).Equal(2026)
	})

	t.Run("past date without year rolls to next year", func(t *testing.T) {
		at, ok := tr.Resolve("radi li 1.2.")
		gt.True(t, ok)
		gt.V(t, at.Year()).Equal(2027)
	})

	t.Run("iso date", func(t *testing.T) {
		at, ok := tr.Resolve("2026-12-24 u 18:00")
		gt.True(t, ok)
		gt.V(t, at.Month()).Equal(time.December)
		gt.V(t, at.Day()).Equal(24)
		gt.V(t, at.Hour()).Equal(18)
	})
}
