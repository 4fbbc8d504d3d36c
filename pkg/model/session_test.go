package model_test

import (
	"testing"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestCanonicalKey(t *testing.T) {
	lat, lng := 45.815, 15.9819

	t.Run("id order does not change the key", func(t *testing.T) {
		a := &model.ResolvedParams{ItemQuery: "pizza", PerkIDs: []int{11, 10}}
		b := &model.ResolvedParams{ItemQuery: "pizza", PerkIDs: []int{10, 11}}
		gt.V(t, a.CanonicalKey(model.IntentFindItemsNearby)).Equal(b.CanonicalKey(model.IntentFindItemsNearby))
	})

	t.Run("intent is part of the key", func(t *testing.T) {
		p := &model.ResolvedParams{PerkIDs: []int{10}}
		gt.True(t, p.CanonicalKey(model.IntentFindByPerkNearby) != p.CanonicalKey(model.IntentFindItemsNearby))
	})

	t.Run("text casing is folded", func(t *testing.T) {
		a := &model.ResolvedParams{ItemQuery: "Pizza", City: "ZAGREB"}
		b := &model.ResolvedParams{ItemQuery: "pizza", City: "zagreb"}
		gt.V(t, a.CanonicalKey(model.IntentFindItemsNearby)).Equal(b.CanonicalKey(model.IntentFindItemsNearby))
	})

	t.Run("coordinates round to five decimals", func(t *testing.T) {
		lat2, lng2 := 45.8150000004, 15.9819000004
		a := &model.ResolvedParams{Lat: &lat, Lng: &lng}
		b := &model.ResolvedParams{Lat: &lat2, Lng: &lng2}
		gt.V(t, a.CanonicalKey(model.IntentFindItemsNearby)).Equal(b.CanonicalKey(model.IntentFindItemsNearby))
	})

	t.Run("radius changes the key", func(t *testing.T) {
		a := &model.ResolvedParams{Lat: &lat, Lng: &lng, RadiusKm: 5}
		b := &model.ResolvedParams{Lat: &lat, Lng: &lng, RadiusKm: 10}
		gt.True(t, a.CanonicalKey(model.IntentFindItemsNearby) != b.CanonicalKey(model.IntentFindItemsNearby))
	})

	t.Run("nil params still yield a key", func(t *testing.T) {
		var p *model.ResolvedParams
		gt.S(t, p.CanonicalKey(model.IntentUnknown)).Contains("intent=unknown")
	})
}

func TestResolvedParamsClone(t *testing.T) {
	lat := 45.815
	when := time.Date(2026, 6, 5, 20, 0, 0, 0, time.UTC)
	orig := &model.ResolvedParams{
		ItemQuery: "pizza",
		Lat:       &lat,
		When:      &when,
		PerkIDs:   []int{10},
	}

	c := orig.Clone()
	c.PerkIDs[0] = 99
	*c.Lat = 0
	c.ItemQuery = "burger"

	gt.V(t, orig.PerkIDs[0]).Equal(10)
	gt.V(t, *orig.Lat).Equal(45.815)
	gt.V(t, orig.ItemQuery).Equal("pizza")
}
