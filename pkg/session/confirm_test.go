package session_test

import (
	"testing"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/session"
	"github.com/m-mizutani/gt"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		kind     session.DirectiveKind
		radiusKm float64
		term     string
		ok       bool
	}{
		{name: "bare affirmation", text: "da", kind: session.DirectiveAffirm, ok: true},
		{name: "affirmation with punctuation", text: "Da, može!", kind: session.DirectiveAffirm, ok: true},
		{name: "u redu", text: "u redu", kind: session.DirectiveAffirm, ok: true},
		{name: "english yes", text: "sure", kind: session.DirectiveAffirm, ok: true},
		{name: "explicit radius", text: "do 5 km", kind: session.DirectiveSetRadius, radiusKm: 5, ok: true},
		{name: "radius with decimal comma", text: "unutar 2,5 km", kind: session.DirectiveSetRadius, radiusKm: 2.5, ok: true},
		{name: "bare km", text: "10 km", kind: session.DirectiveSetRadius, radiusKm: 10, ok: true},
		{name: "remove filter", text: "makni terasu", kind: session.DirectiveRemoveFilter, term: "terasu", ok: true},
		{name: "remove in english", text: "without parking", kind: session.DirectiveRemoveFilter, term: "parking", ok: true},
		{name: "add filter", text: "dodaj parking", kind: session.DirectiveAddFilter, term: "parking", ok: true},
		{name: "multiword removal", text: "makni stolicu za djecu", kind: session.DirectiveRemoveFilter, term: "stolicu za djecu", ok: true},
		{name: "new question is not a directive", text: "gdje ima dobre pice u Zagrebu", ok: false},
		{name: "long reply is not an affirmation", text: "da ali samo ako ima terasu i parking", ok: false},
		{name: "long question with an embedded radius is a new query", text: "koji restoran u Splitu ima lignje do 3 km od centra?", ok: false},
		{name: "long question starting with bez is a new query", text: "bez obzira na sve, gdje ima dobre pizze u Zagrebu?", ok: false},
		{name: "empty", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := session.Interpret(tt.text)
			gt.V(t, ok).Equal(tt.ok)
			if !tt.ok {
				return
			}
			gt.V(t, d.Kind).Equal(tt.kind)
			gt.V(t, d.RadiusKm).Equal(tt.radiusKm)
			gt.V(t, d.Term).Equal(tt.term)
		})
	}
}

func confirmSet() *model.TaxonomySet {
	return &model.TaxonomySet{
		Tables: map[model.Dimension][]model.TaxonomyEntry{
			model.DimensionPerk: {
				{ID: 10, NameHR: "terasa", NameEN: "terrace"},
				{ID: 11, NameHR: "parking", NameEN: "parking"},
			},
			model.DimensionFoodType: {
				{ID: 1, NameHR: "pizza", NameEN: "pizza"},
			},
		},
	}
}

func TestApply(t *testing.T) {
	const maxRadius = 25.0

	prior := func() *model.SessionState {
		return &model.SessionState{
			ThreadID:   model.NewThreadID(),
			LastIntent: model.IntentFindItemsNearby,
			LastParams: &model.ResolvedParams{
				ItemQuery: "pizza",
				RadiusKm:  3,
				PerkIDs:   []int{10, 11},
			},
			SuggestedAction: &model.SuggestedAction{RadiusToKm: 6},
		}
	}

	t.Run("affirm applies the suggested radius", func(t *testing.T) {
		p := prior()
		params := session.Apply(p, &session.Directive{Kind: session.DirectiveAffirm}, maxRadius, confirmSet())
		gt.V(t, params.RadiusKm).Equal(6.0)
		// The prior record stays untouched.
		gt.V(t, p.LastParams.RadiusKm).Equal(3.0)
	})

	t.Run("affirm without a suggestion doubles the radius", func(t *testing.T) {
		p := prior()
		p.SuggestedAction = nil
		params := session.Apply(p, &session.Directive{Kind: session.DirectiveAffirm}, maxRadius, confirmSet())
		gt.V(t, params.RadiusKm).Equal(6.0)
	})

	t.Run("explicit radius is clamped to the maximum", func(t *testing.T) {
		params := session.Apply(prior(), &session.Directive{Kind: session.DirectiveSetRadius, RadiusKm: 100}, maxRadius, confirmSet())
		gt.V(t, params.RadiusKm).Equal(maxRadius)
	})

	t.Run("tiny radius is clamped up", func(t *testing.T) {
		params := session.Apply(prior(), &session.Directive{Kind: session.DirectiveSetRadius, RadiusKm: 0.01}, maxRadius, confirmSet())
		gt.V(t, params.RadiusKm).Equal(0.1)
	})

	t.Run("remove filter strips the perk", func(t *testing.T) {
		params := session.Apply(prior(), &session.Directive{Kind: session.DirectiveRemoveFilter, Term: "terasu"}, maxRadius, confirmSet())
		gt.V(t, params.PerkIDs).Equal([]int{11})
	})

	t.Run("remove clears a matching item query", func(t *testing.T) {
		params := session.Apply(prior(), &session.Directive{Kind: session.DirectiveRemoveFilter, Term: "pizza"}, maxRadius, confirmSet())
		gt.V(t, params.ItemQuery).Equal("")
	})

	t.Run("nil prior yields nil", func(t *testing.T) {
		params := session.Apply(nil, &session.Directive{Kind: session.DirectiveAffirm}, maxRadius, confirmSet())
		gt.True(t, params == nil)
	})
}

func TestMergeMatches(t *testing.T) {
	params := &model.ResolvedParams{PerkIDs: []int{10}}
	session.MergeMatches(params, model.TaxonomyMatches{
		model.DimensionPerk:     {10, 11},
		model.DimensionFoodType: {1},
	})
	gt.V(t, params.PerkIDs).Equal([]int{10, 11})
	gt.V(t, params.FoodTypeIDs).Equal([]int{1})
}
