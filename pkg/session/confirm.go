package session

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/resolver"
)

// DirectiveKind classifies a short follow-up reply.
type DirectiveKind string

const (
	// DirectiveAffirm applies the stored suggested action, or doubles the
	// last radius when no suggestion exists.
	DirectiveAffirm DirectiveKind = "affirm"
	// DirectiveSetRadius sets the radius explicitly ("do 5 km").
	DirectiveSetRadius DirectiveKind = "set_radius"
	// DirectiveRemoveFilter strips a named filter from the prior parameters.
	DirectiveRemoveFilter DirectiveKind = "remove_filter"
	// DirectiveAddFilter adds a named filter to the prior parameters.
	DirectiveAddFilter DirectiveKind = "add_filter"
)

// Directive is the parsed shape of a confirmation reply.
type Directive struct {
	Kind     DirectiveKind
	RadiusKm float64
	Term     string
}

var affirmWords = map[string]bool{
	"da": true, "moze": true, "ok": true, "okej": true, "vazi": true,
	"naravno": true, "svakako": true, "aha": true, "hocu": true,
	"yes": true, "yeah": true, "sure": true, "yep": true,
}

var (
	radiusRe = regexp.MustCompile(`(?i)\b(?:do|na|radius|unutar)\s+(\d+(?:[.,]\d+)?)\s*km\b`)
	bareKmRe = regexp.MustCompile(`(?i)^\s*(\d+(?:[.,]\d+)?)\s*km\s*$`)
	removeRe = regexp.MustCompile(`(?i)^\s*(?:makni|ukloni|izbaci|bez|remove|without)\s+(.+?)\s*$`)
	addRe    = regexp.MustCompile(`(?i)^\s*(?:dodaj|add|i jos)\s+(.+?)\s*$`)
)

// maxDirectiveTokens bounds what still counts as a follow-up directive.
// Longer texts are new questions and must go through intent routing even
// when they happen to contain "do 3 km" or start with "bez".
const maxDirectiveTokens = 5

// maxAffirmTokens bounds what still counts as a bare affirmation; longer
// replies are new queries, not confirmations.
const maxAffirmTokens = 3

// Interpret classifies a follow-up reply. It returns false when the text is
// not one of the four recognized confirmation shapes, in which case the turn
// must go through intent routing as usual.
func Interpret(text string) (*Directive, bool) {
	tokens := strings.Fields(strings.TrimSpace(text))
	if len(tokens) == 0 || len(tokens) > maxDirectiveTokens {
		return nil, false
	}

	if m := removeRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: DirectiveRemoveFilter, Term: m[1]}, true
	}
	if m := addRe.FindStringSubmatch(text); m != nil {
		return &Directive{Kind: DirectiveAddFilter, Term: m[1]}, true
	}
	if m := radiusRe.FindStringSubmatch(text); m != nil {
		if km, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return &Directive{Kind: DirectiveSetRadius, RadiusKm: km}, true
		}
	}
	if m := bareKmRe.FindStringSubmatch(text); m != nil {
		if km, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return &Directive{Kind: DirectiveSetRadius, RadiusKm: km}, true
		}
	}

	if len(tokens) > maxAffirmTokens {
		return nil, false
	}
	for _, tok := range tokens {
		tok = strings.Trim(strings.ToLower(tok), ".,!?")
		if !affirmWords[normalizeAffirm(tok)] && tok != "u" && tok != "redu" {
			return nil, false
		}
	}
	return &Directive{Kind: DirectiveAffirm}, true
}

func normalizeAffirm(tok string) string {
	r := strings.NewReplacer("ž", "z", "ć", "c", "č", "c")
	return r.Replace(tok)
}

// Apply merges a directive into the prior session's parameters and returns a
// fresh record. The prior state is never mutated and the suggested action is
// consumed. Removal matches taxonomy names by substring using the given
// taxonomy set. The store update is the caller's explicit side effect.
func Apply(prior *model.SessionState, d *Directive, maxRadiusKm float64, set *model.TaxonomySet) *model.ResolvedParams {
	if prior == nil || prior.LastParams == nil || d == nil {
		return nil
	}
	params := prior.LastParams.Clone()

	switch d.Kind {
	case DirectiveAffirm:
		if sa := prior.SuggestedAction; sa != nil && sa.RadiusToKm > 0 {
			params.RadiusKm = clampRadius(sa.RadiusToKm, maxRadiusKm)
		} else {
			params.RadiusKm = clampRadius(params.RadiusKm*2, maxRadiusKm)
		}

	case DirectiveSetRadius:
		params.RadiusKm = clampRadius(d.RadiusKm, maxRadiusKm)

	case DirectiveRemoveFilter:
		removeTerm(params, d.Term, set)

	case DirectiveAddFilter:
		// Term resolution needs the taxonomy resolver; the caller merges the
		// resolved ids via MergeMatches. Nothing to do here.
	}

	return params
}

// MergeMatches adds resolved taxonomy ids into the parameter record,
// deduplicating per dimension.
func MergeMatches(params *model.ResolvedParams, matches model.TaxonomyMatches) {
	params.FoodTypeIDs = mergeIDs(params.FoodTypeIDs, matches[model.DimensionFoodType])
	params.DietaryTypeIDs = mergeIDs(params.DietaryTypeIDs, matches[model.DimensionDietaryType])
	params.PerkIDs = mergeIDs(params.PerkIDs, matches[model.DimensionPerk])
	params.EstablishmentTypeIDs = mergeIDs(params.EstablishmentTypeIDs, matches[model.DimensionEstablishmentType])
	params.PriceCategoryIDs = mergeIDs(params.PriceCategoryIDs, matches[model.DimensionPriceCategory])
}

func mergeIDs(existing, added []int) []int {
	seen := make(map[int]bool, len(existing))
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range added {
		if !seen[id] {
			existing = append(existing, id)
			seen[id] = true
		}
	}
	return existing
}

// removeTerm strips ids whose taxonomy names match the term from the perk
// and food-type lists, and clears the item query when it matches. The term
// arrives case-inflected ("makni terasu"), so matching is fuzzy.
func removeTerm(params *model.ResolvedParams, term string, set *model.TaxonomySet) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return
	}

	if params.ItemQuery != "" && resolver.NameMatch(term, params.ItemQuery) {
		params.ItemQuery = ""
	}
	params.PerkIDs = filterIDs(params.PerkIDs, term, set.Entries(model.DimensionPerk))
	params.FoodTypeIDs = filterIDs(params.FoodTypeIDs, term, set.Entries(model.DimensionFoodType))
}

func filterIDs(ids []int, term string, entries []model.TaxonomyEntry) []int {
	names := make(map[int][]string, len(entries))
	for _, e := range entries {
		names[e.ID] = []string{e.NameHR, e.NameEN}
	}

	var kept []int
	for _, id := range ids {
		matched := false
		for _, name := range names[id] {
			if name != "" && resolver.NameMatch(term, name) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, id)
		}
	}
	return kept
}

func clampRadius(km, maxKm float64) float64 {
	if km < 0.1 {
		return 0.1
	}
	if km > maxKm {
		return maxKm
	}
	return km
}
