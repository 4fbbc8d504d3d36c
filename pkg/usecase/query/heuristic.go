package query

import (
	"regexp"
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/intent"
	"github.com/dinver-app/dinver-sub005/pkg/model"
)

// Deterministic fallback routing for when the oracle is unavailable or
// declines to select a tool. It only covers the common Croatian and English
// phrasings; anything it cannot classify becomes IntentUnknown, which the
// caller reports as AMBIGUOUS.

var (
	// "u restoranu Marabu", "restoran Kod Ive". The name is one or more
	// capitalized words following the marker; the marker itself is matched
	// case-insensitively but the name must stay capitalized, so the regexp
	// cannot carry a global (?i).
	restaurantRe = regexp.MustCompile(`\b[Rr]estoran[uae]?\s+((?:[A-ZČĆĐŠŽ][\p{L}'-]*\s?)+)`)

	openRe = regexp.MustCompile(`(?i)\b(otvoren|otvorena|otvoreno|radi li|radno vrijeme|je li otvoren|is .*open|open now)\b`)

	nearMeMarkers = []string{
		"blizu mene", "u blizini", "pokraj mene", "oko mene",
		"near me", "nearby", "close to me",
	}
)

// heuristicParse classifies the question with regular expressions and the
// embedded keyword tables. It never returns nil.
func (u *UseCase) heuristicParse(text string) *intent.Resolved {
	item := u.findItemKeyword(text)
	perks := u.findPerkKeywords(text)
	restaurant := findRestaurantName(text)

	// A marker word captured as a restaurant name while also matching an
	// item keyword is unresolvable here.
	if restaurant != "" && item != "" && u.taxonomy.MatchKeyword(restaurant, item) {
		return &intent.Resolved{Name: model.IntentUnknown}
	}

	switch {
	case restaurant != "" && openRe.MatchString(text):
		return &intent.Resolved{
			Name:             model.IntentIsRestaurantOpen,
			IsRestaurantOpen: &intent.IsRestaurantOpenArgs{Restaurant: restaurant, When: text},
		}
	case restaurant != "" && item != "":
		return &intent.Resolved{
			Name: model.IntentCheckItemInRestaurant,
			CheckItemInRestaurant: &intent.CheckItemInRestaurantArgs{
				Restaurant: restaurant,
				Item:       item,
			},
		}
	case item != "" && len(perks) > 0:
		return &intent.Resolved{
			Name: model.IntentFindByItemAndPerk,
			FindByItemAndPerk: &intent.FindByItemAndPerkArgs{
				Item:    item,
				Perks:   perks,
				GeoArgs: geoArgsFromText(u, text),
			},
		}
	case item != "":
		return &intent.Resolved{
			Name: model.IntentFindItemsNearby,
			FindItemsNearby: &intent.FindItemsNearbyArgs{
				Item:    item,
				GeoArgs: geoArgsFromText(u, text),
			},
		}
	case len(perks) > 0:
		return &intent.Resolved{
			Name: model.IntentFindByPerkNearby,
			FindPerkNearby: &intent.FindPerkNearbyArgs{
				Perks:   perks,
				GeoArgs: geoArgsFromText(u, text),
			},
		}
	}

	return &intent.Resolved{Name: model.IntentUnknown}
}

func (u *UseCase) findItemKeyword(text string) string {
	for _, item := range u.taxonomy.KnownItems() {
		if u.taxonomy.MatchKeyword(text, item) {
			return item
		}
	}
	return ""
}

func (u *UseCase) findPerkKeywords(text string) []string {
	var perks []string
	for _, perk := range u.taxonomy.KnownPerks() {
		if u.taxonomy.MatchKeyword(text, perk) {
			perks = append(perks, perk)
		}
	}
	return perks
}

func findRestaurantName(text string) string {
	m := restaurantRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// geoArgsFromText fills only the city, and only when the gazetteer knows it.
// A near-me marker leaves the args empty so the caller's coordinates apply.
func geoArgsFromText(u *UseCase, text string) intent.GeoArgs {
	for _, marker := range nearMeMarkers {
		if strings.Contains(strings.ToLower(text), marker) {
			return intent.GeoArgs{}
		}
	}
	if place, ok := u.geo.FindCityInText(text); ok {
		return intent.GeoArgs{City: place.Name}
	}
	return intent.GeoArgs{}
}
