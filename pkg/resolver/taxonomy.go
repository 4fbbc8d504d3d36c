package resolver

import (
	"sort"
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Taxonomy maps free text to canonical taxonomy ids via exact, variation
// and token-level fuzzy matching.
type Taxonomy struct {
	synonyms   map[string]string
	variations map[string][]string
}

// NewTaxonomy loads the embedded synonym and variation tables.
func NewTaxonomy() (*Taxonomy, error) {
	synonyms, err := loadSynonyms()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load synonyms")
	}
	variations, err := loadVariations()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load variations")
	}
	return &Taxonomy{synonyms: synonyms, variations: variations}, nil
}

// Resolve returns the ids per dimension whose names are present in the
// text. A dimension with zero matches is omitted from the result.
func (t *Taxonomy) Resolve(text string, set *model.TaxonomySet) model.TaxonomyMatches {
	if set == nil {
		return model.TaxonomyMatches{}
	}

	expanded := expandedText(text, t.synonyms)
	tokens := strings.Fields(expanded)

	matches := model.TaxonomyMatches{}
	for _, dim := range model.Dimensions() {
		var ids []int
		seen := map[int]bool{}
		for _, entry := range set.Entries(dim) {
			if seen[entry.ID] {
				continue
			}
			if t.entryMatches(expanded, tokens, entry) {
				ids = append(ids, entry.ID)
				seen[entry.ID] = true
			}
		}
		if len(ids) > 0 {
			matches[dim] = ids
		}
	}
	return matches
}

// KnownItems returns the canonical item keywords of the synonym table,
// sorted. The heuristic fallback parser scans these.
func (t *Taxonomy) KnownItems() []string {
	seen := map[string]bool{}
	var items []string
	for _, canonical := range t.synonyms {
		if !seen[canonical] {
			seen[canonical] = true
			items = append(items, canonical)
		}
	}
	sort.Strings(items)
	return items
}

// KnownPerks returns the canonical perk names of the variation table,
// sorted.
func (t *Taxonomy) KnownPerks() []string {
	perks := make([]string, 0, len(t.variations))
	for name := range t.variations {
		perks = append(perks, name)
	}
	sort.Strings(perks)
	return perks
}

// MatchKeyword reports whether a single candidate term is present in the
// text, applying the same synonym expansion and fuzzy tolerance used for
// taxonomy rows.
func (t *Taxonomy) MatchKeyword(text, term string) bool {
	expanded := expandedText(text, t.synonyms)
	return t.termMatches(expanded, strings.Fields(expanded), normalize(term))
}

// entryMatches checks one taxonomy row against the expanded text in order:
// exact substring of either language's name, curated variations, then
// token-level fuzzy.
func (t *Taxonomy) entryMatches(expanded string, tokens []string, entry model.TaxonomyEntry) bool {
	for _, name := range []string{entry.NameHR, entry.NameEN} {
		if name == "" {
			continue
		}
		if t.termMatches(expanded, tokens, normalize(name)) {
			return true
		}
	}
	return false
}

func (t *Taxonomy) termMatches(expanded string, tokens []string, term string) bool {
	if term == "" {
		return false
	}

	// Multi-word names match at substring level only.
	if strings.Contains(expanded, term) {
		return true
	}

	for _, variant := range t.variations[term] {
		if strings.Contains(expanded, variant) {
			return true
		}
	}

	if strings.ContainsRune(term, ' ') {
		return false
	}

	for _, tok := range tokens {
		if tokenScore(tok, term) >= acceptScore {
			return true
		}
	}
	return false
}
