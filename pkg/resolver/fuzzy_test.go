package resolver_test

import (
	"testing"

	"github.com/dinver-app/dinver-sub005/pkg/resolver"
	"github.com/m-mizutani/gt"
)

func TestNameMatch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		expected  bool
	}{
		{
			name:      "exact name",
			query:     "Marabu",
			candidate: "Marabu",
			expected:  true,
		},
		{
			name:      "query contained in candidate",
			query:     "marabu",
			candidate: "Restoran Marabu",
			expected:  true,
		},
		{
			name:      "candidate contained in query",
			query:     "restoran marabu zagreb",
			candidate: "Marabu",
			expected:  true,
		},
		{
			name:      "single typo in long name",
			query:     "Maraby",
			candidate: "Marabu",
			expected:  true,
		},
		{
			name:      "diacritics are folded",
			query:     "kod ive",
			candidate: "Kod Ive",
			expected:  true,
		},
		{
			name:      "unrelated names",
			query:     "Pizzeria Roko",
			candidate: "Sushi Bar Tekka",
			expected:  false,
		},
		{
			name:      "empty query",
			query:     "",
			candidate: "Marabu",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, resolver.NameMatch(tt.query, tt.candidate)).Equal(tt.expected)
		})
	}
}

func TestMatchKeyword(t *testing.T) {
	tax, err := resolver.NewTaxonomy()
	gt.NoError(t, err)

	t.Run("inflected form resolves through synonyms", func(t *testing.T) {
		// "pice" is two edits away from "pizza", so only the synonym table
		// can bridge it.
		gt.True(t, tax.MatchKeyword("gdje ima dobre pice", "pizza"))
	})

	t.Run("accusative case", func(t *testing.T) {
		gt.True(t, tax.MatchKeyword("trazim picu u centru", "pizza"))
	})

	t.Run("plural via prefix extension", func(t *testing.T) {
		gt.True(t, tax.MatchKeyword("najbolji burgeri u gradu", "burger"))
	})

	t.Run("unrelated keyword does not match", func(t *testing.T) {
		gt.False(t, tax.MatchKeyword("gdje ima dobre pice", "ramen"))
	})

	t.Run("short words never fuzzy match", func(t *testing.T) {
		gt.False(t, tax.MatchKeyword("idemo van", "riba"))
	})
}
