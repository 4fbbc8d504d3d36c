package resolver

import (
	_ "embed"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data/synonyms.yml
var synonymsRaw []byte

//go:embed data/variations.yml
var variationsRaw []byte

// loadSynonyms builds the variant -> canonical token map from the embedded
// table.
func loadSynonyms() (map[string]string, error) {
	var table map[string][]string
	if err := yaml.Unmarshal(synonymsRaw, &table); err != nil {
		return nil, goerr.Wrap(err, "failed to parse synonym table")
	}

	out := make(map[string]string)
	for canonical, variants := range table {
		canonical = normalize(canonical)
		for _, v := range variants {
			out[normalize(v)] = canonical
		}
	}
	return out, nil
}

// loadVariations builds the canonical row name -> variant terms map from the
// embedded table. Keys and values are normalized.
func loadVariations() (map[string][]string, error) {
	var table map[string][]string
	if err := yaml.Unmarshal(variationsRaw, &table); err != nil {
		return nil, goerr.Wrap(err, "failed to parse variation table")
	}

	out := make(map[string][]string, len(table))
	for canonical, variants := range table {
		key := normalize(canonical)
		normalized := make([]string, 0, len(variants))
		for _, v := range variants {
			normalized = append(normalized, normalize(v))
		}
		out[key] = normalized
	}
	return out, nil
}

// expandSynonyms rewrites every token of the normalized text through the
// variant -> canonical map. Unknown tokens pass through unchanged.
func expandSynonyms(tokens []string, synonyms map[string]string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if canonical, ok := synonyms[tok]; ok {
			out[i] = canonical
		} else {
			out[i] = tok
		}
	}
	return out
}

// expandedText joins the synonym-expanded tokens back into one string for
// substring-level matching.
func expandedText(text string, synonyms map[string]string) string {
	return strings.Join(expandSynonyms(tokenize(text), synonyms), " ")
}
