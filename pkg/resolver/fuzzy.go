package resolver

import "strings"

const acceptScore = 0.8

// minTermLenForEditDistance guards the Levenshtein branch against false
// positives on short words.
const minTermLenForEditDistance = 5

// tokenScore rates how well a single query token matches a candidate term.
// Both inputs must already be lowercased and diacritic-folded.
//
//	1.00 exact equality
//	0.92 token is a prefix extension of the term ("pizzas" vs "pizza")
//	0.85 token prefix within Levenshtein distance 1 of the term
//	0.75 term is merely contained in the token
func tokenScore(token, term string) float64 {
	if token == term {
		return 1.0
	}
	if strings.HasPrefix(token, term) {
		return 0.92
	}
	if len(term) >= minTermLenForEditDistance {
		prefix := token
		if len(prefix) > len(term) {
			prefix = prefix[:len(term)]
		}
		if levenshtein(prefix, term) <= 1 {
			return 0.85
		}
	}
	if strings.Contains(token, term) {
		return 0.75
	}
	return 0
}

// levenshtein computes the edit distance between two strings, operating on
// bytes. Inputs are diacritic-folded ASCII by the time they get here.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// NameMatch reports whether a user-written name plausibly refers to the
// candidate name. Both sides are normalized; a containment either way or a
// per-token fuzzy hit counts.
func NameMatch(query, candidate string) bool {
	q := normalize(strings.TrimSpace(query))
	c := normalize(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return false
	}
	if strings.Contains(c, q) || strings.Contains(q, c) {
		return true
	}

	candidateTokens := tokenize(c)
	for _, qt := range tokenize(q) {
		for _, ct := range candidateTokens {
			if tokenScore(qt, ct) >= acceptScore {
				return true
			}
		}
	}
	return false
}

var diacriticFolder = strings.NewReplacer(
	"č", "c", "ć", "c", "đ", "d", "š", "s", "ž", "z",
	"Č", "c", "Ć", "c", "Đ", "d", "Š", "s", "Ž", "z",
	"ä", "a", "ö", "o", "ü", "u", "é", "e", "è", "e", "á", "a",
)

// normalize lowercases and folds diacritics so matching is insensitive to
// both.
func normalize(s string) string {
	return strings.ToLower(diacriticFolder.Replace(strings.ToLower(s)))
}

// tokenize splits normalized text into letter/digit runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
