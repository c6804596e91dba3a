package tagmerge

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"

	"github.com/spencermiles/gpt-track-id/internal/resolver"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy match.
const fuzzyThreshold = 0.9

// Matcher looks up track keys in a result mapping. By default only exact
// string matches count: model output whose key differs even in punctuation
// fails to reconcile. With fuzzy enabled, a miss falls back to
// normalized-key comparison and then Jaro-Winkler similarity, which changes
// observable behavior and is therefore opt-in.
type Matcher struct {
	fuzzy bool
}

// NewMatcher creates a Matcher. Pass fuzzy=true to enable the normalized and
// similarity-based fallbacks.
func NewMatcher(fuzzy bool) *Matcher {
	return &Matcher{fuzzy: fuzzy}
}

// Lookup finds the result for the given track key.
func (m *Matcher) Lookup(mapping map[string]resolver.TagResult, key string) (resolver.TagResult, bool) {
	if res, ok := mapping[key]; ok {
		return res, true
	}
	if !m.fuzzy {
		return resolver.TagResult{}, false
	}

	normalized := normalizeKey(key)
	var (
		best      resolver.TagResult
		bestScore float32
		found     bool
	)
	for candidate, res := range mapping {
		if normalizeKey(candidate) == normalized {
			return res, true
		}
		score, err := edlib.StringsSimilarity(normalized, normalizeKey(candidate), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score >= fuzzyThreshold && score > bestScore {
			best = res
			bestScore = score
			found = true
		}
	}
	return best, found
}

// normalizeKey lowercases a key and strips everything but letters, digits,
// and single spaces.
func normalizeKey(key string) string {
	var sb strings.Builder
	lastSpace := false
	for _, r := range strings.ToLower(key) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) && !lastSpace && sb.Len() > 0:
			sb.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}
