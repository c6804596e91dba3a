// Package tagmerge flattens resolved tag results into ordered, deduplicated
// tag lists and reconciles result-mapping keys against track keys.
package tagmerge

import (
	"strings"

	"github.com/spencermiles/gpt-track-id/internal/resolver"
)

// BuildTagList flattens one result into a single ordered tag list: genres in
// response order, then regions, then the era. Duplicates are removed keeping
// the first occurrence. The result may be empty when every field was absent.
func BuildTagList(res resolver.TagResult) []string {
	values := make([]string, 0, len(res.Genres)+len(res.Region)+1)
	values = append(values, res.Genres...)
	values = append(values, res.Region...)
	if res.Era != "" {
		values = append(values, res.Era)
	}
	return Dedupe(values)
}

// Dedupe removes duplicate and blank values while preserving the first
// occurrence of each. Values are trimmed of surrounding whitespace.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
