package library

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sinceLayouts are the accepted absolute date formats, most specific first.
var sinceLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSince parses a --since value into the cutoff time. Accepted forms are
// "Nd" (N days before now), "Nh" (N hours before now), or an absolute date or
// datetime such as "2026-08-01" or "2026-08-01 14:30:00".
func ParseSince(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty --since value")
	}

	if n, ok := relativeAmount(value, "d"); ok {
		return now.Add(-time.Duration(n) * 24 * time.Hour), nil
	}
	if n, ok := relativeAmount(value, "h"); ok {
		return now.Add(-time.Duration(n) * time.Hour), nil
	}

	for _, layout := range sinceLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format %q: use YYYY-MM-DD, Nd (N days ago), or Nh (N hours ago)", value)
}

// relativeAmount parses values like "7d" or "24h" for the given unit suffix.
func relativeAmount(value, suffix string) (int, bool) {
	if !strings.HasSuffix(value, suffix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(value, suffix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
