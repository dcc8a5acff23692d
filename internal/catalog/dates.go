// Package catalog holds the pure data-normalization core of the tour
// catalog: grouping flat feed records into tour products and deriving the
// date, country and availability views both presentations consume.
//
// Nothing in this package performs I/O or logs; every function is a
// deterministic transformation of its inputs.
package catalog

import (
	"sort"
	"time"
)

// DateLayout is the ISO calendar date format used throughout the feed.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func validDate(s string) bool {
	_, ok := ParseDate(s, time.UTC)
	return ok
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// uniqueSorted returns the distinct values of in, ascending. ISO dates sort
// chronologically as strings.
func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
