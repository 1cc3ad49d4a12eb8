package services

import (
	"time"

	"github.com/sahilm/fuzzy"
)

// timeNow is truncated to milliseconds, the precision every backend round-trips.
var timeNow = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

const maxSearchResults = 20

// fuzzyRank returns source indexes ordered by match score, best first.
func fuzzyRank(query string, source fuzzy.Source, limit int) []int {
	matches := fuzzy.FindFrom(query, source)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
