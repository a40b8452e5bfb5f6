package vestractor

import (
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	maxSuggestions      = 3
	suggestionThreshold = 0.8
)

type scored struct {
	key        string
	similarity float64
}

// suggest returns the candidates most similar to key, best first.
func suggest(key string, candidates []string) []string {
	needle := strings.ToLower(key)

	var matches []scored
	for _, candidate := range candidates {
		similarity := matchr.JaroWinkler(needle, strings.ToLower(candidate), false)
		if similarity >= suggestionThreshold {
			matches = append(matches, scored{key: candidate, similarity: similarity})
		}
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		switch {
		case a.similarity > b.similarity:
			return -1
		case a.similarity < b.similarity:
			return 1
		}
		return 0
	})

	var out []string
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].key)
	}
	return out
}
