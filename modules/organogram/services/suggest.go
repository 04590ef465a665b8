package services

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// suggest returns the closest entries of a closed list for a rejected value.
func suggest(value string, allowed []string) []string {
	value = strings.TrimSpace(value)
	if value == "" || len(allowed) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(value, allowed)
	sort.Sort(ranks)
	out := make([]string, 0, maxSuggestions)
	for _, rank := range ranks {
		if len(out) == maxSuggestions {
			return out
		}
		out = append(out, allowed[rank.OriginalIndex])
	}
	if len(out) > 0 {
		return out
	}

	type candidate struct {
		value    string
		distance int
	}
	lower := strings.ToLower(value)
	candidates := make([]candidate, 0, len(allowed))
	for _, a := range allowed {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(a))
		if d <= 2 {
			candidates = append(candidates, candidate{value: a, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].distance < candidates[j].distance })
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.value)
	}
	return out
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
