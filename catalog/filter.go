package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterLocal ranks apps against query with normalized fuzzy matching over
// name, identifier and summary. Lower ranks sort first; apps with no match
// in any field are dropped. An empty query returns the input unchanged.
// Used for client-side filtering of the installed snapshot, where no catalog
// endpoint exists.
func FilterLocal(apps []App, query string) []App {
	query = strings.TrimSpace(query)
	if query == "" {
		return apps
	}

	type ranked struct {
		app  App
		rank int
	}

	matches := make([]ranked, 0, len(apps))
	for _, app := range apps {
		best := -1
		for _, field := range []string{app.Name, app.ID, app.Summary} {
			rank := fuzzy.RankMatchNormalizedFold(query, field)
			if rank >= 0 && (best < 0 || rank < best) {
				best = rank
			}
		}
		if best >= 0 {
			matches = append(matches, ranked{app: app, rank: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	result := make([]App, len(matches))
	for i, match := range matches {
		result[i] = match.app
	}
	return result
}
