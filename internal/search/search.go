package search

import (
	"github.com/nikbrunner/tabscope/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Profile        model.Profile
	MatchedIndexes []int
	Score          int
}

// profileNames implements fuzzy.Source for a profile slice.
type profileNames []model.Profile

func (pn profileNames) String(i int) string {
	return pn[i].Name
}

func (pn profileNames) Len() int {
	return len(pn)
}

// FuzzySearchProfiles searches profiles by name using fuzzy matching.
// A query equal to a profile id returns just that profile.
// Returns results sorted by match score (best first).
func FuzzySearchProfiles(profiles []model.Profile, query string) []SearchResult {
	if query == "" {
		return nil
	}

	for _, p := range profiles {
		if p.ID == query {
			return []SearchResult{{Profile: p}}
		}
	}

	matches := fuzzy.FindFrom(query, profileNames(profiles))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Profile:        profiles[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
