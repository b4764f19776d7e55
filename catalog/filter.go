package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Filter returns the tools in category whose title or description contains
// query (case-insensitive). Category "all" matches everything and "fav"
// matches tools for which isFavorite returns true.
func Filter(category, query string, isFavorite func(id string) bool) []Tool {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []Tool
	for _, t := range tools {
		if !inCategory(t, category, isFavorite) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func inCategory(t Tool, category string, isFavorite func(string) bool) bool {
	switch category {
	case "", CategoryAll:
		return true
	case CategoryFavorites:
		return isFavorite != nil && isFavorite(t.ID)
	default:
		return t.Category == category
	}
}

// Search ranks the tools in category by fuzzy match of query against
// "title description". An empty query returns the category in catalog
// order.
func Search(category, query string, isFavorite func(id string) bool) []Tool {
	candidates := Filter(category, "", isFavorite)
	if strings.TrimSpace(query) == "" {
		return candidates
	}

	targets := make([]string, len(candidates))
	for i, t := range candidates {
		targets[i] = t.Title + " " + t.Description
	}

	matches := fuzzy.Find(query, targets)
	out := make([]Tool, 0, len(matches))
	for _, m := range matches {
		out = append(out, candidates[m.Index])
	}
	return out
}
