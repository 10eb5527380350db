// Package retrieval selects the qualifying subset of a similarity query's
// matches. Pure functions over the query result - no side effects, so the
// caller owns error handling for the underlying index call.
package retrieval

import (
	"sort"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

// Result carries the raw match list next to the subset that passed the
// relevance floor, plus the deduplicated page set the subset covers.
type Result struct {
	Raw        []commonModels.Match
	Qualifying []commonModels.Match
	Pages      []int
}

// Filter applies the relevance floor to raw matches. If nothing qualifies
// but raw matches exist, every raw match qualifies - an empty context is
// only propagated when the query itself came back empty. The images-index
// chunk never qualifies as text; it rides along in Raw for the correlator.
func Filter(raw []commonModels.Match) Result {
	textMatches := make([]commonModels.Match, 0, len(raw))
	for _, m := range raw {
		if m.Metadata.Type != commonModels.ChunkTypeImagesIndex {
			textMatches = append(textMatches, m)
		}
	}

	qualifying := make([]commonModels.Match, 0, len(textMatches))
	for _, m := range textMatches {
		if m.Score > config.RelevanceFloor {
			qualifying = append(qualifying, m)
		}
	}

	//fallback: never return empty when the index actually found something
	if len(qualifying) == 0 && len(textMatches) > 0 {
		qualifying = textMatches
	}

	return Result{
		Raw:        raw,
		Qualifying: qualifying,
		Pages:      UniquePages(qualifying),
	}
}

// UniquePages deduplicates the page numbers of the given matches and sorts
// them ascending.
func UniquePages(matches []commonModels.Match) []int {
	seen := make(map[int]bool, len(matches))
	pages := make([]int, 0, len(matches))
	for _, m := range matches {
		p := m.Metadata.PageNumber
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	sort.Ints(pages)
	return pages
}

// MergePages merges already-deduplicated page lists into one deduplicated
// ascending list. Used by the multi-document aggregation, where page
// numbers are informational only.
func MergePages(lists ...[]int) []int {
	seen := make(map[int]bool)
	var merged []int
	for _, list := range lists {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				merged = append(merged, p)
			}
		}
	}
	sort.Ints(merged)
	return merged
}
