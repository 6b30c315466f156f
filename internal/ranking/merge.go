// Package ranking merges per-collection result lists into one ranked,
// deduplicated response.
package ranking

import (
	"sort"

	"github.com/hyperjump/kensaku/internal/models"
)

// Strategy selects which fields identify a duplicate result.
type Strategy int

const (
	// DedupByTuple treats two results as duplicates only when every
	// displayed field matches. Same content at different locations stays
	// visible.
	DedupByTuple Strategy = iota
	// DedupByLocation collapses results sharing (filename, location),
	// keeping the first seen. Useful when query variants surface the same
	// spot with different snippets.
	DedupByLocation
)

// Merger combines result lists from independent collections.
type Merger struct {
	strategy Strategy
}

// NewMerger creates a Merger. DedupByTuple is the default strategy.
func NewMerger(strategy Strategy) *Merger {
	return &Merger{strategy: strategy}
}

// Merge concatenates lists, drops duplicates (first seen wins), and sorts by
// score descending. The sort is stable so equal-score results keep their
// arrival order across runs.
func (m *Merger) Merge(lists ...[]models.ScoredResult) []models.ScoredResult {
	var total int
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]models.ScoredResult, 0, total)
	for _, l := range lists {
		for _, r := range l {
			key := m.key(r)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

func (m *Merger) key(r models.ScoredResult) string {
	if m.strategy == DedupByLocation {
		return r.Filename + "\x00" + r.Location
	}
	return r.Filename + "\x00" + string(r.FileType) + "\x00" + r.Location + "\x00" + r.Title + "\x00" + r.Content
}

// NormalizeScores rescales scores so the best result is 1.0. Raw BM25 values
// shrink toward zero for terms present in most of the corpus, so the min-score
// floor is applied as a fraction of the best hit rather than an absolute value.
func NormalizeScores(results []models.ScoredResult) []models.ScoredResult {
	var max float64
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}
	if max <= 0 {
		return results
	}
	for i := range results {
		results[i].Score /= max
	}
	return results
}

// FilterByMinScore drops results scoring below min.
func FilterByMinScore(results []models.ScoredResult, min float64) []models.ScoredResult {
	filtered := results[:0:0]
	for _, r := range results {
		if r.Score >= min {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// TopN truncates results to at most n entries.
func TopN(results []models.ScoredResult, n int) []models.ScoredResult {
	if n < 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
