package ranking

import (
	"testing"

	"github.com/hyperjump/kensaku/internal/models"
)

func TestMergeSortsByScoreDescending(t *testing.T) {
	m := NewMerger(DedupByTuple)

	merged := m.Merge(
		[]models.ScoredResult{
			{Filename: "a.txt", FileType: models.FileTypeTxt, Location: "a.txt", Score: 0.5},
		},
		[]models.ScoredResult{
			{Filename: "b.csv", FileType: models.FileTypeCSV, Location: "row_2", Score: 2.0},
			{Filename: "c.csv", FileType: models.FileTypeCSV, Location: "row_3", Score: 1.0},
		},
	)

	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	if merged[0].Filename != "b.csv" || merged[1].Filename != "c.csv" || merged[2].Filename != "a.txt" {
		t.Errorf("order = %s, %s, %s", merged[0].Filename, merged[1].Filename, merged[2].Filename)
	}
}

func TestMergeStableForEqualScores(t *testing.T) {
	m := NewMerger(DedupByTuple)

	merged := m.Merge([]models.ScoredResult{
		{Filename: "first.txt", FileType: models.FileTypeTxt, Location: "first.txt", Score: 1.0},
		{Filename: "second.txt", FileType: models.FileTypeTxt, Location: "second.txt", Score: 1.0},
	})
	if merged[0].Filename != "first.txt" {
		t.Errorf("equal scores reordered: got %s first", merged[0].Filename)
	}
}

func TestMergeDedupByTuple(t *testing.T) {
	m := NewMerger(DedupByTuple)
	dup := models.ScoredResult{Filename: "a.txt", FileType: models.FileTypeTxt, Location: "a.txt", Content: "same", Score: 1.0}

	merged := m.Merge(
		[]models.ScoredResult{dup},
		[]models.ScoredResult{dup, {Filename: "a.txt", FileType: models.FileTypeTxt, Location: "a.txt", Content: "different", Score: 0.5}},
	)
	// exact duplicate collapses, differing content survives
	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
}

func TestMergeDedupByLocation(t *testing.T) {
	m := NewMerger(DedupByLocation)

	merged := m.Merge([]models.ScoredResult{
		{Filename: "a.txt", Location: "a.txt", Content: "snippet one", Score: 2.0},
		{Filename: "a.txt", Location: "a.txt", Content: "snippet two", Score: 1.0},
	})
	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	if merged[0].Content != "snippet one" {
		t.Errorf("first seen should win, got %q", merged[0].Content)
	}
}

func TestFilterByMinScore(t *testing.T) {
	results := []models.ScoredResult{
		{Filename: "a", Score: 0.05},
		{Filename: "b", Score: 0.5},
	}
	filtered := FilterByMinScore(results, 0.1)
	if len(filtered) != 1 || filtered[0].Filename != "b" {
		t.Errorf("filtered = %+v", filtered)
	}
}

func TestTopN(t *testing.T) {
	results := []models.ScoredResult{{Filename: "a"}, {Filename: "b"}, {Filename: "c"}}
	if got := TopN(results, 2); len(got) != 2 {
		t.Errorf("TopN(2) len = %d", len(got))
	}
	if got := TopN(results, 10); len(got) != 3 {
		t.Errorf("TopN(10) len = %d", len(got))
	}
}

func TestNormalizeScores(t *testing.T) {
	results := NormalizeScores([]models.ScoredResult{
		{Filename: "a.txt", Score: 0.04},
		{Filename: "b.txt", Score: 0.02},
		{Filename: "c.txt", Score: 0.01},
	})

	if results[0].Score != 1.0 {
		t.Errorf("best score = %f, want 1.0", results[0].Score)
	}
	if results[1].Score != 0.5 || results[2].Score != 0.25 {
		t.Errorf("relative scores = %f, %f, want 0.5, 0.25", results[1].Score, results[2].Score)
	}
}

func TestNormalizeScoresDegenerate(t *testing.T) {
	if got := NormalizeScores(nil); len(got) != 0 {
		t.Errorf("nil input = %v, want empty", got)
	}
	zero := NormalizeScores([]models.ScoredResult{{Filename: "a.txt", Score: 0}})
	if zero[0].Score != 0 {
		t.Errorf("zero score = %f, want unchanged", zero[0].Score)
	}
}
