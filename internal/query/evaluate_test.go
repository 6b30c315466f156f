package query

import (
	"sort"
	"testing"

	"github.com/hyperjump/kensaku/internal/analysis"
	"github.com/hyperjump/kensaku/internal/index"
)

func buildIndex(t *testing.T, docs map[int64]string) *index.Index {
	t.Helper()
	tok := analysis.NewTokenizer(nil)
	ix := index.New()
	for id, text := range docs {
		ix.AddDocument(id, tok.Terms(text))
	}
	return ix
}

func docIDs(matches []Match) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.DocID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestEvaluateTerm(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "The quick brown fox",
		2: "a slow green turtle",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "quick")
	if err != nil {
		t.Fatalf("EvaluateQuery: %v", err)
	}
	if got := docIDs(matches); len(got) != 1 || got[0] != 1 {
		t.Errorf("docs = %v, want [1]", got)
	}
	if matches[0].Score <= 0 {
		t.Errorf("score = %f, want > 0", matches[0].Score)
	}
}

func TestEvaluateMultiTokenRequiresAll(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "quick brown fox",
		2: "quick turtle",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "quick fox")
	if err != nil {
		t.Fatalf("EvaluateQuery: %v", err)
	}
	if got := docIDs(matches); len(got) != 1 || got[0] != 1 {
		t.Errorf("docs = %v, want [1]", got)
	}
}

func TestEvaluateWildcard(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "the document archive",
		2: "the doctor visit",
		3: "nothing relevant",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "doc*")
	if err != nil {
		t.Fatalf("EvaluateQuery: %v", err)
	}
	if got := docIDs(matches); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("docs = %v, want [1 2]", got)
	}
	for _, m := range matches {
		if m.Score != 1.0 {
			t.Errorf("wildcard score = %f, want 1.0", m.Score)
		}
	}
}

func TestEvaluateWildcardCaseInsensitive(t *testing.T) {
	ix := buildIndex(t, map[int64]string{1: "searchable text"})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "SEARCH*")
	if err != nil {
		t.Fatalf("EvaluateQuery: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("matches = %d, want 1", len(matches))
	}
}

func TestEvaluateFuzzy(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "fresh apple pie",
		2: "orange juice",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "aple~")
	if err != nil {
		t.Fatalf("EvaluateQuery: %v", err)
	}
	if got := docIDs(matches); len(got) != 1 || got[0] != 1 {
		t.Errorf("docs = %v, want [1]", got)
	}
	// one edit away, so half the exact-match score
	if matches[0].Score != 0.5 {
		t.Errorf("score = %f, want 0.5", matches[0].Score)
	}
}

func TestEvaluateFuzzyDistanceBound(t *testing.T) {
	ix := buildIndex(t, map[int64]string{1: "apple"})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "zzzzz~")
	if err != nil {
		t.Fatalf("EvaluateQuery: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %d, want 0", len(matches))
	}
}

func TestEvaluateBoolean(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "cats and dogs living together",
		2: "dogs barking loudly",
		3: "cats sleeping quietly",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateQuery(ix, "cats AND dogs")
	if err != nil {
		t.Fatalf("AND: %v", err)
	}
	if got := docIDs(matches); len(got) != 1 || got[0] != 1 {
		t.Errorf("AND docs = %v, want [1]", got)
	}

	matches, err = e.EvaluateQuery(ix, "cats OR dogs")
	if err != nil {
		t.Fatalf("OR: %v", err)
	}
	if got := docIDs(matches); len(got) != 3 {
		t.Errorf("OR docs = %v, want all three", got)
	}
}

func TestEvaluateEmptyIndex(t *testing.T) {
	ix := index.New()
	e := NewEvaluator(analysis.NewTokenizer(nil))

	for _, raw := range []string{"anything", "any*", "anything~", "a AND b"} {
		matches, err := e.EvaluateQuery(ix, raw)
		if err != nil {
			t.Errorf("EvaluateQuery(%q): %v", raw, err)
		}
		if len(matches) != 0 {
			t.Errorf("EvaluateQuery(%q) = %d matches, want 0", raw, len(matches))
		}
	}
}

func TestEvaluateVariants(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "searching documents",
		2: "an unrelated page",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	// "earch" only hits through the *earch* wildcard variant
	matches, err := e.EvaluateVariants(ix, "earch")
	if err != nil {
		t.Fatalf("EvaluateVariants: %v", err)
	}
	if got := docIDs(matches); len(got) != 1 || got[0] != 1 {
		t.Errorf("docs = %v, want [1]", got)
	}
}

func TestEvaluateVariantsKeepsBestScore(t *testing.T) {
	ix := buildIndex(t, map[int64]string{
		1: "apple apple apple orchard",
		2: "banana stand",
	})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	matches, err := e.EvaluateVariants(ix, "apple")
	if err != nil {
		t.Fatalf("EvaluateVariants: %v", err)
	}
	if got := docIDs(matches); len(got) != 1 || got[0] != 1 {
		t.Fatalf("docs = %v, want [1]", got)
	}
	// the exact-term BM25 score must win over the wildcard's constant 1.0
	// only if it is larger, never replaced by a weaker variant
	if matches[0].Score < 1.0 {
		t.Errorf("score = %f, want >= 1.0", matches[0].Score)
	}
}

func TestEvaluateVariantsOperatorQueriesRunAsIs(t *testing.T) {
	got := queryVariants("cats AND dogs")
	if len(got) != 1 || got[0] != "cats AND dogs" {
		t.Errorf("variants = %v, want the query unchanged", got)
	}
	got = queryVariants("Search")
	want := 5 // raw, wildcard, fuzzy, lower, upper
	if len(got) != want {
		t.Errorf("variants = %v, want %d entries", got, want)
	}
}

func TestEvaluateVariantsAllFailedReturnsEmpty(t *testing.T) {
	ix := buildIndex(t, map[int64]string{1: "some content"})
	e := NewEvaluator(analysis.NewTokenizer(nil))

	// operator queries get no rewrites, so a malformed one fails every variant
	matches, err := e.EvaluateVariants(ix, "content AND ")
	if err != nil {
		t.Fatalf("EvaluateVariants: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %v, want empty", matches)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"aple", "apple", 1},
		{"kitten", "sitting", 3},
		{"日本語", "日本", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
