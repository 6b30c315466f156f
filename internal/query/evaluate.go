package query

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/analysis"
	"github.com/hyperjump/kensaku/internal/index"
	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// BM25 parameters. k1 controls term-frequency saturation, b controls
// document-length normalization.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Match is one document hit within a single collection.
type Match struct {
	DocID int64
	Score float64
}

// Evaluator runs query plans against an inverted index.
type Evaluator struct {
	tok           *analysis.Tokenizer
	maxDist       int
	wildcardScore float64
	logger        *zap.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithMaxEditDistance sets the fuzzy match edit-distance ceiling (default 2).
func WithMaxEditDistance(d int) EvaluatorOption {
	return func(e *Evaluator) {
		e.maxDist = d
	}
}

// WithEvalLogger attaches a logger for variant fan-out diagnostics.
func WithEvalLogger(logger *zap.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// NewEvaluator creates an Evaluator using tok to tokenize term queries the
// same way documents were tokenized at index time.
func NewEvaluator(tok *analysis.Tokenizer, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		tok:           tok,
		maxDist:       2,
		wildcardScore: 1.0,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateQuery parses raw and evaluates the resulting plan.
func (e *Evaluator) EvaluateQuery(ix *index.Index, raw string) ([]Match, error) {
	plan, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ix, plan)
}

// Evaluate runs one plan against ix. Results carry raw scores and no
// particular order; ranking happens at the merge stage.
func (e *Evaluator) Evaluate(ix *index.Index, plan *Plan) ([]Match, error) {
	scores, err := e.evaluate(ix, plan)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(scores))
	for id, score := range scores {
		matches = append(matches, Match{DocID: id, Score: score})
	}
	return matches, nil
}

// EvaluateVariants widens raw into several rewrites (as typed, wrapped in
// wildcards, fuzzy, lowercase, uppercase) and merges their hits, keeping the
// best score per document. A variant that fails to parse or evaluate is
// logged and skipped; when every variant fails the result is empty, never
// an error.
func (e *Evaluator) EvaluateVariants(ix *index.Index, raw string) ([]Match, error) {
	variants := queryVariants(raw)

	best := make(map[int64]float64)
	for _, v := range variants {
		matches, err := e.EvaluateQuery(ix, v)
		if err != nil {
			e.logger.Debug("query variant failed",
				zap.String("variant", v),
				zap.Error(err))
			continue
		}
		for _, m := range matches {
			if m.Score > best[m.DocID] {
				best[m.DocID] = m.Score
			}
		}
	}

	matches := make([]Match, 0, len(best))
	for id, score := range best {
		matches = append(matches, Match{DocID: id, Score: score})
	}
	return matches, nil
}

// queryVariants lists the rewrites tried for one user query. Queries that
// already carry an operator are run as-is only; rewrapping them would change
// their meaning.
func queryVariants(raw string) []string {
	q := strings.TrimSpace(raw)
	if strings.Contains(q, " AND ") || strings.Contains(q, " OR ") ||
		strings.Contains(q, "*") || strings.HasSuffix(q, "~") {
		return []string{q}
	}

	variants := []string{q, "*" + q + "*", q + "~"}
	if lower := strings.ToLower(q); lower != q {
		variants = append(variants, lower)
	}
	if upper := strings.ToUpper(q); upper != q {
		variants = append(variants, upper)
	}
	return variants
}

func (e *Evaluator) evaluate(ix *index.Index, plan *Plan) (map[int64]float64, error) {
	switch plan.Kind {
	case KindTerm:
		return e.evalTerm(ix, plan.Text), nil
	case KindWildcard:
		return e.evalWildcard(ix, plan.Text)
	case KindFuzzy:
		return e.evalFuzzy(ix, plan.Text), nil
	case KindAnd:
		return e.evalBoolean(ix, plan.Operands, true)
	case KindOr:
		return e.evalBoolean(ix, plan.Operands, false)
	}
	return nil, fmt.Errorf("%w: unknown plan kind %d", apperrors.ErrParse, plan.Kind)
}

// evalTerm scores documents containing every token of text with summed BM25.
func (e *Evaluator) evalTerm(ix *index.Index, text string) map[int64]float64 {
	terms := e.tok.Terms(text)
	if len(terms) == 0 {
		return nil
	}

	scores := e.scoreTerm(ix, terms[0])
	for _, term := range terms[1:] {
		next := e.scoreTerm(ix, term)
		for id := range scores {
			if add, ok := next[id]; ok {
				scores[id] += add
			} else {
				delete(scores, id)
			}
		}
	}
	return scores
}

// scoreTerm computes BM25 contributions for a single index term.
func (e *Evaluator) scoreTerm(ix *index.Index, term string) map[int64]float64 {
	postings := ix.Postings(term)
	if len(postings) == 0 {
		return map[int64]float64{}
	}

	n := float64(ix.DocCount())
	df := float64(len(postings))
	idf := math.Log((n-df+0.5)/(df+0.5) + 1)
	avg := ix.AvgDocLen()

	scores := make(map[int64]float64, len(postings))
	for _, p := range postings {
		tf := float64(p.Frequency)
		norm := 1 - bm25B + bm25B*float64(ix.DocLen(p.DocID))/avg
		scores[p.DocID] = idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*norm)
	}
	return scores
}

// evalWildcard glob-matches pattern against every index term,
// case-insensitively. Matching documents get a constant score since term
// frequency is meaningless across a family of matched terms.
func (e *Evaluator) evalWildcard(ix *index.Index, pattern string) (map[int64]float64, error) {
	re, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}

	scores := make(map[int64]float64)
	for _, term := range ix.Terms() {
		if !re.MatchString(term) {
			continue
		}
		for _, p := range ix.Postings(term) {
			scores[p.DocID] = e.wildcardScore
		}
	}
	return scores, nil
}

// compileGlob turns a "*"-glob into an anchored case-insensitive regexp.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			sb.WriteString(".*")
		}
		sb.WriteString(regexp.QuoteMeta(part))
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: bad wildcard %q: %v", apperrors.ErrParse, pattern, err)
	}
	return re, nil
}

// evalFuzzy matches index terms within maxDist edits of text. Scores decay
// with distance so exact-looking hits rank above distant corrections; the
// best distance wins when several terms reach the same document.
func (e *Evaluator) evalFuzzy(ix *index.Index, text string) map[int64]float64 {
	target := strings.ToLower(text)
	targetLen := len([]rune(target))

	scores := make(map[int64]float64)
	for _, term := range ix.Terms() {
		// length difference is a lower bound on edit distance
		if d := len([]rune(term)) - targetLen; d > e.maxDist || d < -e.maxDist {
			continue
		}
		dist := levenshtein(target, term)
		if dist > e.maxDist {
			continue
		}
		score := 1.0 / float64(1+dist)
		for _, p := range ix.Postings(term) {
			if score > scores[p.DocID] {
				scores[p.DocID] = score
			}
		}
	}
	return scores
}

// evalBoolean evaluates operands and combines them: intersection with summed
// scores for AND, union with summed scores for OR.
func (e *Evaluator) evalBoolean(ix *index.Index, operands []*Plan, intersect bool) (map[int64]float64, error) {
	var combined map[int64]float64
	for _, op := range operands {
		scores, err := e.evaluate(ix, op)
		if err != nil {
			return nil, err
		}
		if combined == nil {
			combined = scores
			if combined == nil {
				combined = map[int64]float64{}
			}
			continue
		}
		if intersect {
			for id := range combined {
				if add, ok := scores[id]; ok {
					combined[id] += add
				} else {
					delete(combined, id)
				}
			}
		} else {
			for id, add := range scores {
				combined[id] += add
			}
		}
	}
	return combined, nil
}
