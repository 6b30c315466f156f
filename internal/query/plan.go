// Package query parses search queries into plans and evaluates them against
// a collection's inverted index.
package query

import (
	"fmt"
	"strings"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// Kind classifies a query plan node.
type Kind int

const (
	// KindTerm matches documents containing every token of the text, scored
	// with BM25.
	KindTerm Kind = iota
	// KindAnd intersects its operands' result sets.
	KindAnd
	// KindOr unions its operands' result sets.
	KindOr
	// KindWildcard glob-matches index terms ("*" matches any run of
	// characters, case-insensitively).
	KindWildcard
	// KindFuzzy matches index terms within a bounded edit distance.
	KindFuzzy
)

func (k Kind) String() string {
	switch k {
	case KindTerm:
		return "term"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindWildcard:
		return "wildcard"
	case KindFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// Plan is a parsed query. Term, wildcard, and fuzzy nodes carry Text;
// boolean nodes carry Operands.
type Plan struct {
	Kind     Kind
	Text     string
	Operands []*Plan
}

// Parse turns a raw query string into a plan. Operator precedence is fixed:
// " AND " binds first, then " OR ", then a "*" anywhere makes the whole node
// a wildcard, then a trailing "~" makes it fuzzy; anything else is a plain
// term query. Operands of a boolean query may themselves be wildcard or
// fuzzy, but not another boolean.
func Parse(raw string) (*Plan, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return nil, fmt.Errorf("%w: empty query", apperrors.ErrParse)
	}

	if parts := strings.Split(q, " AND "); len(parts) > 1 {
		return parseBoolean(KindAnd, parts)
	}
	if parts := strings.Split(q, " OR "); len(parts) > 1 {
		return parseBoolean(KindOr, parts)
	}
	return parseLeaf(q)
}

func parseBoolean(kind Kind, parts []string) (*Plan, error) {
	operands := make([]*Plan, 0, len(parts))
	for _, part := range parts {
		leaf, err := parseLeaf(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		operands = append(operands, leaf)
	}
	return &Plan{Kind: kind, Operands: operands}, nil
}

func parseLeaf(q string) (*Plan, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: empty operand", apperrors.ErrParse)
	}
	if strings.Contains(q, "*") {
		return &Plan{Kind: KindWildcard, Text: q}, nil
	}
	if strings.HasSuffix(q, "~") {
		term := strings.TrimSuffix(q, "~")
		if term == "" {
			return nil, fmt.Errorf("%w: fuzzy query with no term", apperrors.ErrParse)
		}
		return &Plan{Kind: KindFuzzy, Text: term}, nil
	}
	return &Plan{Kind: KindTerm, Text: q}, nil
}
