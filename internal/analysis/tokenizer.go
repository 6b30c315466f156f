// Package analysis turns raw text into normalized terms for indexing and
// query evaluation. Tokenization is deterministic so the same text always
// produces the same terms, which keeps the index reproducible.
package analysis

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

// Token is a normalized term with its position in the source text.
type Token struct {
	Term     string
	Position int
}

// Tokenizer splits text into lowercased terms, drops stop words, and applies
// a pluggable Normalizer (identity or stemming).
type Tokenizer struct {
	normalizer Normalizer
	stop       map[string]struct{}
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// WithStopWords replaces the default stop word set.
func WithStopWords(words []string) TokenizerOption {
	return func(t *Tokenizer) {
		t.stop = make(map[string]struct{}, len(words))
		for _, w := range words {
			t.stop[strings.ToLower(w)] = struct{}{}
		}
	}
}

// NewTokenizer creates a tokenizer with the given normalizer.
// A nil normalizer means identity (no stemming).
func NewTokenizer(n Normalizer, opts ...TokenizerOption) *Tokenizer {
	if n == nil {
		n = IdentityNormalizer{}
	}
	t := &Tokenizer{normalizer: n, stop: stopWords}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize breaks text into normalized tokens. Empty text and text consisting
// only of stop words or punctuation yield an empty slice, never an error.
func (t *Tokenizer) Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]Token, 0, len(words))
	pos := 0
	for _, word := range words {
		if len(word) < 2 {
			continue
		}
		if _, isStop := t.stop[word]; isStop {
			continue
		}
		term := t.normalizer.Normalize(word)
		if term == "" {
			continue
		}
		tokens = append(tokens, Token{Term: term, Position: pos})
		pos++
	}
	return tokens
}

// Terms returns just the normalized terms for text, in order.
func (t *Tokenizer) Terms(text string) []string {
	tokens := t.Tokenize(text)
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms
}
