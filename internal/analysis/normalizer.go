package analysis

import porterstemmer "github.com/blevesearch/go-porterstemmer"

// Normalizer maps a token to its index form. Implementations must be
// deterministic: the same input always yields the same output.
type Normalizer interface {
	Normalize(term string) string
}

// IdentityNormalizer returns terms unchanged. Used when stemming is disabled
// or no language processing backend is configured.
type IdentityNormalizer struct{}

func (IdentityNormalizer) Normalize(term string) string { return term }

// StemNormalizer reduces terms to their Porter stem, so "running" and "runs"
// index under the same term as "run".
type StemNormalizer struct{}

func (StemNormalizer) Normalize(term string) string {
	return porterstemmer.StemString(term)
}
