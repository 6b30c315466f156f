// Package index implements the in-memory inverted index that backs each
// collection: a mapping from normalized term to postings list, with the
// document-length bookkeeping needed for frequency-weighted scoring.
package index

// Posting links one term to one document and the term's frequency within it.
// A posting belongs to exactly one (term, collection) pair.
type Posting struct {
	DocID     int64
	Frequency int
}

// PostingList holds all postings for one term within one collection.
// Document ids are unique within the list; order is not significant.
type PostingList []Posting
