package index

import (
	"sort"
	"sync"
)

// Index is the inverted index for one collection. Term lookup is an O(1)
// map access; wildcard and fuzzy matching scan the term keys. Safe for
// concurrent readers; writers must be serialized by the owning collection.
type Index struct {
	mu       sync.RWMutex
	postings map[string]map[int64]*Posting
	docLens  map[int64]int
	totalLen int64
}

// New returns an empty index.
func New() *Index {
	return &Index{
		postings: make(map[string]map[int64]*Posting),
		docLens:  make(map[int64]int),
	}
}

// AddDocument indexes all terms of one document. Repeated terms increment the
// posting's frequency. Calling it again for the same docID (re-index) adds on
// top of the existing postings; callers wanting replace semantics must clear
// first.
func (ix *Index) AddDocument(docID int64, terms []string) {
	if len(terms) == 0 {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, term := range terms {
		docs, ok := ix.postings[term]
		if !ok {
			docs = make(map[int64]*Posting)
			ix.postings[term] = docs
		}
		p, ok := docs[docID]
		if !ok {
			p = &Posting{DocID: docID}
			docs[docID] = p
		}
		p.Frequency++
	}
	ix.docLens[docID] += len(terms)
	ix.totalLen += int64(len(terms))
}

// Postings returns the postings list for term, or nil when the term is absent.
func (ix *Index) Postings(term string) PostingList {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	docs, ok := ix.postings[term]
	if !ok {
		return nil
	}
	out := make(PostingList, 0, len(docs))
	for _, p := range docs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocID < out[j].DocID })
	return out
}

// DocFreq returns the number of documents containing term.
func (ix *Index) DocFreq(term string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.postings[term])
}

// Terms returns all indexed terms in sorted order. Used by wildcard and fuzzy
// matching; sorting keeps scans deterministic.
func (ix *Index) Terms() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	terms := make([]string, 0, len(ix.postings))
	for term := range ix.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// DocCount returns the number of indexed documents.
func (ix *Index) DocCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docLens)
}

// DocLen returns the token count of one document (0 when unknown).
func (ix *Index) DocLen(docID int64) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.docLens[docID]
}

// AvgDocLen returns the mean token count across indexed documents.
func (ix *Index) AvgDocLen() float64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.docLens) == 0 {
		return 0
	}
	return float64(ix.totalLen) / float64(len(ix.docLens))
}

// Clear removes all postings and document bookkeeping.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.postings = make(map[string]map[int64]*Posting)
	ix.docLens = make(map[int64]int)
	ix.totalLen = 0
}
