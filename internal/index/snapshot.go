package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// snapshot is the serialized form of an Index.
type snapshot struct {
	Postings map[string]map[int64]Posting
	DocLens  map[int64]int
	TotalLen int64
}

// Save writes the index state to path as a gob snapshot. The parent directory
// is created if absent. The write goes through a temp file and rename so a
// crash mid-write never leaves a torn snapshot.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	snap := snapshot{
		Postings: make(map[string]map[int64]Posting, len(ix.postings)),
		DocLens:  make(map[int64]int, len(ix.docLens)),
		TotalLen: ix.totalLen,
	}
	for term, docs := range ix.postings {
		out := make(map[int64]Posting, len(docs))
		for id, p := range docs {
			out[id] = *p
		}
		snap.Postings[term] = out
	}
	for id, n := range ix.docLens {
		snap.DocLens[id] = n
	}
	ix.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a gob snapshot from path. A missing file yields a fresh empty
// index so a collection can open before its first document is indexed.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return New(), nil
	} else if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	ix := New()
	for term, docs := range snap.Postings {
		out := make(map[int64]*Posting, len(docs))
		for id, p := range docs {
			cp := p
			out[id] = &cp
		}
		ix.postings[term] = out
	}
	for id, n := range snap.DocLens {
		ix.docLens[id] = n
	}
	ix.totalLen = snap.TotalLen
	return ix, nil
}
