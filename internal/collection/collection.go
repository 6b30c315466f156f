// Package collection ties one document collection's store records, inverted
// index, and on-disk snapshot together behind a single-writer API.
package collection

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/analysis"
	"github.com/hyperjump/kensaku/internal/index"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/storage"
)

// Collection is one searchable partition (txt, csv, ...). Writes are
// serialized through writeMu; reads go straight to the index, which has its
// own lock and may briefly block behind an in-flight write.
type Collection struct {
	name     models.FileType
	store    storage.Storage
	index    *index.Index
	tok      *analysis.Tokenizer
	snapshot string
	logger   *zap.Logger

	writeMu sync.Mutex
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger attaches a logger. Nop by default.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collection) {
		c.logger = logger
	}
}

// Open loads (or creates) the collection named by ft. The inverted index is
// restored from root/<name>.index when that snapshot exists, so a restart
// never requires re-reading source documents.
func Open(root string, ft models.FileType, store storage.Storage, tok *analysis.Tokenizer, opts ...Option) (*Collection, error) {
	snapshot := filepath.Join(root, string(ft)+".index")
	ix, err := index.Load(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to load index for %s: %w", ft, err)
	}

	c := &Collection{
		name:     ft,
		store:    store,
		index:    ix,
		tok:      tok,
		snapshot: snapshot,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the collection's file type.
func (c *Collection) Name() models.FileType { return c.name }

// Index exposes the inverted index for query evaluation.
func (c *Collection) Index() *index.Index { return c.index }

// IndexDocument stores one document record and indexes its content. Returns
// the allocated document id. Empty content still gets an id so locations stay
// addressable; it just never matches a query.
func (c *Collection) IndexDocument(ctx context.Context, filename, title, location, content string) (int64, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	doc := &models.Document{
		Filename: filename,
		FileType: c.name,
		Content:  content,
		Location: location,
		Title:    title,
	}
	id, err := c.store.Add(ctx, doc)
	if err != nil {
		return 0, err
	}

	terms := c.tok.Terms(content)
	c.index.AddDocument(id, terms)

	c.logger.Debug("indexed document",
		zap.String("collection", string(c.name)),
		zap.Int64("doc_id", id),
		zap.String("filename", filename),
		zap.Int("terms", len(terms)))
	return id, nil
}

// Get returns the stored record for id.
func (c *Collection) Get(ctx context.Context, id int64) (*models.Document, error) {
	return c.store.Get(ctx, string(c.name), id)
}

// Count returns the number of stored documents.
func (c *Collection) Count(ctx context.Context) (int64, error) {
	return c.store.Count(ctx, string(c.name))
}

// Clear drops every document and term from the collection and removes the
// snapshot content. Ids restart at 1 on the next IndexDocument.
func (c *Collection) Clear(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.store.Clear(ctx, string(c.name)); err != nil {
		return err
	}
	c.index.Clear()
	if err := c.index.Save(c.snapshot); err != nil {
		return fmt.Errorf("failed to save cleared index for %s: %w", c.name, err)
	}
	c.logger.Info("cleared collection", zap.String("collection", string(c.name)))
	return nil
}

// Save writes the index snapshot to disk. Called after index runs and on
// shutdown.
func (c *Collection) Save() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.index.Save(c.snapshot); err != nil {
		return fmt.Errorf("failed to save index for %s: %w", c.name, err)
	}
	return nil
}

// Close persists the snapshot. The shared document store is closed by its
// owner, not here.
func (c *Collection) Close() error {
	return c.Save()
}
