// Package engine owns the per-collection indexes and coordinates search and
// indexing across them.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/kensaku/internal/analysis"
	"github.com/hyperjump/kensaku/internal/collection"
	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/extract"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/query"
	"github.com/hyperjump/kensaku/internal/ranking"
	"github.com/hyperjump/kensaku/internal/storage"
	"github.com/hyperjump/kensaku/pkg/metrics"
)

// Engine holds one collection per file type plus the shared evaluator,
// merger, and extractor. Collections are fully independent: a write to one
// never blocks searches on another.
type Engine struct {
	cfg         *config.Config
	store       storage.Storage
	collections map[models.FileType]*collection.Collection
	evaluator   *query.Evaluator
	merger      *ranking.Merger
	extractor   *extract.Extractor
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger. Nop by default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMergeStrategy overrides the result dedup strategy.
func WithMergeStrategy(s ranking.Strategy) Option {
	return func(e *Engine) {
		e.merger = ranking.NewMerger(s)
	}
}

// New opens the document store and every collection. Index snapshots are
// loaded from cfg.Storage.IndexRoot, so restarts resume without re-indexing.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    cfg,
		merger: ranking.NewMerger(ranking.DedupByTuple),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	e.store = store

	var norm analysis.Normalizer
	if cfg.Search.Stemming {
		norm = analysis.StemNormalizer{}
	}
	tok := analysis.NewTokenizer(norm)

	e.evaluator = query.NewEvaluator(tok,
		query.WithMaxEditDistance(cfg.Search.FuzzyDistance),
		query.WithEvalLogger(e.logger))
	e.extractor = extract.NewExtractor(
		extract.WithFetchTimeout(cfg.Web.FetchTimeout()),
		extract.WithLogger(e.logger))

	e.collections = make(map[models.FileType]*collection.Collection, len(models.AllFileTypes))
	for _, ft := range models.AllFileTypes {
		c, err := collection.Open(cfg.Storage.IndexRoot, ft, store, tok,
			collection.WithLogger(e.logger))
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		e.collections[ft] = c
	}
	return e, nil
}

// Collection returns the collection for ft, or nil for unknown types.
func (e *Engine) Collection(ft models.FileType) *collection.Collection {
	return e.collections[ft]
}

// Search validates req, evaluates it against the requested collections in
// parallel, and returns merged, ranked, deduplicated results.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	targets := models.AllFileTypes
	if req.FileType != models.FileTypeAll {
		targets = []models.FileType{req.FileType}
	}

	// one result slot per collection keeps merge input order deterministic;
	// a failing collection leaves its slot nil without aborting siblings
	lists := make([][]models.ScoredResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, ft := range targets {
		i, ft := i, ft
		g.Go(func() error {
			lists[i] = e.searchCollection(gctx, ft, req.Query)
			return nil
		})
	}
	_ = g.Wait()

	merged := e.merger.Merge(lists...)
	merged = ranking.NormalizeScores(merged)
	merged = ranking.FilterByMinScore(merged, e.cfg.Search.MinScore)
	merged = ranking.TopN(merged, req.Limit)

	elapsed := time.Since(start)
	e.metrics.ObserveSearch(string(req.FileType), elapsed.Seconds())
	e.logger.Debug("search served",
		zap.String("query", req.Query),
		zap.String("filetype", string(req.FileType)),
		zap.Int("results", len(merged)),
		zap.Duration("elapsed", elapsed))

	return &models.SearchResponse{
		Results:   merged,
		Total:     len(merged),
		QueryTime: elapsed.Milliseconds(),
		Query:     req.Query,
		FileType:  req.FileType,
	}, nil
}

func (e *Engine) searchCollection(ctx context.Context, ft models.FileType, q string) []models.ScoredResult {
	c := e.collections[ft]
	matches, err := e.evaluator.EvaluateVariants(c.Index(), q)
	if err != nil {
		e.logger.Warn("collection search failed",
			zap.String("collection", string(ft)),
			zap.Error(err))
		return nil
	}

	results := make([]models.ScoredResult, 0, len(matches))
	for _, m := range matches {
		doc, err := c.Get(ctx, m.DocID)
		if err != nil {
			// index and store out of sync; drop the hit rather than the search
			e.logger.Warn("indexed document missing from store",
				zap.String("collection", string(ft)),
				zap.Int64("doc_id", m.DocID),
				zap.Error(err))
			continue
		}
		results = append(results, models.ScoredResult{
			Filename: doc.Filename,
			FileType: doc.FileType,
			Content:  doc.Content,
			Location: doc.Location,
			Title:    doc.Title,
			Score:    m.Score,
		})
	}
	return results
}

// Clear empties one collection, or every collection for FileTypeAll.
func (e *Engine) Clear(ctx context.Context, ft models.FileType) error {
	if ft == models.FileTypeAll {
		for _, t := range models.AllFileTypes {
			if err := e.collections[t].Clear(ctx); err != nil {
				return err
			}
		}
		return nil
	}
	c := e.collections[ft]
	if c == nil {
		return fmt.Errorf("unknown filetype %q", ft)
	}
	return c.Clear(ctx)
}

// CollectionStatus describes one collection in a status report.
type CollectionStatus struct {
	Documents int64 `json:"documents"`
	Terms     int   `json:"terms"`
}

// Status reports per-collection document counts and storage footprint.
type Status struct {
	Collections    map[string]CollectionStatus `json:"collections"`
	TotalDocuments int64                       `json:"total_documents"`
	DiskUsageBytes int64                       `json:"disk_usage_bytes"`
}

// Status gathers counts across every collection.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	st := &Status{Collections: make(map[string]CollectionStatus, len(e.collections))}
	for _, ft := range models.AllFileTypes {
		c := e.collections[ft]
		n, err := c.Count(ctx)
		if err != nil {
			return nil, err
		}
		st.Collections[string(ft)] = CollectionStatus{
			Documents: n,
			Terms:     len(c.Index().Terms()),
		}
		st.TotalDocuments += n
	}

	usage, err := storage.DiskUsageBytes(e.cfg.Storage.IndexRoot, e.cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}
	st.DiskUsageBytes = usage
	return st, nil
}

// Close persists every collection snapshot and closes the document store.
func (e *Engine) Close() error {
	var firstErr error
	names := make([]models.FileType, 0, len(e.collections))
	for ft := range e.collections {
		names = append(names, ft)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, ft := range names {
		if err := e.collections[ft].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
