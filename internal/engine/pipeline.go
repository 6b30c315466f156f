package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/models"
)

// Index run outcomes.
const (
	RunCompleted  = "completed"
	RunWithErrors = "completed_with_errors"
	RunCanceled   = "canceled"
)

// CollectionTally counts one collection's outcomes within an index run.
type CollectionTally struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// IndexReport summarizes one index run. Indexed counts units (a CSV row or a
// fetched page each count once), Failed counts source files that errored.
type IndexReport struct {
	RunID       string                      `json:"run_id"`
	Status      string                      `json:"status"`
	Message     string                      `json:"message,omitempty"`
	Indexed     int                         `json:"indexed"`
	Failed      int                         `json:"failed"`
	Collections map[string]*CollectionTally `json:"collections"`
	DurationMS  int64                       `json:"duration_ms"`
}

// TypeForPath maps a file extension to its collection via the configured
// routing table. The second return is false for extensions no collection
// claims.
func (e *Engine) TypeForPath(path string) (models.FileType, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	for name, exts := range e.cfg.Documents.Extensions {
		for _, candidate := range exts {
			if ext == strings.ToLower(candidate) {
				ft := models.FileType(name)
				if ft.Valid() {
					return ft, true
				}
			}
		}
	}
	return "", false
}

// IndexFile extracts one file and indexes every resulting unit into its
// collection. Returns the number of units indexed.
func (e *Engine) IndexFile(ctx context.Context, path string) (int, error) {
	ft, ok := e.TypeForPath(path)
	if !ok {
		return 0, nil
	}

	units, err := e.extractor.Extract(ctx, path, ft)
	if err != nil {
		return 0, err
	}

	c := e.collections[ft]
	filename := filepath.Base(path)
	for _, u := range units {
		if _, err := c.IndexDocument(ctx, filename, u.Title, u.Location, u.Text); err != nil {
			return 0, err
		}
	}
	e.metrics.AddDocumentsIndexed(string(ft), len(units))
	return len(units), nil
}

// IndexAll walks the documents directory and indexes every routable file.
// A failing file is logged and tallied, never fatal; cancellation between
// files stops the run with a canceled report. Snapshots are saved before
// returning so a crash right after the run loses nothing.
func (e *Engine) IndexAll(ctx context.Context) (*IndexReport, error) {
	start := time.Now()
	report := &IndexReport{
		RunID:       uuid.NewString(),
		Status:      RunCompleted,
		Collections: make(map[string]*CollectionTally),
	}
	for _, ft := range models.AllFileTypes {
		report.Collections[string(ft)] = &CollectionTally{}
	}

	// a missing documents root is an empty run, not an error
	if err := os.MkdirAll(e.cfg.Documents.Dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	err := filepath.WalkDir(e.cfg.Documents.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := e.TypeForPath(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("index run started",
		zap.String("run_id", report.RunID),
		zap.String("dir", e.cfg.Documents.Dir),
		zap.Int("files", len(paths)))

	for _, path := range paths {
		if ctx.Err() != nil {
			report.Status = RunCanceled
			report.Message = ctx.Err().Error()
			break
		}

		ft, _ := e.TypeForPath(path)
		tally := report.Collections[string(ft)]
		n, err := e.IndexFile(ctx, path)
		if err != nil {
			e.logger.Warn("failed to index file",
				zap.String("run_id", report.RunID),
				zap.String("path", path),
				zap.Error(err))
			tally.Failed++
			report.Failed++
			continue
		}
		tally.Indexed += n
		report.Indexed += n
	}

	if report.Status == RunCompleted && report.Failed > 0 {
		report.Status = RunWithErrors
	}

	for _, ft := range models.AllFileTypes {
		if err := e.collections[ft].Save(); err != nil {
			return nil, err
		}
	}

	report.DurationMS = time.Since(start).Milliseconds()
	e.metrics.ObserveIndexRun(report.Status)
	e.logger.Info("index run finished",
		zap.String("run_id", report.RunID),
		zap.String("status", report.Status),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", report.Failed))
	return report, nil
}
