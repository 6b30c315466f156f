// Package extract turns source files into indexable text units, one adapter
// per collection type.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/models"
	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// Unit is one indexable piece of a source file. A plain text file yields a
// single unit; a CSV yields one per row; a .url file yields one per fetched
// page.
type Unit struct {
	Text     string
	Title    string
	Location string
}

// Extractor routes files to per-format adapters.
type Extractor struct {
	client *http.Client
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFetchTimeout bounds web page fetches (default 10s).
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = d
	}
}

// WithLogger attaches a logger for per-URL fetch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor returns an Extractor with a 10 second web fetch timeout.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the file at path and returns its units for the given
// collection type. ctx bounds web fetches; the other adapters are local
// reads and ignore it.
func (e *Extractor) Extract(ctx context.Context, path string, ft models.FileType) ([]Unit, error) {
	switch ft {
	case models.FileTypeTxt:
		return e.extractPlain(path)
	case models.FileTypeCSV:
		return e.extractCSV(path)
	case models.FileTypeExcel:
		return e.extractExcel(path)
	case models.FileTypeJSON:
		return e.extractJSON(path)
	case models.FileTypePDF:
		return e.extractPDF(path)
	case models.FileTypeWeb:
		return e.extractWeb(ctx, path)
	}
	return nil, fmt.Errorf("%w: no adapter for filetype %q", apperrors.ErrExtraction, ft)
}
