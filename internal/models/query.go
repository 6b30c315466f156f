package models

import (
	"fmt"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// SearchRequest represents a search against one collection, or all of them.
type SearchRequest struct {
	Query    string   `json:"query"`
	FileType FileType `json:"filetype,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error if the query is empty or the filetype is unknown;
// otherwise normalizes the limit and defaults the scope to "all".
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", apperrors.ErrInvalidInput)
	}
	if r.FileType == "" {
		r.FileType = FileTypeAll
	}
	if r.FileType != FileTypeAll && !r.FileType.Valid() {
		return fmt.Errorf("%w: unknown filetype %q", apperrors.ErrInvalidInput, r.FileType)
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	return nil
}
