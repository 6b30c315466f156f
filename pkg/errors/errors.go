// Package errors defines the error taxonomy shared across the engine and the
// HTTP layer. Failures are contained at the smallest unit: one document during
// indexing, one query variant during search, one collection during a
// multi-collection search.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates a missing document record or collection.
	ErrNotFound = errors.New("not found")
	// ErrExtraction indicates an extraction adapter failed to produce text.
	ErrExtraction = errors.New("extraction failed")
	// ErrParse indicates a query (or query variant) failed to parse.
	ErrParse = errors.New("query parse failed")
	// ErrStorage indicates index storage is unreadable or corrupt.
	ErrStorage = errors.New("index storage error")
	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)

// AppError pairs a sentinel with a message and an HTTP status.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel with a status code and message.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{Err: sentinel, Message: message, StatusCode: statusCode}
}

// Newf is New with a formatted message.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{Err: sentinel, Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

// HTTPStatusCode maps an error to the HTTP status to respond with.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
