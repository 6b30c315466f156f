// Package storage persists document records for every collection.
package storage

import (
	"context"

	"github.com/hyperjump/kensaku/internal/models"
)

// Storage defines document record persistence. Document ids are allocated
// monotonically per collection starting at 1 and are never reused except by
// clearing the whole collection.
type Storage interface {
	// Add stores doc in its collection and returns the allocated id.
	Add(ctx context.Context, doc *models.Document) (int64, error)
	// Get returns the record for (collection, id), or ErrNotFound.
	Get(ctx context.Context, collection string, id int64) (*models.Document, error)
	// Clear removes all records of one collection and resets its id sequence.
	Clear(ctx context.Context, collection string) error
	// Count returns the number of records in one collection.
	Count(ctx context.Context, collection string) (int64, error)

	Close() error
}
