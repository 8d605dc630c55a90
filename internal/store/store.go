package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// ErrNotFound is returned when a requested row doesn't exist.
var ErrNotFound = errors.New("not found")

// StoreError is a storage engine failure: I/O, constraint violation, or a
// decode failure while reading a row back.
type StoreError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store defines the content store contract: a single table keyed by
// (collection, id) with idempotent upserts, point lookups, and full scans.
// One writer at a time is assumed; readers may run concurrently.
type Store interface {
	// Insert upserts the row for (collection, id). Last writer wins; the
	// row's hash and timestamp are replaced along with the data.
	Insert(ctx context.Context, collection, id string, rec types.Record) error

	// GetByID returns the decoded record, ErrNotFound when no row matches,
	// or a *StoreError when the row cannot be decoded against the schema.
	GetByID(ctx context.Context, collection, id string, s *schema.Schema) (types.Record, error)

	// GetAll scans a collection in stable (id) order. A single row decode
	// failure fails the whole call: collection-level atomicity of read.
	GetAll(ctx context.Context, collection string, s *schema.Schema) ([]types.Record, error)

	// GetHash returns the stored content hash for (collection, id), or
	// ErrNotFound. Used for change detection.
	GetHash(ctx context.Context, collection, id string) (string, error)

	// Stats reports per-collection row counts and index size.
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}

// Stats contains row counts and size information for the store.
type Stats struct {
	Collections map[string]int
	TotalRows   int
	SizeMB      float64
}
