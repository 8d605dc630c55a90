package cms

import (
	"context"
	"errors"
	"fmt"

	"github.com/foldcms/foldcms-go/internal/loader"
	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/internal/store"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// TransformFunc maps a loaded record to its stored form. Transforms may do
// I/O; a failure aborts the record's pipeline with a TransformationError.
type TransformFunc func(ctx context.Context, rec types.Record) (types.Record, error)

// ValidateFunc checks a transformed record before storage. It must be
// side-effect free.
type ValidateFunc func(rec types.Record) error

// Collection defines one named partition of records: its schemas, its
// loader, the optional transform/validate stages, and declared relations.
type Collection struct {
	// LoadingSchema describes raw loader output. Required.
	LoadingSchema *schema.Schema

	// TransformedSchema describes the stored, queryable form. Defaults to
	// LoadingSchema.
	TransformedSchema *schema.Schema

	// Loader produces the collection's raw record stream during a build.
	Loader loader.Loader

	// Transform defaults to identity.
	Transform TransformFunc

	// Validate defaults to always-ok.
	Validate ValidateFunc

	// Relations maps field names on the transformed record to declared
	// edges. Targets are resolved by name at query time.
	Relations map[string]types.Relation

	// ContinueOnError switches the collection's pipeline from fail-fast to
	// per-record isolation: failed records are reported and skipped.
	ContinueOnError bool
}

// StoredSchema returns the schema records are stored and queried with.
func (c *Collection) StoredSchema() *schema.Schema {
	if c.TransformedSchema != nil {
		return c.TransformedSchema
	}
	return c.LoadingSchema
}

// CMS is the runtime aggregate of collection definitions and a content store
// handle. Built once by the build orchestrator, then queried read-only.
// Queries are safe to run concurrently with each other; running them during
// a build observes the store mid-build.
type CMS struct {
	store       store.Store
	collections map[string]*Collection
	lenient     bool
}

// Option configures a CMS instance.
type Option func(*CMS)

// WithLenientRelations switches relation resolution from strict (dangling
// reference is an error) to lenient: single resolves to absent, array and
// map drop the missing entries.
func WithLenientRelations() Option {
	return func(c *CMS) { c.lenient = true }
}

// New validates the collection definitions and returns a query facade over
// the store. Relation targets are deliberately not resolved here: lookups
// happen lazily at query time.
func New(st store.Store, collections map[string]*Collection, opts ...Option) (*CMS, error) {
	if st == nil {
		return nil, configErrorf("content store is required")
	}
	for name, col := range collections {
		if col == nil {
			return nil, configErrorf("collection %q is nil", name)
		}
		if col.LoadingSchema == nil {
			return nil, configErrorf("collection %q has no loading schema", name)
		}
		for field, rel := range col.Relations {
			if err := rel.Validate(); err != nil {
				return nil, configErrorf("collection %q relation %q: %v", name, field, err)
			}
			if rel.Field != field {
				return nil, configErrorf("collection %q relation %q declares mismatched field %q", name, field, rel.Field)
			}
		}
	}

	c := &CMS{store: st, collections: collections}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Collections returns the collection definitions managed by this instance.
func (c *CMS) Collections() map[string]*Collection {
	return c.collections
}

// Store returns the underlying content store handle.
func (c *CMS) Store() store.Store {
	return c.store
}

func (c *CMS) collection(name string) (*Collection, error) {
	col, ok := c.collections[name]
	if !ok {
		return nil, configErrorf("collection %q not found", name)
	}
	return col, nil
}

// GetByID retrieves one record. Absence is a typed empty result: (nil, nil).
// Referencing an undeclared collection is a *ConfigError.
func (c *CMS) GetByID(ctx context.Context, collectionName, id string) (types.Record, error) {
	col, err := c.collection(collectionName)
	if err != nil {
		return nil, err
	}

	rec, err := c.store.GetByID(ctx, collectionName, id, col.StoredSchema())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MustGetByID is the strict variant of GetByID: absence is an error
// satisfying errors.Is(err, store.ErrNotFound).
func (c *CMS) MustGetByID(ctx context.Context, collectionName, id string) (types.Record, error) {
	rec, err := c.GetByID(ctx, collectionName, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("record %s/%s: %w", collectionName, id, store.ErrNotFound)
	}
	return rec, nil
}

// GetAll retrieves every record of a collection in stable order.
func (c *CMS) GetAll(ctx context.Context, collectionName string) ([]types.Record, error) {
	col, err := c.collection(collectionName)
	if err != nil {
		return nil, err
	}
	return c.store.GetAll(ctx, collectionName, col.StoredSchema())
}
