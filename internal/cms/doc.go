// Package cms defines content collections and the read-side query facade
// over a built content store.
//
// A Collection binds a loader, a pair of schemas (raw and transformed), the
// optional transform and validate stages, and declared relations. The CMS
// type aggregates collections over a store.Store and answers point lookups,
// full scans, and relation resolution.
//
// # Absence semantics
//
// GetByID treats a missing record as a typed empty result: (nil, nil).
// MustGetByID is the strict variant and returns an error satisfying
// errors.Is(err, store.ErrNotFound).
//
// # Relations
//
// Relations are declared per collection and resolved lazily at query time
// with LoadRelation. Resolution is strict by default: a reference to an id
// that does not exist in the target collection fails with *RelationError.
// WithLenientRelations switches to dropping dangling references instead.
package cms
