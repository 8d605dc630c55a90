// Package store provides SQLite-based persistence for typed content records.
//
// The store manages a single table keyed by (collection, id):
//
//	entities(collection, id, hash, data, created_at)
//
// where data is the canonical JSON form of the record, hash is a hex SHA-256
// digest over data (change detection), and created_at is the upsert time in
// Unix milliseconds. Secondary indexes cover collection (scans), hash
// (change-detection lookups), and created_at (time-ordered diagnostics).
//
// # Write model
//
// Exactly one writer is assumed at a time: the build orchestrator during a
// build. Insert is an idempotent upsert with last-writer-wins semantics for
// the same (collection, id). Readers may run concurrently with each other
// and, in principle, with a build, but then observe the store mid-build:
// builds and queries are not isolated unless SQLite's own snapshotting
// provides it for the access pattern in use.
//
// # Basic Usage
//
//	st, err := store.NewSQLiteStore("content.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	err = st.Insert(ctx, "posts", "post-1", rec)
//	rec, err = st.GetByID(ctx, "posts", "post-1", postSchema)
//	all, err := st.GetAll(ctx, "posts", postSchema)
//
// Absence on GetByID/GetHash is the ErrNotFound sentinel, not a StoreError;
// engine failures and decode-on-read failures are *StoreError.
//
// # Migrations
//
// Schema setup runs on every open and is idempotent. Migrations are ordered
// by semantic version and tracked in a schema_version table.
package store
