// Package types provides shared type definitions for the foldcms content
// pipeline.
//
// This package defines the domain values used across components: records,
// relation declarations, and their validation helpers.
//
// # Core Types
//
// Record is a schema-typed mapping of field name to value. Every record
// carries a unique string id within its collection:
//
//	rec := types.Record{"id": "post-1", "title": "Hello", "tagIds": []string{"t1", "t2"}}
//	id, err := rec.ID()
//
// Relation declares a reference from a record field to another collection,
// with one of three cardinalities:
//
//	rel := types.Relation{Kind: types.RelationArray, Field: "tagIds", Target: "tags"}
//
//   - single: the field holds one target id, resolving to zero-or-one record
//   - array: the field holds an ordered id list, resolving order-preserving
//   - map: the field holds a key->id mapping, resolving re-keyed
//
// # Validation
//
// Relation declarations validate structurally:
//
//	if err := rel.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Record shape validation against a declared schema lives in the schema
// package; this package only enforces the id contract.
package types
