// Package builder orchestrates collection builds: for each collection it
// streams records from the loader through transform and validation into the
// content store.
//
// Collections build sequentially by default; Config.Concurrency raises the
// bound and collections then run under an errgroup limit. Within a
// collection, records flow one at a time through the pipeline, so memory use
// does not grow with collection size.
//
// Failures carry a *StageError naming the collection, the stage (load,
// transform, validate, store), and the record id when known. The default
// policy is fail-fast; a collection with ContinueOnError set isolates
// per-record failures, counts them, and keeps going.
package builder
