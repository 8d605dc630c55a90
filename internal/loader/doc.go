// Package loader reads raw content items from external sources as bounded-
// memory record streams.
//
// Every loader implements the same pull contract:
//
//	cur, err := l.Load(ctx)
//	if err != nil { ... }
//	defer cur.Close()
//	for cur.Next() {
//	    rec := cur.Record()
//	    ...
//	}
//	if err := cur.Err(); err != nil { ... }
//
// Cursors materialize one record at a time, so a collection of any size
// flows through the build pipeline in constant memory. All raw-read failures
// are wrapped as *LoadingError, keeping them distinguishable from transform,
// validation, and storage failures downstream.
//
// # Available loaders
//
//   - JSONDir: one record per *.json file (comment-tolerant)
//   - JSONLines: first *.jsonl file, one record per line, streamed
//   - YAMLDir: one record per *.yaml / *.yml file
//   - YAMLStream: first YAML file, one record per document
//   - Markdown: *.md / *.mdx files, frontmatter fields + rendered body
//   - Slice / Func: in-memory and synthetic streams
//
// Schema validation happens downstream in the pipeline, not here: loaders
// only get the bytes into record shape.
package loader
