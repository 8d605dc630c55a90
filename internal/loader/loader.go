package loader

import (
	"context"
	"fmt"

	"github.com/foldcms/foldcms-go/pkg/types"
)

// LoadingError is a raw-read failure: source unreachable or malformed before
// any transform/validate stage ran.
type LoadingError struct {
	Source string
	Err    error
}

func (e *LoadingError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadingError) Unwrap() error { return e.Err }

// Cursor is a pull-based record stream. The contract mirrors sql.Rows: call
// Next until it returns false, then check Err. At most one record is
// materialized at a time, so memory stays constant regardless of source size.
type Cursor interface {
	Next() bool
	Record() types.Record
	Err() error
	Close() error
}

// Loader produces a finite record stream. Restart only by calling Load again.
type Loader interface {
	Load(ctx context.Context) (Cursor, error)
}

// Slice is an in-memory loader for programmatic collections and tests.
type Slice struct {
	Records []types.Record
}

// NewSlice wraps records in a Loader.
func NewSlice(records ...types.Record) *Slice {
	return &Slice{Records: records}
}

// Load implements Loader.
func (s *Slice) Load(ctx context.Context) (Cursor, error) {
	return &sliceCursor{ctx: ctx, records: s.Records}, nil
}

type sliceCursor struct {
	ctx     context.Context
	records []types.Record
	idx     int
	rec     types.Record
	err     error
}

func (c *sliceCursor) Next() bool {
	if c.err != nil || c.idx >= len(c.records) {
		return false
	}
	if err := c.ctx.Err(); err != nil {
		c.err = err
		return false
	}
	c.rec = c.records[c.idx]
	c.idx++
	return true
}

func (c *sliceCursor) Record() types.Record { return c.rec }
func (c *sliceCursor) Err() error           { return c.err }
func (c *sliceCursor) Close() error         { return nil }

// Func adapts a pull function to the Loader interface. The function returns
// the next record, or (nil, nil) when exhausted. Useful for synthetic
// streams in tests.
type Func func(ctx context.Context) (types.Record, error)

// Load implements Loader.
func (f Func) Load(ctx context.Context) (Cursor, error) {
	return &funcCursor{ctx: ctx, fn: f}, nil
}

type funcCursor struct {
	ctx  context.Context
	fn   Func
	rec  types.Record
	err  error
	done bool
}

func (c *funcCursor) Next() bool {
	if c.done || c.err != nil {
		return false
	}
	if err := c.ctx.Err(); err != nil {
		c.err = err
		return false
	}
	rec, err := c.fn(c.ctx)
	if err != nil {
		c.err = &LoadingError{Source: "func", Err: err}
		return false
	}
	if rec == nil {
		c.done = true
		return false
	}
	c.rec = rec
	return true
}

func (c *funcCursor) Record() types.Record { return c.rec }
func (c *funcCursor) Err() error           { return c.err }
func (c *funcCursor) Close() error         { return nil }
