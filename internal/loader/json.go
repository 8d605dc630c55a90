package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/foldcms/foldcms-go/pkg/types"
)

// JSONDir loads one record per *.json file in a folder. Comments and
// trailing commas are tolerated (jsonc) so content files can be annotated.
type JSONDir struct {
	Dir string
}

// Load implements Loader.
func (l *JSONDir) Load(ctx context.Context) (Cursor, error) {
	files, err := listFiles(l.Dir, ".json")
	if err != nil {
		return nil, &LoadingError{Source: l.Dir, Err: err}
	}
	return &dirCursor{
		ctx:   ctx,
		dir:   l.Dir,
		files: files,
		decode: func(_ string, data []byte) (types.Record, error) {
			var rec types.Record
			if err := json.Unmarshal(jsonc.ToJSON(data), &rec); err != nil {
				return nil, err
			}
			return rec, nil
		},
	}, nil
}

// JSONLines loads records from the first *.jsonl file in a folder, one
// record per line, streamed without buffering the file.
type JSONLines struct {
	Dir string
}

// Load implements Loader.
func (l *JSONLines) Load(ctx context.Context) (Cursor, error) {
	files, err := listFiles(l.Dir, ".jsonl")
	if err != nil {
		return nil, &LoadingError{Source: l.Dir, Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadingError{Source: l.Dir, Err: errors.New("no .jsonl file found")}
	}

	path := filepath.Join(l.Dir, files[0])
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadingError{Source: path, Err: err}
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return &jsonlCursor{ctx: ctx, path: path, file: f, scanner: sc}, nil
}

type jsonlCursor struct {
	ctx     context.Context
	path    string
	file    *os.File
	scanner *bufio.Scanner
	line    int
	rec     types.Record
	err     error
}

func (c *jsonlCursor) Next() bool {
	if c.err != nil {
		return false
	}
	for {
		if err := c.ctx.Err(); err != nil {
			c.err = err
			return false
		}
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				c.err = &LoadingError{Source: c.path, Err: err}
			}
			return false
		}
		c.line++
		line := c.scanner.Bytes()
		if len(line) == 0 || isBlank(line) {
			continue
		}
		var rec types.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			c.err = &LoadingError{Source: c.path, Err: fmt.Errorf("line %d: %w", c.line, err)}
			return false
		}
		c.rec = rec
		return true
	}
}

func (c *jsonlCursor) Record() types.Record { return c.rec }
func (c *jsonlCursor) Err() error           { return c.err }
func (c *jsonlCursor) Close() error         { return c.file.Close() }

func isBlank(line []byte) bool {
	for _, b := range line {
		if b != ' ' && b != '\t' && b != '\r' {
			return false
		}
	}
	return true
}
