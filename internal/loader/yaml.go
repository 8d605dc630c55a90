package loader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/foldcms/foldcms-go/pkg/types"
)

// YAMLDir loads one record per *.yaml / *.yml file in a folder.
type YAMLDir struct {
	Dir string
}

// Load implements Loader.
func (l *YAMLDir) Load(ctx context.Context) (Cursor, error) {
	files, err := listFiles(l.Dir, ".yaml", ".yml")
	if err != nil {
		return nil, &LoadingError{Source: l.Dir, Err: err}
	}
	return &dirCursor{
		ctx:   ctx,
		dir:   l.Dir,
		files: files,
		decode: func(_ string, data []byte) (types.Record, error) {
			var rec types.Record
			if err := yaml.Unmarshal(data, &rec); err != nil {
				return nil, err
			}
			return rec, nil
		},
	}, nil
}

// YAMLStream loads records from the first *.yaml / *.yml file in a folder,
// one record per `---`-separated document, decoded incrementally.
type YAMLStream struct {
	Dir string
}

// Load implements Loader.
func (l *YAMLStream) Load(ctx context.Context) (Cursor, error) {
	files, err := listFiles(l.Dir, ".yaml", ".yml")
	if err != nil {
		return nil, &LoadingError{Source: l.Dir, Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadingError{Source: l.Dir, Err: errors.New("no .yaml/.yml file found")}
	}

	path := filepath.Join(l.Dir, files[0])
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadingError{Source: path, Err: err}
	}

	return &yamlStreamCursor{ctx: ctx, path: path, file: f, dec: yaml.NewDecoder(f)}, nil
}

type yamlStreamCursor struct {
	ctx  context.Context
	path string
	file *os.File
	dec  *yaml.Decoder
	rec  types.Record
	err  error
}

func (c *yamlStreamCursor) Next() bool {
	if c.err != nil {
		return false
	}
	for {
		if err := c.ctx.Err(); err != nil {
			c.err = err
			return false
		}
		var rec types.Record
		err := c.dec.Decode(&rec)
		if err == io.EOF {
			return false
		}
		if err != nil {
			c.err = &LoadingError{Source: c.path, Err: err}
			return false
		}
		if rec == nil {
			// Empty document between separators
			continue
		}
		c.rec = rec
		return true
	}
}

func (c *yamlStreamCursor) Record() types.Record { return c.rec }
func (c *yamlStreamCursor) Err() error           { return c.err }
func (c *yamlStreamCursor) Close() error         { return c.file.Close() }
