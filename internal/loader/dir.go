package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/foldcms/foldcms-go/pkg/types"
)

// listFiles returns the names of regular files in dir matching one of the
// extensions, in lexical order.
func listFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				files = append(files, name)
				break
			}
		}
	}
	return files, nil
}

// dirCursor walks a file list one file per Next call, decoding each into a
// record. decode receives the file name and raw contents.
type dirCursor struct {
	ctx    context.Context
	dir    string
	files  []string
	decode func(name string, data []byte) (types.Record, error)

	idx int
	rec types.Record
	err error
}

func (c *dirCursor) Next() bool {
	if c.err != nil || c.idx >= len(c.files) {
		return false
	}
	if err := c.ctx.Err(); err != nil {
		c.err = err
		return false
	}

	name := c.files[c.idx]
	c.idx++

	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		c.err = &LoadingError{Source: path, Err: err}
		return false
	}

	rec, err := c.decode(name, data)
	if err != nil {
		c.err = &LoadingError{Source: path, Err: err}
		return false
	}

	c.rec = rec
	return true
}

func (c *dirCursor) Record() types.Record { return c.rec }
func (c *dirCursor) Err() error           { return c.err }
func (c *dirCursor) Close() error         { return nil }

// stem strips the file extension: "post-1.md" -> "post-1".
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
