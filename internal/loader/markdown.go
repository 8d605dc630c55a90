package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/foldcms/foldcms-go/pkg/types"
)

// Markdown loads one record per *.md / *.mdx file in a folder. YAML
// frontmatter supplies the record fields; the body is carried raw under
// "body" and goldmark-rendered under "html". When frontmatter declares no
// id, the file stem is used.
type Markdown struct {
	Dir string
}

// ErrMissingClosingDelimiter reports frontmatter that opens but never closes.
var ErrMissingClosingDelimiter = errors.New("missing closing frontmatter delimiter")

// Load implements Loader.
func (l *Markdown) Load(ctx context.Context) (Cursor, error) {
	files, err := listFiles(l.Dir, ".md", ".mdx")
	if err != nil {
		return nil, &LoadingError{Source: l.Dir, Err: err}
	}

	md := goldmark.New()

	return &dirCursor{
		ctx:   ctx,
		dir:   l.Dir,
		files: files,
		decode: func(name string, data []byte) (types.Record, error) {
			front, body, err := splitFrontmatter(data)
			if err != nil {
				return nil, err
			}

			rec := types.Record{}
			if len(front) > 0 {
				if err := yaml.Unmarshal(front, &rec); err != nil {
					return nil, fmt.Errorf("frontmatter: %w", err)
				}
				if rec == nil {
					rec = types.Record{}
				}
			}

			var html bytes.Buffer
			if err := md.Convert(body, &html); err != nil {
				return nil, fmt.Errorf("markdown render: %w", err)
			}

			rec["body"] = string(body)
			rec["html"] = html.String()
			if _, ok := rec[types.IDField]; !ok {
				rec[types.IDField] = stem(name)
			}
			return rec, nil
		},
	}, nil
}

// splitFrontmatter separates `---` delimited YAML frontmatter from the
// markdown body. Documents without a leading delimiter are all body.
func splitFrontmatter(content []byte) (front, body []byte, err error) {
	open := []byte("---\n")
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty frontmatter block
		return nil, rest[len(open):], nil
	}

	closeSeq := []byte("\n---\n")
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// Frontmatter closing at EOF without trailing newline
		tail := []byte("\n---")
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+1], nil, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}

	return rest[:idx+1], rest[idx+len(closeSeq):], nil
}
