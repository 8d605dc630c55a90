package assetsync

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ObjectStorage abstracts the remote object store the asset tree syncs to.
// Keys use forward slashes regardless of the local OS. ETag values are
// hex-encoded MD5 digests of the object body, matching what S3-compatible
// stores report for single-part uploads.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// ETag returns the stored digest for key, or an error satisfying
	// errors.Is(err, fs.ErrNotExist) when the object is absent.
	ETag(ctx context.Context, key string) (string, error)

	Delete(ctx context.Context, key string) error

	// ListAll returns every stored key under prefix mapped to its ETag.
	ListAll(ctx context.Context, prefix string) (map[string]string, error)
}

// Config controls a sync run.
type Config struct {
	// Prefix is prepended to every object key.
	Prefix string

	// Bucket routes a relative path to a bucket name. When set, keys take
	// the form "<bucket>/<prefix><relPath>".
	Bucket func(relPath string) string

	// Concurrency bounds parallel uploads and deletes. Defaults to 8.
	Concurrency int

	// DeleteOrphaned removes remote objects with no local counterpart.
	// Scoped to Prefix; with Bucket routing set it covers the entire
	// remote namespace.
	DeleteOrphaned bool
}

func (c *Config) key(rel string) string {
	key := c.Prefix + rel
	if c.Bucket != nil {
		if b := c.Bucket(rel); b != "" {
			key = b + "/" + key
		}
	}
	return key
}

// Report summarizes what a sync run changed.
type Report struct {
	Uploaded []string
	Skipped  []string
	Deleted  []string
	Duration time.Duration
}

// Sync mirrors the local directory root into storage. Files whose MD5 digest
// matches the remote ETag are skipped, changed and new files are uploaded,
// and with DeleteOrphaned set remote objects missing locally are removed.
// Uploads run concurrently under the configured bound.
func Sync(ctx context.Context, root string, storage ObjectStorage, config *Config) (*Report, error) {
	if config == nil {
		config = &Config{}
	}
	workers := config.Concurrency
	if workers <= 0 {
		workers = 8
	}

	start := time.Now()

	local, err := hashTree(root)
	if err != nil {
		return nil, fmt.Errorf("failed to hash local tree: %w", err)
	}

	// Diff and orphan deletion only see the managed namespace. Bucket
	// routing spreads keys across bucket prefixes, so Sync owns the whole
	// remote namespace in that mode.
	listPrefix := config.Prefix
	if config.Bucket != nil {
		listPrefix = ""
	}
	remote, err := storage.ListAll(ctx, listPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote objects: %w", err)
	}

	keyed := make(map[string]string, len(local))
	for rel, hash := range local {
		keyed[config.key(rel)] = hash
	}

	report := &Report{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for rel, hash := range local {
		key := config.key(rel)
		if remote[key] == hash {
			report.Skipped = append(report.Skipped, key)
			continue
		}
		rel, key := rel, key
		g.Go(func() error {
			f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			defer f.Close()

			if err := storage.Upload(gctx, key, f, contentType(rel)); err != nil {
				return fmt.Errorf("failed to upload %s: %w", key, err)
			}
			mu.Lock()
			report.Uploaded = append(report.Uploaded, key)
			mu.Unlock()
			return nil
		})
	}

	if config.DeleteOrphaned {
		for key := range remote {
			if _, ok := keyed[key]; ok {
				continue
			}
			key := key
			g.Go(func() error {
				if err := storage.Delete(gctx, key); err != nil {
					return fmt.Errorf("failed to delete %s: %w", key, err)
				}
				mu.Lock()
				report.Deleted = append(report.Deleted, key)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(report.Uploaded)
	sort.Strings(report.Skipped)
	sort.Strings(report.Deleted)
	report.Duration = time.Since(start)
	return report, nil
}

// hashTree walks root and returns slash-separated relative paths mapped to
// the hex MD5 of each file's content.
func hashTree(root string) (map[string]string, error) {
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func contentType(rel string) string {
	if ct := mime.TypeByExtension(filepath.Ext(rel)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
