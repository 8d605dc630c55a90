package assetsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSync_InitialUpload(t *testing.T) {
	local := t.TempDir()
	writeAsset(t, local, "css/site.css", "body{}")
	writeAsset(t, local, "img/logo.png", "pngbytes")

	remote := &DirStorage{Root: t.TempDir()}
	report, err := Sync(context.Background(), local, remote, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"css/site.css", "img/logo.png"}, report.Uploaded)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Deleted)

	stored, err := os.ReadFile(filepath.Join(remote.Root, "css", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(stored))
}

func TestSync_UnchangedSkipped(t *testing.T) {
	local := t.TempDir()
	writeAsset(t, local, "a.txt", "same")
	writeAsset(t, local, "b.txt", "old")

	remote := &DirStorage{Root: t.TempDir()}
	ctx := context.Background()
	_, err := Sync(ctx, local, remote, nil)
	require.NoError(t, err)

	writeAsset(t, local, "b.txt", "new")
	report, err := Sync(ctx, local, remote, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, report.Skipped)
	assert.Equal(t, []string{"b.txt"}, report.Uploaded)
}

func TestSync_DeleteOrphaned(t *testing.T) {
	local := t.TempDir()
	writeAsset(t, local, "keep.txt", "x")

	remote := &DirStorage{Root: t.TempDir()}
	ctx := context.Background()
	require.NoError(t, remote.Upload(ctx, "keep.txt", mustOpen(t, local, "keep.txt"), ""))
	writeAsset(t, remote.Root, "stale.txt", "gone locally")

	report, err := Sync(ctx, local, remote, &Config{DeleteOrphaned: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"keep.txt"}, report.Skipped)
	assert.Equal(t, []string{"stale.txt"}, report.Deleted)
	_, err = os.Stat(filepath.Join(remote.Root, "stale.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestSync_OrphansKeptByDefault(t *testing.T) {
	local := t.TempDir()
	remote := &DirStorage{Root: t.TempDir()}
	writeAsset(t, remote.Root, "stale.txt", "still here")

	report, err := Sync(context.Background(), local, remote, nil)
	require.NoError(t, err)

	assert.Empty(t, report.Deleted)
	_, err = os.Stat(filepath.Join(remote.Root, "stale.txt"))
	assert.NoError(t, err)
}

func TestSync_Prefix(t *testing.T) {
	local := t.TempDir()
	writeAsset(t, local, "site.css", "body{}")

	remote := &DirStorage{Root: t.TempDir()}
	report, err := Sync(context.Background(), local, remote, &Config{Prefix: "assets/"})
	require.NoError(t, err)

	assert.Equal(t, []string{"assets/site.css"}, report.Uploaded)
	_, err = os.Stat(filepath.Join(remote.Root, "assets", "site.css"))
	assert.NoError(t, err)
}

func TestSync_DeleteOrphanedScopedToPrefix(t *testing.T) {
	local := t.TempDir()
	writeAsset(t, local, "site.css", "body{}")

	remote := &DirStorage{Root: t.TempDir()}
	writeAsset(t, remote.Root, "assets/stale.css", "orphan inside prefix")
	writeAsset(t, remote.Root, "uploads/user-data.bin", "unmanaged")

	report, err := Sync(context.Background(), local, remote, &Config{
		Prefix:         "assets/",
		DeleteOrphaned: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"assets/stale.css"}, report.Deleted)
	_, err = os.Stat(filepath.Join(remote.Root, "uploads", "user-data.bin"))
	assert.NoError(t, err, "objects outside the managed prefix must survive")
}

func TestSync_BucketRouting(t *testing.T) {
	local := t.TempDir()
	writeAsset(t, local, "site.css", "body{}")
	writeAsset(t, local, "logo.png", "pngbytes")

	remote := &DirStorage{Root: t.TempDir()}
	report, err := Sync(context.Background(), local, remote, &Config{
		Bucket: func(rel string) string {
			if filepath.Ext(rel) == ".png" {
				return "media"
			}
			return "static"
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"media/logo.png", "static/site.css"}, report.Uploaded)
	assert.Positive(t, report.Duration)
}

func TestDirStorage_ETag(t *testing.T) {
	remote := &DirStorage{Root: t.TempDir()}
	ctx := context.Background()

	writeAsset(t, remote.Root, "a.txt", "hello")
	tag, err := remote.ETag(ctx, "a.txt")
	require.NoError(t, err)
	assert.Len(t, tag, 32)

	_, err = remote.ETag(ctx, "missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func mustOpen(t *testing.T, root, rel string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
