package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldcms/foldcms-go/internal/loader"
	"github.com/foldcms/foldcms-go/pkg/types"
)

const sampleConfig = `
store:
  path: site.db

build:
  concurrency: 2
  incremental: true

lenient_relations: true

collections:
  posts:
    loader:
      kind: markdown
      folder: content/posts
    continue_on_error: true
    schema:
      - name: title
        kind: string
        required: true
      - name: categoryId
        kind: string
        nullable: true
    relations:
      categoryId:
        kind: single
        target: categories
  categories:
    loader:
      kind: yaml
      folder: content/categories
    schema:
      - name: name
        kind: string
        required: true

assets:
  folder: public
  target: /srv/cdn-mirror
  prefix: assets/
  delete_orphaned: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foldcms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "site.db", cfg.Store.Path)
	assert.Equal(t, 2, cfg.Build.Concurrency)
	assert.True(t, cfg.Build.Incremental)
	assert.True(t, cfg.LenientRelations)
	assert.Len(t, cfg.Collections, 2)
	require.NotNil(t, cfg.Assets)
	assert.Equal(t, "public", cfg.Assets.Folder)
	assert.True(t, cfg.Assets.DeleteOrphaned)
}

func TestLoad_DefaultStorePath(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
collections:
  posts:
    loader: {kind: json, folder: content}
    schema: []
`))
	require.NoError(t, err)
	assert.Equal(t, "content.db", cfg.Store.Path)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("CONTENT_DIR", "/srv/content")
	cfg, err := Load(writeConfig(t, `
collections:
  posts:
    loader: {kind: json, folder: ${CONTENT_DIR}/posts}
    schema: []
`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/content/posts", cfg.Collections["posts"].Loader.Folder)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"no collections": `store: {path: x.db}`,
		"missing loader kind": `
collections:
  posts:
    loader: {folder: content}
    schema: []
`,
		"unknown loader kind": `
collections:
  posts:
    loader: {kind: csv, folder: content}
    schema: []
`,
		"missing folder": `
collections:
  posts:
    loader: {kind: json}
    schema: []
`,
		"bad field kind": `
collections:
  posts:
    loader: {kind: json, folder: content}
    schema:
      - name: title
        kind: varchar
`,
		"undeclared relation target": `
collections:
  posts:
    loader: {kind: json, folder: content}
    schema: []
    relations:
      categoryId: {kind: single, target: categories}
`,
		"bad relation kind": `
collections:
  posts:
    loader: {kind: json, folder: content}
    schema: []
    relations:
      categoryId: {kind: pair, target: posts}
`,
		"assets without target": `
collections:
  posts:
    loader: {kind: json, folder: content}
    schema: []
assets:
  folder: public
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestMaterialize(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	collections, err := cfg.Materialize()
	require.NoError(t, err)
	require.Len(t, collections, 2)

	posts := collections["posts"]
	require.NotNil(t, posts)
	assert.IsType(t, &loader.Markdown{}, posts.Loader)
	assert.True(t, posts.ContinueOnError)
	require.Contains(t, posts.Relations, "categoryId")
	assert.Equal(t, types.RelationSingle, posts.Relations["categoryId"].Kind)
	assert.Equal(t, "categories", posts.Relations["categoryId"].Target)

	// Declared schemas validate real records
	err = posts.LoadingSchema.Validate(types.Record{"id": "p1", "title": "Hello", "categoryId": nil})
	assert.NoError(t, err)
	assert.Error(t, posts.LoadingSchema.Validate(types.Record{"id": "p1"}))
}
