package cms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/internal/store"
	"github.com/foldcms/foldcms-go/pkg/types"
)

func testSchema(t *testing.T, fields ...schema.Field) *schema.Schema {
	t.Helper()
	return schema.New(fields...)
}

// catalogCollections declares a small product catalog: categories with an
// optional self-referencing parent, products pointing at a category and a
// list of tags, and the tags themselves.
func catalogCollections(t *testing.T) map[string]*Collection {
	t.Helper()

	categories := testSchema(t,
		schema.Field{Name: "id", Kind: schema.KindString, Required: true},
		schema.Field{Name: "name", Kind: schema.KindString, Required: true},
		schema.Field{Name: "parentId", Kind: schema.KindString, Nullable: true},
	)
	products := testSchema(t,
		schema.Field{Name: "id", Kind: schema.KindString, Required: true},
		schema.Field{Name: "name", Kind: schema.KindString, Required: true},
		schema.Field{Name: "categoryId", Kind: schema.KindString, Required: true},
		schema.Field{Name: "tagIds", Kind: schema.KindStringList},
	)
	tags := testSchema(t,
		schema.Field{Name: "id", Kind: schema.KindString, Required: true},
		schema.Field{Name: "label", Kind: schema.KindString, Required: true},
	)

	return map[string]*Collection{
		"categories": {
			LoadingSchema: categories,
			Relations: map[string]types.Relation{
				"parentId": {Kind: types.RelationSingle, Field: "parentId", Target: "categories"},
			},
		},
		"products": {
			LoadingSchema: products,
			Relations: map[string]types.Relation{
				"categoryId": {Kind: types.RelationSingle, Field: "categoryId", Target: "categories"},
				"tagIds":     {Kind: types.RelationArray, Field: "tagIds", Target: "tags"},
			},
		},
		"tags": {
			LoadingSchema: tags,
		},
	}
}

func seedCatalog(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	insert := func(collection string, rec types.Record) {
		id, err := rec.ID()
		require.NoError(t, err)
		require.NoError(t, st.Insert(ctx, collection, id, rec))
	}

	insert("categories", types.Record{"id": "c1", "name": "Books", "parentId": nil})
	insert("categories", types.Record{"id": "c2", "name": "Fiction", "parentId": "c1"})
	insert("tags", types.Record{"id": "t1", "label": "new"})
	insert("tags", types.Record{"id": "t2", "label": "sale"})
	insert("products", types.Record{"id": "p1", "name": "Dune", "categoryId": "c2", "tagIds": []string{"t1", "t2"}})
	insert("products", types.Record{"id": "p2", "name": "Atlas", "categoryId": "c1", "tagIds": []string{}})
}

func newTestCMS(t *testing.T, opts ...Option) *CMS {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	seedCatalog(t, st)

	c, err := New(st, catalogCollections(t), opts...)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	var cerr *ConfigError

	_, err = New(nil, nil)
	require.ErrorAs(t, err, &cerr)

	_, err = New(st, map[string]*Collection{"x": nil})
	require.ErrorAs(t, err, &cerr)

	_, err = New(st, map[string]*Collection{"x": {}})
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "loading schema")

	s := testSchema(t, schema.Field{Name: "id", Kind: schema.KindString, Required: true})
	_, err = New(st, map[string]*Collection{"x": {
		LoadingSchema: s,
		Relations: map[string]types.Relation{
			"ref": {Kind: types.RelationSingle, Field: "other", Target: "x"},
		},
	}})
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "mismatched field")
}

func TestGetByID_AbsentIsTypedEmpty(t *testing.T) {
	c := newTestCMS(t)

	rec, err := c.GetByID(context.Background(), "products", "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetByID(t *testing.T) {
	c := newTestCMS(t)

	rec, err := c.GetByID(context.Background(), "products", "p1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Dune", rec["name"])
}

func TestGetByID_UnknownCollection(t *testing.T) {
	c := newTestCMS(t)

	var cerr *ConfigError
	_, err := c.GetByID(context.Background(), "warehouses", "w1")
	require.ErrorAs(t, err, &cerr)
}

func TestMustGetByID(t *testing.T) {
	c := newTestCMS(t)
	ctx := context.Background()

	rec, err := c.MustGetByID(ctx, "tags", "t1")
	require.NoError(t, err)
	assert.Equal(t, "new", rec["label"])

	_, err = c.MustGetByID(ctx, "tags", "t999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetAll_UnknownCollection(t *testing.T) {
	c := newTestCMS(t)

	var cerr *ConfigError
	_, err := c.GetAll(context.Background(), "nonexistent")
	require.ErrorAs(t, err, &cerr)
}

func TestGetAll(t *testing.T) {
	c := newTestCMS(t)

	recs, err := c.GetAll(context.Background(), "categories")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c1", recs[0]["id"])
	assert.Equal(t, "c2", recs[1]["id"])
}
