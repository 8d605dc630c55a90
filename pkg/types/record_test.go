package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	rec := Record{"id": "p1", "title": "Hello"}
	id, err := rec.ID()
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
}

func TestRecordID_Missing(t *testing.T) {
	_, err := Record{"title": "no id"}.ID()
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestRecordID_WrongType(t *testing.T) {
	_, err := Record{"id": 42}.ID()
	assert.ErrorIs(t, err, ErrBadIDType)

	_, err = Record{"id": ""}.ID()
	assert.ErrorIs(t, err, ErrBadIDType)
}

func TestStringSlice(t *testing.T) {
	rec := Record{"tagIds": []any{"t1", "t2"}}
	ids, err := rec.StringSlice("tagIds")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids)

	// Already-typed slices pass through
	rec = Record{"tagIds": []string{"t3"}}
	ids, err = rec.StringSlice("tagIds")
	require.NoError(t, err)
	assert.Equal(t, []string{"t3"}, ids)
}

func TestStringSlice_NilField(t *testing.T) {
	ids, err := Record{"tagIds": nil}.StringSlice("tagIds")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = Record{}.StringSlice("tagIds")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStringSlice_BadElement(t *testing.T) {
	_, err := Record{"tagIds": []any{"t1", 7}}.StringSlice("tagIds")
	assert.Error(t, err)

	_, err = Record{"tagIds": "t1"}.StringSlice("tagIds")
	assert.Error(t, err)
}

func TestStringMap(t *testing.T) {
	rec := Record{"variants": map[string]any{"en": "v1", "de": "v2"}}
	m, err := rec.StringMap("variants")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"en": "v1", "de": "v2"}, m)
}

func TestStringMap_BadValue(t *testing.T) {
	_, err := Record{"variants": map[string]any{"en": 1}}.StringMap("variants")
	assert.Error(t, err)
}

func TestRelationValidate(t *testing.T) {
	assert.NoError(t, Relation{Kind: RelationSingle, Field: "authorId", Target: "authors"}.Validate())
	assert.Error(t, Relation{Kind: "both", Field: "x", Target: "y"}.Validate())
	assert.Error(t, Relation{Kind: RelationArray, Target: "y"}.Validate())
	assert.Error(t, Relation{Kind: RelationMap, Field: "x"}.Validate())
}

func TestRecordClone(t *testing.T) {
	rec := Record{"id": "a", "n": 1}
	cp := rec.Clone()
	cp["n"] = 2
	assert.Equal(t, 1, rec["n"])
}
