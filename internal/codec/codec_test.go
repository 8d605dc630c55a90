package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/pkg/types"
)

func testSchema() *schema.Schema {
	return schema.New(
		schema.Field{Name: "id", Kind: schema.KindString, Required: true},
		schema.Field{Name: "name", Kind: schema.KindString, Required: true},
		schema.Field{Name: "count", Kind: schema.KindInt},
	)
}

func TestRoundTrip(t *testing.T) {
	rec := types.Record{"id": "r1", "name": "widget", "count": float64(3)}

	data, hash, err := Encode(rec)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	decoded, err := Decode(data, testSchema())
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestEncode_Deterministic(t *testing.T) {
	a := types.Record{"id": "r1", "name": "widget", "count": float64(3)}
	b := types.Record{"count": float64(3), "name": "widget", "id": "r1"}

	da, ha, err := Encode(a)
	require.NoError(t, err)
	db, hb, err := Encode(b)
	require.NoError(t, err)

	assert.Equal(t, da, db, "key order must not affect canonical bytes")
	assert.Equal(t, ha, hb)
}

func TestHashSensitivity(t *testing.T) {
	ha, err := Hash(types.Record{"id": "r1", "name": "widget"})
	require.NoError(t, err)
	hb, err := Hash(types.Record{"id": "r1", "name": "gadget"})
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestDecode_MalformedBytes(t *testing.T) {
	_, err := Decode([]byte("{not json"), testSchema())
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Issues)
}

func TestDecode_SchemaMismatch(t *testing.T) {
	data, _, err := Encode(types.Record{"id": "r1", "count": "three"})
	require.NoError(t, err)

	_, err = Decode(data, testSchema())
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	// name missing + count wrong type
	assert.Len(t, verr.Issues, 2)
}

func TestEncode_Unencodable(t *testing.T) {
	_, _, err := Encode(types.Record{"id": "r1", "fn": func() {}})
	assert.Error(t, err)
}
