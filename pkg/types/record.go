package types

import "errors"

// IDField is the field every record must carry: a non-empty string unique
// within its collection.
const IDField = "id"

// Domain errors for record validation
var (
	ErrMissingID = errors.New("record has no id field")
	ErrBadIDType = errors.New("record id must be a non-empty string")
)

// Record is one typed content item. Field values are the JSON-compatible
// scalars plus nested maps and slices; the schema layer constrains the shape.
type Record map[string]any

// ID returns the record's id field, or ErrMissingID/ErrBadIDType when the
// field is absent or not a non-empty string.
func (r Record) ID() (string, error) {
	v, ok := r[IDField]
	if !ok {
		return "", ErrMissingID
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", ErrBadIDType
	}
	return id, nil
}

// Clone returns a shallow copy of the record. Nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// StringSlice reads a field as an ordered list of string ids. A nil field
// yields an empty slice. Used by array relation resolution.
func (r Record) StringSlice(field string) ([]string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case []string:
		return vv, nil
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, errors.New("field " + field + " contains a non-string element")
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, errors.New("field " + field + " is not a list")
	}
}

// StringMap reads a field as a key -> string id mapping. A nil field yields
// an empty map. Used by map relation resolution.
func (r Record) StringMap(field string) (map[string]string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case map[string]string:
		return vv, nil
	case map[string]any:
		out := make(map[string]string, len(vv))
		for k, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, errors.New("field " + field + " contains a non-string value")
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, errors.New("field " + field + " is not a map")
	}
}
