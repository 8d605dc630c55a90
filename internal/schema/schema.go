// Package schema declares record shapes and validates records against them.
//
// A Schema is a static, configuration-time value: collections declare one
// schema for raw loaded input and one for the transformed, stored form (often
// the same). Validation gathers every issue instead of stopping at the first,
// so a build failure names all offending fields at once.
package schema

import (
	"fmt"
	"strings"

	"github.com/foldcms/foldcms-go/pkg/types"
)

// Kind identifies the accepted value type for a field.
type Kind string

const (
	KindString     Kind = "string"
	KindInt        Kind = "int"
	KindFloat      Kind = "float"
	KindBool       Kind = "bool"
	KindStringList Kind = "string_list"
	KindStringMap  Kind = "string_map"
	KindAny        Kind = "any"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindString, KindInt, KindFloat, KindBool, KindStringList, KindStringMap, KindAny:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown field kind %q", s)
}

// Field declares one record field.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Nullable bool
}

// Schema is an ordered set of field declarations. Fields not declared are
// ignored by validation; the id field is always enforced.
type Schema struct {
	fields []Field
	byName map[string]Field
}

// New builds a schema from field declarations. Duplicate names keep the last
// declaration.
func New(fields ...Field) *Schema {
	s := &Schema{
		fields: fields,
		byName: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		s.byName[f.Name] = f
	}
	return s
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	return s.fields
}

// ValidationError reports every issue found while checking a record against
// a schema. Issues is never empty.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Issues, "; "))
}

// Validate checks a record against the schema. It returns nil on success and
// a *ValidationError listing every issue otherwise.
func (s *Schema) Validate(rec types.Record) error {
	var issues []string

	if rec == nil {
		return &ValidationError{Issues: []string{"record is nil"}}
	}

	if _, err := rec.ID(); err != nil {
		issues = append(issues, err.Error())
	}

	for _, f := range s.fields {
		v, ok := rec[f.Name]
		if !ok {
			if f.Required {
				issues = append(issues, fmt.Sprintf("field %q: required but missing", f.Name))
			}
			continue
		}
		if v == nil {
			if !f.Nullable {
				issues = append(issues, fmt.Sprintf("field %q: null not allowed", f.Name))
			}
			continue
		}
		if msg := checkKind(f, v); msg != "" {
			issues = append(issues, msg)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func checkKind(f Field, v any) string {
	switch f.Kind {
	case KindAny:
		return ""
	case KindString:
		if _, ok := v.(string); !ok {
			return kindMismatch(f, v)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return kindMismatch(f, v)
		}
	case KindInt:
		switch n := v.(type) {
		case int, int64:
		case float64:
			// JSON numbers decode as float64; accept integral values.
			if n != float64(int64(n)) {
				return fmt.Sprintf("field %q: expected integer, got fractional number", f.Name)
			}
		default:
			return kindMismatch(f, v)
		}
	case KindFloat:
		switch v.(type) {
		case float64, float32, int, int64:
		default:
			return kindMismatch(f, v)
		}
	case KindStringList:
		switch vv := v.(type) {
		case []string:
		case []any:
			for i, e := range vv {
				if _, ok := e.(string); !ok {
					return fmt.Sprintf("field %q: element %d is not a string", f.Name, i)
				}
			}
		default:
			return kindMismatch(f, v)
		}
	case KindStringMap:
		switch vv := v.(type) {
		case map[string]string:
		case map[string]any:
			for k, e := range vv {
				if _, ok := e.(string); !ok {
					return fmt.Sprintf("field %q: key %q is not a string", f.Name, k)
				}
			}
		default:
			return kindMismatch(f, v)
		}
	default:
		return fmt.Sprintf("field %q: unknown kind %q", f.Name, f.Kind)
	}
	return ""
}

func kindMismatch(f Field, v any) string {
	return fmt.Sprintf("field %q: expected %s, got %T", f.Name, f.Kind, v)
}
