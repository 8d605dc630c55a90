package types

import "fmt"

// RelationKind is the cardinality of a declared relation.
type RelationKind string

const (
	// RelationSingle resolves one id to zero-or-one target record.
	RelationSingle RelationKind = "single"
	// RelationArray resolves an ordered id list to an order-preserving slice.
	RelationArray RelationKind = "array"
	// RelationMap resolves a key->id mapping to a key->record mapping.
	RelationMap RelationKind = "map"
)

// Relation declares an edge from a field on a source collection's transformed
// record to a target collection. Targets are looked up by name at query time,
// not validated at declaration time.
type Relation struct {
	Kind   RelationKind
	Field  string
	Target string
}

// Validate checks the declaration is structurally complete.
func (r Relation) Validate() error {
	switch r.Kind {
	case RelationSingle, RelationArray, RelationMap:
	default:
		return fmt.Errorf("invalid relation kind %q", r.Kind)
	}
	if r.Field == "" {
		return fmt.Errorf("relation is missing a field name")
	}
	if r.Target == "" {
		return fmt.Errorf("relation %q is missing a target collection", r.Field)
	}
	return nil
}
