package cms

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/foldcms/foldcms-go/internal/store"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// RelationValue is the resolved result of a relation lookup, tagged by
// cardinality. Exactly the field matching Kind is populated:
//
//   - RelationSingle: Record (nil when the source field is null, or in
//     lenient mode when the reference dangles)
//   - RelationArray: Records, order matching the source id list
//   - RelationMap: Map, re-keyed with the source keys
type RelationValue struct {
	Kind    types.RelationKind
	Record  types.Record
	Records []types.Record
	Map     map[string]types.Record
}

// LoadRelation resolves a declared relation field on a record from
// collectionName. Undeclared collections, undeclared relation fields, and
// missing target collections are *ConfigError; a dangling reference in
// strict mode is a *RelationError.
func (c *CMS) LoadRelation(ctx context.Context, collectionName string, rec types.Record, field string) (*RelationValue, error) {
	col, err := c.collection(collectionName)
	if err != nil {
		return nil, err
	}

	rel, ok := col.Relations[field]
	if !ok {
		return nil, configErrorf("relation %q not found on collection %q", field, collectionName)
	}

	target, ok := c.collections[rel.Target]
	if !ok {
		return nil, configErrorf("target collection %q not found", rel.Target)
	}

	switch rel.Kind {
	case types.RelationSingle:
		return c.resolveSingle(ctx, collectionName, rec, rel, target)
	case types.RelationArray:
		return c.resolveArray(ctx, collectionName, rec, rel, target)
	case types.RelationMap:
		return c.resolveMap(ctx, collectionName, rec, rel, target)
	default:
		return nil, configErrorf("invalid relation kind %q", rel.Kind)
	}
}

func (c *CMS) resolveSingle(ctx context.Context, source string, rec types.Record, rel types.Relation, target *Collection) (*RelationValue, error) {
	out := &RelationValue{Kind: types.RelationSingle}

	v, ok := rec[rel.Field]
	if !ok || v == nil {
		// Null reference resolves to absent, strict or not
		return out, nil
	}
	id, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("relation %q on %q: field is not a string id", rel.Field, source)
	}

	found, err := c.store.GetByID(ctx, rel.Target, id, target.StoredSchema())
	if errors.Is(err, store.ErrNotFound) {
		if c.lenient {
			return out, nil
		}
		return nil, &RelationError{Source: source, Field: rel.Field, Target: rel.Target, ID: id}
	}
	if err != nil {
		return nil, err
	}
	out.Record = found
	return out, nil
}

func (c *CMS) resolveArray(ctx context.Context, source string, rec types.Record, rel types.Relation, target *Collection) (*RelationValue, error) {
	ids, err := rec.StringSlice(rel.Field)
	if err != nil {
		return nil, fmt.Errorf("relation %q on %q: %w", rel.Field, source, err)
	}

	results := make([]types.Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			found, err := c.store.GetByID(gctx, rel.Target, id, target.StoredSchema())
			if errors.Is(err, store.ErrNotFound) {
				if c.lenient {
					return nil
				}
				return &RelationError{Source: source, Field: rel.Field, Target: rel.Target, ID: id}
			}
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Lenient mode drops missing entries while keeping input order
	out := &RelationValue{Kind: types.RelationArray, Records: make([]types.Record, 0, len(results))}
	for _, r := range results {
		if r != nil {
			out.Records = append(out.Records, r)
		}
	}
	return out, nil
}

func (c *CMS) resolveMap(ctx context.Context, source string, rec types.Record, rel types.Relation, target *Collection) (*RelationValue, error) {
	ids, err := rec.StringMap(rel.Field)
	if err != nil {
		return nil, fmt.Errorf("relation %q on %q: %w", rel.Field, source, err)
	}

	type entry struct {
		key string
		rec types.Record
	}
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	entries := make([]entry, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key, id := i, key, ids[key]
		g.Go(func() error {
			found, err := c.store.GetByID(gctx, rel.Target, id, target.StoredSchema())
			if errors.Is(err, store.ErrNotFound) {
				if c.lenient {
					return nil
				}
				return &RelationError{Source: source, Field: rel.Field, Target: rel.Target, ID: id}
			}
			if err != nil {
				return err
			}
			entries[i] = entry{key: key, rec: found}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RelationValue{Kind: types.RelationMap, Map: make(map[string]types.Record, len(entries))}
	for _, e := range entries {
		if e.rec != nil {
			out.Map[e.key] = e.rec
		}
	}
	return out, nil
}
