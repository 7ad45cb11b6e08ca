// Package state holds the search UI state stores: active filters, quick
// search terms, sort, pagination and selection. Every store is a value type
// whose mutating operations return a new value, so callers can never observe
// a half-applied transition.
package state

import (
	"facetsearch/catalog"
	"facetsearch/query"
)

type filterKey struct {
	kind query.Kind
	a, b string
}

// Filters is the set of active filters, at most one per (kind, target) pair.
// Insertion order is preserved so query bodies come out deterministic.
type Filters struct {
	order  []filterKey
	values map[filterKey][]query.Clause
}

func (f Filters) clone() Filters {
	out := Filters{
		order:  make([]filterKey, len(f.order)),
		values: make(map[filterKey][]query.Clause, len(f.values)),
	}
	copy(out.order, f.order)
	for k, v := range f.values {
		out.values[k] = v
	}
	return out
}

func (f Filters) set(k filterKey, clauses []query.Clause) Filters {
	out := f.clone()
	if len(clauses) == 0 {
		// A filter with no clauses does not exist.
		return out.remove(k)
	}
	if _, ok := out.values[k]; !ok {
		out.order = append(out.order, k)
	}
	out.values[k] = clauses
	return out
}

func (f Filters) remove(k filterKey) Filters {
	if _, ok := f.values[k]; !ok {
		return f
	}
	delete(f.values, k)
	for i, existing := range f.order {
		if existing == k {
			f.order = append(f.order[:i:i], f.order[i+1:]...)
			break
		}
	}
	return f
}

// SetTypeAttribute inserts, replaces or (with empty clauses) removes the
// filter on a type attribute. Setting the reserved schema attribute cascades:
// any schema-parameter filter whose schema belongs to typeID but is excluded
// from the new active-schema set is removed in the same transition.
func (f Filters) SetTypeAttribute(cat *catalog.Catalog, typeID catalog.TypeID, attributeID string, clauses []query.Clause) Filters {
	out := f.set(filterKey{query.KindTypeAttribute, string(typeID), attributeID}, clauses)

	if attributeID != catalog.AttributeSchema || len(clauses) == 0 {
		// Removing the schema filter lifts the restriction entirely, so no
		// parameter filter becomes orphaned.
		return out
	}

	active := activeSchemaSet(clauses)
	for _, k := range out.order {
		if k.kind != query.KindSchemaParameter {
			continue
		}
		schema := cat.Schema(k.a)
		if schema == nil || schema.Type != typeID {
			continue
		}
		if _, ok := active[k.a]; !ok {
			out = out.remove(k)
		}
	}
	return out
}

// activeSchemaSet flattens the schema-attribute clauses into the set of
// schema IDs they select.
func activeSchemaSet(clauses []query.Clause) map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range clauses {
		switch content := c.Content.(type) {
		case []string:
			for _, id := range content {
				set[id] = struct{}{}
			}
		case []any:
			for _, v := range content {
				if id, ok := v.(string); ok {
					set[id] = struct{}{}
				}
			}
		case string:
			set[content] = struct{}{}
		}
	}
	return set
}

// SetSchemaParameter inserts, replaces or (with empty clauses) removes the
// filter on a schema parameter.
func (f Filters) SetSchemaParameter(schemaID, parameterID string, clauses []query.Clause) Filters {
	return f.set(filterKey{query.KindSchemaParameter, schemaID, parameterID}, clauses)
}

// Reset drops every active filter.
func (f Filters) Reset() Filters {
	return Filters{}
}

// TypeAttribute returns the clauses active on a type attribute, or nil.
func (f Filters) TypeAttribute(typeID catalog.TypeID, attributeID string) []query.Clause {
	return f.values[filterKey{query.KindTypeAttribute, string(typeID), attributeID}]
}

// SchemaParameter returns the clauses active on a schema parameter, or nil.
func (f Filters) SchemaParameter(schemaID, parameterID string) []query.Clause {
	return f.values[filterKey{query.KindSchemaParameter, schemaID, parameterID}]
}

// Len returns the number of active filters.
func (f Filters) Len() int { return len(f.order) }

// Active renders the filters in insertion order, or nil when none are active.
func (f Filters) Active() []query.Filter {
	if len(f.order) == 0 {
		return nil
	}
	out := make([]query.Filter, 0, len(f.order))
	for _, k := range f.order {
		out = append(out, query.Filter{
			Kind:   k.kind,
			Target: [2]string{k.a, k.b},
			Value:  f.values[k],
		})
	}
	return out
}

// FiltersFromQuery rebuilds the store from a deserialized body, preserving
// order. Filters without clauses are dropped; filters referencing unknown
// catalog entries are kept untouched, since the invalidity may be transient.
func FiltersFromQuery(filters []query.Filter) Filters {
	out := Filters{}
	for _, flt := range filters {
		switch flt.Kind {
		case query.KindTypeAttribute, query.KindSchemaParameter:
			out = out.set(filterKey{flt.Kind, flt.Target[0], flt.Target[1]}, flt.Value)
		}
	}
	return out
}
