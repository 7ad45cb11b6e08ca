package state

import (
	"facetsearch/catalog"
	"facetsearch/query"
)

type typeSort struct {
	active []string
	order  map[string]string
}

// Sorts tracks, per type, the ordered list of active sort attributes and the
// direction of each. List position is tie-break priority: the attribute
// activated first is the primary sort key.
type Sorts struct {
	m map[catalog.TypeID]typeSort
}

func (s Sorts) cloneType(typeID catalog.TypeID) (Sorts, typeSort) {
	out := Sorts{m: make(map[catalog.TypeID]typeSort, len(s.m)+1)}
	for k, v := range s.m {
		out.m[k] = v
	}
	prev := s.m[typeID]
	ts := typeSort{
		active: append([]string(nil), prev.active...),
		order:  make(map[string]string, len(prev.order)+1),
	}
	for k, v := range prev.order {
		ts.order[k] = v
	}
	return out, ts
}

// Set activates a sort attribute, or updates its direction in place if it is
// already active. The list position of an already-active attribute never
// changes, which keeps multi-column tie-breaking stable.
func (s Sorts) Set(typeID catalog.TypeID, attributeID, order string) Sorts {
	if order == "" {
		order = query.OrderAsc
	}
	out, ts := s.cloneType(typeID)
	ts.order[attributeID] = order

	for _, id := range ts.active {
		if id == attributeID {
			out.m[typeID] = ts
			return out
		}
	}
	ts.active = append(ts.active, attributeID)
	out.m[typeID] = ts
	return out
}

// Clear deactivates a sort attribute. The direction entry is dead data once
// the attribute is inactive and is dropped with it.
func (s Sorts) Clear(typeID catalog.TypeID, attributeID string) Sorts {
	out, ts := s.cloneType(typeID)
	for i, id := range ts.active {
		if id == attributeID {
			ts.active = append(ts.active[:i], ts.active[i+1:]...)
			delete(ts.order, attributeID)
			break
		}
	}
	out.m[typeID] = ts
	return out
}

// Active returns the active sort attribute IDs for a type, primary first.
func (s Sorts) Active(typeID catalog.TypeID) []string {
	return s.m[typeID].active
}

// Order returns the direction of an attribute, defaulting to ascending.
func (s Sorts) Order(typeID catalog.TypeID, attributeID string) string {
	if o, ok := s.m[typeID].order[attributeID]; ok {
		return o
	}
	return query.OrderAsc
}

// Clauses renders the active sorts of a type as wire clauses, resolving each
// attribute's nested target path through the catalog.
func (s Sorts) Clauses(cat *catalog.Catalog, typeID catalog.TypeID) []query.SortClause {
	ts := s.m[typeID]
	if len(ts.active) == 0 {
		return nil
	}
	out := make([]query.SortClause, 0, len(ts.active))
	for _, id := range ts.active {
		field := []string{id}
		if attr := cat.Attribute(typeID, id); attr != nil {
			field = append(field, attr.NestedTarget...)
		}
		out = append(out, query.SortClause{Field: field, Order: s.Order(typeID, id)})
	}
	return out
}
