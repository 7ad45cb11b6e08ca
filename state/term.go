package state

import "facetsearch/catalog"

// Terms maps an object type to its quick-search term. Empty terms are never
// stored and an empty store renders as nil, so serialized state stays
// minimal.
type Terms map[catalog.TypeID]string

// Set returns the store with the term updated. An empty term removes the
// entry.
func (t Terms) Set(typeID catalog.TypeID, term string) Terms {
	out := make(Terms, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	if term == "" {
		delete(out, typeID)
	} else {
		out[typeID] = term
	}
	return out
}

// Replace swaps the store wholesale, dropping empty terms.
func (t Terms) Replace(terms map[catalog.TypeID]string) Terms {
	out := make(Terms, len(terms))
	for k, v := range terms {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Get returns the term for a type, or "".
func (t Terms) Get(typeID catalog.TypeID) string {
	return t[typeID]
}

// HasAny reports whether any quick-search term is active.
func (t Terms) HasAny() bool { return len(t) > 0 }

// Map renders the store for the query body: nil when empty.
func (t Terms) Map() map[catalog.TypeID]string {
	if len(t) == 0 {
		return nil
	}
	out := make(map[catalog.TypeID]string, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
