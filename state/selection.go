package state

import (
	"sort"

	"facetsearch/catalog"
)

// SelectionTag classifies how a type's selection came to be.
type SelectionTag string

const (
	// SelectionNone: nothing selected. Holds exactly when the id set is empty.
	SelectionNone SelectionTag = "NONE"
	// SelectionSome: a hand-picked, non-empty set of rows.
	SelectionSome SelectionTag = "SOME"
	// SelectionPage: the current page's rows, produced by the page-select
	// action.
	SelectionPage SelectionTag = "PAGE"
	// SelectionAll: produced by the asynchronous select-all action. Sticks
	// until an individual row is toggled or the selection is cleared.
	SelectionAll SelectionTag = "ALL"
)

type selection struct {
	tag SelectionTag
	ids map[string]struct{}
}

// Selections tracks the selected result rows per type, together with the tag
// describing how the selection was made.
type Selections struct {
	m map[catalog.TypeID]selection
}

func (s Selections) cloneType(typeID catalog.TypeID) (Selections, selection) {
	out := Selections{m: make(map[catalog.TypeID]selection, len(s.m)+1)}
	for k, v := range s.m {
		out.m[k] = v
	}
	prev := s.m[typeID]
	sel := selection{tag: prev.tag, ids: make(map[string]struct{}, len(prev.ids)+1)}
	if sel.tag == "" {
		sel.tag = SelectionNone
	}
	for id := range prev.ids {
		sel.ids[id] = struct{}{}
	}
	return out, sel
}

// Toggle flips one row. Any toggle degrades a Page or All selection to Some;
// the special tags only describe selections produced by their own actions.
func (s Selections) Toggle(typeID catalog.TypeID, id string) Selections {
	out, sel := s.cloneType(typeID)
	if _, ok := sel.ids[id]; ok {
		delete(sel.ids, id)
	} else {
		sel.ids[id] = struct{}{}
	}
	if len(sel.ids) == 0 {
		sel.tag = SelectionNone
	} else {
		sel.tag = SelectionSome
	}
	out.m[typeID] = sel
	return out
}

// SelectPage replaces the selection with exactly the current page's rows.
func (s Selections) SelectPage(typeID catalog.TypeID, pageIDs []string) Selections {
	out, sel := s.cloneType(typeID)
	sel.ids = make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		sel.ids[id] = struct{}{}
	}
	sel.tag = SelectionPage
	if len(sel.ids) == 0 {
		sel.tag = SelectionNone
	}
	out.m[typeID] = sel
	return out
}

// SelectAll merges the full matching id list into whatever is already
// selected and tags the selection All.
func (s Selections) SelectAll(typeID catalog.TypeID, ids []string) Selections {
	out, sel := s.cloneType(typeID)
	for _, id := range ids {
		sel.ids[id] = struct{}{}
	}
	sel.tag = SelectionAll
	out.m[typeID] = sel
	return out
}

// DeselectAll clears a type's selection.
func (s Selections) DeselectAll(typeID catalog.TypeID) Selections {
	out, _ := s.cloneType(typeID)
	out.m[typeID] = selection{tag: SelectionNone, ids: map[string]struct{}{}}
	return out
}

// Tag returns the selection tag for a type.
func (s Selections) Tag(typeID catalog.TypeID) SelectionTag {
	sel, ok := s.m[typeID]
	if !ok || sel.tag == "" {
		return SelectionNone
	}
	return sel.tag
}

// Selected reports whether a row is selected.
func (s Selections) Selected(typeID catalog.TypeID, id string) bool {
	_, ok := s.m[typeID].ids[id]
	return ok
}

// Count returns the number of selected rows for a type.
func (s Selections) Count(typeID catalog.TypeID) int {
	return len(s.m[typeID].ids)
}

// Items returns the selected ids for a type, sorted for determinism.
func (s Selections) Items(typeID catalog.TypeID) []string {
	sel := s.m[typeID]
	if len(sel.ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(sel.ids))
	for id := range sel.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
