package engine

import (
	"context"
	"errors"
	"fmt"

	"facetsearch/catalog"
	"facetsearch/state"
)

// ErrSelectAllPending is returned when a select-all is requested for a type
// that already has one in flight. Overlapping select-alls are rejected rather
// than queued or restarted.
var ErrSelectAllPending = errors.New("select all already in progress for type")

// SelectionTag returns the selection tag for a type.
func (e *Engine) SelectionTag(typeID catalog.TypeID) state.SelectionTag {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Tag(typeID)
}

// IsSelected reports whether a row is selected.
func (e *Engine) IsSelected(typeID catalog.TypeID, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Selected(typeID, id)
}

// SelectedItems returns the selected row ids for a type, sorted.
func (e *Engine) SelectedItems(typeID catalog.TypeID) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Items(typeID)
}

// SelectedCount returns the number of selected rows for a type.
func (e *Engine) SelectedCount(typeID catalog.TypeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Count(typeID)
}

// ToggleItem flips one row's selection.
func (e *Engine) ToggleItem(typeID catalog.TypeID, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = e.sel.Toggle(typeID, id)
}

// SelectPageItems selects exactly the rows of the type's current result page.
func (e *Engine) SelectPageItems(typeID catalog.TypeID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var pageIDs []string
	if e.results != nil {
		if rs := e.results.Hits[typeID]; rs != nil {
			pageIDs = rs.Order
		}
	}
	e.sel = e.sel.SelectPage(typeID, pageIDs)
}

// DeselectAllItems clears the type's selection.
func (e *Engine) DeselectAllItems(typeID catalog.TypeID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = e.sel.DeselectAll(typeID)
}

// SelectAllTypeItems fetches the complete id list matching the current
// criteria for a type (no pagination, no sort) and merges it into the
// selection, tagging it All. The call suspends for the duration of the
// fetch; a second call for the same type while one is pending returns
// ErrSelectAllPending.
func (e *Engine) SelectAllTypeItems(ctx context.Context, typeID catalog.TypeID) error {
	if !catalog.ValidType(typeID) {
		return fmt.Errorf("unknown object type %q", typeID)
	}

	e.mu.Lock()
	if e.selectAllPending[typeID] {
		e.mu.Unlock()
		return ErrSelectAllPending
	}
	e.selectAllPending[typeID] = true
	body := e.buildBodyLocked(typeID, false)
	e.mu.Unlock()

	resp, err := e.client.Search(ctx, body)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.selectAllPending, typeID)

	if err != nil {
		// Session expiry here means the same thing it does on a search.
		if IsUnauthorized(err) {
			e.nav.RedirectToLogin(e.nav.Path())
			return nil
		}
		return err
	}

	rs := normalizeResponse(resp).Hits[typeID]
	if rs == nil {
		return fmt.Errorf("select all: no hits for type %q in response", typeID)
	}
	e.sel = e.sel.SelectAll(typeID, rs.Order)
	return nil
}
