package engine

import (
	"context"
	"fmt"

	"facetsearch/catalog"
	"facetsearch/history"
	"facetsearch/query"
	"facetsearch/state"
)

// Init restores the engine from the current address bar: the location is
// parsed (structured or legacy), canonicalized in place (replace, not push),
// the equivalent search is issued and the filter/term state rehydrated.
func (e *Engine) Init(ctx context.Context) error {
	raw := history.Parse(e.nav.RawQuery())
	body := history.Decode(raw)

	e.nav.Replace(e.nav.Path() + history.QueryString(body))

	e.mu.Lock()
	e.rehydrateLocked(body)
	e.mu.Unlock()

	return e.runBody(ctx, scopeAll, body, nil)
}

// RunSearch issues a multi-type search from the current criteria. On success
// the results are replaced, every page number resets to 1 and the canonical
// query string is pushed to the address bar.
func (e *Engine) RunSearch(ctx context.Context) error {
	e.mu.Lock()
	body := e.buildBodyLocked(scopeAll, false)
	e.mu.Unlock()

	return e.runBody(ctx, scopeAll, body, func() {
		e.pages = e.pages.ResetNumbers()
		e.nav.Push(e.nav.Path() + history.QueryString(body))
	})
}

// RunTypeSearch re-searches one type with its sort and pagination applied,
// merging only that type's result slice. Used after sort and page changes.
func (e *Engine) RunTypeSearch(ctx context.Context, typeID catalog.TypeID) error {
	if !catalog.ValidType(typeID) {
		return fmt.Errorf("unknown object type %q", typeID)
	}

	e.mu.Lock()
	body := e.buildBodyLocked(typeID, true)
	e.mu.Unlock()

	return e.runBody(ctx, typeID, body, nil)
}

// RestoreFromHistory handles back/forward navigation: the restored query
// string is re-parsed, the equivalent search re-issued and the state
// rehydrated, without pushing a new history entry.
func (e *Engine) RestoreFromHistory(ctx context.Context, rawQuery string) error {
	body := history.Decode(history.Parse(rawQuery))

	e.mu.Lock()
	e.rehydrateLocked(body)
	e.mu.Unlock()

	return e.runBody(ctx, scopeAll, body, nil)
}

// rehydrateLocked replaces term and filter state from a deserialized body.
// Filters referencing unknown catalog entries are kept as-is; the catalog
// may still be loading and the display layer shows them as invalid.
func (e *Engine) rehydrateLocked(body query.Body) {
	e.terms = e.terms.Replace(body.Query)
	e.filters = state.FiltersFromQuery(body.Filters)
}

// runBody submits one search request and reconciles its outcome. Overlapping
// requests are resolved by sequence number: whichever request was issued last
// for a scope wins, and earlier responses arriving afterwards are discarded.
func (e *Engine) runBody(ctx context.Context, scope catalog.TypeID, body query.Body, afterSuccessLocked func()) error {
	e.mu.Lock()
	e.seq[scope]++
	seq := e.seq[scope]
	e.status = StatusLoading
	e.err = nil
	// Stale row references must not survive a reload.
	e.highlighted = ""
	e.mu.Unlock()

	resp, err := e.client.Search(ctx, body)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.seq[scope] != seq {
		// A newer request for this scope was issued while this one was in
		// flight; its outcome supersedes ours.
		return nil
	}

	if err != nil {
		return e.failLocked(err)
	}

	e.applyResponseLocked(resp)
	if afterSuccessLocked != nil {
		afterSuccessLocked()
	}
	return nil
}

// failLocked records a failed search. Results are discarded rather than kept
// stale. A 401 means the session expired: it is not surfaced as a search
// error, the navigator is sent to the login flow instead.
func (e *Engine) failLocked(err error) error {
	e.status = StatusFailed
	e.results = nil
	if IsUnauthorized(err) {
		e.err = nil
		e.nav.RedirectToLogin(e.nav.Path())
		return nil
	}
	e.err = err
	return err
}

// applyResponseLocked merges a successful response. A multi-type response
// covers every type and effectively replaces the results; a single-type
// response only replaces its own type's slice, leaving the others untouched.
func (e *Engine) applyResponseLocked(resp *Response) {
	incoming := normalizeResponse(resp)
	if e.results == nil {
		e.results = incoming
	} else {
		for t, rs := range incoming.Hits {
			e.results.Hits[t] = rs
		}
		for t, total := range incoming.TotalHits {
			e.results.TotalHits[t] = total
		}
	}
	e.pages = e.pages.Clamp(incoming.TotalHits)
	e.status = StatusSucceeded
	e.err = nil
}

// SetPageNumber moves a type to page n and re-searches that type. Out-of-range
// page numbers are a no-op.
func (e *Engine) SetPageNumber(ctx context.Context, typeID catalog.TypeID, n int) error {
	e.mu.Lock()
	total := e.totalHitsLocked(typeID)
	if n < 1 || n > e.pages.TotalPages(typeID, total) {
		e.mu.Unlock()
		return nil
	}
	e.pages = e.pages.SetNumber(typeID, n)
	e.mu.Unlock()

	return e.RunTypeSearch(ctx, typeID)
}

// SetPageSize changes a type's page size, renumbers the page so the first
// item of the old page stays visible, and re-searches that type.
func (e *Engine) SetPageSize(ctx context.Context, typeID catalog.TypeID, size int) error {
	e.mu.Lock()
	e.pages = e.pages.SetSize(typeID, size, e.totalHitsLocked(typeID))
	e.mu.Unlock()

	return e.RunTypeSearch(ctx, typeID)
}

// SetSort activates a sort attribute or updates its direction, then
// re-searches the type. Whether the page number resets to 1 is the caller's
// decision, not implied by sorting.
func (e *Engine) SetSort(ctx context.Context, typeID catalog.TypeID, attributeID, order string, resetPage bool) error {
	e.mu.Lock()
	e.sorts = e.sorts.Set(typeID, attributeID, order)
	if resetPage {
		e.pages = e.pages.SetNumber(typeID, 1)
	}
	e.mu.Unlock()

	return e.RunTypeSearch(ctx, typeID)
}

// ClearSort deactivates a sort attribute and re-searches the type.
func (e *Engine) ClearSort(ctx context.Context, typeID catalog.TypeID, attributeID string) error {
	e.mu.Lock()
	e.sorts = e.sorts.Clear(typeID, attributeID)
	e.mu.Unlock()

	return e.RunTypeSearch(ctx, typeID)
}
