// Package engine is the search/filter state engine: one Engine instance per
// application session holds the filter, term, sort, pagination and selection
// state, issues searches against the search service and keeps the address
// bar in sync. There is no process-wide instance; consumers receive the
// Engine they should use.
package engine

import (
	"fmt"
	"sync"

	"facetsearch/catalog"
	"facetsearch/history"
	"facetsearch/query"
	"facetsearch/state"
)

// Status is the executor's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

// scopeAll is the request scope of multi-type searches.
const scopeAll = catalog.TypeID("")

// Engine ties the state stores, the search client and the address bar
// together. All methods are safe for use from a single consumer goroutine;
// the internal lock only arbitrates against in-flight request completions.
type Engine struct {
	mu     sync.Mutex
	cat    *catalog.Catalog
	client SearchClient
	nav    history.Navigator

	terms   state.Terms
	filters state.Filters
	sorts   state.Sorts
	pages   state.Pages
	sel     state.Selections

	status  Status
	err     error
	results *Results

	selectedType  catalog.TypeID
	highlighted   string
	showSensitive bool

	// Monotonic sequence per request scope. A response whose sequence is no
	// longer the latest issued for its scope is stale and discarded.
	seq              map[catalog.TypeID]uint64
	selectAllPending map[catalog.TypeID]bool
}

// New builds an engine for one session.
func New(cat *catalog.Catalog, client SearchClient, nav history.Navigator) *Engine {
	return &Engine{
		cat:              cat,
		client:           client,
		nav:              nav,
		terms:            state.Terms{},
		pages:            state.NewPages(),
		selectedType:     catalog.TypeExperiment,
		seq:              make(map[catalog.TypeID]uint64),
		selectAllPending: make(map[catalog.TypeID]bool),
	}
}

// Catalog returns the metadata graph the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Status returns the executor state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// IsLoading reports whether a search is in flight.
func (e *Engine) IsLoading() bool { return e.Status() == StatusLoading }

// Err returns the recoverable error of the last failed search, if any.
// Session expiry (401) is never reported here; it redirects to login instead.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Results returns the last successful search results, or nil when results
// are unavailable. The returned value must be treated as read-only.
func (e *Engine) Results() *Results {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results
}

// TotalHits returns the hit total for a type, or 0 when unavailable.
func (e *Engine) TotalHits(typeID catalog.TypeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalHitsLocked(typeID)
}

func (e *Engine) totalHitsLocked(typeID catalog.TypeID) int {
	if e.results == nil {
		return 0
	}
	return e.results.TotalHits[typeID]
}

// SearchTerm returns the quick-search term for a type, or "".
func (e *Engine) SearchTerm(typeID catalog.TypeID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terms.Get(typeID)
}

// SetSearchTerm updates a type's quick-search term; empty removes it.
func (e *Engine) SetSearchTerm(typeID catalog.TypeID, term string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.terms = e.terms.Set(typeID, term)
}

// HasActiveCriteria reports whether any filter or quick-search term is
// active.
func (e *Engine) HasActiveCriteria() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.Len() > 0 || e.terms.HasAny()
}

// ActiveFilters returns the active filters in activation order.
func (e *Engine) ActiveFilters() []query.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.Active()
}

// TypeAttributeFilter returns the clauses active on a type attribute.
func (e *Engine) TypeAttributeFilter(typeID catalog.TypeID, attributeID string) []query.Clause {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.TypeAttribute(typeID, attributeID)
}

// SchemaParameterFilter returns the clauses active on a schema parameter.
func (e *Engine) SchemaParameterFilter(schemaID, parameterID string) []query.Clause {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters.SchemaParameter(schemaID, parameterID)
}

// SetTypeAttributeFilter inserts, replaces or removes the filter on a type
// attribute, cascading schema-parameter removal when the reserved schema
// attribute changes.
func (e *Engine) SetTypeAttributeFilter(typeID catalog.TypeID, attributeID string, clauses []query.Clause) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = e.filters.SetTypeAttribute(e.cat, typeID, attributeID, clauses)
}

// SetSchemaParameterFilter inserts, replaces or removes the filter on a
// schema parameter.
func (e *Engine) SetSchemaParameterFilter(schemaID, parameterID string, clauses []query.Clause) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = e.filters.SetSchemaParameter(schemaID, parameterID, clauses)
}

// ResetFilters clears every filter and every quick-search term in one
// transition; no caller can observe a partially reset state.
func (e *Engine) ResetFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = e.filters.Reset()
	e.terms = state.Terms{}
}

// ActiveSort returns the active sort attributes for a type, primary first.
func (e *Engine) ActiveSort(typeID catalog.TypeID) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sorts.Active(typeID)
}

// SortOrder returns the direction of a sort attribute, default ascending.
func (e *Engine) SortOrder(typeID catalog.TypeID, attributeID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sorts.Order(typeID, attributeID)
}

// PageNumber returns the current page number for a type.
func (e *Engine) PageNumber(typeID catalog.TypeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pages.Number(typeID)
}

// PageSize returns the current page size for a type.
func (e *Engine) PageSize(typeID catalog.TypeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pages.Size(typeID)
}

// TotalPages returns the number of result pages for a type.
func (e *Engine) TotalPages(typeID catalog.TypeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pages.TotalPages(typeID, e.totalHitsLocked(typeID))
}

// FirstItemIndex returns the 1-based index of the first item on the current
// page of a type, or 0 when it has no hits.
func (e *Engine) FirstItemIndex(typeID catalog.TypeID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pages.FirstItemIndex(typeID, e.totalHitsLocked(typeID))
}

// SelectedType returns the active result tab.
func (e *Engine) SelectedType() catalog.TypeID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedType
}

// SetSelectedType switches the active result tab. The previous tab's
// selection is destroyed and the highlighted row cleared.
func (e *Engine) SetSelectedType(typeID catalog.TypeID) error {
	if !catalog.ValidType(typeID) {
		return fmt.Errorf("unknown object type %q", typeID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if typeID != e.selectedType {
		e.sel = e.sel.DeselectAll(e.selectedType)
		e.selectedType = typeID
	}
	e.highlighted = ""
	return nil
}

// HighlightedResult returns the highlighted row id, or "".
func (e *Engine) HighlightedResult() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highlighted
}

// SetHighlightedResult marks a row as highlighted.
func (e *Engine) SetHighlightedResult(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.highlighted = id
}

// ShowSensitiveData reports whether sensitive parameter values are shown.
func (e *Engine) ShowSensitiveData() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.showSensitive
}

// ToggleShowSensitiveData flips the sensitive-data switch.
func (e *Engine) ToggleShowSensitiveData() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.showSensitive = !e.showSensitive
}

// buildBodyLocked projects the current state into a request body.
func (e *Engine) buildBodyLocked(target catalog.TypeID, withSortPagination bool) query.Body {
	return state.BuildBody(e.cat, e.terms, e.filters, e.sorts, e.pages, target, withSortPagination)
}
