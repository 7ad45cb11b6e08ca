package engine

import (
	"fmt"

	"facetsearch/catalog"
	"facetsearch/query"
)

// InvalidFilterLabel is shown in place of a filter whose target cannot be
// resolved against the catalog. The filter itself stays in state untouched;
// the invalidity may be transient while metadata is still loading.
const InvalidFilterLabel = "(Invalid filter)"

// FilterSummary is the display form of one active filter.
type FilterSummary struct {
	Label string
	Value []query.Clause
	Valid bool
}

// FilterSummaries renders the active filters for display, in activation
// order. Filters with unresolvable targets come back with Valid=false and
// the invalid-filter label; nothing is dropped and nothing panics.
func (e *Engine) FilterSummaries() []FilterSummary {
	e.mu.Lock()
	filters := e.filters.Active()
	e.mu.Unlock()

	out := make([]FilterSummary, 0, len(filters))
	for _, f := range filters {
		out = append(out, e.summarize(f))
	}
	return out
}

func (e *Engine) summarize(f query.Filter) FilterSummary {
	invalid := FilterSummary{Label: InvalidFilterLabel, Value: f.Value}

	switch f.Kind {
	case query.KindTypeAttribute:
		t := e.cat.Type(catalog.TypeID(f.Target[0]))
		if t == nil {
			return invalid
		}
		attr := t.Attribute(f.Target[1])
		if attr == nil {
			return invalid
		}
		return FilterSummary{
			Label: fmt.Sprintf("%s.%s", t.FullName, attr.FullName),
			Value: f.Value,
			Valid: true,
		}

	case query.KindSchemaParameter:
		schema := e.cat.Schema(f.Target[0])
		if schema == nil {
			return invalid
		}
		param := schema.Parameter(f.Target[1])
		if param == nil {
			return invalid
		}
		t := e.cat.Type(schema.Type)
		if t == nil {
			return invalid
		}
		return FilterSummary{
			Label: fmt.Sprintf("%s.%s.%s", t.FullName, schema.Name, param.FullName),
			Value: f.Value,
			Valid: true,
		}
	}
	return invalid
}
