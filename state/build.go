package state

import (
	"facetsearch/catalog"
	"facetsearch/query"
)

// BuildBody projects the state stores into a search request body. It is pure:
// no store is touched and identical inputs yield an identical body.
//
// Only single-type searches carry sort and pagination; a multi-type search is
// term/filter-only and implicitly page 1 of every type. withSortPagination
// exists for the select-all flow, which needs the criteria of a single type
// without any result window.
func BuildBody(cat *catalog.Catalog, terms Terms, filters Filters, sorts Sorts, pages Pages, target catalog.TypeID, withSortPagination bool) query.Body {
	body := query.Body{
		Query:   terms.Map(),
		Filters: filters.Active(),
	}

	if target == "" {
		return body
	}

	body.Type = target
	if !withSortPagination {
		return body
	}

	if clauses := sorts.Clauses(cat, target); len(clauses) > 0 {
		body.Sort = map[catalog.TypeID][]query.SortClause{target: clauses}
	}

	offset, size := pages.Window(target)
	body.Offset = query.IntPtr(offset)
	body.Size = query.IntPtr(size)

	return body
}
