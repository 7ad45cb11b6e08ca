package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"facetsearch/catalog"
	"facetsearch/query"
)

const defaultPageSize = 20

// maxResultWindow caps an un-windowed single-type fetch. It matches the
// default of ES's own index.max_result_window; anything past it needs
// search_after, which no caller asks for.
const maxResultWindow = 10000

// Hit is one search hit as served to the client.
type Hit struct {
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source map[string]any `json:"_source"`
}

// Result is the assembled per-type answer of one search request.
type Result struct {
	Hits      map[catalog.TypeID][]Hit `json:"hits"`
	TotalHits map[catalog.TypeID]int   `json:"total_hits"`
}

// Search runs the request against every type's index, or only the requested
// type for single-type bodies. Each type gets its own bool query assembled
// from the quick-search term and the filters that apply to it.
func (c *Client) Search(ctx context.Context, cat *catalog.Catalog, body query.Body) (*Result, error) {
	types := catalog.AllTypes()
	if body.Type != "" {
		if cat.Type(body.Type) == nil {
			return nil, fmt.Errorf("unknown object type %q", body.Type)
		}
		types = []catalog.TypeID{body.Type}
	}

	out := &Result{
		Hits:      make(map[catalog.TypeID][]Hit, len(types)),
		TotalHits: make(map[catalog.TypeID]int, len(types)),
	}
	for _, t := range types {
		hits, total, err := c.searchType(ctx, cat, body, t)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", t, err)
		}
		if hits == nil {
			hits = []Hit{}
		}
		out.Hits[t] = hits
		out.TotalHits[t] = total
	}
	return out, nil
}

func (c *Client) searchType(ctx context.Context, cat *catalog.Catalog, body query.Body, t catalog.TypeID) ([]Hit, int, error) {
	boolQ := map[string]any{
		"must":   []any{},
		"filter": []any{},
	}

	// Full-text query (optional)
	if term := body.Query[t]; term != "" {
		boolQ["must"] = append(boolQ["must"].([]any), map[string]any{
			"multi_match": map[string]any{
				"query":  term,
				"fields": cat.SearchableFields(t),
				// Searchable fields mix text, date and numeric mappings.
				"lenient": true,
			},
		})
	}

	// Structured filters
	for _, f := range body.Filters {
		clause, ok, err := buildFilterClause(cat, t, f)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			// Filter targets another type.
			continue
		}
		boolQ["filter"] = append(boolQ["filter"].([]any), clause)
	}

	from, size := 0, defaultPageSize
	if body.Type == t {
		// A single-type request without an explicit window is a select-all
		// fetch and wants the complete matching id set, not the first page.
		size = maxResultWindow
		if body.Offset != nil {
			from = *body.Offset
		}
		if body.Size != nil {
			size = *body.Size
		}
	}

	esBody := map[string]any{
		"query": map[string]any{"bool": boolQ},
		"from":  from,
		"size":  size,
	}

	// Sort (optional). Without it, ES default scoring applies.
	if clauses := body.Sort[t]; len(clauses) > 0 {
		var sorts []any
		for _, srt := range clauses {
			if len(srt.Field) == 0 {
				continue
			}
			order := srt.Order
			if order == "" {
				order = query.OrderAsc
			}
			sorts = append(sorts, map[string]any{
				strings.Join(srt.Field, "."): map[string]any{"order": order},
			})
		}
		if len(sorts) > 0 {
			esBody["sort"] = sorts
		}
	}

	b, err := json.Marshal(esBody)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(cat.Type(t).IndexName),
		c.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			// index not found, return empty result
			return []Hit{}, 0, nil
		}
		raw, _ := io.ReadAll(res.Body)
		return nil, 0, fmt.Errorf("es search error: %s %s", res.Status(), string(raw))
	}

	var decoded map[string]any
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, 0, err
	}

	hitsObj, _ := decoded["hits"].(map[string]any)

	// total: { "value": N, "relation": "eq" } (ES7+)
	var total int
	if tt, ok := hitsObj["total"].(map[string]any); ok {
		if v, ok := tt["value"].(float64); ok {
			total = int(v)
		}
	}

	var hits []Hit
	rawHits, _ := hitsObj["hits"].([]any)
	for _, h := range rawHits {
		m, _ := h.(map[string]any)
		id, _ := m["_id"].(string)
		score, _ := m["_score"].(float64)
		src, _ := m["_source"].(map[string]any)
		hits = append(hits, Hit{ID: id, Score: score, Source: src})
	}

	return hits, total, nil
}

// buildFilterClause renders one filter for type t. The second return is false
// when the filter belongs to a different type.
func buildFilterClause(cat *catalog.Catalog, t catalog.TypeID, f query.Filter) (any, bool, error) {
	if len(f.Value) == 0 {
		return nil, false, fmt.Errorf("filter %v has no clauses", f.Target)
	}

	switch f.Kind {
	case query.KindTypeAttribute:
		if f.Target[0] != string(t) {
			return nil, false, nil
		}
		attributeID := f.Target[1]

		if attributeID == catalog.AttributeSchema {
			// The schema attribute selects documents carrying any of the
			// given schema IDs.
			var ids []string
			for _, cl := range f.Value {
				ids = append(ids, stringsOf(cl.Content)...)
			}
			if len(ids) == 0 {
				return nil, false, fmt.Errorf("schema filter for %q requires values", t)
			}
			return map[string]any{"terms": map[string]any{"schemas": ids}}, true, nil
		}

		field := attributeID
		if attr := cat.Attribute(t, attributeID); attr != nil && len(attr.NestedTarget) > 0 {
			field = field + "." + strings.Join(attr.NestedTarget, ".")
		}
		clause, err := buildValueClauses(field, f.Value)
		return clause, true, err

	case query.KindSchemaParameter:
		schema := cat.Schema(f.Target[0])
		if schema == nil || schema.Type != t {
			return nil, false, nil
		}
		inner := []any{
			map[string]any{"term": map[string]any{"parameters.pn_id": f.Target[1]}},
		}
		valueClause, err := buildValueClauses("parameters.value", f.Value)
		if err != nil {
			return nil, false, err
		}
		inner = append(inner, valueClause)
		return map[string]any{
			"nested": map[string]any{
				"path": "parameters",
				"query": map[string]any{
					"bool": map[string]any{"filter": inner},
				},
			},
		}, true, nil
	}

	return nil, false, fmt.Errorf("unsupported filter kind %q", f.Kind)
}

// buildValueClauses renders a filter's clause list for one field. Multiple
// clauses combine as AND.
func buildValueClauses(field string, clauses []query.Clause) (any, error) {
	if len(clauses) == 1 {
		return buildValueClause(field, clauses[0])
	}
	var all []any
	for _, cl := range clauses {
		built, err := buildValueClause(field, cl)
		if err != nil {
			return nil, err
		}
		all = append(all, built)
	}
	return map[string]any{"bool": map[string]any{"filter": all}}, nil
}

func buildValueClause(field string, cl query.Clause) (any, error) {
	switch cl.Op {
	case query.OpIs:
		if vals := stringsOf(cl.Content); len(vals) > 0 {
			return map[string]any{"terms": map[string]any{field: vals}}, nil
		}
		if cl.Content == nil || cl.Content == "" {
			return nil, fmt.Errorf("is filter requires a value for field %q", field)
		}
		return map[string]any{"term": map[string]any{field: cl.Content}}, nil

	case query.OpContains:
		if cl.Content == nil || cl.Content == "" {
			return nil, fmt.Errorf("contains filter requires a value for field %q", field)
		}
		return map[string]any{"match": map[string]any{field: cl.Content}}, nil

	case query.OpGTE:
		return map[string]any{"range": map[string]any{field: map[string]any{"gte": cl.Content}}}, nil

	case query.OpLTE:
		return map[string]any{"range": map[string]any{field: map[string]any{"lte": cl.Content}}}, nil
	}

	return nil, fmt.Errorf("unsupported filter op %q for field %q", cl.Op, field)
}

// stringsOf flattens list content into strings; non-list content yields nil.
func stringsOf(content any) []string {
	switch v := content.(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
