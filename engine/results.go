package engine

import (
	"fmt"
	"strconv"

	"facetsearch/catalog"
)

// Record is a flattened hit source, enriched with the derived "type" tag and
// detail-view "url".
type Record map[string]any

// ResultSet is the normalized result data for one type: the on-page order
// plus an id lookup. It is replaced wholesale on every successful search for
// its type, never partially mutated.
type ResultSet struct {
	Order []string
	ByID  map[string]Record
}

// Results holds the per-type result sets and hit totals of the last
// successful search.
type Results struct {
	Hits      map[catalog.TypeID]*ResultSet
	TotalHits map[catalog.TypeID]int
}

// normalizeResponse turns raw hits into per-type result sets, deriving the
// record id, type tag and detail URL.
func normalizeResponse(resp *Response) *Results {
	out := &Results{
		Hits:      make(map[catalog.TypeID]*ResultSet, len(resp.Hits)),
		TotalHits: make(map[catalog.TypeID]int, len(resp.TotalHits)),
	}
	for _, t := range catalog.AllTypes() {
		hits, ok := resp.Hits[t]
		if !ok {
			continue
		}
		rs := &ResultSet{ByID: make(map[string]Record, len(hits))}
		for _, h := range hits {
			rec := make(Record, len(h.Source)+2)
			for k, v := range h.Source {
				rec[k] = v
			}
			id := recordID(h)
			rec["type"] = string(t)
			rec["url"] = fmt.Sprintf("/%s/view/%s", t, id)
			rs.Order = append(rs.Order, id)
			rs.ByID[id] = rec
		}
		out.Hits[t] = rs
	}
	for t, total := range resp.TotalHits {
		out.TotalHits[t] = total
	}
	return out
}

// recordID prefers the source's own id field, which may arrive as a JSON
// number, falling back to the hit id.
func recordID(h Hit) string {
	switch v := h.Source["id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	}
	return h.ID
}
