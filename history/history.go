// Package history serializes search state to and from the address-bar query
// string, so searches are shareable, bookmarkable and back/forward-navigable.
package history

import (
	"encoding/json"
	"net/url"
	"strings"

	"facetsearch/catalog"
	"facetsearch/query"
)

// Navigator is the address bar as the engine sees it. Implementations wrap
// whatever hosts the engine (a browser bridge, a recorder in tests).
type Navigator interface {
	// Path returns the location path without any query string.
	Path() string
	// RawQuery returns the current query string, with or without a leading
	// "?".
	RawQuery() string
	// Push records a new history entry for the given URL.
	Push(url string)
	// Replace rewrites the current history entry.
	Replace(url string)
	// RedirectToLogin leaves the page for the login flow, carrying the path
	// to return to afterwards.
	RedirectToLogin(next string)
}

// QueryString renders the canonical "?q=..." form of a query body, or "" when
// the body carries no filters and no search terms. A search with no criteria
// never appears in a shareable URL.
func QueryString(body query.Body) string {
	if !body.HasCriteria() {
		return ""
	}
	b, err := body.MarshalCanonical()
	if err != nil {
		// The body is plain data; this cannot happen for engine-built bodies.
		return ""
	}
	return "?q=" + url.QueryEscape(string(b))
}

// Parse extracts the query body from an address-bar query string. Structured
// bodies come back as their raw JSON members. Anything that is not a JSON
// object — a bare word, a number, an array, or unparseable text — is treated
// as a legacy quick-search term applied to every type, for compatibility with
// bookmarks that predate structured queries.
func Parse(search string) map[string]json.RawMessage {
	search = strings.TrimPrefix(search, "?")
	// Decode before splitting, so encoded terms like %3A survive as terms.
	if decoded, err := url.QueryUnescape(search); err == nil {
		search = decoded
	}

	var queryPart string
	for _, part := range strings.Split(search, "&") {
		if strings.HasPrefix(part, "q=") {
			queryPart = part[len("q="):]
			break
		}
	}
	if queryPart == "" {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(queryPart), &raw); err == nil && raw != nil {
		return raw
	}
	return legacyTermQuery(queryPart)
}

// legacyTermQuery turns a bare search string into a structured body applying
// it as the quick-search term of every type.
func legacyTermQuery(term string) map[string]json.RawMessage {
	terms := make(map[catalog.TypeID]string, 4)
	for _, t := range catalog.AllTypes() {
		terms[t] = term
	}
	b, err := json.Marshal(terms)
	if err != nil {
		return nil
	}
	return map[string]json.RawMessage{"query": b}
}

// Decode rebuilds a query body from parsed members. Decoding is tolerant:
// members that do not match the expected shape are dropped rather than
// failing the whole restore, since old bookmarks may carry stale structures.
func Decode(raw map[string]json.RawMessage) query.Body {
	var body query.Body
	if raw == nil {
		return body
	}
	if m, ok := raw["query"]; ok {
		var terms map[catalog.TypeID]string
		if err := json.Unmarshal(m, &terms); err == nil {
			body.Query = terms
		}
	}
	if m, ok := raw["filters"]; ok {
		var filters []query.Filter
		if err := json.Unmarshal(m, &filters); err == nil {
			body.Filters = filters
		}
	}
	if m, ok := raw["sort"]; ok {
		var sorts map[catalog.TypeID][]query.SortClause
		if err := json.Unmarshal(m, &sorts); err == nil {
			body.Sort = sorts
		}
	}
	if m, ok := raw["type"]; ok {
		var t catalog.TypeID
		if err := json.Unmarshal(m, &t); err == nil {
			body.Type = t
		}
	}
	if m, ok := raw["offset"]; ok {
		var v int
		if err := json.Unmarshal(m, &v); err == nil {
			body.Offset = query.IntPtr(v)
		}
	}
	if m, ok := raw["size"]; ok {
		var v int
		if err := json.Unmarshal(m, &v); err == nil {
			body.Size = query.IntPtr(v)
		}
	}
	return body
}
