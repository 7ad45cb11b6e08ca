// Package query defines the serializable search request payload and the
// filter clause model shared by the state engine, the URL serializer and the
// search backend.
package query

import (
	"encoding/json"

	"facetsearch/catalog"
)

// Kind discriminates the two filter variants.
type Kind string

const (
	// KindTypeAttribute targets a first-class attribute of an object type;
	// target is [typeID, attributeID].
	KindTypeAttribute Kind = "typeAttribute"
	// KindSchemaParameter targets a parameter of a metadata schema; target is
	// [schemaID, parameterID].
	KindSchemaParameter Kind = "schemaParameter"
)

// Clause operators.
const (
	OpIs       = "is"
	OpContains = "contains"
	OpGTE      = ">="
	OpLTE      = "<="
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Clause is one criterion of a filter. Content is a string, a number or a
// list of strings depending on the operator and the attribute's value kind.
type Clause struct {
	Op      string `json:"op"`
	Content any    `json:"content"`
}

// Filter is an active filter criterion. A filter always carries at least one
// clause; removing the last clause removes the filter itself.
type Filter struct {
	Kind   Kind      `json:"kind"`
	Target [2]string `json:"target"`
	Value  []Clause  `json:"value"`
}

// SortClause is one sort instruction on the wire. Field is the attribute ID
// followed by its nested target path, if any.
type SortClause struct {
	Field []string `json:"field"`
	Order string   `json:"order"`
}

// Body is the search request payload. It is a pure projection of the state
// stores, recomputed on demand and never stored. Field order here is the
// canonical JSON key order; map keys are sorted by encoding/json, so for
// identical inputs the marshalled body is byte-identical. The URL serializer
// relies on that.
type Body struct {
	Sort    map[catalog.TypeID][]SortClause `json:"sort,omitempty"`
	Type    catalog.TypeID                  `json:"type,omitempty"`
	Offset  *int                            `json:"offset,omitempty"`
	Size    *int                            `json:"size,omitempty"`
	Query   map[catalog.TypeID]string       `json:"query,omitempty"`
	Filters []Filter                        `json:"filters,omitempty"`
}

// HasCriteria reports whether the body carries any filters or non-empty quick
// search terms. Bodies without criteria are never written to the address bar.
func (b Body) HasCriteria() bool {
	return len(b.Filters) > 0 || len(b.Query) > 0
}

// MarshalCanonical renders the canonical JSON form used both on the wire and
// in the address bar.
func (b Body) MarshalCanonical() ([]byte, error) {
	return json.Marshal(b)
}

// IntPtr adapts a literal for the optional pagination fields.
func IntPtr(v int) *int { return &v }
