// Package catalog holds the searchable-object metadata: the four object
// types, their attributes and the schemas (with parameters) attached to each
// type. It is loaded once at startup and read-only afterwards.
package catalog

import "fmt"

type TypeID string

const (
	TypeProject    TypeID = "project"
	TypeExperiment TypeID = "experiment"
	TypeDataset    TypeID = "dataset"
	TypeDatafile   TypeID = "datafile"
)

// AllTypes returns the fixed type enumeration in canonical order.
func AllTypes() []TypeID {
	return []TypeID{TypeProject, TypeExperiment, TypeDataset, TypeDatafile}
}

// ValidType reports whether id names one of the four object types.
func ValidType(id TypeID) bool {
	switch id {
	case TypeProject, TypeExperiment, TypeDataset, TypeDatafile:
		return true
	}
	return false
}

// AttributeSchema is the reserved attribute whose filter value is the set of
// active schema IDs for a type.
const AttributeSchema = "schema"

type ValueKind string

const (
	KindString   ValueKind = "STRING"
	KindDatetime ValueKind = "DATETIME"
	KindNumeric  ValueKind = "NUMERIC"
)

type Attribute struct {
	ID         string    `json:"id" yaml:"id"`
	FullName   string    `json:"full_name" yaml:"fullName"`
	Kind       ValueKind `json:"data_type" yaml:"kind"`
	Filterable bool      `json:"filterable" yaml:"filterable"`
	Sortable   bool      `json:"sortable" yaml:"sortable"`
	// NestedTarget is the document path under which the attribute value is
	// indexed, for attributes that live inside nested objects.
	NestedTarget []string `json:"nested_target,omitempty" yaml:"nestedTarget,omitempty"`
}

type SchemaParameter struct {
	ID        string    `json:"id" yaml:"id"`
	FullName  string    `json:"full_name" yaml:"fullName"`
	Kind      ValueKind `json:"data_type" yaml:"kind"`
	Sensitive bool      `json:"sensitive" yaml:"sensitive"`
}

type Schema struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"schema_name" yaml:"name"`
	Type       TypeID            `json:"type" yaml:"type"`
	Parameters []SchemaParameter `json:"parameters" yaml:"parameters"`
}

func (s Schema) Parameter(parameterID string) *SchemaParameter {
	for i := range s.Parameters {
		if s.Parameters[i].ID == parameterID {
			return &s.Parameters[i]
		}
	}
	return nil
}

type Type struct {
	ID         TypeID      `json:"id" yaml:"id"`
	FullName   string      `json:"full_name" yaml:"fullName"`
	IndexName  string      `json:"-" yaml:"indexName"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

func (t Type) Attribute(attributeID string) *Attribute {
	for i := range t.Attributes {
		if t.Attributes[i].ID == attributeID {
			return &t.Attributes[i]
		}
	}
	return nil
}

// Catalog is the full metadata graph. Immutable after construction.
type Catalog struct {
	types   map[TypeID]*Type
	schemas map[string]*Schema

	schemaOrder []string
}

// New builds a catalog from type and schema definitions. Schema order is
// preserved as given.
func New(types []Type, schemas []Schema) (*Catalog, error) {
	c := &Catalog{
		types:   make(map[TypeID]*Type, len(types)),
		schemas: make(map[string]*Schema, len(schemas)),
	}

	for i := range types {
		t := types[i]
		if !ValidType(t.ID) {
			return nil, fmt.Errorf("unknown object type %q", t.ID)
		}
		if _, ok := c.types[t.ID]; ok {
			return nil, fmt.Errorf("duplicate type %q", t.ID)
		}
		c.types[t.ID] = &t
	}

	for _, id := range AllTypes() {
		if _, ok := c.types[id]; !ok {
			return nil, fmt.Errorf("missing type %q", id)
		}
	}

	for i := range schemas {
		s := schemas[i]
		if s.ID == "" {
			return nil, fmt.Errorf("schema %d: id required", i)
		}
		if !ValidType(s.Type) {
			return nil, fmt.Errorf("schema %q: unknown object type %q", s.ID, s.Type)
		}
		if _, ok := c.schemas[s.ID]; ok {
			return nil, fmt.Errorf("duplicate schema %q", s.ID)
		}
		c.schemas[s.ID] = &s
		c.schemaOrder = append(c.schemaOrder, s.ID)
	}

	return c, nil
}

// Type returns the type entry, or nil if unknown.
func (c *Catalog) Type(id TypeID) *Type {
	return c.types[id]
}

// Attribute returns the attribute of a type, or nil if either is unknown.
func (c *Catalog) Attribute(typeID TypeID, attributeID string) *Attribute {
	t := c.types[typeID]
	if t == nil {
		return nil
	}
	return t.Attribute(attributeID)
}

// Schema returns the schema entry, or nil if unknown.
func (c *Catalog) Schema(id string) *Schema {
	return c.schemas[id]
}

// Parameter returns a schema's parameter, or nil if either is unknown.
func (c *Catalog) Parameter(schemaID, parameterID string) *SchemaParameter {
	s := c.schemas[schemaID]
	if s == nil {
		return nil
	}
	return s.Parameter(parameterID)
}

// SchemasOf returns the schemas attached to a type, in catalog order.
func (c *Catalog) SchemasOf(typeID TypeID) []Schema {
	var out []Schema
	for _, id := range c.schemaOrder {
		if s := c.schemas[id]; s.Type == typeID {
			out = append(out, *s)
		}
	}
	return out
}

// SortableAttributes returns the attributes of a type that can be sorted on.
func (c *Catalog) SortableAttributes(typeID TypeID) []Attribute {
	t := c.types[typeID]
	if t == nil {
		return nil
	}
	var out []Attribute
	for _, a := range t.Attributes {
		if a.Sortable {
			out = append(out, a)
		}
	}
	return out
}

// SearchableFields returns the document fields a quick-search term matches
// against for a type: every attribute except the reserved schema attribute,
// using the nested path where one is declared.
func (c *Catalog) SearchableFields(typeID TypeID) []string {
	t := c.types[typeID]
	if t == nil {
		return nil
	}
	var fields []string
	for _, a := range t.Attributes {
		if a.ID == AttributeSchema {
			continue
		}
		fields = append(fields, fieldPath(a))
	}
	return fields
}

func fieldPath(a Attribute) string {
	path := a.ID
	for _, p := range a.NestedTarget {
		path += "." + p
	}
	return path
}

// Doc is the serialized form served by the metadata endpoint.
type Doc struct {
	Types   []Type   `json:"types"`
	Schemas []Schema `json:"schemas"`
}

// Doc renders the catalog for the metadata endpoint. Types come out in
// canonical order, schemas in catalog order.
func (c *Catalog) Doc() Doc {
	var d Doc
	for _, id := range AllTypes() {
		d.Types = append(d.Types, *c.types[id])
	}
	for _, id := range c.schemaOrder {
		d.Schemas = append(d.Schemas, *c.schemas[id])
	}
	return d
}

// FromDoc rebuilds a catalog from its serialized form.
func FromDoc(d Doc) (*Catalog, error) {
	return New(d.Types, d.Schemas)
}
