// Package model is the format-independent description of generated types.
package model

import "github.com/tordrt/sdbgen/internal/typemap"

// Any is the element name of an array whose element type is not known
const Any = "any"

// Kind classifies a resolved field type
type Kind int

const (
	// KindUnknown is a type that could not be resolved
	KindUnknown Kind = iota
	// KindPrimitive is a mapped primitive; Name is the target type name
	KindPrimitive
	// KindArray is an array; Name is the element type name or Any
	KindArray
	// KindRecordLinkArray is an array of record links; Name is the linked model
	KindRecordLinkArray
	// KindReference is a direct record link; Name is the linked model
	KindReference
)

var kindNames = [...]string{"unknown", "primitive", "array", "record-link-array", "reference"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Type is a resolved field type
type Type struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// Primitive returns a primitive type. An Unknown name yields an unknown type.
func Primitive(name string) Type {
	if name == typemap.Unknown {
		return Unknown()
	}
	return Type{Kind: KindPrimitive, Name: name}
}

// ArrayOf returns an array of the given element type name
func ArrayOf(elem string) Type {
	return Type{Kind: KindArray, Name: elem}
}

// RecordLinks returns an array of links to the given model
func RecordLinks(model string) Type {
	return Type{Kind: KindRecordLinkArray, Name: model}
}

// Reference returns a direct link to the given model
func Reference(model string) Type {
	return Type{Kind: KindReference, Name: model}
}

// Unknown returns the unresolved type
func Unknown() Type {
	return Type{Kind: KindUnknown, Name: typemap.Unknown}
}

// String spells the type in its format-independent form, e.g.
// "array of StringType" or "array-of-record-link to User".
func (t Type) String() string {
	switch t.Kind {
	case KindPrimitive, KindReference:
		return t.Name
	case KindArray:
		return "array of " + t.Name
	case KindRecordLinkArray:
		return "array-of-record-link to " + t.Name
	default:
		return typemap.Unknown
	}
}

// LinkTarget returns the linked model name for references and record link
// arrays
func (t Type) LinkTarget() (string, bool) {
	if t.Kind == KindReference || t.Kind == KindRecordLinkArray {
		return t.Name, true
	}
	return "", false
}

// Field is a resolved table field
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Table is one generated model type
type Table struct {
	// Name is the table name as found in the schema
	Name string `json:"name"`
	// TypeName is the canonical model type name
	TypeName string  `json:"typeName"`
	Fields   []Field `json:"fields"`
}

// AggregateName is the name of the aggregate declaration
const AggregateName = "Models"

// Model holds one declaration per table plus the aggregate declaration
type Model struct {
	Tables    []Table   `json:"tables"`
	Aggregate Aggregate `json:"aggregate"`
}

// Aggregate nests namespace → database → member → rows of the member's
// model type
type Aggregate struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	Database  string   `json:"database"`
	Members   []Member `json:"members"`
}

// Member is one entry of the aggregate: Key holds an array of TypeName rows
type Member struct {
	Key      string `json:"key"`
	TypeName string `json:"typeName"`
}

// TypeNames returns the model type names in declaration order
func (m *Model) TypeNames() []string {
	names := make([]string, len(m.Tables))
	for i, t := range m.Tables {
		names[i] = t.TypeName
	}
	return names
}

// Table finds a table by model type name
func (m *Model) Table(typeName string) (*Table, bool) {
	for i := range m.Tables {
		if m.Tables[i].TypeName == typeName {
			return &m.Tables[i], true
		}
	}
	return nil, false
}

// Link is a field of one model referencing another model
type Link struct {
	Source string
	Field  string
	Target string
	Many   bool
}

// References returns the outgoing links of a table in field order
func (t *Table) References() []Link {
	var refs []Link
	for _, f := range t.Fields {
		target, ok := f.Type.LinkTarget()
		if !ok {
			continue
		}
		refs = append(refs, Link{
			Source: t.TypeName,
			Field:  f.Name,
			Target: target,
			Many:   f.Type.Kind == KindRecordLinkArray,
		})
	}
	return refs
}

// IncomingReferences returns every link pointing at typeName
func (m *Model) IncomingReferences(typeName string) []Link {
	var incoming []Link
	for i := range m.Tables {
		for _, ref := range m.Tables[i].References() {
			if ref.Target == typeName {
				incoming = append(incoming, ref)
			}
		}
	}
	return incoming
}
