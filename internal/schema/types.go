package schema

import "strings"

// ArrayTag is the primitive tag that marks a field as an array head.
const ArrayTag = "array"

// ElementSuffix is appended to an array head's name to form the name of the
// descriptor carrying the element type.
const ElementSuffix = "[*]"

// Structures is a snapshot of table name → field descriptors.
// Table order is the order in which tables were added (for decoded input,
// the key order of the source document).
type Structures struct {
	Names  []string
	Fields map[string][]FieldDescriptor
}

// FieldDescriptor describes one field of a table
type FieldDescriptor struct {
	Name string    `yaml:"name" json:"name"`
	Type FieldType `yaml:"type" json:"type"`
}

// FieldType is either a primitive tag or a record link. A FieldType with
// neither set is malformed and resolves to unknown.
type FieldType struct {
	Primitive string
	Link      *RecordLink
}

// RecordLink references rows of another table
type RecordLink struct {
	Table string `yaml:"table" json:"table"`
	Type  string `yaml:"type" json:"type"`
}

// NewStructures creates an empty snapshot
func NewStructures() *Structures {
	return &Structures{Fields: make(map[string][]FieldDescriptor)}
}

// Add appends a table. Adding an existing table replaces its fields but
// keeps its original position.
func (s *Structures) Add(table string, fields []FieldDescriptor) {
	if s.Fields == nil {
		s.Fields = make(map[string][]FieldDescriptor)
	}
	if _, ok := s.Fields[table]; !ok {
		s.Names = append(s.Names, table)
	}
	s.Fields[table] = fields
}

// Get returns the descriptors of a table
func (s *Structures) Get(table string) ([]FieldDescriptor, bool) {
	fields, ok := s.Fields[table]
	return fields, ok
}

// Len returns the number of tables
func (s *Structures) Len() int {
	return len(s.Names)
}

// Filter returns a new snapshot restricted to include (all tables when
// empty) minus exclude. Order is preserved. Names in include that do not
// exist are ignored.
func (s *Structures) Filter(include, exclude []string) *Structures {
	includeSet := make(map[string]bool, len(include))
	for _, name := range include {
		includeSet[name] = true
	}
	excludeSet := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excludeSet[name] = true
	}

	out := NewStructures()
	for _, name := range s.Names {
		if len(includeSet) > 0 && !includeSet[name] {
			continue
		}
		if excludeSet[name] {
			continue
		}
		out.Add(name, s.Fields[name])
	}
	return out
}

// String returns a primitive FieldType
func String(tag string) FieldType {
	return FieldType{Primitive: tag}
}

// Link returns a record link FieldType
func Link(table, kind string) FieldType {
	return FieldType{Link: &RecordLink{Table: table, Type: kind}}
}

// IsPrimitive reports whether the type is a primitive tag (including "array")
func (t FieldType) IsPrimitive() bool {
	return t.Link == nil && t.Primitive != ""
}

// IsLink reports whether the type is a record link
func (t FieldType) IsLink() bool {
	return t.Link != nil
}

// IsArray reports whether the type is the array marker. Array-ness is only
// ever decided by this tag, never by the element descriptor.
func (t FieldType) IsArray() bool {
	return t.Link == nil && t.Primitive == ArrayTag
}

// IsElement reports whether the descriptor only supplies an array element
// type. Nested element paths such as "tags[*].name" count as well.
func (d FieldDescriptor) IsElement() bool {
	return strings.Contains(d.Name, ElementSuffix)
}

// ElementName returns the name of the element descriptor paired with d
func (d FieldDescriptor) ElementName() string {
	return d.Name + ElementSuffix
}
