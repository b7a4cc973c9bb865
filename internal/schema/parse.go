package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/skillian/logging"
	"gopkg.in/yaml.v3"
)

var logger = logging.GetLogger("sdbgen")

// Parse decodes a structures snapshot. Both JSON and YAML documents are
// accepted; table order follows the key order of the document.
//
// The top level must be a mapping of table name to a list of descriptors.
// A null table is treated as a table without fields. List items that are
// not objects are skipped.
func Parse(data []byte) (*Structures, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSON(data)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode structures: %w", err)
	}

	s := NewStructures()
	if doc.Kind == 0 {
		return s, nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to decode structures: expected a mapping of table name to fields, got %s", kindName(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		fields, err := parseFields(key.Value, value)
		if err != nil {
			return nil, err
		}
		s.Add(key.Value, fields)
	}

	return s, nil
}

func parseFields(table string, n *yaml.Node) ([]FieldDescriptor, error) {
	switch {
	case n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null":
		return []FieldDescriptor{}, nil
	case n.Kind != yaml.SequenceNode:
		return nil, fmt.Errorf("failed to decode table %s: expected a list of fields, got %s", table, kindName(n.Kind))
	}

	fields := make([]FieldDescriptor, 0, len(n.Content))
	for i, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			logger.Debug("table %s: skipping field #%d, not an object", table, i)
			continue
		}
		var d FieldDescriptor
		if err := item.Decode(&d); err != nil {
			logger.Debug("table %s: skipping field #%d: %v", table, i, err)
			continue
		}
		fields = append(fields, d)
	}
	return fields, nil
}

// parseJSON decodes a JSON object token by token so that table order
// follows the key order of the document.
func parseJSON(data []byte) (*Structures, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode structures: %w", err)
	}

	s := NewStructures()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode structures: %w", err)
		}
		table, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode table %s: %w", table, err)
		}
		fields, err := parseJSONFields(table, raw)
		if err != nil {
			return nil, err
		}
		s.Add(table, fields)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode structures: %w", err)
	}
	return s, nil
}

func parseJSONFields(table string, raw json.RawMessage) ([]FieldDescriptor, error) {
	switch jsonKind(raw) {
	case "null":
		return []FieldDescriptor{}, nil
	case "list":
	default:
		return nil, fmt.Errorf("failed to decode table %s: expected a list of fields, got %s", table, jsonKind(raw))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode table %s: %w", table, err)
	}

	fields := make([]FieldDescriptor, 0, len(items))
	for i, item := range items {
		if jsonKind(item) != "mapping" {
			logger.Debug("table %s: skipping field #%d, not an object", table, i)
			continue
		}
		var d FieldDescriptor
		if err := json.Unmarshal(item, &d); err != nil {
			logger.Debug("table %s: skipping field #%d: %v", table, i, err)
			continue
		}
		fields = append(fields, d)
	}
	return fields, nil
}

// jsonKind names the shape of a JSON value in the terms used for YAML nodes
func jsonKind(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return "nothing"
	case raw[0] == '{':
		return "mapping"
	case raw[0] == '[':
		return "list"
	case bytes.Equal(raw, []byte("null")):
		return "null"
	default:
		return "scalar"
	}
}

// UnmarshalJSON decodes a descriptor type: a string becomes a primitive tag,
// an object becomes a record link. Anything else is left malformed.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	*t = FieldType{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var tag string
		if err := json.Unmarshal(data, &tag); err == nil {
			t.Primitive = tag
		}
	case '{':
		var link RecordLink
		if err := json.Unmarshal(data, &link); err == nil {
			t.Link = &link
		}
	}
	return nil
}

// UnmarshalYAML decodes a descriptor type: a scalar becomes a primitive tag,
// a mapping becomes a record link. Anything else is left malformed.
func (t *FieldType) UnmarshalYAML(n *yaml.Node) error {
	*t = FieldType{}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil
		}
		t.Primitive = n.Value
	case yaml.MappingNode:
		var link RecordLink
		if err := n.Decode(&link); err != nil {
			return nil
		}
		t.Link = &link
	}
	return nil
}

// MarshalYAML writes the type back in its input shape
func (t FieldType) MarshalYAML() (interface{}, error) {
	if t.Link != nil {
		return t.Link, nil
	}
	if t.Primitive == "" {
		return nil, nil
	}
	return t.Primitive, nil
}

// MarshalJSON writes the type back in its input shape
func (t FieldType) MarshalJSON() ([]byte, error) {
	v, _ := t.MarshalYAML()
	return json.Marshal(v)
}

// MarshalJSON writes the snapshot as a JSON object in table order
func (s *Structures) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range s.Names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		fields := s.Fields[name]
		if fields == nil {
			fields = []FieldDescriptor{}
		}
		value, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "nothing"
	}
}
