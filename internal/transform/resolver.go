package transform

import (
	"github.com/skillian/logging"

	"github.com/tordrt/sdbgen/internal/model"
	"github.com/tordrt/sdbgen/internal/naming"
	"github.com/tordrt/sdbgen/internal/schema"
	"github.com/tordrt/sdbgen/internal/typemap"
)

var logger = logging.GetLogger("sdbgen")

// ResolveField resolves one descriptor against the descriptors of its table.
// It returns false for element descriptors, which only supply the element
// type of their array head and never become fields themselves.
//
// Irregular descriptors never fail: an unrecognized tag or a malformed type
// resolves to unknown, and an array head without an element descriptor
// resolves to an array of any.
func ResolveField(d schema.FieldDescriptor, siblings []schema.FieldDescriptor) (model.Field, bool) {
	if d.IsElement() {
		return model.Field{}, false
	}

	field := model.Field{Name: d.Name}

	switch {
	case d.Type.IsArray():
		field.Type = resolveArray(d, siblings)
	case d.Type.IsPrimitive():
		field.Type = model.Primitive(typemap.Primitive(d.Type.Primitive))
		if !typemap.Known(d.Type.Primitive) {
			logger.Debug("field %s: unrecognized type %q", d.Name, d.Type.Primitive)
		}
	case d.Type.IsLink():
		field.Type = resolveLink(d.Type.Link, model.Reference)
	default:
		logger.Debug("field %s: malformed type", d.Name)
		field.Type = model.Unknown()
	}

	return field, true
}

func resolveArray(head schema.FieldDescriptor, siblings []schema.FieldDescriptor) model.Type {
	elem, ok := findElement(head, siblings)
	if !ok {
		logger.Debug("field %s: no %s descriptor, using array of any", head.Name, head.ElementName())
		return model.ArrayOf(model.Any)
	}

	switch {
	case elem.Type.IsLink():
		return resolveLink(elem.Type.Link, model.RecordLinks)
	case elem.Type.IsPrimitive():
		return model.ArrayOf(typemap.Primitive(elem.Type.Primitive))
	default:
		logger.Debug("field %s: malformed element type", head.Name)
		return model.ArrayOf(typemap.Unknown)
	}
}

func resolveLink(link *schema.RecordLink, kind func(string) model.Type) model.Type {
	target := naming.Pascal(link.Table)
	if target == "" {
		return model.Unknown()
	}
	return kind(target)
}

func findElement(head schema.FieldDescriptor, siblings []schema.FieldDescriptor) (schema.FieldDescriptor, bool) {
	name := head.ElementName()
	for _, s := range siblings {
		if s.Name == name {
			return s, true
		}
	}
	return schema.FieldDescriptor{}, false
}
