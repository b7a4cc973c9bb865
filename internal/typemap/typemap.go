// Package typemap maps schema primitive tags to the type names used by the
// generated model.
package typemap

// Target type names. Renderers translate these into their own spelling; a
// consuming environment is expected to predefine them.
const (
	Null      = "NullType"
	String    = "StringType"
	UUID      = "UuidType"
	Number    = "NumberType"
	Boolean   = "BooleanType"
	RawString = "rawString"
	Date      = "DateType"
	Object    = "ObjectType"
	Unknown   = "unknown"
)

var primitives = map[string]string{
	"null":     Null,
	"string":   String,
	"uuid":     UUID,
	"int":      Number,
	"number":   Number,
	"boolean":  Boolean,
	"bool":     Boolean,
	"time":     RawString,
	"datetime": Date,
	"object":   Object,
}

// Primitive returns the type name for a schema tag, or Unknown when the tag
// is not recognized.
func Primitive(tag string) string {
	if name, ok := primitives[tag]; ok {
		return name
	}
	return Unknown
}

// Known reports whether tag has a mapping
func Known(tag string) bool {
	_, ok := primitives[tag]
	return ok
}

// Names returns every target type name a model can reference, in a stable
// order. Unknown is included last.
func Names() []string {
	return []string{Null, String, UUID, Number, Boolean, RawString, Date, Object, Unknown}
}
