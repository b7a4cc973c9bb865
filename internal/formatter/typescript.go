package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/sdbgen/internal/model"
	"github.com/tordrt/sdbgen/internal/typemap"
)

const indent = "    "

// tsPrimitives spells target type names in TypeScript. The SDB* names are
// expected to be declared by the consuming project.
var tsPrimitives = map[string]string{
	typemap.Null:      "SDBNull",
	typemap.String:    "SDBString",
	typemap.UUID:      "SDBUuid",
	typemap.Number:    "SDBNumber",
	typemap.Boolean:   "SDBBoolean",
	typemap.RawString: "string",
	typemap.Date:      "Date",
	typemap.Object:    "SDBObject",
	typemap.Unknown:   "unknown",
	model.Any:         "any",
}

// TypeScriptFormatter writes interfaces and the aggregate Models type
type TypeScriptFormatter struct {
	writer io.Writer
}

// NewTypeScriptFormatter creates a new TypeScript formatter
func NewTypeScriptFormatter(w io.Writer) *TypeScriptFormatter {
	return &TypeScriptFormatter{writer: w}
}

// Format writes one interface per table followed by the aggregate
func (f *TypeScriptFormatter) Format(m *model.Model) error {
	for _, table := range m.Tables {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return f.FormatAggregate(m.Aggregate)
}

// FormatTable writes a single interface (exported for use by multifile formatter)
func (f *TypeScriptFormatter) FormatTable(table model.Table) error {
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %s {\n", table.TypeName)
	for _, field := range table.Fields {
		fmt.Fprintf(&b, "%s%s: %s;\n", indent, propertyName(field.Name), TypeScriptType(field.Type))
	}
	b.WriteString("}\n")

	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatAggregate writes the Models type nesting namespace, database and tables
func (f *TypeScriptFormatter) FormatAggregate(agg model.Aggregate) error {
	var b strings.Builder
	fmt.Fprintf(&b, "export type %s = SDBModel<{\n", agg.Name)
	fmt.Fprintf(&b, "%s%s: {\n", indent, propertyName(agg.Namespace))
	if len(agg.Members) == 0 {
		fmt.Fprintf(&b, "%s%s: {};\n", indent+indent, propertyName(agg.Database))
	} else {
		fmt.Fprintf(&b, "%s%s: {\n", indent+indent, propertyName(agg.Database))
		for _, member := range agg.Members {
			fmt.Fprintf(&b, "%s%s: %s[];\n", indent+indent+indent, propertyName(member.Key), member.TypeName)
		}
		fmt.Fprintf(&b, "%s};\n", indent+indent)
	}
	fmt.Fprintf(&b, "%s};\n", indent)
	b.WriteString("}>;\n")

	_, err := io.WriteString(f.writer, b.String())
	return err
}

// TypeScriptType spells a resolved type in TypeScript
func TypeScriptType(t model.Type) string {
	switch t.Kind {
	case model.KindPrimitive:
		return tsPrimitive(t.Name)
	case model.KindArray:
		return "Array<" + tsPrimitive(t.Name) + ">"
	case model.KindRecordLinkArray:
		return "SDBRecordLink<" + t.Name + ">"
	case model.KindReference:
		return t.Name
	default:
		return "unknown"
	}
}

func tsPrimitive(name string) string {
	if s, ok := tsPrimitives[name]; ok {
		return s
	}
	return "unknown"
}
