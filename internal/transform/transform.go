// Package transform turns a structures snapshot into a model.
//
// The transformation is a pure function of its input: descriptors are never
// modified and no I/O takes place.
package transform

import (
	"unicode"

	"github.com/tordrt/sdbgen/internal/model"
	"github.com/tordrt/sdbgen/internal/naming"
	"github.com/tordrt/sdbgen/internal/schema"
)

// Table resolves the descriptors of one table. Element descriptors are
// dropped; the remaining fields keep their input order.
func Table(name string, fields []schema.FieldDescriptor) model.Table {
	table := model.Table{
		Name:     name,
		TypeName: naming.Pascal(name),
		Fields:   make([]model.Field, 0, len(fields)),
	}

	for _, d := range fields {
		if f, ok := ResolveField(d, fields); ok {
			table.Fields = append(table.Fields, f)
		}
	}

	return table
}

// Structures resolves every table of s in snapshot order
func Structures(s *schema.Structures) []model.Table {
	tables := make([]model.Table, 0, s.Len())
	seen := make(map[string]string, s.Len())

	for _, name := range s.Names {
		t := Table(name, s.Fields[name])
		if other, ok := seen[t.TypeName]; ok {
			logger.Warn("tables %s and %s both map to model %s", other, name, t.TypeName)
		}
		if problem := NameProblem(t.TypeName); problem != "" {
			logger.Warn("table %q: model name %q %s", name, t.TypeName, problem)
		}
		seen[t.TypeName] = name
		tables = append(tables, t)
	}

	return tables
}

// Generate builds the model for namespace and database from s
func Generate(namespace, database string, s *schema.Structures) *model.Model {
	return Emit(namespace, database, Structures(s))
}

// NameProblem describes why typeName cannot be declared as is, or returns
// "" for usable names. The name itself is never changed.
func NameProblem(typeName string) string {
	switch {
	case typeName == "":
		return "is empty"
	case unicode.IsDigit(rune(typeName[0])):
		return "starts with a digit"
	case typeName == model.AggregateName:
		return "collides with the aggregate declaration"
	}
	return ""
}
