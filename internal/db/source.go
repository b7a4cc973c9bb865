package db

import (
	"context"

	"github.com/skillian/logging"

	"github.com/tordrt/sdbgen/internal/schema"
)

var logger = logging.GetLogger("sdbgen")

// Source produces a structures snapshot
type Source interface {
	// Structures fetches descriptors for tables. If tables is empty, every
	// table the source knows is returned.
	Structures(ctx context.Context, tables []string) (*schema.Structures, error)
	Close() error
}

// column is an introspected SQL column
type column struct {
	Name string
	// Type is the SQL type, or the element type for arrays
	Type    string
	IsArray bool
	// RefTable is the referenced table for single-column foreign keys
	RefTable string
}

// descriptors converts columns into field descriptors. Foreign keys become
// record links, array columns become an array head plus its element
// descriptor.
func descriptors(columns []column) []schema.FieldDescriptor {
	fields := make([]schema.FieldDescriptor, 0, len(columns))
	for _, col := range columns {
		elem := schema.String(PrimitiveTag(col.Type))
		if col.RefTable != "" {
			elem = schema.Link(col.RefTable, "record")
		}

		if !col.IsArray {
			fields = append(fields, schema.FieldDescriptor{Name: col.Name, Type: elem})
			continue
		}

		head := schema.FieldDescriptor{Name: col.Name, Type: schema.String(schema.ArrayTag)}
		fields = append(fields, head, schema.FieldDescriptor{Name: head.ElementName(), Type: elem})
	}
	return fields
}

// collect runs extract for every table name in order
func collect(ctx context.Context, names []string, extract func(context.Context, string) ([]column, error)) (*schema.Structures, error) {
	s := schema.NewStructures()
	for _, name := range names {
		columns, err := extract(ctx, name)
		if err != nil {
			return nil, err
		}
		logger.Debug("table %s: %d columns", name, len(columns))
		s.Add(name, descriptors(columns))
	}
	return s, nil
}

// selectTables keeps the requested tables that exist, in requested order.
// All tables are returned when nothing is requested.
func selectTables(all, requested []string) []string {
	if len(requested) == 0 {
		return all
	}

	exists := make(map[string]bool, len(all))
	for _, name := range all {
		exists[name] = true
	}

	selected := make([]string, 0, len(requested))
	for _, name := range requested {
		if !exists[name] {
			logger.Debug("table %s does not exist", name)
			continue
		}
		selected = append(selected, name)
	}
	return selected
}
