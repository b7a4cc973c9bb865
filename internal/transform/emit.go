package transform

import "github.com/tordrt/sdbgen/internal/model"

// Emit builds the model declarations: the tables as given, followed by the
// aggregate nesting every table under namespace and database. Declaration
// order is the order of tables.
func Emit(namespace, database string, tables []model.Table) *model.Model {
	m := &model.Model{
		Tables: make([]model.Table, len(tables)),
		Aggregate: model.Aggregate{
			Name:      model.AggregateName,
			Namespace: namespace,
			Database:  database,
			Members:   make([]model.Member, 0, len(tables)),
		},
	}
	copy(m.Tables, tables)

	for _, t := range tables {
		m.Aggregate.Members = append(m.Aggregate.Members, model.Member{
			Key:      t.TypeName,
			TypeName: t.TypeName,
		})
	}

	return m
}
