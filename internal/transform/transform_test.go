package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/sdbgen/internal/model"
	"github.com/tordrt/sdbgen/internal/schema"
)

func fieldStrings(t model.Table) []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Name + ": " + f.Type.String()
	}
	return out
}

func TestResolveField(t *testing.T) {
	siblings := []schema.FieldDescriptor{
		{Name: "tags", Type: schema.String("array")},
		{Name: "tags[*]", Type: schema.String("string")},
		{Name: "members", Type: schema.String("array")},
		{Name: "members[*]", Type: schema.Link("user_account", "record")},
		{Name: "scores", Type: schema.String("array")},
		{Name: "scores[*]", Type: schema.String("decimal")},
		{Name: "loose", Type: schema.String("array")},
		{Name: "broken", Type: schema.String("array")},
		{Name: "broken[*]"},
	}

	tests := []struct {
		name string
		in   schema.FieldDescriptor
		want string
		skip bool
	}{
		{name: "primitive", in: schema.FieldDescriptor{Name: "email", Type: schema.String("string")}, want: "StringType"},
		{name: "time stays raw", in: schema.FieldDescriptor{Name: "at", Type: schema.String("time")}, want: "rawString"},
		{name: "unknown tag", in: schema.FieldDescriptor{Name: "geo", Type: schema.String("geometry")}, want: "unknown"},
		{name: "malformed type", in: schema.FieldDescriptor{Name: "meta"}, want: "unknown"},
		{name: "record link", in: schema.FieldDescriptor{Name: "owner", Type: schema.Link("user_account", "record")}, want: "UserAccount"},
		{name: "record link without table", in: schema.FieldDescriptor{Name: "owner", Type: schema.Link("", "record")}, want: "unknown"},
		{name: "array of primitive", in: siblings[0], want: "array of StringType"},
		{name: "array of record links", in: siblings[2], want: "array-of-record-link to UserAccount"},
		{name: "array of unknown primitive", in: siblings[4], want: "array of unknown"},
		{name: "array without element", in: siblings[6], want: "array of any"},
		{name: "array with malformed element", in: siblings[7], want: "array of unknown"},
		{name: "element descriptor", in: siblings[1], skip: true},
		{name: "nested element path", in: schema.FieldDescriptor{Name: "tags[*].name", Type: schema.String("string")}, skip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ResolveField(tt.in, siblings)
			if tt.skip {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.in.Name, f.Name)
			assert.Equal(t, tt.want, f.Type.String())
		})
	}
}

func TestArrayDecidedByHeadTag(t *testing.T) {
	// An element-shaped sibling does not turn a plain field into an array.
	fields := []schema.FieldDescriptor{
		{Name: "tags", Type: schema.String("string")},
		{Name: "tags[*]", Type: schema.String("int")},
	}

	table := Table("post", fields)
	assert.Equal(t, []string{"tags: StringType"}, fieldStrings(table))
}

func TestTableArrayPair(t *testing.T) {
	fields := []schema.FieldDescriptor{
		{Name: "tags", Type: schema.String("array")},
		{Name: "tags[*]", Type: schema.String("string")},
	}

	table := Table("post", fields)
	assert.Equal(t, "Post", table.TypeName)
	assert.Equal(t, "post", table.Name)
	assert.Equal(t, []string{"tags: array of StringType"}, fieldStrings(table))
}

func TestTableMissingElement(t *testing.T) {
	table := Table("post", []schema.FieldDescriptor{{Name: "tags", Type: schema.String("array")}})
	assert.Equal(t, []string{"tags: array of any"}, fieldStrings(table))
}

func TestTablePreservesOrder(t *testing.T) {
	fields := []schema.FieldDescriptor{
		{Name: "a", Type: schema.String("int")},
		{Name: "b[*]", Type: schema.String("string")},
		{Name: "c", Type: schema.String("bool")},
		{Name: "owner", Type: schema.Link("user_account", "record")},
		{Name: "list", Type: schema.String("array")},
		{Name: "d", Type: schema.String("datetime")},
		{Name: "list[*]", Type: schema.String("uuid")},
	}

	table := Table("thing", fields)
	assert.Equal(t, []string{
		"a: NumberType",
		"c: BooleanType",
		"owner: UserAccount",
		"list: array of UuidType",
		"d: DateType",
	}, fieldStrings(table))
}

func TestTableDoesNotMutateInput(t *testing.T) {
	fields := []schema.FieldDescriptor{
		{Name: "tags", Type: schema.String("array")},
		{Name: "tags[*]", Type: schema.String("string")},
		{Name: "owner", Type: schema.Link("user", "record")},
	}
	before := []schema.FieldDescriptor{
		{Name: "tags", Type: schema.String("array")},
		{Name: "tags[*]", Type: schema.String("string")},
		{Name: "owner", Type: schema.Link("user", "record")},
	}

	first := Table("post", fields)
	second := Table("post", fields)

	assert.Equal(t, before, fields)
	assert.Equal(t, first, second)
}

func TestTableEmpty(t *testing.T) {
	table := Table("role", nil)
	assert.Equal(t, "Role", table.TypeName)
	assert.NotNil(t, table.Fields)
	assert.Empty(t, table.Fields)
}

func TestGenerateAggregate(t *testing.T) {
	s := schema.NewStructures()
	s.Add("project", []schema.FieldDescriptor{
		{Name: "name", Type: schema.String("string")},
		{Name: "user", Type: schema.Link("user", "record")},
	})
	s.Add("user", []schema.FieldDescriptor{
		{Name: "email", Type: schema.String("string")},
	})

	m := Generate("test", "app", s)

	assert.Equal(t, []string{"Project", "User"}, m.TypeNames())
	assert.Equal(t, model.Aggregate{
		Name:      "Models",
		Namespace: "test",
		Database:  "app",
		Members: []model.Member{
			{Key: "Project", TypeName: "Project"},
			{Key: "User", TypeName: "User"},
		},
	}, m.Aggregate)
}

func TestGenerateKeepsInsertionOrder(t *testing.T) {
	s := schema.NewStructures()
	for _, name := range []string{"zeta", "alpha", "mid_table"} {
		s.Add(name, nil)
	}

	m := Generate("ns", "db", s)
	assert.Equal(t, []string{"Zeta", "Alpha", "MidTable"}, m.TypeNames())
}

func TestEmitCopiesTables(t *testing.T) {
	tables := []model.Table{{Name: "a", TypeName: "A"}}
	m := Emit("ns", "db", tables)
	tables[0].TypeName = "Changed"

	assert.Equal(t, "A", m.Tables[0].TypeName)
	assert.Equal(t, "A", m.Aggregate.Members[0].TypeName)
}

func TestNameProblem(t *testing.T) {
	tests := []struct {
		table   string
		problem bool
	}{
		{"user_profile", false},
		{"2fa_codes", true},
		{"---", true},
		{"models", true},
		{"model_set", false},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			typeName := Table(tt.table, nil).TypeName
			assert.Equal(t, tt.problem, NameProblem(typeName) != "", typeName)
		})
	}
}

func TestStructuresKeepsUnusableNames(t *testing.T) {
	s := schema.NewStructures()
	s.Add("---", nil)
	s.Add("2fa_codes", nil)
	s.Add("models", nil)

	tables := Structures(s)
	require.Len(t, tables, 3)
	assert.Equal(t, "", tables[0].TypeName)
	assert.Equal(t, "2faCodes", tables[1].TypeName)
	assert.Equal(t, model.AggregateName, tables[2].TypeName)
}
