package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONKeepsTableOrder(t *testing.T) {
	data := []byte(`{
		"user": [{"name": "email", "type": "string"}],
		"project": [
			{"name": "owner", "type": {"table": "user", "type": "record"}},
			{"name": "tags", "type": "array"},
			{"name": "tags[*]", "type": "string"}
		],
		"environment": []
	}`)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "project", "environment"}, s.Names)

	project, ok := s.Get("project")
	require.True(t, ok)
	require.Len(t, project, 3)

	assert.Equal(t, "owner", project[0].Name)
	require.True(t, project[0].Type.IsLink())
	assert.Equal(t, "user", project[0].Type.Link.Table)
	assert.Equal(t, "record", project[0].Type.Link.Type)

	assert.True(t, project[1].Type.IsArray())
	assert.True(t, project[2].IsElement())
	assert.Equal(t, "string", project[2].Type.Primitive)

	env, ok := s.Get("environment")
	require.True(t, ok)
	assert.Empty(t, env)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
flags:
  - name: in
    type: {table: feature, type: record}
  - name: enabled
    type: bool
role: null
`)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"flags", "role"}, s.Names)

	flags, _ := s.Get("flags")
	require.Len(t, flags, 2)
	assert.Equal(t, "feature", flags[0].Type.Link.Table)
	assert.Equal(t, "bool", flags[1].Type.Primitive)

	role, ok := s.Get("role")
	assert.True(t, ok)
	assert.Empty(t, role)
}

func TestParseIrregularDescriptors(t *testing.T) {
	data := []byte(`{"t": [
		{"name": "a", "type": null},
		{"name": "b", "type": [1, 2]},
		{"name": "c"},
		"not-an-object",
		{"name": "d", "type": "int"}
	]}`)

	s, err := Parse(data)
	require.NoError(t, err)

	fields, _ := s.Get("t")
	require.Len(t, fields, 4)
	for _, f := range fields[:3] {
		assert.False(t, f.Type.IsPrimitive(), f.Name)
		assert.False(t, f.Type.IsLink(), f.Name)
	}
	assert.Equal(t, "d", fields[3].Name)
	assert.Equal(t, "int", fields[3].Type.Primitive)
}

func TestParseJSONEscapes(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "escaped solidus", data: `{"user":[{"name":"a\/b","type":"string"}]}`, want: "a/b"},
		{name: "surrogate pair", data: `{"user":[{"name":"e\ud83d\ude00","type":"string"}]}`, want: "e\U0001F600"},
		{name: "latin escape", data: `{"user":[{"name":"caf\u00e9","type":"string"}]}`, want: "caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.data))
			require.NoError(t, err)

			fields, ok := s.Get("user")
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.want, fields[0].Name)
			assert.Equal(t, "string", fields[0].Type.Primitive)
		})
	}
}

func TestParseCompactStructureResponse(t *testing.T) {
	data := []byte(`{"zeta":[{"name":"owner","type":{"table":"user","type":"record"}},{"name":"labels","type":"array"},{"name":"labels[*]","type":"string"}],"alpha":null,"user":[{"name":"bio","type":"string"},{"name":"url","type":"string"},{"name":"joined","type":"datetime"}]}`)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "user"}, s.Names)

	zeta, _ := s.Get("zeta")
	require.Len(t, zeta, 3)
	require.True(t, zeta[0].Type.IsLink())
	assert.Equal(t, "user", zeta[0].Type.Link.Table)
	assert.True(t, zeta[1].Type.IsArray())
	assert.True(t, zeta[2].IsElement())

	alpha, ok := s.Get("alpha")
	assert.True(t, ok)
	assert.Empty(t, alpha)

	user, _ := s.Get("user")
	assert.Equal(t, "datetime", user[2].Type.Primitive)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "top level list", data: `[1, 2]`},
		{name: "top level scalar", data: `"users"`},
		{name: "table is object", data: `{"users": {"name": "id"}}`},
		{name: "invalid syntax", data: `{"users": [`},
		{name: "table is scalar", data: `{"users": "id"}`},
		{name: "trailing garbage", data: `{"users": []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestStructuresFilter(t *testing.T) {
	s := NewStructures()
	s.Add("users", nil)
	s.Add("posts", nil)
	s.Add("comments", nil)
	s.Add("likes", nil)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{name: "no filters", want: []string{"users", "posts", "comments", "likes"}},
		{name: "include keeps input order", include: []string{"likes", "users"}, want: []string{"users", "likes"}},
		{name: "exclude", exclude: []string{"posts", "likes"}, want: []string{"users", "comments"}},
		{name: "include then exclude", include: []string{"users", "posts"}, exclude: []string{"posts"}, want: []string{"users"}},
		{name: "exclude non-existent", exclude: []string{"products"}, want: []string{"users", "posts", "comments", "likes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filter(tt.include, tt.exclude)
			if len(tt.want) == 0 {
				assert.Empty(t, got.Names)
				return
			}
			assert.Equal(t, tt.want, got.Names)
		})
	}
}

func TestStructuresAddReplaces(t *testing.T) {
	s := NewStructures()
	s.Add("a", []FieldDescriptor{{Name: "x", Type: String("int")}})
	s.Add("b", nil)
	s.Add("a", []FieldDescriptor{{Name: "y", Type: String("string")}})

	assert.Equal(t, []string{"a", "b"}, s.Names)
	fields, _ := s.Get("a")
	require.Len(t, fields, 1)
	assert.Equal(t, "y", fields[0].Name)
}

func TestStructuresMarshalJSON(t *testing.T) {
	s := NewStructures()
	s.Add("zeta", []FieldDescriptor{
		{Name: "owner", Type: Link("user", "record")},
		{Name: "tags", Type: String("array")},
	})
	s.Add("alpha", nil)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":[{"name":"owner","type":{"table":"user","type":"record"}},{"name":"tags","type":"array"}],"alpha":[]}`, string(data))

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, back.Names)
}
