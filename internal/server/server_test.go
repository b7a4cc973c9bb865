package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tordrt/sdbgen/internal/config"
)

const structuresJSON = `{
	"user": [
		{"name": "name", "type": "string"},
		{"name": "friends", "type": "array"},
		{"name": "friends[*]", "type": {"table": "user", "type": "record"}}
	],
	"post": [
		{"name": "author", "type": {"table": "user", "type": "record"}}
	]
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	return New(config.ServerConfig{Addr: ":0", MaxBodyBytes: 1 << 10})
}

func do(s *Server, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestServer(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestFormats(t *testing.T) {
	w := do(newTestServer(), http.MethodGet, "/v1/formats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"formats":["typescript","text","markdown","xlsx"]}`, w.Body.String())
}

func TestGenerateTypeScript(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/v1/generate?namespace=test&database=app", structuresJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/typescript; charset=utf-8", w.Header().Get("Content-Type"))

	out := w.Body.String()
	assert.True(t, strings.HasPrefix(out, "export interface User {\n    name: SDBString;\n    friends: SDBRecordLink<User>;\n}\n"))
	assert.Contains(t, out, "export interface Post {\n    author: User;\n}\n")
	assert.Contains(t, out, "    test: {\n        app: {\n            User: User[];\n            Post: Post[];\n")
}

func TestGenerateFilters(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/v1/generate?namespace=test&database=app&format=text&exclude=user", structuresJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "TABLE User")
	assert.Contains(t, w.Body.String(), "TABLE Post (post)")
}

func TestGenerateXLSX(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/v1/generate?namespace=test&database=app&format=xlsx", structuresJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)

	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Models", "User", "Post"}, wb.GetSheetList())
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"missing namespace", "/v1/generate?database=app", structuresJSON, http.StatusBadRequest},
		{"missing database", "/v1/generate?namespace=test", structuresJSON, http.StatusBadRequest},
		{"unknown format", "/v1/generate?namespace=test&database=app&format=yaml", structuresJSON, http.StatusBadRequest},
		{"bad body", "/v1/generate?namespace=test&database=app", `["user"]`, http.StatusBadRequest},
		{"body too large", "/v1/generate?namespace=test&database=app", `{"user": [` + strings.Repeat(`{"name":"a","type":"string"},`, 100) + `]}`, http.StatusRequestEntityTooLarge},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, tt.target, tt.body, nil)
			assert.Equal(t, tt.want, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestModel(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/v1/model?namespace=test&database=app", structuresJSON, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Tables []struct {
			Name     string `json:"name"`
			TypeName string `json:"typeName"`
			Fields   []struct {
				Name string `json:"name"`
				Type struct {
					Kind string `json:"kind"`
					Name string `json:"name"`
				} `json:"type"`
			} `json:"fields"`
		} `json:"tables"`
		Aggregate struct {
			Namespace string `json:"namespace"`
			Database  string `json:"database"`
		} `json:"aggregate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	require.Len(t, got.Tables, 2)
	assert.Equal(t, "User", got.Tables[0].TypeName)
	assert.Equal(t, "record-link-array", got.Tables[0].Fields[1].Type.Kind)
	assert.Equal(t, "reference", got.Tables[1].Fields[0].Type.Kind)
	assert.Equal(t, "test", got.Aggregate.Namespace)
	assert.Equal(t, "app", got.Aggregate.Database)
}

func TestRequestID(t *testing.T) {
	s := newTestServer()

	first := do(s, http.MethodGet, "/healthz", "", nil).Header().Get(RequestIDHeader)
	second := do(s, http.MethodGet, "/healthz", "", nil).Header().Get(RequestIDHeader)

	a, err := ulid.ParseStrict(first)
	require.NoError(t, err)
	b, err := ulid.ParseStrict(second)
	require.NoError(t, err)
	assert.Equal(t, -1, a.Compare(b))

	kept := do(s, http.MethodGet, "/healthz", "", http.Header{RequestIDHeader: []string{"abc"}})
	assert.Equal(t, "abc", kept.Header().Get(RequestIDHeader))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}
