package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/factory"
	"github.com/lychee-technology/gviz/internal/render"
)

func TestIsRestrictedOutType(t *testing.T) {
	assert.False(t, isRestrictedOutType("csv"))
	assert.False(t, isRestrictedOutType("html"))
	assert.True(t, isRestrictedOutType("json"))
}

func TestStatusForReasonMapsAccessDenied(t *testing.T) {
	assert.Equal(t, 403, statusForReason(gviz.ReasonAccessDenied))
	assert.Equal(t, 400, statusForReason(gviz.ReasonInvalidQuery))
	assert.Equal(t, 501, statusForReason(gviz.ReasonNotSupported))
	assert.Equal(t, 500, statusForReason(gviz.ReasonOther))
}

func handlersTestTable(t *testing.T) *gviz.Table {
	tbl := gviz.NewTable("en-US")
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "name", Type: gviz.TypeText}))
	require.NoError(t, tbl.AddRowValues(gviz.Text("alice")))
	return tbl
}

func TestWriteTableDefaultsToJSON(t *testing.T) {
	tbl := handlersTestTable(t)
	w := httptest.NewRecorder()
	writeTable(w, render.Tqx{OutType: "json"}, tbl)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "\"status\"")
}

func TestWriteTableCSV(t *testing.T) {
	tbl := handlersTestTable(t)
	w := httptest.NewRecorder()
	writeTable(w, render.Tqx{OutType: "csv"}, tbl)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "alice")
}

func newTestServerWithCSV(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\n"), 0o644))

	cfg := gviz.DefaultConfig()
	cfg.Server.RequireSameOrigin = false
	srv := NewServer(cfg, zap.NewNop())
	srv.RegisterProvider("people", factory.NewCSVProvider(path))
	srv.RegisterRoutes()
	return srv, path
}

func TestHandleQueryRejectsSchemaMismatch(t *testing.T) {
	srv, _ := newTestServerWithCSV(t)
	srv.RegisterSchema("people", []byte(`{
		"type": "array",
		"items": {"type": "object", "required": ["id"], "properties": {"id": {"type": "string", "minLength": 100}}}
	}`))

	req := httptest.NewRequest("GET", "/gviz/people?tq=select+name", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_query")
}

func TestHandleQueryAllowsSchemaMatch(t *testing.T) {
	srv, _ := newTestServerWithCSV(t)
	srv.RegisterSchema("people", []byte(`{
		"type": "array",
		"items": {"type": "object", "required": ["id"], "properties": {"id": {"type": "string"}}}
	}`))

	req := httptest.NewRequest("GET", "/gviz/people?tq=select+name", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestWriteQueryErrorSetsStatus(t *testing.T) {
	w := httptest.NewRecorder()
	qe := gviz.NewInvalidRequestError("bad request")
	writeQueryError(w, 400, "r1", qe)
	assert.Equal(t, 400, w.Code)
	var buf bytes.Buffer
	buf.ReadFrom(w.Body)
	assert.Contains(t, buf.String(), "r1")
}
