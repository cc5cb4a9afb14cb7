package catalog_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"entity-kit/core/loader"
	"entity-kit/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _ := newSeededService(t)

	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(catalog.NewFeature(svc, zap.NewNop()))
	require.NoError(t, mgr.LoadAll(app))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, string, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(b)
}

func TestHandleGetAuthor(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantType    string
		wantContain string
	}{
		{"JSON", "/catalog/authors/3", fiber.StatusOK, "application/json", `"name":"Neil Gaiman"`},
		{"YAML", "/catalog/authors/3?format=yaml", fiber.StatusOK, "application/yaml", "name: Neil Gaiman"},
		{"Fields", "/catalog/authors/3?fields=name,%20id", fiber.StatusOK, "application/json", `"id":3`},
		{"Not found", "/catalog/authors/42", fiber.StatusNotFound, "application/json", "not found"},
		{"Bad id", "/catalog/authors/abc", fiber.StatusBadRequest, "application/json", "invalid author id"},
		{"Bad format", "/catalog/authors/3?format=xml", fiber.StatusBadRequest, "application/json", "unsupported serialization format"},
		{"Bad field", "/catalog/authors/3?fields=nickname", fiber.StatusBadRequest, "application/json", "invalid field name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, contentType, body := doRequest(t, app, "GET", tt.target, "")
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, contentType, tt.wantType)
			assert.Contains(t, body, tt.wantContain)
		})
	}
}

func TestHandleListAuthors(t *testing.T) {
	app := newTestApp(t)

	status, _, body := doRequest(t, app, "GET", "/catalog/authors", "")
	require.Equal(t, fiber.StatusOK, status)

	var authors []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &authors))
	require.Len(t, authors, 3)
	assert.Equal(t, "Ursula K. Le Guin", authors[0]["name"])
	assert.Len(t, authors[1]["books"], 1)
}

func TestHandleCreateAuthor(t *testing.T) {
	app := newTestApp(t)

	status, _, body := doRequest(t, app, "POST", "/catalog/authors", `{"name":"Octavia E. Butler"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"id":4,"name":"Octavia E. Butler","books":[]}`, body)

	status, _, body = doRequest(t, app, "POST", "/catalog/authors", `{"name":"X","born":1947}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, `invalid field name`)
}

func TestHandleLinkBooks(t *testing.T) {
	app := newTestApp(t)

	status, _, body := doRequest(t, app, "PUT", "/catalog/authors/3/books", `{"books":[2,"3"]}`)
	require.Equal(t, fiber.StatusOK, status, body)

	var author map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &author))
	books := author["books"].([]any)
	require.Len(t, books, 2)
	assert.Equal(t, "A Brief History of Time", books[1].(map[string]any)["title"])

	status, _, _ = doRequest(t, app, "PUT", "/catalog/authors/3/books", `{"books":[99]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = doRequest(t, app, "PUT", "/catalog/authors/3/books", `{"books":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleShelveBooks(t *testing.T) {
	app := newTestApp(t)

	status, _, body := doRequest(t, app, "PUT", "/catalog/shelves/2/books", `{"books":[1]}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"label":"Science"`)
	assert.Contains(t, body, `"title":"The Dispossessed"`)

	status, _, _ = doRequest(t, app, "PUT", "/catalog/shelves/9/books", `{"books":[]}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleExportWithoutStorage(t *testing.T) {
	app := newTestApp(t)

	status, _, body := doRequest(t, app, "POST", "/catalog/exports", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, "storage is not configured")
}

func TestFeature(t *testing.T) {
	f := catalog.NewFeature(nil, zap.NewNop())
	assert.Equal(t, "catalog", f.Name())
	assert.False(t, f.IsEnabled())
}
