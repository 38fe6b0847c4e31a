package inventory

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscenter-labs/opsconsole/internal/ui/features"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	h, err := NewHandlers(fixture.Deps)
	require.NoError(t, err)
	return h, fixture
}

func instanceID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("instance/"+name))
}

func TestListPage(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		contains []string
		absent   []string
	}{
		{
			name:     "all instances",
			target:   "/inventory/instances",
			contains: []string{"<title>Instances - Operations Center</title>", ">web</a>", ">cache</a>", "page 1 of 1 (3 rows)"},
		},
		{
			name:     "cluster filter",
			target:   "/inventory/instances?cluster=edge",
			contains: []string{">cache</a>", `value="edge"`, "/inventory/instances/grid?cluster=edge"},
			absent:   []string{">web</a>"},
		},
		{
			name:     "combined filters",
			target:   "/inventory/instances?cluster=prod&server=server-02",
			contains: []string{">db</a>", "page 1 of 1 (1 rows)"},
		},
		{
			name:     "empty kind",
			target:   "/inventory/network_zones",
			contains: []string{"Network zones", "No entries."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			kind := req.URL.Path[len("/inventory/"):]
			rec := httptest.NewRecorder()
			h.ListPage(rec, features.RequestWithPathParam(req, "kind", kind))

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, body, unwanted)
			}
		})
	}
}

func TestListPage_UnknownKind(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/inventory/widgets", nil), "kind", "widgets")
	rec := httptest.NewRecorder()
	h.ListPage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `unknown inventory kind &#34;widgets&#34;`)
	assert.Empty(t, fixture.Backend.Requests())
}

func TestListPage_UsesDashedBackendPath(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/inventory/storage_volumes?project=default", nil), "kind", "storage_volumes")
	h.ListPage(httptest.NewRecorder(), req)

	assert.Contains(t, fixture.Backend.Requests(), "GET /1.0/inventory/storage-volumes?project=default&recursion=1")
}

func TestGridSSE_KeepsFilters(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := features.DatastarGet(t, "/inventory/instances/grid?cluster=prod&sort=Name", features.GridState("", "", 1, 20))
	rec := httptest.NewRecorder()
	h.GridSSE(rec, features.RequestWithPathParam(req, "kind", "instances"))

	body := rec.Body.String()
	assert.Contains(t, body, "page 1 of 1 (2 rows)")
	assert.NotContains(t, body, ">cache</a>")
}

func TestDetailPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/inventory/instances/x", nil)
	req = features.RequestWithPathParam(req, "kind", "instances", "uuid", instanceID("web").String())
	rec := httptest.NewRecorder()
	h.DetailPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Instances web")
	assert.Contains(t, body, "status: Running")
	assert.Contains(t, body, `href="/clusters/prod"`)
	assert.Contains(t, body, `href="/servers/server-01"`)
}

func TestDetailPage_NotFound(t *testing.T) {
	tests := []struct {
		name string
		kind string
		id   string
	}{
		{"unknown uuid", "instances", uuid.NewString()},
		{"malformed uuid", "instances", "abc"},
		{"unknown kind", "gadgets", instanceID("web").String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/inventory/x/y", nil), "kind", tt.kind, "uuid", tt.id)
			rec := httptest.NewRecorder()
			h.DetailPage(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestObjectYAML(t *testing.T) {
	assert.Equal(t, "", objectYAML(nil))
	assert.Equal(t, "a: 1\n", objectYAML([]byte(`{"a":1}`)))
	assert.Equal(t, "{oops", objectYAML([]byte(`{oops`)))
}
