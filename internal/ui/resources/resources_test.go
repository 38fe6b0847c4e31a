package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		path     string
		wantCode int
	}{
		{"/static/app.css", http.StatusOK},
		{"/static/missing.js", http.StatusNotFound},
		{"/static/", http.StatusNotFound},
	}

	h := Handler()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_ServesStylesheet(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, StaticPath("app.css"), nil))

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "--accent")
}
