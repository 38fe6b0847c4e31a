// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/opscenter-labs/opsconsole/internal/api/apitest"
	"github.com/opscenter-labs/opsconsole/internal/testutil"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
	"github.com/opscenter-labs/opsconsole/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Backend  *apitest.Backend
	Notifier *notifier.Notifier
	Sessions *sessions.CookieStore
	Deps     *common.Deps
}

// SetupTestFixture starts a fake backend seeded with apitest.SampleData.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()
	return SetupTestFixtureWith(t, apitest.SampleData())
}

// SetupTestFixtureWith starts a fake backend seeded with data.
func SetupTestFixtureWith(t *testing.T, data apitest.Data) *TestFixture {
	t.Helper()

	backend := apitest.NewBackend(t, data)
	notify := notifier.New()
	store := NewTestSessionStore()

	return &TestFixture{
		Backend:  backend,
		Notifier: notify,
		Sessions: store,
		Deps: &common.Deps{
			Client:   backend.Client(t),
			Sessions: store,
			Notifier: notify,
			Logger:   testutil.NewTestLogger(t),
			Locale:   language.English,
		},
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// RequestWithPathParam wraps a request with chi URL params given as key/value pairs.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// DatastarGet builds a GET request carrying signals the way datastar sends them.
func DatastarGet(t *testing.T, target string, signals any) *http.Request {
	t.Helper()
	b, err := json.Marshal(signals)
	require.NoError(t, err)

	u, err := url.Parse(target)
	require.NoError(t, err)
	q := u.Query()
	q.Set("datastar", string(b))
	u.RawQuery = q.Encode()

	req := httptest.NewRequest(http.MethodGet, u.String(), nil)
	req.Header.Set("Datastar-Request", "true")
	return req
}

// DatastarPost builds a POST request with signals as the JSON body.
func DatastarPost(t *testing.T, target string, signals any) *http.Request {
	t.Helper()
	b, err := json.Marshal(signals)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// Form wraps field values as {"form": values}.
func Form(values map[string]any) map[string]any {
	return map[string]any{"form": values}
}

// GridState wraps a grid state as the datastar signal payload.
func GridState(column, direction string, page, pageSize int) map[string]any {
	return map[string]any{"grid": map[string]any{
		"column":    column,
		"direction": direction,
		"page":      page,
		"pageSize":  pageSize,
	}}
}

// WithCookies copies the cookies set on rec onto req, so a follow-up
// request sees the session written by the previous one.
func WithCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// RunSSE runs a long-lived SSE handler until timeout and returns its body.
// trigger runs once the handler has had time to subscribe.
func RunSSE(h http.HandlerFunc, req *http.Request, timeout time.Duration, trigger func()) string {
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h(rec, req)
		close(done)
	}()

	if trigger != nil {
		time.Sleep(50 * time.Millisecond)
		trigger()
	}
	<-done
	return rec.Body.String()
}
