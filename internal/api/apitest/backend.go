// Package apitest provides an in-memory Operations Center backend for tests.
//
// The backend speaks the same envelope as the real service, so tests can
// exercise api.Client end to end over httptest.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/opscenter-labs/opsconsole/internal/api"
)

// Data is the backend's state. Tests seed it before issuing requests.
type Data struct {
	Clusters  []api.Cluster
	Servers   []api.Server
	Tokens    []api.Token
	Seeds     map[uuid.UUID][]api.TokenSeed
	Updates   []api.Update
	Files     map[uuid.UUID][]api.UpdateFile
	Channels  []api.Channel
	Templates []api.ClusterTemplate
	Inventory map[api.InventoryKind][]api.InventoryItem

	Network  api.SystemNetwork
	Security api.SystemSecurity
	Source   api.SystemUpdates
	Settings api.SystemSettings
}

// Backend is a fake Operations Center.
type Backend struct {
	mu       sync.Mutex
	data     Data
	failures map[string]failure
	requests []string

	server *httptest.Server
}

type failure struct {
	status  int
	message string
}

// NewBackend starts a backend seeded with data and stops it at test cleanup.
func NewBackend(t testing.TB, data Data) *Backend {
	t.Helper()

	if data.Seeds == nil {
		data.Seeds = map[uuid.UUID][]api.TokenSeed{}
	}
	if data.Files == nil {
		data.Files = map[uuid.UUID][]api.UpdateFile{}
	}
	if data.Inventory == nil {
		data.Inventory = map[api.InventoryKind][]api.InventoryItem{}
	}

	b := &Backend{data: data, failures: map[string]failure{}}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend's API root.
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns an api.Client pointed at the backend.
func (b *Backend) Client(t testing.TB) api.Client {
	t.Helper()
	c, err := api.NewClient(api.Config{URL: b.server.URL, HTTPClient: b.server.Client()})
	require.NoError(t, err)
	return c
}

// Fail makes every request for "METHOD /path" answer with an error envelope.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Requests returns "METHOD /path?query" for every request served so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// Snapshot returns a copy of the current state.
func (b *Backend) Snapshot() Data {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.data
	d.Clusters = slices.Clone(d.Clusters)
	d.Servers = slices.Clone(d.Servers)
	d.Tokens = slices.Clone(d.Tokens)
	d.Updates = slices.Clone(d.Updates)
	d.Channels = slices.Clone(d.Channels)
	d.Templates = slices.Clone(d.Templates)
	return d
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/1.0/provisioning", func(r chi.Router) {
		r.Get("/clusters", b.listClusters)
		r.Post("/clusters", b.createCluster)
		r.Get("/clusters/{name}", b.getCluster)
		r.Post("/clusters/{name}", b.renameCluster)
		r.Delete("/clusters/{name}", b.deleteCluster)
		r.Post("/clusters/{name}/:resync-inventory", b.resyncCluster)

		r.Get("/servers", b.listServers)
		r.Get("/servers/{name}", b.getServer)
		r.Put("/servers/{name}", b.updateServer)
		r.Post("/servers/{name}", b.renameServer)
		r.Delete("/servers/{name}", b.deleteServer)

		r.Get("/tokens", b.listTokens)
		r.Post("/tokens", b.createToken)
		r.Get("/tokens/{uuid}", b.getToken)
		r.Put("/tokens/{uuid}", b.updateToken)
		r.Delete("/tokens/{uuid}", b.deleteToken)
		r.Get("/tokens/{uuid}/seeds", b.listSeeds)
		r.Post("/tokens/{uuid}/seeds", b.createSeed)
		r.Delete("/tokens/{uuid}/seeds/{name}", b.deleteSeed)

		r.Get("/updates", b.listUpdates)
		r.Post("/updates/:refresh", b.refreshUpdates)
		r.Get("/updates/{uuid}", b.getUpdate)
		r.Get("/updates/{uuid}/files", b.listFiles)

		r.Get("/channels", b.listChannels)
		r.Post("/channels", b.createChannel)
		r.Get("/channels/{name}", b.getChannel)
		r.Put("/channels/{name}", b.updateChannel)
		r.Delete("/channels/{name}", b.deleteChannel)

		r.Get("/cluster-templates", b.listTemplates)
		r.Post("/cluster-templates", b.createTemplate)
		r.Get("/cluster-templates/{name}", b.getTemplate)
		r.Put("/cluster-templates/{name}", b.updateTemplate)
		r.Post("/cluster-templates/{name}", b.renameTemplate)
		r.Delete("/cluster-templates/{name}", b.deleteTemplate)
	})

	r.Get("/1.0/inventory/{kind}", b.listInventory)
	r.Get("/1.0/inventory/{kind}/{uuid}", b.getInventory)

	r.Get("/1.0/system/{section}", b.getSystem)
	r.Put("/1.0/system/{section}", b.putSystem)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		entry := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}
		b.requests = append(b.requests, entry)
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeSync answers with a sync envelope around metadata.
func writeSync(w http.ResponseWriter, status int, metadata any) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Response{
		Type:       api.ResponseSync,
		Status:     http.StatusText(status),
		StatusCode: status,
		Metadata:   raw,
	})
}

func writeOK(w http.ResponseWriter) {
	writeSync(w, http.StatusOK, map[string]any{})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Response{
		Type:      api.ResponseError,
		ErrorCode: status,
		Error:     msg,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return false
	}
	return true
}

func parseUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return uuid.Nil, false
	}
	return id, true
}

// indexBy finds the position of the element whose key matches.
func indexBy[T any, K comparable](items []T, key func(T) K, want K) int {
	return slices.IndexFunc(items, func(item T) bool { return key(item) == want })
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func matches(filter, value string) bool {
	return filter == "" || strings.EqualFold(filter, value)
}
