package home

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
	"golang.org/x/sync/errgroup"

	"github.com/opscenter-labs/opsconsole/internal/tables"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
	"github.com/opscenter-labs/opsconsole/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// DashboardPage renders the resource counts.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	stats := h.buildStats(r.Context())
	page := components.Page{Title: "Dashboard", CurrentPath: "/", Live: components.LiveURL("", "")}
	h.deps.RenderPage(w, r, http.StatusOK, page, components.StatCards(stats))
}

// LiveUpdates is the long-lived SSE endpoint behind every live page. It
// sends nothing initially. Without ?resource= each broadcast re-renders the
// dashboard cards. With ?resource=<table>&grid=<endpoint> only events
// affecting that table are passed on, as a GridRefresh that makes the
// browser re-request the grid with its current signals. Reload events
// reload the page.
func (h *Handlers) LiveUpdates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resource := q.Get("resource")
	endpoint, err := gridEndpoint(q.Get("grid"))
	if resource != "" && err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if err := h.push(ctx, sse, ev, resource, endpoint, &seq); err != nil {
				_ = sse.ConsoleError(err)
			}
			if ev.Reload {
				return
			}
		}
	}
}

func (h *Handlers) push(ctx context.Context, sse *datastar.ServerSentEventGenerator, ev notifier.Event, resource, endpoint string, seq *int) error {
	switch {
	case ev.Reload:
		h.deps.Log().Debug("reloading live page", "resource", resource)
		return sse.ExecuteScript("window.location.reload()")
	case resource == "":
		h.deps.Log().Debug("pushing dashboard update", "resource", ev.Resource)
		return sse.PatchElementTempl(components.StatCards(h.buildStats(ctx)))
	case ev.Affects(resource):
		*seq++
		h.deps.Log().Debug("refreshing live grid", "resource", resource, "event", ev.Resource)
		return sse.PatchElementTempl(components.GridRefresh(common.GridID, endpoint, *seq))
	}
	return nil
}

// gridEndpoint checks that raw is a local grid path and re-encodes its
// query, so it is safe to embed in a datastar expression.
func gridEndpoint(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") ||
		u.Host != "" || !strings.HasSuffix(u.Path, "/grid") || strings.ContainsAny(u.Path, `'"\<>`) {
		return "", fmt.Errorf("invalid grid endpoint %q", raw)
	}
	if u.RawQuery == "" {
		return u.Path, nil
	}
	return u.Path + "?" + u.Query().Encode(), nil
}

// buildStats counts every dashboard table concurrently. A failing table
// shows as unavailable instead of failing the page.
func (h *Handlers) buildStats(ctx context.Context) []components.Stat {
	stats := make([]components.Stat, len(dashboardCounters))

	var eg errgroup.Group
	for i, c := range dashboardCounters {
		stats[i] = c.stat
		eg.Go(func() error {
			tbl, err := tables.Lookup(c.table)
			if err == nil {
				var ds tables.Dataset
				ds, err = tbl.Load(ctx, h.deps.Client, tables.Query{})
				stats[i].Count = len(ds.Rows)
			}
			if err != nil {
				h.deps.Log().Warn("dashboard count failed", "table", c.table, "error", err)
				stats[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = eg.Wait()

	return stats
}

// noBuffering asks reverse proxies to pass the event stream through as it
// is written.
func noBuffering(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Accel-Buffering", "no")
		next.ServeHTTP(w, r)
	})
}
