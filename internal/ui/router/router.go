// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/channels"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/clusters"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/home"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/inventory"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/servers"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/settings"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/templates"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/tokens"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/updates"
	"github.com/opscenter-labs/opsconsole/internal/ui/resources"
)

// features lists every feature's route setup in mount order.
var features = []func(chi.Router, *common.Deps) error{
	home.SetupRoutes,
	clusters.SetupRoutes,
	servers.SetupRoutes,
	tokens.SetupRoutes,
	updates.SetupRoutes,
	channels.SetupRoutes,
	templates.SetupRoutes,
	inventory.SetupRoutes,
	settings.SetupRoutes,
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps *common.Deps, isDev bool) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	for _, setup := range features {
		if err := setup(router, deps); err != nil {
			return err
		}
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
