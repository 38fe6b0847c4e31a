// Package settings provides the system configuration page.
package settings

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes registers settings routes on the router.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Route("/settings", func(r chi.Router) {
		r.Get("/", handlers.SettingsPage)
		r.Post("/network", handlers.NetworkSubmit)
		r.Post("/security", handlers.SecuritySubmit)
		r.Post("/updates", handlers.UpdatesSubmit)
		r.Post("/settings", handlers.LogLevelSubmit)
	})

	return nil
}
