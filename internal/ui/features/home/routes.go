package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes mounts the dashboard and the shared live-update stream.
// Every page with Live set opens the stream on load.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.DashboardPage)
	router.With(noBuffering).Get("/updates", handlers.LiveUpdates)

	return nil
}
