// Package updates provides the update catalog pages. They live under
// /updates-catalog because /updates is the dashboard's event stream.
package updates

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes registers update catalog routes on the router.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers, err := NewHandlers(deps)
	if err != nil {
		return err
	}

	router.Route("/updates-catalog", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/grid", handlers.GridSSE)
		r.Get("/refresh", handlers.RefreshPage)
		r.Post("/refresh", handlers.RefreshSubmit)
		r.Get("/{uuid}", handlers.DetailPage)
		r.Get("/{uuid}/files/grid", handlers.FilesGridSSE)
	})

	return nil
}
