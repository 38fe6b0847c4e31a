// Package inventory provides the read-only inventory pages, one per kind.
package inventory

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes registers inventory routes on the router.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers, err := NewHandlers(deps)
	if err != nil {
		return err
	}

	router.Route("/inventory/{kind}", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/grid", handlers.GridSSE)
		r.Get("/{uuid}", handlers.DetailPage)
	})

	return nil
}
