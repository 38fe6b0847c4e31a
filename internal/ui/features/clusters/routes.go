// Package clusters provides the cluster pages of the UI.
package clusters

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes registers cluster routes on the router.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers, err := NewHandlers(deps)
	if err != nil {
		return err
	}

	router.Route("/clusters", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/grid", handlers.GridSSE)
		r.Get("/new", handlers.CreatePage)
		r.Post("/new", handlers.CreateSubmit)
		r.Get("/{name}", handlers.DetailPage)
		r.Get("/{name}/rename", handlers.RenamePage)
		r.Post("/{name}/rename", handlers.RenameSubmit)
		r.Get("/{name}/delete", handlers.DeletePage)
		r.Post("/{name}/delete", handlers.DeleteSubmit)
		r.Get("/{name}/resync", handlers.ResyncPage)
		r.Post("/{name}/resync", handlers.ResyncSubmit)
	})

	return nil
}
