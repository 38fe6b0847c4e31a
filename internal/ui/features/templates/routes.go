// Package templates provides the cluster template pages.
package templates

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes registers cluster template routes on the router.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers, err := NewHandlers(deps)
	if err != nil {
		return err
	}

	router.Route("/templates", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/grid", handlers.GridSSE)
		r.Get("/new", handlers.CreatePage)
		r.Post("/new", handlers.CreateSubmit)
		r.Get("/{name}", handlers.DetailPage)
		r.Get("/{name}/edit", handlers.EditPage)
		r.Post("/{name}/edit", handlers.EditSubmit)
		r.Get("/{name}/rename", handlers.RenamePage)
		r.Post("/{name}/rename", handlers.RenameSubmit)
		r.Get("/{name}/delete", handlers.DeletePage)
		r.Post("/{name}/delete", handlers.DeleteSubmit)
	})

	return nil
}
