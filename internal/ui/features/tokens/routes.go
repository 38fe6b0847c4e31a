// Package tokens provides the installation token and token seed pages.
package tokens

import (
	"github.com/go-chi/chi/v5"

	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// SetupRoutes registers token routes on the router.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers, err := NewHandlers(deps)
	if err != nil {
		return err
	}

	router.Route("/tokens", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/grid", handlers.GridSSE)
		r.Get("/new", handlers.CreatePage)
		r.Post("/new", handlers.CreateSubmit)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", handlers.SeedsPage)
			r.Get("/edit", handlers.EditPage)
			r.Post("/edit", handlers.EditSubmit)
			r.Get("/delete", handlers.DeletePage)
			r.Post("/delete", handlers.DeleteSubmit)

			r.Get("/seeds", handlers.SeedsPage)
			r.Get("/seeds/grid", handlers.SeedsGridSSE)
			r.Get("/seeds/new", handlers.SeedCreatePage)
			r.Post("/seeds/new", handlers.SeedCreateSubmit)
			r.Get("/seeds/{name}", handlers.SeedDetailPage)
			r.Get("/seeds/{name}/delete", handlers.SeedDeletePage)
			r.Post("/seeds/{name}/delete", handlers.SeedDeleteSubmit)
		})
	})

	return nil
}
