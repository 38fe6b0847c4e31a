// Package common provides what every UI feature shares: dependencies, grid
// endpoints, flash messages and form helpers.
package common

import (
	"io"
	"log/slog"

	"github.com/gorilla/sessions"
	"golang.org/x/text/language"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/notifier"
)

// Deps are the collaborators handed to every feature's NewHandlers.
type Deps struct {
	Client   api.Client
	Sessions sessions.Store
	Notifier *notifier.Notifier
	Logger   *slog.Logger
	// Locale drives text collation in grids.
	Locale language.Tag
	// PageSize is the initial grid page size.
	PageSize int
}

// Log returns d.Logger, or a logger that discards output.
func (d *Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}
