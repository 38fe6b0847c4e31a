//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Handler serves static/ from disk, next to this file, so CSS edits show
// up on reload without a rebuild.
func Handler() http.Handler {
	dir := StaticDirectoryPath
	if _, filename, _, ok := runtime.Caller(0); ok {
		dir = filepath.Join(filepath.Dir(filename), "static")
	}
	slog.Info("static assets served from filesystem", "path", dir)
	return fileHandler(os.DirFS(dir), "no-cache")
}
