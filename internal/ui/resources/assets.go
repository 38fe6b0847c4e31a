// Package resources serves the console's static assets.
package resources

import (
	"io/fs"
	"net/http"
	"strings"
)

// StaticDirectoryPath is the path to static assets from the module root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}

// fileHandler serves fsys under /static/ with the given Cache-Control.
// Directory listings are refused.
func fileHandler(fsys fs.FS, cacheControl string) http.Handler {
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl)
		fileServer.ServeHTTP(w, r)
	})
}
