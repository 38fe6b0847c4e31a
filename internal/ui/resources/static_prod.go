//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Handler serves the assets embedded in the binary.
func Handler() http.Handler {
	fsys, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return fileHandler(fsys, "public, max-age=86400")
}
