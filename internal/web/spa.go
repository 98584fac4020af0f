// Package web serves the browser UI's static assets with single-page-app
// routing: unknown paths fall back to index.html so client-side routes
// survive a page reload.
package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves files from a build directory, falling back to
// index.html for paths the client-side router owns.
type SPAHandler struct {
	staticDir string
	fileSrv   http.Handler
}

// NewSPAHandler creates a handler serving the given directory.
func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{
		staticDir: staticDir,
		fileSrv:   http.FileServer(http.Dir(staticDir)),
	}
}

// ServeHTTP implements http.Handler.
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Joining with the static dir and cleaning keeps traversal attempts
	// inside the directory.
	path := filepath.Join(h.staticDir, filepath.Clean("/"+r.URL.Path))

	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir() && !isRoot(r.URL.Path)) {
		http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.fileSrv.ServeHTTP(w, r)
}

func isRoot(path string) bool {
	return path == "/" || strings.TrimSuffix(path, "/") == ""
}
