package api

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// handleIndex serves the front-end entry document
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if !s.hasFile("index.html") {
		respondError(w, http.StatusNotFound, msgRouteNotFound)
		return
	}
	http.ServeFileFS(w, r, s.opts.Static, "index.html")
}

// handleNotFound serves a static asset for unmatched GET/HEAD requests when
// one exists, and the JSON route-not-found error otherwise.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name != "" && s.hasFile(name) {
			s.static.ServeHTTP(w, r)
			return
		}
	}
	respondError(w, http.StatusNotFound, msgRouteNotFound)
}

func (s *Server) hasFile(name string) bool {
	if s.opts.Static == nil {
		return false
	}
	info, err := fs.Stat(s.opts.Static, name)
	return err == nil && !info.IsDir()
}
