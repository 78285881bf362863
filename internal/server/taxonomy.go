package server

import (
	"net/http"
	"strings"
)

// Routes under /taxonomy[/{family}[/{group}]]
func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/taxonomy"), "/")
	if path == "" {
		writeJSON(w, map[string]any{"families": s.taxonomy.Families()})
		return
	}

	parts := strings.SplitN(path, "/", 2)
	family := parts[0]
	if len(parts) == 1 {
		// Unknown families yield an empty list, not an error.
		writeJSON(w, map[string]any{"groups": s.taxonomy.Groups(family)})
		return
	}

	writeJSON(w, map[string]any{"descriptors": s.taxonomy.Descriptors(family, parts[1])})
}
