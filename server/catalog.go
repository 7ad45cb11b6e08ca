package server

import "net/http"

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Authenticate(r) {
		writeError(w, http.StatusUnauthorized, "session expired")
		return
	}
	writeJSON(w, http.StatusOK, s.cat.Doc())
}
