package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"facetsearch/query"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Authenticate(r) {
		writeError(w, http.StatusUnauthorized, "session expired")
		return
	}

	var body query.Body
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query body: "+err.Error())
		return
	}

	result, err := s.es.Search(r.Context(), s.cat, body)
	if err != nil {
		slog.Error("search failed", "type", body.Type, "error", err)
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
