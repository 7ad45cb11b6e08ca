// Package server exposes the search service over HTTP: POST /search for
// queries and GET /catalog for the metadata graph.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"facetsearch/catalog"
	"facetsearch/es"
)

// Authenticator decides whether a request carries a valid session. Requests
// without one get 401, which the search client turns into a login redirect.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// AllowAll accepts every request. Useful for open deployments and tests.
type AllowAll struct{}

func (AllowAll) Authenticate(*http.Request) bool { return true }

// TokenAuth accepts requests carrying the expected bearer token.
type TokenAuth struct {
	Token string
}

func (a TokenAuth) Authenticate(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+a.Token
}

type Server struct {
	es   *es.Client
	cat  *catalog.Catalog
	auth Authenticator
	mux  *http.ServeMux
}

func New(esClient *es.Client, cat *catalog.Catalog, auth Authenticator) *Server {
	if auth == nil {
		auth = AllowAll{}
	}
	s := &Server{
		es:   esClient,
		cat:  cat,
		auth: auth,
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /search", s.handleSearch)
	s.mux.HandleFunc("GET /catalog", s.handleCatalog)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
