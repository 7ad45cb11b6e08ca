package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"facetsearch/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.Type{
			{ID: catalog.TypeProject, FullName: "Project", IndexName: "facet-project"},
			{ID: catalog.TypeExperiment, FullName: "Experiment", IndexName: "facet-experiment"},
			{ID: catalog.TypeDataset, FullName: "Dataset", IndexName: "facet-dataset"},
			{ID: catalog.TypeDatafile, FullName: "Datafile", IndexName: "facet-datafile"},
		},
		nil,
	)
	require.NoError(t, err)
	return cat
}

func TestTokenAuth(t *testing.T) {
	auth := TokenAuth{Token: "sekrit"}

	r := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	assert.False(t, auth.Authenticate(r))

	r.Header.Set("Authorization", "Bearer wrong")
	assert.False(t, auth.Authenticate(r))

	r.Header.Set("Authorization", "Bearer sekrit")
	assert.True(t, auth.Authenticate(r))
}

func TestHandleCatalog(t *testing.T) {
	cat := testCatalog(t)
	srv := New(nil, cat, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc catalog.Doc
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, cat.Doc(), doc)
}

func TestHandlers_Unauthorized(t *testing.T) {
	srv := New(nil, testCatalog(t), TokenAuth{Token: "sekrit"})

	for _, tc := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/catalog", nil),
		httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{}")),
	} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, tc)
		require.Equal(t, http.StatusUnauthorized, w.Code, tc.URL.Path)

		var body errorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "session expired", body.Error)
	}
}

func TestHandleSearch_BadBody(t *testing.T) {
	srv := New(nil, testCatalog(t), nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "invalid query body")
}

func TestRouting(t *testing.T) {
	srv := New(nil, testCatalog(t), nil)

	// Wrong method on a known path.
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
