package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"facetsearch/catalog"
	"facetsearch/query"
)

// Hit is one raw search hit as returned by the search endpoint.
type Hit struct {
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source map[string]any `json:"_source"`
}

// Response is the search endpoint's payload: hits and hit totals keyed by
// object type. Types absent from the maps were not part of the search.
type Response struct {
	Hits      map[catalog.TypeID][]Hit `json:"hits"`
	TotalHits map[catalog.TypeID]int   `json:"total_hits"`
}

// SearchClient submits query bodies to the search endpoint. The transport
// details (cookies, CSRF, auth headers) live behind this interface.
type SearchClient interface {
	Search(ctx context.Context, body query.Body) (*Response, error)
}

// StatusError is a non-2xx answer from the search endpoint.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search endpoint: %s", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the endpoint, which means
// the session has expired rather than the search having failed.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// HTTPClient is the default SearchClient over net/http.
type HTTPClient struct {
	base *url.URL
	hc   *http.Client
}

// NewHTTPClient builds a client for a search service base URL.
func NewHTTPClient(baseURL string, hc *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{base: u, hc: hc}, nil
}

func (c *HTTPClient) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}

func (c *HTTPClient) Search(ctx context.Context, body query.Body) (*Response, error) {
	b, err := body.MarshalCanonical()
	if err != nil {
		return nil, fmt.Errorf("marshal query body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/search"), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Code: res.StatusCode, Status: res.Status}
	}

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}

// FetchCatalog loads the metadata graph from the service.
func (c *HTTPClient) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/catalog"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Code: res.StatusCode, Status: res.Status}
	}

	var doc catalog.Doc
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return catalog.FromDoc(doc)
}
