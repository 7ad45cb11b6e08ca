// Package store loads the catalog graph the search service serves: from a
// YAML definition for simple deployments, or from the metadata tables in
// Postgres.
package store

import (
	"context"

	"facetsearch/catalog"
)

type Store interface {
	// Load builds the full catalog graph. Called once at startup; the result
	// is treated as read-only for the session.
	Load(ctx context.Context) (*catalog.Catalog, error)
}
