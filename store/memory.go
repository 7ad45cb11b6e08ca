package store

import (
	"context"

	"facetsearch/catalog"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore serves a catalog built from an in-memory definition, typically
// a loaded YAML file.
type MemoryStore struct {
	cfg catalog.Config
}

func NewMemoryStore(cfg catalog.Config) *MemoryStore {
	return &MemoryStore{cfg: cfg}
}

func (s *MemoryStore) Load(_ context.Context) (*catalog.Catalog, error) {
	return s.cfg.Build()
}
