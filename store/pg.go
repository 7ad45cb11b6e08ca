package store

import (
	"context"

	"facetsearch/catalog"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore loads the catalog graph from the metadata tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	types, err := s.loadTypes(ctx)
	if err != nil {
		return nil, err
	}
	schemas, err := s.loadSchemas(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(types, schemas)
}

func (s *PostgresStore) loadTypes(ctx context.Context) ([]catalog.Type, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, full_name, index_name FROM object_types ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []catalog.Type
	for rows.Next() {
		var t catalog.Type
		if err := rows.Scan(&t.ID, &t.FullName, &t.IndexName); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range types {
		attrs, err := s.loadAttributes(ctx, types[i].ID)
		if err != nil {
			return nil, err
		}
		types[i].Attributes = attrs
	}
	return types, nil
}

func (s *PostgresStore) loadAttributes(ctx context.Context, typeID catalog.TypeID) ([]catalog.Attribute, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, full_name, data_type, filterable, sortable, nested_target
		 FROM type_attributes WHERE type_id=$1 ORDER BY position`,
		typeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs []catalog.Attribute
	for rows.Next() {
		var a catalog.Attribute
		if err := rows.Scan(&a.ID, &a.FullName, &a.Kind, &a.Filterable, &a.Sortable, &a.NestedTarget); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

func (s *PostgresStore) loadSchemas(ctx context.Context) ([]catalog.Schema, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, schema_name, type_id FROM schemas ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemas []catalog.Schema
	for rows.Next() {
		var sc catalog.Schema
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Type); err != nil {
			return nil, err
		}
		schemas = append(schemas, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range schemas {
		params, err := s.loadParameters(ctx, schemas[i].ID)
		if err != nil {
			return nil, err
		}
		schemas[i].Parameters = params
	}
	return schemas, nil
}

func (s *PostgresStore) loadParameters(ctx context.Context, schemaID string) ([]catalog.SchemaParameter, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, full_name, data_type, sensitive
		 FROM schema_parameters WHERE schema_id=$1 ORDER BY position`,
		schemaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []catalog.SchemaParameter
	for rows.Next() {
		var p catalog.SchemaParameter
		if err := rows.Scan(&p.ID, &p.FullName, &p.Kind, &p.Sensitive); err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, rows.Err()
}
