package state

import (
	"testing"

	"facetsearch/catalog"

	"github.com/stretchr/testify/require"
)

// testCatalog mirrors the shape of a small deployment: three schemas, two of
// them attached to datasets.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.Type{
			{
				ID: catalog.TypeProject, FullName: "Project", IndexName: "facet-project",
				Attributes: []catalog.Attribute{
					{ID: catalog.AttributeSchema, FullName: "Schema", Kind: catalog.KindString, Filterable: true},
					{ID: "name", FullName: "Name", Kind: catalog.KindString, Filterable: true, Sortable: true},
				},
			},
			{
				ID: catalog.TypeExperiment, FullName: "Experiment", IndexName: "facet-experiment",
				Attributes: []catalog.Attribute{
					{ID: catalog.AttributeSchema, FullName: "Schema", Kind: catalog.KindString, Filterable: true},
					{ID: "createdDate", FullName: "Created Date", Kind: catalog.KindDatetime, Filterable: true, Sortable: true},
				},
			},
			{
				ID: catalog.TypeDataset, FullName: "Dataset", IndexName: "facet-dataset",
				Attributes: []catalog.Attribute{
					{ID: catalog.AttributeSchema, FullName: "Schema", Kind: catalog.KindString, Filterable: true},
					{ID: "createdDate", FullName: "Created Date", Kind: catalog.KindDatetime, Filterable: true, Sortable: true},
					{ID: "instrument", FullName: "Instrument", Kind: catalog.KindString, Filterable: true, Sortable: true, NestedTarget: []string{"name"}},
				},
			},
			{ID: catalog.TypeDatafile, FullName: "Datafile", IndexName: "facet-datafile"},
		},
		[]catalog.Schema{
			{ID: "1", Name: "Default Experiment", Type: catalog.TypeExperiment, Parameters: []catalog.SchemaParameter{
				{ID: "1", FullName: "Project Purpose", Kind: catalog.KindString},
				{ID: "2", FullName: "Funding Code", Kind: catalog.KindString},
			}},
			{ID: "2", Name: "Default Dataset", Type: catalog.TypeDataset, Parameters: []catalog.SchemaParameter{
				{ID: "4", FullName: "Analysis Kind", Kind: catalog.KindString},
			}},
			{ID: "14", Name: "Extended Dataset", Type: catalog.TypeDataset, Parameters: []catalog.SchemaParameter{
				{ID: "20", FullName: "Sample Count", Kind: catalog.KindNumeric},
			}},
		},
	)
	require.NoError(t, err)
	return cat
}
