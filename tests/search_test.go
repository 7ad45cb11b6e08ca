package tests

import (
	"fmt"
	"net/http/httptest"

	"facetsearch/catalog"
	"facetsearch/engine"
	"facetsearch/es"
	"facetsearch/query"
	"facetsearch/server"
	"facetsearch/state"
)

func (t *TestSuite) testDocs() []es.BulkItem {
	return []es.BulkItem{
		{Index: "facet-project", ID: "p1", Doc: map[string]any{
			"id": "p1", "name": "Alpha Project",
		}},
		{Index: "facet-experiment", ID: "e1", Doc: map[string]any{
			"id": "e1", "title": "Calcium uptake in bone", "createdDate": "2021-05-10",
			"schemas": []string{"1"},
		}},
		{Index: "facet-experiment", ID: "e2", Doc: map[string]any{
			"id": "e2", "title": "Iron deficiency study", "createdDate": "2020-03-01",
			"schemas": []string{"1"},
		}},
		{Index: "facet-dataset", ID: "d1", Doc: map[string]any{
			"id": "d1", "description": "XRD scan", "createdDate": "2021-01-01",
			"schemas":    []string{"2"},
			"parameters": []map[string]any{{"pn_id": "4", "value": "xrd"}},
		}},
		{Index: "facet-dataset", ID: "d2", Doc: map[string]any{
			"id": "d2", "description": "Optical scan", "createdDate": "2022-01-01",
			"schemas":    []string{"2"},
			"parameters": []map[string]any{{"pn_id": "4", "value": "optical"}},
		}},
		{Index: "facet-dataset", ID: "d3", Doc: map[string]any{
			"id": "d3", "description": "Raw microscope capture", "createdDate": "2023-01-01",
		}},
		{Index: "facet-datafile", ID: "f1", Doc: map[string]any{
			"id": "f1", "filename": "image001.tif",
		}},
	}
}

func (t *TestSuite) Test_CatalogFromPostgres() {
	t.Run("types in position order", func() {
		doc := t.cat.Doc()
		t.Require().Len(doc.Types, 4)
		t.Require().Equal(catalog.TypeProject, doc.Types[0].ID)
		t.Require().Equal("facet-project", doc.Types[0].IndexName)
	})

	t.Run("attributes with nested target", func() {
		attr := t.cat.Attribute(catalog.TypeDataset, "instrument")
		t.Require().NotNil(attr)
		t.Require().Equal([]string{"name"}, attr.NestedTarget)
	})

	t.Run("schema parameters", func() {
		param := t.cat.Parameter("2", "4")
		t.Require().NotNil(param)
		t.Require().Equal("Analysis Kind", param.FullName)
	})

	t.Run("served by the catalog endpoint", func() {
		client, err := engine.NewHTTPClient(t.httpSrv.URL, nil)
		t.Require().NoError(err)

		fetched, err := client.FetchCatalog(t.T().Context())
		t.Require().NoError(err)
		t.Require().Equal(t.cat.Doc(), fetched.Doc())
	})
}

func (t *TestSuite) Test_SearchFlow() {
	t.createIndices()
	t.seedDocs(t.testDocs())

	e, nav := t.newEngine("")
	ctx := t.T().Context()

	t.Run("initial load", func() {
		t.Require().NoError(e.Init(ctx))
		t.Require().Equal(engine.StatusSucceeded, e.Status())
		t.Require().Equal(1, e.TotalHits(catalog.TypeProject))
		t.Require().Equal(2, e.TotalHits(catalog.TypeExperiment))
		t.Require().Equal(3, e.TotalHits(catalog.TypeDataset))
		t.Require().Equal(1, e.TotalHits(catalog.TypeDatafile))
		t.Require().Equal("/search", nav.replaced[0])
	})

	t.Run("quick search term", func() {
		e.SetSearchTerm(catalog.TypeExperiment, "calcium")
		t.Require().NoError(e.RunSearch(ctx))

		t.Require().Equal(1, e.TotalHits(catalog.TypeExperiment))
		t.Require().Equal([]string{"e1"}, e.Results().Hits[catalog.TypeExperiment].Order)
		// Types without a term are unconstrained.
		t.Require().Equal(3, e.TotalHits(catalog.TypeDataset))

		t.Require().Len(nav.pushed, 1)
		t.Require().Contains(nav.pushed[0], "?q=")
	})

	t.Run("schema parameter filter", func() {
		e.SetSchemaParameterFilter("2", "4", []query.Clause{{Op: query.OpIs, Content: []string{"xrd"}}})
		t.Require().NoError(e.RunSearch(ctx))

		t.Require().Equal(1, e.TotalHits(catalog.TypeDataset))
		t.Require().Equal([]string{"d1"}, e.Results().Hits[catalog.TypeDataset].Order)
		// The dataset-schema filter does not constrain experiments.
		t.Require().Equal(1, e.TotalHits(catalog.TypeExperiment))
	})

	t.Run("schema filter", func() {
		e.ResetFilters()
		e.SetTypeAttributeFilter(catalog.TypeDataset, catalog.AttributeSchema,
			[]query.Clause{{Op: query.OpIs, Content: []string{"2"}}})
		t.Require().NoError(e.RunSearch(ctx))

		t.Require().Equal(2, e.TotalHits(catalog.TypeDataset))
	})

	t.Run("date range filter", func() {
		e.ResetFilters()
		e.SetTypeAttributeFilter(catalog.TypeDataset, "createdDate",
			[]query.Clause{{Op: query.OpGTE, Content: "2021-06-01"}})
		t.Require().NoError(e.RunSearch(ctx))

		t.Require().Equal(2, e.TotalHits(catalog.TypeDataset))
	})

	t.Run("sort and pagination", func() {
		e.ResetFilters()
		t.Require().NoError(e.RunSearch(ctx))

		t.Require().NoError(e.SetSort(ctx, catalog.TypeDataset, "createdDate", query.OrderDesc, false))
		t.Require().Equal([]string{"d3", "d2", "d1"}, e.Results().Hits[catalog.TypeDataset].Order)

		t.Require().NoError(e.SetPageSize(ctx, catalog.TypeDataset, 2))
		t.Require().Equal([]string{"d3", "d2"}, e.Results().Hits[catalog.TypeDataset].Order)
		t.Require().Equal(2, e.TotalPages(catalog.TypeDataset))

		t.Require().NoError(e.SetPageNumber(ctx, catalog.TypeDataset, 2))
		t.Require().Equal([]string{"d1"}, e.Results().Hits[catalog.TypeDataset].Order)
		t.Require().Equal(3, e.FirstItemIndex(catalog.TypeDataset))
	})

	t.Run("select all", func() {
		t.Require().NoError(e.SelectAllTypeItems(ctx, catalog.TypeDataset))

		t.Require().Equal(state.SelectionAll, e.SelectionTag(catalog.TypeDataset))
		t.Require().Equal([]string{"d1", "d2", "d3"}, e.SelectedItems(catalog.TypeDataset))
		// The displayed page is untouched by the full fetch.
		t.Require().Equal([]string{"d1"}, e.Results().Hits[catalog.TypeDataset].Order)
	})
}

func (t *TestSuite) Test_SelectAllBeyondFirstPage() {
	t.createIndices()
	ctx := t.T().Context()

	// More matching documents than one result window.
	for i := 1; i <= 25; i++ {
		id := fmt.Sprintf("d%02d", i)
		err := t.search.UpsertJSON(ctx, "facet-dataset", id, map[string]any{
			"id":          id,
			"description": "capture run",
			"createdDate": fmt.Sprintf("2024-01-%02d", i),
		})
		t.Require().NoError(err)
	}
	t.Require().NoError(t.search.Refresh(ctx, "facet-dataset"))

	e, _ := t.newEngine("")
	t.Require().NoError(e.Init(ctx))
	t.Require().Equal(25, e.TotalHits(catalog.TypeDataset))
	// The displayed results stay one window deep.
	t.Require().Len(e.Results().Hits[catalog.TypeDataset].Order, 20)

	// Select-all covers the full matching set, not just the visible page.
	t.Require().NoError(e.SelectAllTypeItems(ctx, catalog.TypeDataset))
	t.Require().Equal(state.SelectionAll, e.SelectionTag(catalog.TypeDataset))
	t.Require().Equal(25, e.SelectedCount(catalog.TypeDataset))
	t.Require().True(e.IsSelected(catalog.TypeDataset, "d25"))
}

func (t *TestSuite) Test_LegacyBookmark() {
	t.createIndices()
	t.seedDocs(t.testDocs())

	e, nav := t.newEngine("?q=calcium")
	t.Require().NoError(e.Init(t.T().Context()))

	// The bare term applies to every type and the location is canonicalized.
	for _, typeID := range catalog.AllTypes() {
		t.Require().Equal("calcium", e.SearchTerm(typeID))
	}
	t.Require().Equal(1, e.TotalHits(catalog.TypeExperiment))
	t.Require().Equal(0, e.TotalHits(catalog.TypeDataset))

	t.Require().Len(nav.replaced, 1)
	t.Require().Contains(nav.replaced[0], "?q=")
	t.Require().Empty(nav.pushed)
}

func (t *TestSuite) Test_SessionExpired() {
	authSrv := httptest.NewServer(server.New(t.search, t.cat, server.TokenAuth{Token: "sekrit"}))
	defer authSrv.Close()

	client, err := engine.NewHTTPClient(authSrv.URL, nil)
	t.Require().NoError(err)
	nav := &navRecorder{path: "/search"}
	e := engine.New(t.cat, client, nav)

	// An expired session is not a search failure: the engine sends the
	// navigator to the login flow and reports no error.
	t.Require().NoError(e.RunSearch(t.T().Context()))
	t.Require().NoError(e.Err())
	t.Require().Equal(engine.StatusFailed, e.Status())
	t.Require().Equal([]string{"/search"}, nav.login)
}
