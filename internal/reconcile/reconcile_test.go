package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallorcart/catalog-sync/internal/catalog"
	"github.com/mallorcart/catalog-sync/internal/override"
	"github.com/mallorcart/catalog-sync/internal/source"
)

func testCenters() []catalog.Center {
	return []catalog.Center{
		{ID: 1, Slug: "coll", Label: "Coll"},
		{ID: 2, Slug: "calvia", Label: "Calvià"},
	}
}

func record(cats []catalog.CenterCatalog, slug, articleID string) (catalog.Record, bool) {
	for _, cat := range cats {
		if cat.Center.Slug != slug {
			continue
		}
		for _, r := range cat.Records {
			if r.ArticleID == articleID {
				return r, true
			}
		}
	}
	return catalog.Record{}, false
}

func TestBuildAggregatesStock(t *testing.T) {
	in := Inputs{
		Articles: []source.ArticleRow{
			{ArticleID: "A001", SupplierRef: "R1", Description: "Widget", PriceText: "12.50"},
		},
		Stock: []source.StockRow{
			{ArticleID: "A001", Warehouse: "1", Quantity: 5},
			{ArticleID: "A001", Warehouse: "1", Quantity: 3},
			{ArticleID: "A001", Warehouse: "2", Quantity: 4},
			{ArticleID: "A001", Warehouse: "9", Quantity: 100},
			{ArticleID: "A001", Warehouse: "central", Quantity: 100},
		},
	}

	cats := Build(testCenters(), in, nil)
	require.Len(t, cats, 2)

	// Repeated rows for one warehouse sum; unconfigured codes vanish.
	rec, ok := record(cats, "coll", "A001")
	require.True(t, ok)
	assert.Equal(t, 8, rec.Stock)

	rec, ok = record(cats, "calvia", "A001")
	require.True(t, ok)
	assert.Equal(t, 4, rec.Stock)
}

func TestBuildStockDefaultsToZero(t *testing.T) {
	in := Inputs{
		Articles: []source.ArticleRow{{ArticleID: "A001", Description: "Widget"}},
	}

	cats := Build(testCenters(), in, nil)
	rec, ok := record(cats, "coll", "A001")
	require.True(t, ok)
	assert.Equal(t, 0, rec.Stock)
}

func TestBuildSupplierResolution(t *testing.T) {
	in := Inputs{
		Articles: []source.ArticleRow{
			// Direct name wins even when the code would join elsewhere.
			{ArticleID: "A1", SupplierName: "Directo SA", SupplierCode: "P1"},
			// No name: join on code.
			{ArticleID: "A2", SupplierCode: "P1"},
			// Unknown code stays blank.
			{ArticleID: "A3", SupplierCode: "P9"},
			{ArticleID: "A4"},
		},
		Suppliers: []source.SupplierRow{
			{Code: "P1", Name: "Acme SL"},
			{Code: "P1", Name: "Acme (duplicado)"},
		},
	}

	cats := Build(testCenters(), in, nil)

	expect := map[string]string{
		"A1": "Directo SA",
		"A2": "Acme SL",
		"A3": "",
		"A4": "",
	}
	for id, want := range expect {
		rec, ok := record(cats, "coll", id)
		require.True(t, ok, "article %s", id)
		assert.Equal(t, want, rec.Supplier, "article %s", id)
	}
}

func TestBuildBarcodePrecedence(t *testing.T) {
	overrides := &override.Set{
		EAN: map[string]override.Map{
			"coll": {"A1": "OVERRIDE", "A2": ""},
		},
	}
	prior := map[string]map[string]catalog.Prior{
		"coll": {
			"A1": {Barcode: "PRIOR"},
			"A2": {Barcode: "PRIOR"},
			"A3": {Barcode: "PRIOR"},
		},
	}
	in := Inputs{
		Articles: []source.ArticleRow{
			{ArticleID: "A1", Barcode: "INGEST"},
			{ArticleID: "A2", Barcode: "INGEST"},
			{ArticleID: "A3", Barcode: "INGEST"},
			{ArticleID: "A4", Barcode: "INGEST"},
			{ArticleID: "A5"},
		},
		Overrides: overrides,
		Prior:     prior,
	}

	cats := Build(testCenters(), in, nil)

	// Precedence per (center, article): override > prior > ingest > "".
	expect := map[string]string{
		"A1": "OVERRIDE", // override set
		"A2": "PRIOR",    // empty override means no opinion
		"A3": "PRIOR",    // no override entry
		"A4": "INGEST",   // no prior either
		"A5": "",         // nothing anywhere
	}
	for id, want := range expect {
		rec, ok := record(cats, "coll", id)
		require.True(t, ok, "article %s", id)
		assert.Equal(t, want, rec.Barcode, "article %s", id)
	}

	// Curation is per center: calvia has no overrides or prior output.
	rec, ok := record(cats, "calvia", "A1")
	require.True(t, ok)
	assert.Equal(t, "INGEST", rec.Barcode)
}

func TestBuildImageChainSkipsIngest(t *testing.T) {
	overrides := &override.Set{
		Images: map[string]override.Map{
			"coll": {"A1": "http://img/a1.jpg"},
		},
	}
	prior := map[string]map[string]catalog.Prior{
		"coll": {"A2": {ImageURL: "http://img/prior.jpg"}},
	}
	in := Inputs{
		Articles: []source.ArticleRow{
			{ArticleID: "A1"}, {ArticleID: "A2"}, {ArticleID: "A3"},
		},
		Overrides: overrides,
		Prior:     prior,
	}

	cats := Build(testCenters(), in, nil)

	expect := map[string]string{
		"A1": "http://img/a1.jpg",
		"A2": "http://img/prior.jpg",
		"A3": "",
	}
	for id, want := range expect {
		rec, ok := record(cats, "coll", id)
		require.True(t, ok, "article %s", id)
		assert.Equal(t, want, rec.ImageURL, "article %s", id)
	}
}

func TestBuildDuplicateArticlesKeepFirst(t *testing.T) {
	in := Inputs{
		Articles: []source.ArticleRow{
			{ArticleID: "A1", Description: "primera"},
			{ArticleID: "A1", Description: "segunda"},
		},
	}

	cats := Build(testCenters(), in, nil)
	require.Len(t, cats[0].Records, 1)
	assert.Equal(t, "primera", cats[0].Records[0].Description)
}

func TestBuildNilOverridesAndPrior(t *testing.T) {
	in := Inputs{
		Articles: []source.ArticleRow{{ArticleID: "A1", Barcode: "INGEST"}},
	}

	cats := Build(testCenters(), in, nil)
	rec, ok := record(cats, "coll", "A1")
	require.True(t, ok)
	assert.Equal(t, "INGEST", rec.Barcode)
	assert.Equal(t, "", rec.ImageURL)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"12.50":   12.50,
		"12.506":  12.51,
		"0":       0,
		"":        0,
		"abc":     0,
		"-4.20":   0,
		"1234.56": 1234.56,
	}
	for in, want := range cases {
		assert.InDelta(t, want, parsePrice(in), 1e-9, "input %q", in)
	}
}
