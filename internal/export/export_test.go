package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallorcart/catalog-sync/internal/catalog"
	"github.com/mallorcart/catalog-sync/internal/override"
	"github.com/mallorcart/catalog-sync/internal/reconcile"
	"github.com/mallorcart/catalog-sync/internal/source"
)

var coll = catalog.Center{ID: 1, Slug: "coll", Label: "Coll"}

func sampleCatalog() catalog.CenterCatalog {
	return catalog.CenterCatalog{
		Center: coll,
		Records: []catalog.Record{
			{ArticleID: "B002", Description: "Zumo", Price: 1.5, Stock: 3},
			{ArticleID: "A001", SupplierRef: "REF9", Description: "Widget",
				Barcode: "8412345000019", Price: 12.5, Stock: 8},
		},
	}
}

func TestExportWritesSortedCatalog(t *testing.T) {
	e := NewExporter(t.TempDir(), false, nil)

	changed, err := e.Export(sampleCatalog())
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(e.Path(coll))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NumeroArticulo;ReferenciaProveedor;Descripcion;CodigoEAN;NombreProveedor;Precio;Stock", lines[0])
	assert.Equal(t, "A001;REF9;Widget;8412345000019;;12.50;8", lines[1])
	assert.Equal(t, "B002;;Zumo;;;1.50;3", lines[2])
}

func TestExportIdempotent(t *testing.T) {
	e := NewExporter(t.TempDir(), false, nil)

	changed, err := e.Export(sampleCatalog())
	require.NoError(t, err)
	require.True(t, changed)

	first, err := os.ReadFile(e.Path(coll))
	require.NoError(t, err)

	// Same content again: no write reported, file untouched.
	changed, err = e.Export(sampleCatalog())
	require.NoError(t, err)
	assert.False(t, changed)

	second, err := os.ReadFile(e.Path(coll))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Any record change flips it back to a write.
	cat := sampleCatalog()
	cat.Records[0].Stock = 4
	changed, err = e.Export(cat)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestExportSortsByDescriptionThenArticleID(t *testing.T) {
	e := NewExporter(t.TempDir(), false, nil)
	cat := catalog.CenterCatalog{
		Center: coll,
		Records: []catalog.Record{
			{ArticleID: "Z9", Description: "Igual"},
			{ArticleID: "A1", Description: "Igual"},
			{ArticleID: "M5", Description: "Antes"},
		},
	}

	_, err := e.Export(cat)
	require.NoError(t, err)

	data, err := os.ReadFile(e.Path(coll))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "M5;"))
	assert.True(t, strings.HasPrefix(lines[2], "A1;"))
	assert.True(t, strings.HasPrefix(lines[3], "Z9;"))
}

func TestExportImageColumn(t *testing.T) {
	e := NewExporter(t.TempDir(), true, nil)
	assert.Equal(t, []string{
		"NumeroArticulo", "ReferenciaProveedor", "Descripcion", "CodigoEAN",
		"NombreProveedor", "ImagenURL", "Precio", "Stock",
	}, e.Columns())

	cat := sampleCatalog()
	cat.Records[1].ImageURL = "http://img/a001.jpg"
	_, err := e.Export(cat)
	require.NoError(t, err)

	data, err := os.ReadFile(e.Path(coll))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "A001;REF9;Widget;8412345000019;;http://img/a001.jpg;12.50;8", lines[1])
}

func TestReadPriorRoundTrip(t *testing.T) {
	e := NewExporter(t.TempDir(), true, nil)
	cat := sampleCatalog()
	cat.Records[1].ImageURL = "http://img/a001.jpg"
	_, err := e.Export(cat)
	require.NoError(t, err)

	prior := e.ReadPrior(coll)
	assert.Equal(t, catalog.Prior{
		Barcode:  "8412345000019",
		ImageURL: "http://img/a001.jpg",
	}, prior["A001"])
	assert.Equal(t, catalog.Prior{}, prior["B002"])
}

func TestReadPriorDegradesToEmpty(t *testing.T) {
	e := NewExporter(t.TempDir(), false, nil)

	// No prior file at all.
	assert.Empty(t, e.ReadPrior(coll))

	// A file without the expected header yields nothing, not an error.
	require.NoError(t, os.MkdirAll(filepath.Dir(e.Path(coll)), 0o755))
	require.NoError(t, os.WriteFile(e.Path(coll), []byte("garbage\nmore\n"), 0o644))
	assert.Empty(t, e.ReadPrior(coll))
}

// Full pass over one center: load-shaped inputs reconciled and exported,
// with an override supplying the barcode the feed lacks.
func TestExportReconciledCatalog(t *testing.T) {
	centers := []catalog.Center{coll}
	in := reconcile.Inputs{
		Articles: []source.ArticleRow{
			{ArticleID: "A001", SupplierRef: "REF9", Description: "Widget", PriceText: "12.50"},
		},
		Stock: []source.StockRow{
			{ArticleID: "A001", Warehouse: "1", Quantity: 5},
			{ArticleID: "A001", Warehouse: "1", Quantity: 3},
		},
		Overrides: &override.Set{
			EAN: map[string]override.Map{"coll": {"A001": "8412345000019"}},
		},
	}

	cats := reconcile.Build(centers, in, nil)
	require.Len(t, cats, 1)

	e := NewExporter(t.TempDir(), false, nil)
	changed, err := e.Export(cats[0])
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(e.Path(coll))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "A001;REF9;Widget;8412345000019;;12.50;8", lines[1])
}
