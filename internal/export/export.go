// =============================================================================
// Catalog Sync - Center Exporter
// =============================================================================
//
// The exporter projects a reconciled center catalog into the fixed output
// schema and writes <output>/<slug>/Articulos.csv, semicolon-separated,
// UTF-8. Rows are sorted by description then article id so diffs between
// runs stay readable. The serialized bytes are compared against the
// existing file and the write is skipped when nothing changed, which makes
// the whole pipeline idempotent: identical inputs produce zero writes.
//
// The exporter also reads a center's previous output back at the start of a
// run (ReadPrior), because manually curated barcodes and image URLs must
// survive feeds that omit them. A missing or malformed prior file simply
// yields no carried-forward values; first runs start from nothing.
//
// =============================================================================

package export

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mallorcart/catalog-sync/internal/catalog"
	"github.com/mallorcart/catalog-sync/pkg/utils"
)

// OutputFileName is the per-center catalog file the storefront consumes.
const OutputFileName = "Articulos.csv"

// Column names of the output schema, in order. ImagenURL is only emitted
// when the exporter is configured to include images.
var (
	baseColumns = []string{
		"NumeroArticulo",
		"ReferenciaProveedor",
		"Descripcion",
		"CodigoEAN",
		"NombreProveedor",
		"Precio",
		"Stock",
	}
	imageColumnIndex = 5 // ImagenURL slots in before Precio
)

// Exporter writes per-center catalog files under OutputDir.
type Exporter struct {
	OutputDir     string
	IncludeImages bool

	log *slog.Logger
}

// NewExporter builds an Exporter. A nil logger falls back to slog.Default.
func NewExporter(outputDir string, includeImages bool, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{OutputDir: outputDir, IncludeImages: includeImages, log: log}
}

// Path returns the output file path for a center.
func (e *Exporter) Path(c catalog.Center) string {
	return filepath.Join(e.OutputDir, c.Slug, OutputFileName)
}

// Columns returns the header row for the configured schema.
func (e *Exporter) Columns() []string {
	if !e.IncludeImages {
		return append([]string(nil), baseColumns...)
	}
	cols := make([]string, 0, len(baseColumns)+1)
	cols = append(cols, baseColumns[:imageColumnIndex]...)
	cols = append(cols, "ImagenURL")
	cols = append(cols, baseColumns[imageColumnIndex:]...)
	return cols
}

// Export serializes one center catalog and writes it only when the content
// differs from the file already on disk. Returns whether a write occurred.
func (e *Exporter) Export(cat catalog.CenterCatalog) (bool, error) {
	records := append([]catalog.Record(nil), cat.Records...)
	sort.Slice(records, func(i, j int) bool {
		if records[i].Description != records[j].Description {
			return records[i].Description < records[j].Description
		}
		return records[i].ArticleID < records[j].ArticleID
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(e.Columns()); err != nil {
		return false, err
	}
	for _, rec := range records {
		if err := w.Write(e.row(rec)); err != nil {
			return false, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return false, err
	}

	path := e.Path(cat.Center)
	existing, found, err := utils.ReadFileIfExists(path)
	if err != nil {
		return false, err
	}
	if found && bytes.Equal(existing, buf.Bytes()) {
		e.log.Debug("catalog unchanged", "center", cat.Center.Slug, "articles", len(records))
		return false, nil
	}

	if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return false, err
	}
	e.log.Debug("catalog written", "center", cat.Center.Slug, "articles", len(records))
	return true, nil
}

func (e *Exporter) row(rec catalog.Record) []string {
	row := []string{
		rec.ArticleID,
		rec.SupplierRef,
		rec.Description,
		rec.Barcode,
		rec.Supplier,
	}
	if e.IncludeImages {
		row = append(row, rec.ImageURL)
	}
	return append(row,
		strconv.FormatFloat(rec.Price, 'f', 2, 64),
		strconv.Itoa(rec.Stock),
	)
}

// ReadPrior recovers the curated fields from a center's previous output.
// Every failure mode (no file, unreadable, malformed, unexpected schema)
// degrades to an empty map: carry-forward is an enrichment, not a
// requirement, and the first run of a fresh tree has nothing to carry.
func (e *Exporter) ReadPrior(c catalog.Center) map[string]catalog.Prior {
	prior := make(map[string]catalog.Prior)

	data, found, err := utils.ReadFileIfExists(e.Path(c))
	if err != nil || !found {
		return prior
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return prior
	}

	idCol, eanCol, imgCol := -1, -1, -1
	for i, h := range records[0] {
		switch h {
		case "NumeroArticulo":
			idCol = i
		case "CodigoEAN":
			eanCol = i
		case "ImagenURL":
			imgCol = i
		}
	}
	if idCol < 0 {
		return prior
	}

	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return row[col]
	}
	for _, row := range records[1:] {
		id := cell(row, idCol)
		if id == "" {
			continue
		}
		prior[id] = catalog.Prior{
			Barcode:  cell(row, eanCol),
			ImageURL: cell(row, imgCol),
		}
	}
	return prior
}
