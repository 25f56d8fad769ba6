// =============================================================================
// Catalog Sync - Reconciler
// =============================================================================
//
// The reconciler merges the three logical tables into one master article set
// and projects it per center:
//
//   1. Stock rows whose warehouse code is not a configured center are
//      dropped; the rest are summed per (article, center) and pivoted, with
//      0 for pairs that reported nothing. A single article may appear many
//      times per warehouse in the feed: quantities always sum, never
//      overwrite.
//   2. Supplier names resolve from the article row itself when present;
//      otherwise the supplier table is joined on the supplier code. An
//      unresolved name stays blank and never fails the run.
//   3. Barcodes follow the precedence chain per (center, article):
//      override > prior output > current ingest > "". Image URLs follow the
//      same chain minus ingest, since the feed never carries images.
//   4. Prices parse from the normalized decimal string; unparsable or
//      missing means 0.00, and everything rounds to two decimals.
//
// The master table is keyed by article id. Duplicate ingest rows keep the
// first occurrence, preserving feed order.
//
// =============================================================================

package reconcile

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/mallorcart/catalog-sync/internal/catalog"
	"github.com/mallorcart/catalog-sync/internal/override"
	"github.com/mallorcart/catalog-sync/internal/source"
)

// Inputs carries everything one reconciliation pass consumes. Prior maps
// center slug → article id → previously exported curated fields.
type Inputs struct {
	Articles  []source.ArticleRow
	Stock     []source.StockRow
	Suppliers []source.SupplierRow
	Overrides *override.Set
	Prior     map[string]map[string]catalog.Prior
}

// Build reconciles the inputs into one catalog per configured center, in
// center order. It never fails: every data-quality problem at this stage is
// repaired with a conservative default.
func Build(centers []catalog.Center, in Inputs, log *slog.Logger) []catalog.CenterCatalog {
	if log == nil {
		log = slog.Default()
	}

	stock := aggregateStock(centers, in.Stock)
	suppliers := supplierIndex(in.Suppliers)

	out := make([]catalog.CenterCatalog, len(centers))
	for i, c := range centers {
		out[i] = catalog.CenterCatalog{Center: c}
	}

	seen := make(map[string]bool, len(in.Articles))
	duplicates := 0
	for _, row := range in.Articles {
		if seen[row.ArticleID] {
			duplicates++
			continue
		}
		seen[row.ArticleID] = true

		base := catalog.Record{
			ArticleID:   row.ArticleID,
			SupplierRef: row.SupplierRef,
			Description: row.Description,
			Supplier:    supplierName(row, suppliers),
			Price:       parsePrice(row.PriceText),
		}

		for i, c := range centers {
			rec := base
			rec.Stock = stock[row.ArticleID][c.ID]

			ean, images := in.Overrides.ForCenter(c.Slug)
			prior := in.Prior[c.Slug][row.ArticleID]
			rec.Barcode = resolveCurated(ean, row.ArticleID, prior.Barcode, row.Barcode)
			rec.ImageURL = resolveCurated(images, row.ArticleID, prior.ImageURL, "")

			out[i].Records = append(out[i].Records, rec)
		}
	}
	if duplicates > 0 {
		log.Warn("duplicate article rows ignored, first occurrence kept", "rows", duplicates)
	}

	return out
}

// aggregateStock filters to configured warehouse codes, sums per
// (article, center) and pivots: article id → center id → quantity.
func aggregateStock(centers []catalog.Center, rows []source.StockRow) map[string]map[int]int {
	known := make(map[int]bool, len(centers))
	for _, c := range centers {
		known[c.ID] = true
	}

	agg := make(map[string]map[int]int)
	for _, r := range rows {
		code, ok := source.CoerceWarehouse(r.Warehouse)
		if !ok || !known[code] {
			continue
		}
		byCenter := agg[r.ArticleID]
		if byCenter == nil {
			byCenter = make(map[int]int, len(centers))
			agg[r.ArticleID] = byCenter
		}
		byCenter[code] += r.Quantity
	}
	return agg
}

// supplierIndex maps supplier code → name. The first row for a code wins,
// keeping the index deterministic for feeds with repeated codes.
func supplierIndex(rows []source.SupplierRow) map[string]string {
	idx := make(map[string]string, len(rows))
	for _, r := range rows {
		if _, ok := idx[r.Code]; !ok {
			idx[r.Code] = r.Name
		}
	}
	return idx
}

// supplierName prefers the name carried on the article row; the code join
// is only consulted when the direct name is empty.
func supplierName(row source.ArticleRow, idx map[string]string) string {
	if row.SupplierName != "" {
		return row.SupplierName
	}
	if row.SupplierCode != "" {
		if name, ok := idx[row.SupplierCode]; ok {
			return name
		}
	}
	return ""
}

// resolveCurated applies the curated-field precedence chain:
// non-empty override > non-empty prior output > ingest value > "".
func resolveCurated(ov override.Map, articleID, prior, ingest string) string {
	fallback := ingest
	if prior != "" {
		fallback = prior
	}
	return ov.Apply(articleID, fallback)
}

// parsePrice parses a normalized decimal string into a two-scale,
// non-negative price. Unparsable, missing or negative values become 0.00.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Round(v*100) / 100
}
