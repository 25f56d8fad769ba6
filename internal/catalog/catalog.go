// =============================================================================
// Catalog Sync - Domain Types
// =============================================================================
//
// Shared domain types for the catalog pipeline:
//   - Center: one of the physical distribution centers the catalog is built for
//   - Record: one reconciled article row as exported for a single center
//   - CenterCatalog: the full per-center article set, ready for export
//   - Prior: barcode/image values recovered from a center's previous export
//
// The default center set mirrors the upstream warehouse numbering. Warehouse
// codes outside the configured set carry stock the storefront never sells and
// are filtered out during reconciliation.
//
// =============================================================================

package catalog

// Center identifies a distribution center. The numeric ID matches the
// warehouse code used by the upstream inventory feed; the slug names the
// output directory and the override files.
type Center struct {
	ID    int    `yaml:"id"`
	Slug  string `yaml:"slug"`
	Label string `yaml:"label"`
}

// DefaultCenters is the standard four-center set.
func DefaultCenters() []Center {
	return []Center{
		{ID: 1, Slug: "coll", Label: "Coll"},
		{ID: 2, Slug: "calvia", Label: "Calvià"},
		{ID: 3, Slug: "alcudia", Label: "Alcudia"},
		{ID: 4, Slug: "santanyi", Label: "Santanyí"},
	}
}

// Record is one article as it appears in a single center's catalog.
// Price is kept as a float rounded to two decimals; Stock is never negative.
type Record struct {
	ArticleID   string
	SupplierRef string
	Description string
	Barcode     string
	Supplier    string
	ImageURL    string
	Price       float64
	Stock       int
}

// CenterCatalog is the reconciled article set for one center.
type CenterCatalog struct {
	Center  Center
	Records []Record
}

// Prior holds the locally curated fields recovered from a center's previous
// output file. A curated barcode or image must survive feeds that omit it.
type Prior struct {
	Barcode  string
	ImageURL string
}
