// =============================================================================
// Catalog Sync - Source Loaders
// =============================================================================
//
// Three loaders share one contract: read a raw file through the table
// reader, resolve its headers to logical fields, enforce the presence of
// the required ones, and emit typed rows with field-specific coercions
// applied.
//
// Required-column checking is batched: the loader resolves every required
// field before failing, so a single error names the complete remediation
// list instead of dripping one missing column per run.
//
// Cell-level repairs never fail a load. Identifiers are trimmed and kept
// opaque (never compared numerically), prices are normalized to a decimal
// string for later parsing, and stock quantities fall back through a
// digit-salvage reparse to zero.
//
// =============================================================================

package source

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mallorcart/catalog-sync/internal/resolve"
	"github.com/mallorcart/catalog-sync/internal/table"
)

// MissingColumnsError reports every required logical field that could not
// be resolved on a source, in one shot.
type MissingColumnsError struct {
	Source string
	Fields []resolve.Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.String()
	}
	return fmt.Sprintf("source %s: missing required columns: %s",
		e.Source, strings.Join(names, ", "))
}

// ArticleRow is one ingested article with its price kept as a normalized
// decimal string; parsing to a number happens during reconciliation.
type ArticleRow struct {
	ArticleID    string
	SupplierRef  string
	Description  string
	PriceText    string
	Barcode      string
	SupplierName string
	SupplierCode string
}

// StockRow is one ingested stock line. Warehouse stays a raw string; the
// reconciler decides whether it names a configured center.
type StockRow struct {
	ArticleID string
	Warehouse string
	Quantity  int
}

// SupplierRow maps a supplier code to its display name.
type SupplierRow struct {
	Code string
	Name string
}

// Loader reads and types the three catalog sources.
type Loader struct {
	resolver *resolve.Resolver
	log      *slog.Logger
}

// NewLoader builds a Loader around a column resolver. A nil logger falls
// back to slog.Default.
func NewLoader(r *resolve.Resolver, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{resolver: r, log: log}
}

// Articles loads the articles-with-price source. Required fields: article
// id, supplier reference, description and price. Barcode, supplier name and
// supplier code are optional. Rows without an article id are skipped: they
// cannot be keyed into the master table.
func (l *Loader) Articles(path string) ([]ArticleRow, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, err
	}

	cols, err := l.columns(path, t,
		[]resolve.Field{resolve.FieldArticleID, resolve.FieldSupplierRef, resolve.FieldDescription, resolve.FieldPrice},
		[]resolve.Field{resolve.FieldBarcode, resolve.FieldSupplierName, resolve.FieldSupplierCode},
	)
	if err != nil {
		return nil, err
	}

	// The substring fallback can land the supplier-name field on a
	// supplier-code or supplier-reference column (the feeds sometimes carry
	// only "CodProveedor", and "Proveedor" is a substring of both). A name
	// column shared with either is not a name.
	if cols[resolve.FieldSupplierName] >= 0 &&
		(cols[resolve.FieldSupplierName] == cols[resolve.FieldSupplierCode] ||
			cols[resolve.FieldSupplierName] == cols[resolve.FieldSupplierRef]) {
		cols[resolve.FieldSupplierName] = -1
	}

	rows := make([]ArticleRow, 0, t.Len())
	skipped := 0
	for i := 0; i < t.Len(); i++ {
		id := strings.TrimSpace(t.Cell(i, cols[resolve.FieldArticleID]))
		if id == "" {
			skipped++
			continue
		}
		rows = append(rows, ArticleRow{
			ArticleID:    id,
			SupplierRef:  strings.TrimSpace(t.Cell(i, cols[resolve.FieldSupplierRef])),
			Description:  strings.TrimSpace(t.Cell(i, cols[resolve.FieldDescription])),
			PriceText:    NormalizeDecimal(t.Cell(i, cols[resolve.FieldPrice])),
			Barcode:      strings.TrimSpace(t.Cell(i, cols[resolve.FieldBarcode])),
			SupplierName: strings.TrimSpace(t.Cell(i, cols[resolve.FieldSupplierName])),
			SupplierCode: strings.TrimSpace(t.Cell(i, cols[resolve.FieldSupplierCode])),
		})
	}
	if skipped > 0 {
		l.log.Warn("skipped article rows without an article id",
			"source", path, "rows", skipped)
	}
	l.log.Debug("loaded articles", "source", path, "rows", len(rows))
	return rows, nil
}

// Stock loads the stock-by-warehouse source. Required fields: article id,
// warehouse code and quantity.
func (l *Loader) Stock(path string) ([]StockRow, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, err
	}

	cols, err := l.columns(path, t,
		[]resolve.Field{resolve.FieldArticleID, resolve.FieldWarehouse, resolve.FieldStock},
		nil,
	)
	if err != nil {
		return nil, err
	}

	rows := make([]StockRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id := strings.TrimSpace(t.Cell(i, cols[resolve.FieldArticleID]))
		if id == "" {
			continue
		}
		rows = append(rows, StockRow{
			ArticleID: id,
			Warehouse: strings.TrimSpace(t.Cell(i, cols[resolve.FieldWarehouse])),
			Quantity:  CoerceQuantity(t.Cell(i, cols[resolve.FieldStock])),
		})
	}
	l.log.Debug("loaded stock", "source", path, "rows", len(rows))
	return rows, nil
}

// Suppliers loads the supplier-names source. Required fields: supplier code
// and supplier name.
func (l *Loader) Suppliers(path string) ([]SupplierRow, error) {
	t, err := table.Read(path)
	if err != nil {
		return nil, err
	}

	cols, err := l.columns(path, t,
		[]resolve.Field{resolve.FieldSupplierCode, resolve.FieldSupplierName},
		nil,
	)
	if err != nil {
		return nil, err
	}
	// A single "Proveedor"-ish column satisfying both fields is no use for
	// a code → name join; treat the code column as unresolved.
	if cols[resolve.FieldSupplierName] == cols[resolve.FieldSupplierCode] {
		return nil, &MissingColumnsError{Source: path, Fields: []resolve.Field{resolve.FieldSupplierCode}}
	}

	rows := make([]SupplierRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		code := strings.TrimSpace(t.Cell(i, cols[resolve.FieldSupplierCode]))
		if code == "" {
			continue
		}
		rows = append(rows, SupplierRow{
			Code: code,
			Name: strings.TrimSpace(t.Cell(i, cols[resolve.FieldSupplierName])),
		})
	}
	l.log.Debug("loaded suppliers", "source", path, "rows", len(rows))
	return rows, nil
}

// columns resolves required and optional fields to column indices. Every
// missing required field is collected before the error is returned.
// Optional fields that do not resolve get index -1, which Table.Cell maps
// to an empty cell.
func (l *Loader) columns(path string, t *table.Table, required, optional []resolve.Field) (map[resolve.Field]int, error) {
	cols := make(map[resolve.Field]int, len(required)+len(optional))
	var missing []resolve.Field

	for _, f := range required {
		header, ok := l.resolver.Resolve(t.Headers, f)
		if !ok {
			missing = append(missing, f)
			cols[f] = -1
			continue
		}
		cols[f] = t.Column(header)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Source: path, Fields: missing}
	}

	for _, f := range optional {
		cols[f] = -1
		if header, ok := l.resolver.Resolve(t.Headers, f); ok {
			cols[f] = t.Column(header)
		}
	}
	return cols, nil
}

// NormalizeDecimal repairs European decimal notation into a parseable
// decimal string. A cell with a comma uses it as the decimal separator, so
// any periods are thousands separators and are dropped first ("1.234,50"
// becomes "1234.50"). Cells without a comma pass through unchanged.
func NormalizeDecimal(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// CoerceQuantity turns a stock cell into a non-negative integer. Strict
// parse first; on failure everything that is not a digit, a period or a
// leading minus sign is stripped and the parse retried. Values that still
// fail, or parse to NaN or infinity, coerce to zero. Fractional quantities
// round half away from zero, negatives clamp to zero.
func CoerceQuantity(s string) int {
	v, ok := parseLooseFloat(NormalizeDecimal(s))
	if !ok {
		return 0
	}
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	return n
}

// CoerceWarehouse interprets a warehouse-code cell as an integer code,
// tolerating decorations like "1.0" or surrounding noise. The boolean is
// false when the cell holds nothing numeric.
func CoerceWarehouse(s string) (int, bool) {
	v, ok := parseLooseFloat(NormalizeDecimal(s))
	if !ok {
		return 0, false
	}
	return int(math.Round(v)), true
}

func parseLooseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v, err = strconv.ParseFloat(salvageNumeric(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// salvageNumeric strips everything that cannot be part of a number, keeping
// digits, periods and a minus sign only in the leading position.
func salvageNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
