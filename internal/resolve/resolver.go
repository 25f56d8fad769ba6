// =============================================================================
// Catalog Sync - Column Resolver
// =============================================================================
//
// The upstream system renames its export columns at will: "NumeroArticulo",
// "Nº Articulo" and "NUMERO ARTICULO." are all the same column. The resolver
// bridges literal header text and the fixed set of logical fields the
// pipeline works with.
//
// Resolution is a pure function of the header list and the alias table:
//   1. normalize the header (lowercase, diacritics folded, punctuation
//      stripped, whitespace collapsed)
//   2. exact match against the field's normalized aliases
//   3. substring fallback: a header matches when its normalized form
//      contains, or is contained in, any alias
//
// Headers are scanned in table order in both passes, so results are stable
// for a fixed table and alias set.
//
// =============================================================================

package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a logical column meaning, independent of any literal header.
type Field int

const (
	FieldArticleID Field = iota
	FieldSupplierRef
	FieldDescription
	FieldPrice
	FieldBarcode
	FieldSupplierName
	FieldSupplierCode
	FieldWarehouse
	FieldStock
)

// String returns the canonical column name, which doubles as the export
// header where the field appears in the output schema.
func (f Field) String() string {
	switch f {
	case FieldArticleID:
		return "NumeroArticulo"
	case FieldSupplierRef:
		return "ReferenciaProveedor"
	case FieldDescription:
		return "Descripcion"
	case FieldPrice:
		return "Precio"
	case FieldBarcode:
		return "CodigoEAN"
	case FieldSupplierName:
		return "NombreProveedor"
	case FieldSupplierCode:
		return "CodigoProveedor"
	case FieldWarehouse:
		return "CodigoAlmacen"
	case FieldStock:
		return "Stock"
	default:
		return "Unknown"
	}
}

func fieldByName(name string) (Field, bool) {
	for _, f := range []Field{
		FieldArticleID, FieldSupplierRef, FieldDescription, FieldPrice,
		FieldBarcode, FieldSupplierName, FieldSupplierCode, FieldWarehouse,
		FieldStock,
	} {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// Normalize folds a header into its comparison form: lowercase, accents
// removed, period/colon/hyphen stripped, underscores treated as spaces and
// whitespace runs collapsed to a single space.
func Normalize(s string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch r {
		case '.', ':', '-':
			// stripped
		case '_':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Resolver maps literal headers to logical fields through a normalized
// alias table. The table is fixed at construction; Resolve never mutates it.
type Resolver struct {
	aliases map[Field][]string
}

// New builds a Resolver from the built-in alias table plus optional
// extensions, keyed by canonical field name. Extension aliases are appended
// after the built-ins, preserving their listed order; unknown field names
// are ignored.
func New(extra map[string][]string) *Resolver {
	aliases := make(map[Field][]string, len(defaultAliases))
	for f, list := range defaultAliases {
		aliases[f] = normalizeAll(list)
	}
	for name, list := range extra {
		f, ok := fieldByName(name)
		if !ok {
			continue
		}
		aliases[f] = append(aliases[f], normalizeAll(list)...)
	}
	return &Resolver{aliases: aliases}
}

func normalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		if n := Normalize(a); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Resolve returns the literal header that carries the given logical field,
// scanning headers in table order. The second return is false when no
// header resolves.
func (r *Resolver) Resolve(headers []string, f Field) (string, bool) {
	aliases := r.aliases[f]
	if len(aliases) == 0 {
		return "", false
	}

	norms := make([]string, len(headers))
	for i, h := range headers {
		norms[i] = Normalize(h)
	}

	// Exact matches take priority over any substring hit.
	for i, nh := range norms {
		for _, a := range aliases {
			if nh == a {
				return headers[i], true
			}
		}
	}

	for i, nh := range norms {
		if nh == "" {
			continue
		}
		for _, a := range aliases {
			if strings.Contains(nh, a) || strings.Contains(a, nh) {
				return headers[i], true
			}
		}
	}
	return "", false
}
