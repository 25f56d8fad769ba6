// =============================================================================
// Catalog Sync - Format Sniffer
// =============================================================================
//
// The upstream inventory system exports files whose extension says nothing
// about their content: an "Articulos.csv" may really be an XLSX workbook and
// a ".xls" may be plain semicolon text. Classification therefore looks only
// at the leading bytes of the file, never at the name.
//
// Only two binary signatures matter:
//   - PK\x03\x04      zip container (OOXML workbook)
//   - D0 CF 11 E0     OLE compound document (legacy binary workbook)
//
// Everything else, including unreadable or absent files, classifies as
// KindUnknown and is handed to the delimited-text strategies. A corrupt zip
// still classifies as a workbook here; the reader demotes it to the text
// path when the spreadsheet engine rejects it.
//
// =============================================================================

package table

import (
	"bytes"
	"io"
	"os"
)

// Kind is the sniffed container format of a source file.
type Kind int

const (
	// KindUnknown means no known binary signature; presumed delimited text.
	KindUnknown Kind = iota

	// KindWorkbook is a zip-based OOXML workbook (xlsx).
	KindWorkbook

	// KindCompound is a legacy OLE compound document (xls).
	KindCompound
)

func (k Kind) String() string {
	switch k {
	case KindWorkbook:
		return "workbook"
	case KindCompound:
		return "compound document"
	default:
		return "delimited text"
	}
}

var (
	zipSignature = []byte{'P', 'K', 0x03, 0x04}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Sniff classifies a file by its first eight bytes. It is a pure
// classification: no content beyond the signature is validated, and any
// error reading the file yields KindUnknown.
func Sniff(path string) Kind {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return KindUnknown
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipSignature):
		return KindWorkbook
	case bytes.HasPrefix(head, oleSignature):
		return KindCompound
	default:
		return KindUnknown
	}
}
