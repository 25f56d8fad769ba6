// =============================================================================
// Catalog Sync - Raw Table
// =============================================================================
//
// Table is the uniform result of every ingestion strategy: an ordered header
// row plus rectangular string rows. Whatever shape the parser produced, New
// repairs it into a rectangle:
//   - cells are whitespace-trimmed
//   - fully blank rows are dropped
//   - short rows are padded with empty strings to the table width
//   - rows wider than the header widen the header with placeholder names,
//     so no cell is ever silently discarded
//
// =============================================================================

package table

import (
	"fmt"
	"strings"
)

// Table is a rectangular table of string cells with a single header row.
// Every row has exactly len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// New builds a Table from raw records, treating the first record as the
// header row. Returns an error when there is no header to work with.
func New(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no rows")
	}

	width := len(records[0])
	for _, row := range records[1:] {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("no columns")
	}

	headers := make([]string, width)
	for i := 0; i < width; i++ {
		h := ""
		if i < len(records[0]) {
			h = strings.TrimSpace(records[0][i])
		}
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, width)
		blank := true
		for i := 0; i < width && i < len(rec); i++ {
			row[i] = strings.TrimSpace(rec[i])
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// Width returns the column count.
func (t *Table) Width() int { return len(t.Headers) }

// Len returns the data row count, excluding the header.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the index of the column with the given literal header,
// or -1 when absent.
func (t *Table) Column(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Headers) {
		return ""
	}
	return t.Rows[row][col]
}
