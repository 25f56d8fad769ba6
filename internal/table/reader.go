// =============================================================================
// Catalog Sync - Table Reader
// =============================================================================
//
// Read turns a source file of uncertain format into a Table, or fails with a
// report of every strategy it tried. The strategies run as an ordered
// cascade, short-circuiting on the first success:
//
//   1. Workbook engine: files sniffed as zip containers go to excelize,
//      sheet 1 only. An engine error demotes the file to the text path
//      instead of failing the read.
//   2. Encoding × delimiter grid: the raw bytes are decoded with each
//      candidate encoding (most plausible first, see encoding.go) and parsed
//      with each candidate delimiter (most frequent in the header line
//      first). The first parse that yields more than one column wins.
//   3. Manual recovery: when no structured parse sees more than one column,
//      every non-blank line is split directly on the best-guessed delimiter.
//      A genuinely columnar file survives parsers that choke on it; a
//      single-column file still fails rather than masquerade as a table.
//
// Legacy OLE workbooks are recognized by the sniffer but have no binary
// engine wired; they demote straight to the text path, ending the same way
// a corrupt zip does.
//
// =============================================================================

package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// delimiterCandidates in canonical order. The ranking in rankDelimiters
// reorders them per file but never adds or removes one.
var delimiterCandidates = []rune{';', ',', '\t', '|'}

var errNoBinaryEngine = errors.New("no engine for legacy compound workbooks")

// ReadError reports an exhausted strategy cascade. Attempts holds one line
// per failed strategy so the operator sees the whole story, not just the
// final failure.
type ReadError struct {
	Path     string
	Kind     Kind
	Attempts []string
	Last     error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("no strategy recovered a table from %s (detected %s): %s",
		e.Path, e.Kind, strings.Join(e.Attempts, "; "))
}

func (e *ReadError) Unwrap() error { return e.Last }

// Read sniffs and parses a source file into a Table.
func Read(path string) (*Table, error) {
	kind := Sniff(path)

	var attempts []string
	var last error
	note := func(strategy string, err error) {
		attempts = append(attempts, fmt.Sprintf("%s: %v", strategy, err))
		last = err
	}

	switch kind {
	case KindWorkbook:
		t, err := readWorkbook(path)
		if err == nil {
			return t, nil
		}
		note("workbook engine", err)
	case KindCompound:
		note("workbook engine", errNoBinaryEngine)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		note("read", err)
		return nil, &ReadError{Path: path, Kind: kind, Attempts: attempts, Last: last}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		note("read", errors.New("file is empty"))
		return nil, &ReadError{Path: path, Kind: kind, Attempts: attempts, Last: last}
	}

	// First decodable rendition of the content, kept for manual recovery.
	decoded := ""
	haveDecoded := false

	for _, cs := range guessEncodings(data) {
		text, err := decodeBytes(data, cs)
		if err != nil {
			note("decode "+cs.name, err)
			continue
		}
		if !haveDecoded {
			decoded, haveDecoded = text, true
		}
		for _, delim := range rankDelimiters(text) {
			t, err := parseDelimited(text, delim)
			if err != nil {
				note(fmt.Sprintf("csv %s %q", cs.name, delim), err)
				continue
			}
			return t, nil
		}
	}

	if haveDecoded {
		delim := rankDelimiters(decoded)[0]
		t, err := splitManually(decoded, delim)
		if err == nil {
			return t, nil
		}
		note(fmt.Sprintf("manual split %q", delim), err)
	}

	return nil, &ReadError{Path: path, Kind: kind, Attempts: attempts, Last: last}
}

// readWorkbook parses sheet 1 of a zip-based workbook.
func readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}
	return New(rows)
}

// parseDelimited runs a structured CSV parse with a fixed delimiter. A
// result of fewer than two columns counts as a failure: it almost always
// means the delimiter was wrong, and accepting it would produce a
// degenerate one-column catalog downstream.
func parseDelimited(text string, delim rune) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	t, err := New(records)
	if err != nil {
		return nil, err
	}
	if t.Width() < 2 {
		return nil, errors.New("parsed a single column")
	}
	return t, nil
}

// rankDelimiters orders the candidate delimiters by how often each occurs
// in the first non-blank line of a bounded prefix of the text. Ties keep
// canonical order, so the ranking is deterministic.
func rankDelimiters(text string) []rune {
	prefix := text
	if len(prefix) > 4096 {
		prefix = prefix[:4096]
	}
	var line string
	for _, l := range strings.Split(prefix, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	for _, d := range delimiterCandidates {
		counts[d] = strings.Count(line, string(d))
	}

	ranked := make([]rune, len(delimiterCandidates))
	copy(ranked, delimiterCandidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}

// splitManually is the last-resort recovery: split every non-blank line on
// the delimiter, letting New pad short rows and widen the header to the
// widest row. Content that still has a single column is rejected.
func splitManually(text string, delim rune) (*Table, error) {
	var records [][]string
	width := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, string(delim))
		if len(fields) > width {
			width = len(fields)
		}
		records = append(records, fields)
	}
	if len(records) == 0 {
		return nil, errors.New("no content lines")
	}
	if width < 2 {
		return nil, errors.New("content is not columnar")
	}
	return New(records)
}
