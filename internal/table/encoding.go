// =============================================================================
// Catalog Sync - Encoding Candidates
// =============================================================================
//
// The delimited-text path has no declared encoding to trust, so it works
// through an ordered candidate list. guessEncodings reorders that list so
// the most plausible candidate is tried first; correctness never depends on
// the guess, because the reader always falls through the full list.
//
// The guess is cheap and deliberate:
//   1. a byte-order mark decides outright (UTF-8 sig, UTF-16 LE/BE)
//   2. NUL bytes betray BOM-less UTF-16, and their parity picks the order
//   3. content that validates as UTF-8 is promoted
//   4. otherwise Latin-1 goes first (the upstream system's usual export)
//
// =============================================================================

package table

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// charset pairs a human-readable name (for attempt reporting) with its
// decoder.
type charset struct {
	name string
	enc  encoding.Encoding
}

// encodingCandidates returns the supported encodings in canonical order.
// UTF-8 with a signature must precede plain UTF-8 so the BOM never leaks
// into the first header cell.
func encodingCandidates() []charset {
	return []charset{
		{"utf-8-sig", unicode.UTF8BOM},
		{"utf-8", unicode.UTF8},
		{"latin-1", charmap.ISO8859_1},
		{"windows-1252", charmap.Windows1252},
		{"utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
		{"utf-16be", unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
	}
}

// guessEncodings returns the full candidate list with the most likely
// encoding for data moved to the front.
func guessEncodings(data []byte) []charset {
	candidates := encodingCandidates()

	guess := ""
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		guess = "utf-8-sig"
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		guess = "utf-16le"
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		guess = "utf-16be"
	default:
		if even, odd := nulParity(data); even+odd > 0 {
			if odd >= even {
				guess = "utf-16le"
			} else {
				guess = "utf-16be"
			}
		} else if utf8.Valid(data) {
			guess = "utf-8"
		} else {
			guess = "latin-1"
		}
	}

	for i, cs := range candidates {
		if cs.name == guess {
			reordered := make([]charset, 0, len(candidates))
			reordered = append(reordered, cs)
			reordered = append(reordered, candidates[:i]...)
			reordered = append(reordered, candidates[i+1:]...)
			return reordered
		}
	}
	return candidates
}

// nulParity counts NUL bytes at even and odd offsets in a bounded prefix.
// Text encoded as UTF-16 is full of them; plain 8-bit text has none.
func nulParity(data []byte) (even, odd int) {
	limit := len(data)
	if limit > 4096 {
		limit = 4096
	}
	for i := 0; i < limit; i++ {
		if data[i] == 0 {
			if i%2 == 0 {
				even++
			} else {
				odd++
			}
		}
	}
	return even, odd
}

// decodeBytes decodes raw content with the given charset.
func decodeBytes(data []byte, cs charset) (string, error) {
	out, _, err := transform.Bytes(cs.enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
