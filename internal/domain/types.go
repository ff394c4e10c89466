// Package domain holds the shared types and ports of the phrase board.
package domain

// Mode selects the payload framing used by every ingestor.
type Mode int

const (
	// ModeFlow accepts free-form text: a payload is complete as soon as
	// the accumulated bytes contain a newline, and is committed verbatim.
	ModeFlow Mode = iota
	// ModeFixed is the legacy framing: exactly six newline-terminated
	// lines, each truncated or space-padded to ten characters.
	ModeFixed
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeFlow:
		return "flow"
	case ModeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Legacy frame geometry: six rows of ten characters.
const (
	FixedRows = 6
	FixedCols = 10
)

// Row geometry of the panel text grid. The 5x7 glyphs advance six
// pixels per character and rows sit ten pixels apart.
const (
	CharAdvance = 6
	RowAdvance  = 10
	GlyphHeight = 8
)

// Payload is one complete text update produced by an ingestor.
type Payload struct {
	Text   string
	Source string // "usb", "nus", "http", "console"
}
