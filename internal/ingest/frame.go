package ingest

import (
	"strings"

	"github.com/hkmoud/fogsign/internal/domain"
)

// Framer inspects an accumulator and, when a complete payload is
// present, consumes it and returns the committed text.
type Framer func(acc *Accumulator) (string, bool)

// FramerFor returns the framer for a mode.
func FramerFor(mode domain.Mode) Framer {
	if mode == domain.ModeFixed {
		return FixedFramer
	}
	return FlowFramer
}

// AccumCapFor returns the per-source accumulation cap for a mode.
func AccumCapFor(mode domain.Mode) int {
	if mode == domain.ModeFixed {
		return fixedAccumCap
	}
	return flowAccumCap
}

// FlowFramer commits the entire accumulation verbatim as soon as any
// newline appears, then clears the source buffer.
func FlowFramer(acc *Accumulator) (string, bool) {
	if acc.indexNewline() < 0 {
		return "", false
	}
	text := acc.String()
	acc.Reset()
	return text, true
}

// FixedFramer waits for six newline-terminated lines, consumes them,
// and commits the normalized six-row payload. A malformed frame is
// consumed but not committed.
func FixedFramer(acc *Accumulator) (string, bool) {
	text := acc.String()
	nl := 0
	cutoff := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			nl++
			if nl == domain.FixedRows {
				cutoff = i + 1
				break
			}
		}
	}
	if cutoff < 0 {
		return "", false
	}
	acc.Drop(cutoff)

	rows, err := ParseFixed(text[:cutoff])
	if err != nil {
		return "", false
	}
	return strings.Join(rows, "\n"), true
}

// ParseFixed normalizes a legacy payload into exactly six rows of ten
// characters, truncating long lines and space-padding short ones.
// A sixth line without a trailing newline is accepted as-is so senders
// may omit the final terminator. Fewer than six lines is an error and
// nothing is committed.
func ParseFixed(body string) ([]string, error) {
	rows := make([]string, 0, domain.FixedRows)
	var cur strings.Builder

	commit := func() {
		row := cur.String()
		if len(row) < domain.FixedCols {
			row += strings.Repeat(" ", domain.FixedCols-len(row))
		}
		rows = append(rows, row)
		cur.Reset()
	}

	for i := 0; i < len(body) && len(rows) < domain.FixedRows; i++ {
		switch c := body[i]; c {
		case '\r':
			// ignored, senders on Windows add them
		case '\n':
			commit()
		default:
			if cur.Len() < domain.FixedCols {
				cur.WriteByte(c)
			}
		}
	}
	if len(rows) < domain.FixedRows && cur.Len() > 0 {
		commit()
	}

	if len(rows) != domain.FixedRows {
		return nil, domain.ErrBadLineCount
	}
	return rows, nil
}
