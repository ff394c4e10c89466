package render

import (
	"strings"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/palette"
)

// RevealAll draws the whole text with no typewriter limit.
const RevealAll = -1

// GradientWriter renders newline-delimited text top to bottom, each
// visual row colored along the white-to-base gradient. Wrapping is
// naive — rows split at the panel's character-column boundary, words
// and all. Calling Draw with growing reveal limits produces the
// typewriter effect.
type GradientWriter struct {
	drv domain.PanelDriver
	pal palette.Palette
}

// NewGradientWriter creates a writer for drv with an all-white palette
// until SetPalette is called.
func NewGradientWriter(drv domain.PanelDriver) *GradientWriter {
	return &GradientWriter{drv: drv, pal: palette.FromBase(off)}
}

// SetPalette replaces the row gradient, done before every reveal so
// each cycle gets a fresh hue.
func (g *GradientWriter) SetPalette(p palette.Palette) { g.pal = p }

// Draw clears the screen and renders text. With reveal >= 0 drawing
// stops once that many characters have been shown across all rows.
func (g *GradientWriter) Draw(text string, reveal int) {
	g.drv.Clear()
	g.drv.SetTextWrap(false) // wrapping is handled here

	cols := g.drv.Width() / domain.CharAdvance
	if cols < 1 {
		cols = 1
	}

	y := 0
	visual := 0
	shown := 0
	for _, row := range strings.Split(text, "\n") {
		for _, chunk := range wrapRow(row, cols) {
			toShow := len(chunk)
			if reveal >= 0 {
				remaining := reveal - shown
				if remaining <= 0 {
					return
				}
				if toShow > remaining {
					toShow = remaining
				}
			}

			g.drv.SetCursor(0, y)
			g.drv.SetTextColor(g.pal.Row(visual))
			g.drv.Print(chunk[:toShow])

			shown += toShow
			if reveal >= 0 && shown >= reveal {
				return
			}
			y += domain.RowAdvance
			visual++
		}
	}
}

// wrapRow splits one source row into column-width chunks. An empty row
// still occupies one visual row.
func wrapRow(row string, cols int) []string {
	if row == "" {
		return []string{""}
	}
	var chunks []string
	for len(row) > cols {
		chunks = append(chunks, row[:cols])
		row = row[cols:]
	}
	return append(chunks, row)
}
