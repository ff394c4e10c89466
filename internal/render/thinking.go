package render

import (
	"image/color"
	"time"

	"github.com/hkmoud/fogsign/internal/domain"
)

// thinkingBlink is the cursor on/off half-period.
const thinkingBlink = 500 * time.Millisecond

var thinkingColor = color.RGBA{R: 0xff, G: 0xff, A: 0xff}

// DrawThinking paints the bottom-strip caption with its blinking
// cursor. The blink is derived from the wall clock modulo, not a
// timer, so redraws at any cadence stay in phase.
func DrawThinking(drv domain.PanelDriver, now time.Time) {
	y := drv.Height() - domain.GlyphHeight
	drv.FillRect(0, y, drv.Width(), domain.GlyphHeight, off)
	drv.SetCursor(0, y)
	drv.SetTextColor(thinkingColor)
	drv.Print("thinking")
	if (now.UnixMilli()/thinkingBlink.Milliseconds())%2 == 0 {
		drv.Print("_")
	}
}
