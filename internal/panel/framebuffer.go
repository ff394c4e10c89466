// Package panel provides implementations of the panel draw primitives:
// an in-memory framebuffer shared by tests and the terminal emulator,
// and an SPI backend for real hardware.
package panel

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/hkmoud/fogsign/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.PanelDriver = (*Framebuffer)(nil)
	_ drivers.Displayer  = (*glyphSurface)(nil)
)

// glyph rendering constants: tinyfont draws relative to the baseline,
// while the cursor addresses the top of a text row.
const glyphBaseline = 6

var glyphFont tinyfont.Fonter = &tinyfont.Picopixel

// Off is the panel's "erased" color.
var Off = color.RGBA{A: 0xff}

// Framebuffer is an in-memory panel. The animation loop draws into it
// while an emulator or hardware flusher reads it, so every access goes
// through a lock.
type Framebuffer struct {
	mu         sync.Mutex
	w, h       int
	pix        []color.RGBA
	brightness uint8
	curX, curY int
	textColor  color.RGBA
	wrap       bool
}

// NewFramebuffer creates a cleared framebuffer of the given size.
func NewFramebuffer(w, h int) *Framebuffer {
	fb := &Framebuffer{
		w:          w,
		h:          h,
		pix:        make([]color.RGBA, w*h),
		brightness: 0xff,
		textColor:  color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	for i := range fb.pix {
		fb.pix[i] = Off
	}
	return fb
}

// Width returns the panel width in pixels (all chained panels).
func (fb *Framebuffer) Width() int { return fb.w }

// Height returns the panel height in pixels.
func (fb *Framebuffer) Height() int { return fb.h }

// SetBrightness stores the global brightness (0-255). The framebuffer
// keeps pixel values unscaled; backends apply the level on output.
func (fb *Framebuffer) SetBrightness(level uint8) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.brightness = level
}

// Brightness returns the current global brightness.
func (fb *Framebuffer) Brightness() uint8 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.brightness
}

// SetPixel sets one pixel. Out-of-bounds coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.setPixelAt(x, y, c)
}

func (fb *Framebuffer) setPixelAt(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= fb.w || y >= fb.h {
		return
	}
	fb.pix[y*fb.w+x] = c
}

// FillRect fills a rectangle, clipped to the panel bounds.
func (fb *Framebuffer) FillRect(x, y, w, h int, c color.RGBA) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			fb.setPixelAt(xx, yy, c)
		}
	}
}

// Clear erases the whole panel and homes the cursor.
func (fb *Framebuffer) Clear() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := range fb.pix {
		fb.pix[i] = Off
	}
	fb.curX, fb.curY = 0, 0
}

// SetCursor positions the text cursor in pixels.
func (fb *Framebuffer) SetCursor(x, y int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.curX, fb.curY = x, y
}

// SetTextColor sets the color used by Print.
func (fb *Framebuffer) SetTextColor(c color.RGBA) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.textColor = c
}

// SetTextWrap enables the driver's own wrapping at the right edge.
func (fb *Framebuffer) SetTextWrap(on bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.wrap = on
}

// Print draws a string at the cursor, advancing six pixels per
// character. Newlines move to the start of the next ten-pixel row.
func (fb *Framebuffer) Print(s string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	surface := &glyphSurface{fb: fb}
	for _, r := range s {
		if r == '\n' {
			fb.curX = 0
			fb.curY += domain.RowAdvance
			continue
		}
		if fb.wrap && fb.curX+domain.CharAdvance > fb.w {
			fb.curX = 0
			fb.curY += domain.RowAdvance
		}
		tinyfont.DrawChar(surface, glyphFont, int16(fb.curX), int16(fb.curY+glyphBaseline), r, fb.textColor)
		fb.curX += domain.CharAdvance
	}
}

// At returns the pixel at (x, y), or the off color out of bounds.
func (fb *Framebuffer) At(x, y int) color.RGBA {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if x < 0 || y < 0 || x >= fb.w || y >= fb.h {
		return Off
	}
	return fb.pix[y*fb.w+x]
}

// Snapshot copies the current frame for a reader that must not hold
// the lock while rendering (the terminal emulator).
func (fb *Framebuffer) Snapshot() []color.RGBA {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]color.RGBA, len(fb.pix))
	copy(out, fb.pix)
	return out
}

// Cursor returns the current text cursor position.
func (fb *Framebuffer) Cursor() (x, y int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.curX, fb.curY
}

// glyphSurface adapts the framebuffer to the tinyfont draw target.
// It is only used with the framebuffer lock already held.
type glyphSurface struct {
	fb *Framebuffer
}

func (g *glyphSurface) Size() (int16, int16) {
	return int16(g.fb.w), int16(g.fb.h)
}

func (g *glyphSurface) SetPixel(x, y int16, c color.RGBA) {
	g.fb.setPixelAt(int(x), int(y), c)
}

func (g *glyphSurface) Display() error { return nil }
