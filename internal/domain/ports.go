package domain

import (
	"image/color"
	"time"
)

// PanelDriver is the draw-primitive surface exposed by the panel
// hardware. Implementations can be an in-memory framebuffer, a terminal
// emulator, or an SPI-attached matrix controller.
type PanelDriver interface {
	Width() int
	Height() int

	SetBrightness(level uint8)
	SetPixel(x, y int, c color.RGBA)
	FillRect(x, y, w, h int, c color.RGBA)
	Clear()

	// Text primitives. The cursor is in pixels; SetTextWrap controls
	// the driver's own wrapping, which the renderer disables because
	// it wraps at the character-column boundary itself.
	SetCursor(x, y int)
	SetTextColor(c color.RGBA)
	SetTextWrap(on bool)
	Print(s string)
}

// Clock abstracts wall time so phase durations and per-cell dissolve
// pacing are testable without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Sink receives complete payloads from ingestors. The board's mailbox
// implements it; ingestors never touch the text buffer directly.
type Sink interface {
	Put(p Payload)
}
