package panel

import (
	"image/color"
	"testing"

	"github.com/hkmoud/fogsign/internal/domain"
)

var on = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func litCount(fb *Framebuffer) int {
	n := 0
	for _, c := range fb.Snapshot() {
		if c != Off {
			n++
		}
	}
	return n
}

func TestSetPixelBounds(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	fb.SetPixel(3, 4, on)
	if fb.At(3, 4) != on {
		t.Fatal("pixel not set")
	}

	// Out of bounds writes are dropped, not wrapped.
	fb.SetPixel(-1, 0, on)
	fb.SetPixel(8, 0, on)
	fb.SetPixel(0, 8, on)
	if litCount(fb) != 1 {
		t.Fatalf("expected 1 lit pixel, got %d", litCount(fb))
	}
	if fb.At(-1, 0) != Off || fb.At(8, 0) != Off {
		t.Fatal("out-of-bounds reads must return the off color")
	}
}

func TestFillRectClips(t *testing.T) {
	fb := NewFramebuffer(8, 8)

	fb.FillRect(6, 6, 4, 4, on)
	if litCount(fb) != 4 {
		t.Fatalf("expected the 2x2 in-bounds corner, got %d pixels", litCount(fb))
	}
	if fb.At(6, 6) != on || fb.At(7, 7) != on {
		t.Fatal("in-bounds corner not filled")
	}
}

func TestClearHomesCursor(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	fb.SetCursor(5, 5)
	fb.FillRect(0, 0, 16, 16, on)

	fb.Clear()
	if litCount(fb) != 0 {
		t.Fatal("clear left lit pixels")
	}
	if x, y := fb.Cursor(); x != 0 || y != 0 {
		t.Fatalf("cursor = (%d,%d) after clear", x, y)
	}
}

func TestPrintAdvancesCursor(t *testing.T) {
	fb := NewFramebuffer(64, 32)
	fb.SetTextWrap(false)

	fb.Print("abc")
	if x, _ := fb.Cursor(); x != 3*domain.CharAdvance {
		t.Fatalf("cursor x = %d, want %d", x, 3*domain.CharAdvance)
	}
	if litCount(fb) == 0 {
		t.Fatal("printing must light glyph pixels")
	}

	fb.Print("\n")
	if x, y := fb.Cursor(); x != 0 || y != domain.RowAdvance {
		t.Fatalf("cursor = (%d,%d) after newline", x, y)
	}
}

func TestPrintWraps(t *testing.T) {
	// 12px wide: two characters per row.
	fb := NewFramebuffer(12, 32)
	fb.SetTextWrap(true)

	fb.Print("abcd")
	if x, y := fb.Cursor(); y != domain.RowAdvance || x != 2*domain.CharAdvance {
		t.Fatalf("cursor = (%d,%d), want wrap onto row two", x, y)
	}

	fb.Clear()
	fb.SetTextWrap(false)
	fb.Print("abcd")
	if _, y := fb.Cursor(); y != 0 {
		t.Fatal("wrap disabled must keep the cursor on the first row")
	}
}

func TestPrintUsesTextColor(t *testing.T) {
	fb := NewFramebuffer(32, 16)
	red := color.RGBA{R: 0xff, A: 0xff}
	fb.SetTextColor(red)
	fb.Print("X")

	found := false
	for _, c := range fb.Snapshot() {
		if c == Off {
			continue
		}
		if c != red {
			t.Fatalf("lit pixel %v, want %v", c, red)
		}
		found = true
	}
	if !found {
		t.Fatal("no lit pixels")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	snap := fb.Snapshot()
	fb.SetPixel(0, 0, on)
	if snap[0] != Off {
		t.Fatal("snapshot must not alias the live frame")
	}
}
