package palette

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/hkmoud/fogsign/internal/domain"
)

func TestFromBaseEndpoints(t *testing.T) {
	base := color.RGBA{R: 0x20, G: 0x80, B: 0xe0, A: 0xff}
	p := FromBase(base)

	// Row 0 carries weight zero, so it stays white.
	if p[0] != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("row 0 = %v, want white", p[0])
	}
	// The last row's weight is 5*51 = 255, exactly the base.
	if p[len(p)-1] != base {
		t.Fatalf("last row = %v, want %v", p[len(p)-1], base)
	}
}

func TestFromBaseMonotonic(t *testing.T) {
	base := color.RGBA{R: 0x10, G: 0x40, B: 0x90, A: 0xff}
	p := FromBase(base)

	// Each channel walks from white down to the base without reversing.
	for i := 1; i < len(p); i++ {
		if p[i].R > p[i-1].R || p[i].G > p[i-1].G || p[i].B > p[i-1].B {
			t.Fatalf("row %d (%v) brighter than row %d (%v)", i, p[i], i-1, p[i-1])
		}
	}
}

func TestRowClamps(t *testing.T) {
	p := FromBase(color.RGBA{R: 0xff, A: 0xff})

	if p.Row(-3) != p[0] {
		t.Fatal("negative row must clamp to the first")
	}
	if p.Row(domain.FixedRows+5) != p[len(p)-1] {
		t.Fatal("rows past the end must reuse the base")
	}
}

func TestRandomBaseIsSaturated(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		p, base := Random(rng)
		if p[len(p)-1] != base {
			t.Fatalf("palette base mismatch: %v vs %v", p[len(p)-1], base)
		}

		max := base.R
		for _, c := range []uint8{base.G, base.B} {
			if c > max {
				max = c
			}
		}
		min := base.R
		for _, c := range []uint8{base.G, base.B} {
			if c < min {
				min = c
			}
		}
		// Full value, saturation >= 0.8: bright with a real hue,
		// never grey.
		if max != 0xff {
			t.Fatalf("draw %d: base %v not at full value", i, base)
		}
		if int(max)-int(min) < 150 {
			t.Fatalf("draw %d: base %v too grey", i, base)
		}
	}
}
