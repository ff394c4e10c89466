// Package palette derives the six-step white-to-base gradient used to
// color the text rows.
package palette

import (
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/hkmoud/fogsign/internal/domain"
)

// Palette holds one color per display row: row 0 near-white, the last
// row the saturated base, rows between linearly interpolated per
// channel.
type Palette [domain.FixedRows]color.RGBA

// Row returns the color for a visual row. Indexes past the last row
// reuse the base color.
func (p Palette) Row(i int) color.RGBA {
	if i < 0 {
		i = 0
	}
	if i >= len(p) {
		i = len(p) - 1
	}
	return p[i]
}

// lerp8 blends two channels with t in 0..255, rounding to nearest.
func lerp8(a, b uint8, t uint8) uint8 {
	return uint8((uint16(a)*uint16(255-t) + uint16(b)*uint16(t) + 127) / 255)
}

// FromBase builds the gradient toward the given base color. The blend
// weight for row i is i*floor(255/5), so the last row lands exactly on
// the base.
func FromBase(base color.RGBA) Palette {
	var p Palette
	for i := range p {
		t := uint8(i * (255 / (len(p) - 1)))
		p[i] = color.RGBA{
			R: lerp8(0xff, base.R, t),
			G: lerp8(0xff, base.G, t),
			B: lerp8(0xff, base.B, t),
			A: 0xff,
		}
	}
	return p
}

// Random picks a saturated base color — random hue, high saturation,
// full value, so it never drifts toward white or grey — and returns
// the palette built from it together with the base itself.
func Random(rng *rand.Rand) (Palette, color.RGBA) {
	h := rng.Float64() * 360
	s := 0.8 + 0.2*rng.Float64()
	r, g, b := colorful.Hsv(h, s, 1).RGB255()
	base := color.RGBA{R: r, G: g, B: b, A: 0xff}
	return FromBase(base), base
}
