// Package render implements the visual effects: randomized dissolves,
// the gradient typewriter text, and the thinking caption.
package render

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

// off is the erased-cell color.
var off = color.RGBA{A: 0xff}

// DefaultBlock is the tile edge used by the block dissolve.
const DefaultBlock = 4

// maxCells bounds the shuffle index list. A panel bigger than this
// cannot allocate its erase order, so the effect is skipped cleanly —
// the same degraded mode the device used when malloc failed.
const maxCells = 1 << 20

// Dissolver erases the screen in a shuffled order spread over a caller
// time budget, instead of blanking it in one frame.
type Dissolver struct {
	drv   domain.PanelDriver
	clock domain.Clock
	rng   *rand.Rand
	log   *logger.Logger
}

// NewDissolver creates a dissolver drawing through drv. The rand source
// is process-wide, seeded once at boot, so runs differ per boot.
func NewDissolver(drv domain.PanelDriver, clock domain.Clock, rng *rand.Rand, log *logger.Logger) *Dissolver {
	return &Dissolver{drv: drv, clock: clock, rng: rng, log: log}
}

// Pixels erases every pixel exactly once in shuffled order, sleeping
// duration/N (at least one microsecond) between cells.
func (d *Dissolver) Pixels(duration time.Duration) {
	w, h := d.drv.Width(), d.drv.Height()
	idx := d.shuffled(w * h)
	if idx == nil {
		return
	}

	per := pace(duration, len(idx))
	for _, p := range idx {
		d.drv.SetPixel(p%w, p/w, off)
		d.clock.Sleep(per)
	}
}

// Blocks erases the screen tile by tile in shuffled order. Tiles at the
// right and bottom edges are clipped to the remaining panel size.
func (d *Dissolver) Blocks(duration time.Duration, block int) {
	if block <= 0 {
		block = DefaultBlock
	}
	w, h := d.drv.Width(), d.drv.Height()
	nx := (w + block - 1) / block
	ny := (h + block - 1) / block

	idx := d.shuffled(nx * ny)
	if idx == nil {
		return
	}

	per := pace(duration, len(idx))
	for _, p := range idx {
		bx := (p % nx) * block
		by := (p / nx) * block
		bw := min(block, w-bx)
		bh := min(block, h-by)
		d.drv.FillRect(bx, by, bw, bh, off)
		d.clock.Sleep(per)
	}
}

// shuffled builds the randomized erase order, or nil when the cell
// count is unusable (the effect is then skipped, not crashed).
func (d *Dissolver) shuffled(n int) []int {
	if n <= 0 || n > maxCells {
		d.log.Warn("dissolve skipped: %d cells", n)
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	d.rng.Shuffle(n, func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	return idx
}

// pace spreads the budget across n cells, one microsecond minimum.
func pace(duration time.Duration, n int) time.Duration {
	per := duration / time.Duration(n)
	if per < time.Microsecond {
		per = time.Microsecond
	}
	return per
}
