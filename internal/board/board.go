// Package board implements the text source buffer: the currently
// displayed text, the live-text flag, and the single-slot mailbox that
// carries pending updates from the ingestors into the animation loop.
package board

import (
	"math/rand"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
	"github.com/hkmoud/fogsign/internal/phrases"
)

// Board holds the active text. Only the animation loop mutates it; the
// ingestors hand payloads over through the Mailbox instead, which keeps
// the buffer single-writer without locks.
type Board struct {
	mode domain.Mode
	book *phrases.Book
	log  *logger.Logger

	live    string
	hasLive bool
}

// New creates a board backed by the given phrase book.
func New(mode domain.Mode, book *phrases.Book, log *logger.Logger) *Board {
	return &Board{mode: mode, book: book, log: log}
}

// Active returns the text to display: the live payload once one has
// arrived, otherwise the canned phrase in the shape the mode expects.
func (b *Board) Active() string {
	if b.hasLive {
		return b.live
	}
	if b.mode == domain.ModeFixed {
		return b.book.FixedText()
	}
	return b.book.FlowText()
}

// SetLive replaces the displayed text with an externally supplied
// payload. The flag stays set until one full display cycle completes.
func (b *Board) SetLive(text string) {
	b.live = text
	b.hasLive = true
	b.log.Debug("live text set (%d bytes)", len(text))
}

// HasLive reports whether an external payload is active.
func (b *Board) HasLive() bool { return b.hasLive }

// Mode returns the framing mode the board was built for.
func (b *Board) Mode() domain.Mode { return b.mode }

// Rotate ends the current display cycle: a fresh canned set is chosen
// (never the same one twice in a row) and the live flag is cleared so
// the next cycle returns to the canned rotation.
func (b *Board) Rotate(rng *rand.Rand) {
	b.book.Rotate(rng)
	b.live = ""
	b.hasLive = false
}
