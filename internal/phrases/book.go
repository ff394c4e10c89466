// Package phrases holds the built-in rotating phrase sets shown when no
// live text has arrived.
package phrases

import (
	"math/rand"
	"strings"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

// Each set is six rows of exactly ten characters so the legacy fixed
// layout fills the panel edge to edge.
var sets = [][domain.FixedRows]string{
	{
		"Life is   ",
		"mostly fog",
		"and echoes",
		"of old tea",
		"cooling so",
		"again hmm.",
	},
	{
		"Truth: meh",
		"we nod now",
		"meaning is",
		"soft so so",
		"for a bit.",
		"then naps.",
	},
	{
		"Time hums.",
		"like a fan",
		"in a small",
		"we call it",
		"and stays.",
		"same as me",
	},
	{
		"Hope shows",
		"then hides",
		"we shrug a",
		"little bit",
		"and sip we",
		"again sure",
	},
	{
		"Meaning is",
		"just a map",
		"of places ",
		"we drew on",
		"in the fog",
		"last night",
	},
	{
		"Mind drift",
		"over pools",
		"of bright ",
		"dot we map",
		"then a nap",
		"by morning",
	},
}

// Book selects among the canned phrase sets and remembers the active
// index so consecutive rotations never repeat.
type Book struct {
	log *logger.Logger
	cur int
}

// NewBook creates a phrase book with a random starting set.
func NewBook(log *logger.Logger, rng *rand.Rand) *Book {
	b := &Book{log: log, cur: rng.Intn(len(sets))}
	log.Debug("phrase book: %d sets, starting at %d", len(sets), b.cur)
	return b
}

// Count returns the number of canned sets.
func (b *Book) Count() int { return len(sets) }

// Index returns the active set index.
func (b *Book) Index() int { return b.cur }

// FixedText returns the active set as six newline-delimited rows of ten
// characters, the shape the legacy renderer expects.
func (b *Book) FixedText() string {
	return strings.Join(sets[b.cur][:], "\n")
}

// FlowText returns the active set flattened into one space-joined
// sentence, re-wrapped by the renderer at display time.
func (b *Book) FlowText() string {
	return strings.Join(sets[b.cur][:], " ")
}

// Rotate picks a new set, never the one currently active (when more
// than one exists), and returns the new index.
func (b *Book) Rotate(rng *rand.Rand) int {
	if len(sets) > 1 {
		prev := b.cur
		for b.cur == prev {
			b.cur = rng.Intn(len(sets))
		}
	}
	b.log.Debug("rotated to phrase set %d", b.cur)
	return b.cur
}
