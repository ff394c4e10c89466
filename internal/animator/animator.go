// Package animator implements the display control loop: a six-state
// cycle driving the idle wait, dissolve, thinking pause, typewriter
// reveal, and the rotation to the next canned phrase.
package animator

import (
	"context"
	"math/rand"
	"time"

	"github.com/hkmoud/fogsign/internal/board"
	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
	"github.com/hkmoud/fogsign/internal/palette"
	"github.com/hkmoud/fogsign/internal/render"
)

// State is the animation phase. Exactly one is active at a time.
type State int

const (
	StateWaitIdle State = iota
	StateDissolving
	StatePostDissolvePause
	StateThinking
	StateTypewriter
	StateDone
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateWaitIdle:
		return "wait-idle"
	case StateDissolving:
		return "dissolving"
	case StatePostDissolvePause:
		return "post-dissolve-pause"
	case StateThinking:
		return "thinking"
	case StateTypewriter:
		return "typewriter"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Option configures the animator.
type Option func(*Animator)

// WithIdleWait sets how long a rendered text holds before dissolving.
func WithIdleWait(d time.Duration) Option {
	return func(a *Animator) { a.idleWait = d }
}

// WithDissolve sets the dissolve time budget.
func WithDissolve(d time.Duration) Option {
	return func(a *Animator) { a.dissolve = d }
}

// WithPauseHold sets the blank pause after the dissolve.
func WithPauseHold(d time.Duration) Option {
	return func(a *Animator) { a.pauseHold = d }
}

// WithThinkingHold sets how long the thinking caption shows.
func WithThinkingHold(d time.Duration) Option {
	return func(a *Animator) { a.thinkingHold = d }
}

// WithDoneHold sets the settle time after a full reveal.
func WithDoneHold(d time.Duration) Option {
	return func(a *Animator) { a.doneHold = d }
}

// WithCharDelay sets the minimum interval between typewriter reveals.
func WithCharDelay(d time.Duration) Option {
	return func(a *Animator) { a.charDelay = d }
}

// WithBlockSize sets the dissolve tile edge in pixels.
func WithBlockSize(n int) Option {
	return func(a *Animator) { a.blockSize = n }
}

// WithBrightness sets the brightness restored before each reveal.
func WithBrightness(level uint8) Option {
	return func(a *Animator) { a.brightness = level }
}

// Animator owns the display session: it is the only writer of the
// board and the only caller of the draw primitives, stepping once per
// scheduler tick with no blocking waits beyond the pacing sleeps.
type Animator struct {
	drv       domain.PanelDriver
	board     *board.Board
	mailbox   *board.Mailbox
	dissolver *render.Dissolver
	writer    *render.GradientWriter
	rng       *rand.Rand
	clock     domain.Clock
	log       *logger.Logger

	idleWait     time.Duration
	dissolve     time.Duration
	pauseHold    time.Duration
	thinkingHold time.Duration
	doneHold     time.Duration
	charDelay    time.Duration
	blockSize    int
	brightness   uint8

	state      State
	phaseStart time.Time
	reveal     int
	lastReveal time.Time
}

// New creates the animator. Defaults match the device firmware; the
// per-character delay is the flow-mode 30ms unless overridden.
func New(drv domain.PanelDriver, brd *board.Board, mbx *board.Mailbox, rng *rand.Rand, clock domain.Clock, log *logger.Logger, opts ...Option) *Animator {
	a := &Animator{
		drv:          drv,
		board:        brd,
		mailbox:      mbx,
		dissolver:    render.NewDissolver(drv, clock, rng, log),
		writer:       render.NewGradientWriter(drv),
		rng:          rng,
		clock:        clock,
		log:          log,
		idleWait:     60 * time.Second,
		dissolve:     1500 * time.Millisecond,
		pauseHold:    time.Second,
		thinkingHold: 10 * time.Second,
		doneHold:     2 * time.Second,
		charDelay:    30 * time.Millisecond,
		blockSize:    render.DefaultBlock,
		brightness:   120,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.phaseStart = clock.Now()
	return a
}

// State returns the active phase.
func (a *Animator) State() State { return a.state }

// ShowCurrent draws the active text in full with a fresh palette. Used
// at boot so the panel isn't blank during the first idle wait.
func (a *Animator) ShowCurrent() {
	pal, base := palette.Random(a.rng)
	a.writer.SetPalette(pal)
	a.writer.Draw(a.board.Active(), render.RevealAll)
	a.log.Debug("showing %q text, base color #%02x%02x%02x",
		sourceName(a.board), base.R, base.G, base.B)
}

// Tick advances the machine by one scheduler step. The pending-update
// mailbox is drained first: fresh content preempts any phase, including
// a reveal already in progress.
func (a *Animator) Tick() {
	now := a.clock.Now()

	if p, ok := a.mailbox.Take(); ok {
		a.board.SetLive(p.Text)
		a.log.Info("new content from %s, interrupting %s", p.Source, a.state)
		a.phaseStart = now
		a.state = StateDissolving
	}

	switch a.state {
	case StateWaitIdle:
		if now.Sub(a.phaseStart) >= a.idleWait {
			a.state = StateDissolving
		}

	case StateDissolving:
		a.log.Debug("state: dissolving")
		a.dissolver.Blocks(a.dissolve, a.blockSize)
		a.phaseStart = a.clock.Now()
		a.state = StatePostDissolvePause

	case StatePostDissolvePause:
		if now.Sub(a.phaseStart) >= a.pauseHold {
			a.phaseStart = now
			a.state = StateThinking
		}

	case StateThinking:
		render.DrawThinking(a.drv, now)
		if now.Sub(a.phaseStart) >= a.thinkingHold {
			a.drv.SetBrightness(a.brightness)
			a.drv.Clear()
			a.reveal = 0
			a.lastReveal = time.Time{}
			pal, _ := palette.Random(a.rng)
			a.writer.SetPalette(pal)
			a.state = StateTypewriter
		}

	case StateTypewriter:
		if now.Sub(a.lastReveal) < a.charDelay {
			return
		}
		a.lastReveal = now
		src := a.board.Active()
		if a.reveal < len(src) {
			a.writer.Draw(src, a.reveal+1)
			a.reveal++
		} else {
			a.phaseStart = now
			a.state = StateDone
		}

	case StateDone:
		if now.Sub(a.phaseStart) >= a.doneHold {
			a.board.Rotate(a.rng)
			a.phaseStart = now
			a.state = StateWaitIdle
		}
	}
}

// Run drives Tick on the cooperative schedule until ctx is cancelled.
func (a *Animator) Run(ctx context.Context) {
	a.log.Info("animation loop started (idle=%s, reveal=%s/char)", a.idleWait, a.charDelay)
	for {
		if ctx.Err() != nil {
			a.log.Info("animation loop stopped")
			return
		}
		a.Tick()
		a.clock.Sleep(a.yield())
	}
}

// yield returns the per-tick sleep: gentle redraw pacing while
// thinking, a short breath during the reveal, near-zero otherwise.
func (a *Animator) yield() time.Duration {
	switch a.state {
	case StateThinking:
		return 30 * time.Millisecond
	case StateTypewriter:
		return 10 * time.Millisecond
	default:
		return time.Millisecond
	}
}

func sourceName(b *board.Board) string {
	if b.HasLive() {
		return "live"
	}
	return "canned"
}
