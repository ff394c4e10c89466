package animator

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/hkmoud/fogsign/internal/board"
	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/ingest"
	"github.com/hkmoud/fogsign/internal/logger"
	"github.com/hkmoud/fogsign/internal/panel"
	"github.com/hkmoud/fogsign/internal/phrases"
)

// fakeClock advances only when slept on or explicitly moved, so a whole
// display cycle runs in microseconds of real time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Sleep(d time.Duration)   { c.now = c.now.Add(d) }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	anim  *Animator
	brd   *board.Board
	mbx   *board.Mailbox
	fb    *panel.Framebuffer
	clock *fakeClock
	rng   *rand.Rand
}

func newFixture(t *testing.T, mode domain.Mode, opts ...Option) *fixture {
	t.Helper()
	log := logger.Nop()
	rng := rand.New(rand.NewSource(99))
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}

	book := phrases.NewBook(log, rng)
	brd := board.New(mode, book, log)
	mbx := board.NewMailbox()

	w := 64
	if mode == domain.ModeFlow {
		w = 128
	}
	fb := panel.NewFramebuffer(w, 64)

	anim := New(fb, brd, mbx, rng, clock, log, opts...)
	return &fixture{anim: anim, brd: brd, mbx: mbx, fb: fb, clock: clock, rng: rng}
}

// stepTo ticks with the clock advancing per step until the target state
// is reached.
func (f *fixture) stepTo(t *testing.T, target State, step time.Duration) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if f.anim.State() == target {
			return
		}
		f.clock.Advance(step)
		f.anim.Tick()
	}
	t.Fatalf("never reached %s, stuck in %s", target, f.anim.State())
}

func TestIdleTimeoutStartsCycle(t *testing.T) {
	f := newFixture(t, domain.ModeFlow)

	// Well inside the hold the machine stays put.
	f.clock.Advance(59 * time.Second)
	f.anim.Tick()
	if f.anim.State() != StateWaitIdle {
		t.Fatalf("state = %s before the idle wait elapsed", f.anim.State())
	}

	f.clock.Advance(2 * time.Second)
	f.anim.Tick()
	if f.anim.State() != StateDissolving {
		t.Fatalf("state = %s, want dissolving after 60s", f.anim.State())
	}

	// The dissolve runs to completion within one tick, paced by the
	// injected clock.
	f.anim.Tick()
	if f.anim.State() != StatePostDissolvePause {
		t.Fatalf("state = %s after the dissolve tick", f.anim.State())
	}
}

func TestFullCycleRotatesPhrase(t *testing.T) {
	f := newFixture(t, domain.ModeFlow)
	before := f.brd.Active()

	f.stepTo(t, StateDissolving, time.Second)
	f.stepTo(t, StatePostDissolvePause, time.Millisecond)
	f.stepTo(t, StateThinking, 100*time.Millisecond)
	f.stepTo(t, StateTypewriter, 500*time.Millisecond)
	f.stepTo(t, StateDone, 30*time.Millisecond)
	f.stepTo(t, StateWaitIdle, 500*time.Millisecond)

	if f.brd.Active() == before {
		t.Fatal("completed cycle must rotate to a different canned set")
	}
	if f.brd.HasLive() {
		t.Fatal("canned cycle must not raise the live flag")
	}
}

func TestNewContentPreemptsAnyState(t *testing.T) {
	// From idle: the payload interrupts the hold immediately.
	f := newFixture(t, domain.ModeFlow)
	f.clock.Advance(5 * time.Second)
	f.mbx.Put(domain.Payload{Text: "breaking news", Source: "http"})
	f.anim.Tick()

	// The preempting tick consumes the payload, dissolves, and lands
	// in the pause.
	if f.anim.State() != StatePostDissolvePause {
		t.Fatalf("state = %s after preemption", f.anim.State())
	}
	if !f.brd.HasLive() || f.brd.Active() != "breaking news" {
		t.Fatalf("board not updated: live=%v active=%q", f.brd.HasLive(), f.brd.Active())
	}
}

func TestNewContentPreemptsReveal(t *testing.T) {
	f := newFixture(t, domain.ModeFlow)
	f.stepTo(t, StateTypewriter, time.Second)

	// Partially reveal, then interrupt.
	for i := 0; i < 5; i++ {
		f.clock.Advance(30 * time.Millisecond)
		f.anim.Tick()
	}
	f.mbx.Put(domain.Payload{Text: "newer text", Source: "nus"})
	f.clock.Advance(time.Millisecond)
	f.anim.Tick()
	if f.anim.State() != StatePostDissolvePause {
		t.Fatalf("state = %s, reveal must restart through a dissolve", f.anim.State())
	}
	if f.brd.Active() != "newer text" {
		t.Fatalf("active = %q", f.brd.Active())
	}

	// The interrupted reveal starts over for the new payload.
	f.stepTo(t, StateTypewriter, 100*time.Millisecond)
	f.stepTo(t, StateDone, 30*time.Millisecond)
	if !f.brd.HasLive() {
		t.Fatal("live flag must survive until the cycle completes")
	}

	f.stepTo(t, StateWaitIdle, 500*time.Millisecond)
	if f.brd.HasLive() {
		t.Fatal("live flag must clear once the cycle completes")
	}
}

// TestLegacyIngestCycle drives the fixed-mode pipeline end to end: a
// six-line payload arrives in MTU-sized chunks, preempts the idle hold,
// and is revealed and then retired back to the canned rotation.
func TestLegacyIngestCycle(t *testing.T) {
	f := newFixture(t, domain.ModeFixed, WithCharDelay(70*time.Millisecond))

	stream := ingest.NewStream(domain.ModeFixed, f.mbx, "nus", logger.Nop())
	body := []byte("AAAAAAAAAA\nBBBBBBBBBB\nCCCCCCCCCC\nDDDDDDDDDD\nEEEEEEEEEE\nFFFFFFFFFF\n")
	for len(body) > 0 {
		n := min(ingest.WriteMTU, len(body))
		stream.Write(body[:n])
		body = body[n:]
	}
	if !f.mbx.Pending() {
		t.Fatal("payload never reached the mailbox")
	}

	f.anim.Tick()
	if f.anim.State() != StatePostDissolvePause {
		t.Fatalf("state = %s after ingest", f.anim.State())
	}
	rows := strings.Split(f.brd.Active(), "\n")
	if len(rows) != domain.FixedRows {
		t.Fatalf("active text has %d rows", len(rows))
	}
	for i, row := range rows {
		if len(row) != domain.FixedCols {
			t.Fatalf("row %d is %d chars", i, len(row))
		}
	}
	if rows[0] != "AAAAAAAAAA" || rows[5] != "FFFFFFFFFF" {
		t.Fatalf("rows = %q", rows)
	}

	f.stepTo(t, StateThinking, 100*time.Millisecond)
	f.stepTo(t, StateTypewriter, 500*time.Millisecond)
	f.stepTo(t, StateDone, 70*time.Millisecond)
	f.stepTo(t, StateWaitIdle, 500*time.Millisecond)

	if f.brd.HasLive() {
		t.Fatal("live flag must clear after the reveal cycle")
	}
	if strings.Contains(f.brd.Active(), "AAAAAAAAAA") {
		t.Fatal("retired payload must not remain active")
	}
}

func TestTypewriterPacing(t *testing.T) {
	f := newFixture(t, domain.ModeFlow)
	f.mbx.Put(domain.Payload{Text: "abcdef\n", Source: "usb"})
	f.anim.Tick()
	f.stepTo(t, StateTypewriter, time.Second)

	// Ticks faster than the per-character delay reveal nothing new.
	f.clock.Advance(70 * time.Millisecond)
	f.anim.Tick()
	start := f.anim.reveal
	for i := 0; i < 10; i++ {
		f.clock.Advance(time.Millisecond)
		f.anim.Tick()
	}
	if f.anim.reveal != start {
		t.Fatalf("revealed %d chars in 10ms, want 0", f.anim.reveal-start)
	}

	f.clock.Advance(30 * time.Millisecond)
	f.anim.Tick()
	if f.anim.reveal != start+1 {
		t.Fatalf("reveal = %d after the delay elapsed, want %d", f.anim.reveal, start+1)
	}
}

func TestShowCurrentPaintsPanel(t *testing.T) {
	f := newFixture(t, domain.ModeFlow)
	f.anim.ShowCurrent()

	lit := 0
	for _, c := range f.fb.Snapshot() {
		if c != panel.Off {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("boot draw left the panel blank")
	}
}
