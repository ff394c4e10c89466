package ingest

import (
	"sync"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

// WriteMTU is the largest chunk a central is expected to write in one
// go, mirroring the MTU the device negotiated over the air.
const WriteMTU = 185

// Stream is the inbound half of a NUS-style transport: the remote side
// writes MTU-sized chunks, and a payload is committed once a newline
// shows up anywhere in the accumulation. Write may be called from a
// transport callback goroutine, so the accumulator sits behind a lock
// instead of relying on callbacks landing on one task.
type Stream struct {
	mu       sync.Mutex
	acc      *Accumulator
	frame    Framer
	sink     domain.Sink
	source   string
	onHangup func()
	log      *logger.Logger
}

// NewStream creates the inbound stream for one connected central.
func NewStream(mode domain.Mode, sink domain.Sink, source string, log *logger.Logger) *Stream {
	return &Stream{
		acc:    NewAccumulator(AccumCapFor(mode)),
		frame:  FramerFor(mode),
		sink:   sink,
		source: source,
		log:    log,
	}
}

// OnHangup registers the advertising-restart hook invoked when the
// central disconnects.
func (s *Stream) OnHangup(fn func()) { s.onHangup = fn }

// Write accumulates one inbound chunk and commits any completed
// payload. Empty chunks are ignored.
func (s *Stream) Write(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.acc.Write(chunk)
	for {
		text, ok := s.frame(s.acc)
		if !ok {
			return
		}
		s.log.Info("%s: payload received (%d bytes)", s.source, len(text))
		s.sink.Put(domain.Payload{Text: text, Source: s.source})
	}
}

// Hangup signals that the central went away. The accumulator is kept —
// a reconnecting central may finish the line it started — and the
// advertising-restart hook runs so new pairings stay possible.
func (s *Stream) Hangup() {
	s.log.Info("%s: central disconnected", s.source)
	if s.onHangup != nil {
		s.onHangup()
	}
}
