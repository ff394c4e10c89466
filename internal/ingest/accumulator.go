// Package ingest turns raw bytes from USB, NUS, HTTP, and the console
// into complete text payloads for the board mailbox.
package ingest

import "bytes"

// Per-source accumulation caps. Crossing the cap discards the oldest
// half — on the device unbounded growth was fatal, so this is a
// correctness rule, not a tuning knob.
const (
	flowAccumCap  = 4096
	fixedAccumCap = 2048
)

// Accumulator buffers raw bytes from a single source.
type Accumulator struct {
	buf []byte
	cap int
}

// NewAccumulator creates an accumulator with the given byte cap.
func NewAccumulator(capBytes int) *Accumulator {
	return &Accumulator{cap: capBytes}
}

// Write appends incoming bytes, trimming to the newest half of the cap
// when the cap is exceeded.
func (a *Accumulator) Write(p []byte) {
	a.buf = append(a.buf, p...)
	if len(a.buf) > a.cap {
		keep := a.cap / 2
		a.buf = append(a.buf[:0], a.buf[len(a.buf)-keep:]...)
	}
}

// Len returns the number of buffered bytes.
func (a *Accumulator) Len() int { return len(a.buf) }

// String returns the buffered bytes as text.
func (a *Accumulator) String() string { return string(a.buf) }

// Drop removes the first n buffered bytes.
func (a *Accumulator) Drop(n int) {
	if n >= len(a.buf) {
		a.buf = a.buf[:0]
		return
	}
	a.buf = append(a.buf[:0], a.buf[n:]...)
}

// Reset empties the accumulator.
func (a *Accumulator) Reset() { a.buf = a.buf[:0] }

// indexNewline returns the offset of the first newline, or -1.
func (a *Accumulator) indexNewline() int {
	return bytes.IndexByte(a.buf, '\n')
}
