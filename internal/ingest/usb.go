package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

// LineReader ingests a byte stream — typically a USB serial device
// opened as a file — and publishes complete payloads to the sink.
type LineReader struct {
	r      io.Reader
	acc    *Accumulator
	frame  Framer
	sink   domain.Sink
	source string
	log    *logger.Logger
}

// NewLineReader creates a reader for one byte-stream source.
func NewLineReader(r io.Reader, mode domain.Mode, sink domain.Sink, source string, log *logger.Logger) *LineReader {
	return &LineReader{
		r:      r,
		acc:    NewAccumulator(AccumCapFor(mode)),
		frame:  FramerFor(mode),
		sink:   sink,
		source: source,
		log:    log,
	}
}

// Run reads until the stream ends or ctx is cancelled. Intended to be
// called as a goroutine; stream errors are logged and non-fatal to the
// rest of the system.
func (lr *LineReader) Run(ctx context.Context) {
	buf := make([]byte, 256)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := lr.r.Read(buf)
		if n > 0 {
			lr.acc.Write(buf[:n])
			lr.drain()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				lr.log.Warn("%s reader: %v", lr.source, err)
			}
			return
		}
	}
}

// drain publishes every complete payload currently buffered.
func (lr *LineReader) drain() {
	for {
		text, ok := lr.frame(lr.acc)
		if !ok {
			return
		}
		lr.log.Info("%s: payload received (%d bytes)", lr.source, len(text))
		lr.sink.Put(domain.Payload{Text: text, Source: lr.source})
	}
}
