package ingest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

func TestStreamReassemblesChunks(t *testing.T) {
	sink := &recordSink{}
	s := NewStream(domain.ModeFlow, sink, "nus", logger.Nop())

	// A payload split across MTU-sized writes commits exactly once,
	// when the newline lands.
	s.Write([]byte("the fog rolls "))
	s.Write([]byte("in slowly"))
	if len(sink.got) != 0 {
		t.Fatal("committed before the newline arrived")
	}

	s.Write([]byte("\n"))
	if len(sink.got) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(sink.got))
	}
	if sink.got[0].Text != "the fog rolls in slowly\n" {
		t.Fatalf("payload = %q", sink.got[0].Text)
	}
	if sink.got[0].Source != "nus" {
		t.Fatalf("source = %q", sink.got[0].Source)
	}
}

func TestStreamFixedMode(t *testing.T) {
	sink := &recordSink{}
	s := NewStream(domain.ModeFixed, sink, "nus", logger.Nop())

	body := []byte("AAAAAAAAAA\nBBBBBBBBBB\nCCCCCCCCCC\nDDDDDDDDDD\nEEEEEEEEEE\nFFFFFFFFFF\n")
	for len(body) > 0 {
		n := min(WriteMTU, len(body))
		s.Write(body[:n])
		body = body[n:]
	}

	if len(sink.got) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(sink.got))
	}
	rows := strings.Split(sink.got[0].Text, "\n")
	if len(rows) != domain.FixedRows {
		t.Fatalf("committed %d rows, want %d", len(rows), domain.FixedRows)
	}
	if rows[0] != "AAAAAAAAAA" || rows[5] != "FFFFFFFFFF" {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestStreamHangupKeepsAccumulation(t *testing.T) {
	sink := &recordSink{}
	s := NewStream(domain.ModeFlow, sink, "nus", logger.Nop())

	restarted := false
	s.OnHangup(func() { restarted = true })

	s.Write([]byte("half a line"))
	s.Hangup()
	if !restarted {
		t.Fatal("hangup must invoke the advertising-restart hook")
	}

	// The reconnecting central finishes the line it started.
	s.Write([]byte(" finished\n"))
	if len(sink.got) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(sink.got))
	}
	if sink.got[0].Text != "half a line finished\n" {
		t.Fatalf("payload = %q", sink.got[0].Text)
	}
}

func TestLineReaderDrainsReader(t *testing.T) {
	sink := &recordSink{}
	r := bytes.NewReader([]byte("first line\nsecond line\n"))
	lr := NewLineReader(r, domain.ModeFlow, sink, "usb", logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	lr.Run(ctx)

	if len(sink.got) == 0 {
		t.Fatal("expected at least one payload")
	}
	last := sink.got[len(sink.got)-1]
	if !strings.Contains(last.Text, "second line") {
		t.Fatalf("last payload = %q", last.Text)
	}
	if last.Source != "usb" {
		t.Fatalf("source = %q", last.Source)
	}
}
