package ingest

import (
	"context"
	"fmt"
	"net"

	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/logger"
)

// StreamServer hosts the NUS-style transport on a TCP listener: one
// central connects at a time and writes chunked text at the device.
// When the central drops, the server goes back to accepting — the
// hosted analogue of restarting advertising.
type StreamServer struct {
	addr string
	mode domain.Mode
	sink domain.Sink
	log  *logger.Logger
}

// NewStreamServer creates a server bound to addr once Run is called.
func NewStreamServer(addr string, mode domain.Mode, sink domain.Sink, log *logger.Logger) *StreamServer {
	return &StreamServer{addr: addr, mode: mode, sink: sink, log: log}
}

// Run listens and serves centrals until ctx is cancelled. A failed
// bind is returned to the caller, which treats it as a non-fatal
// transport bring-up failure.
func (s *StreamServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("nus listen: %w", err)
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info("nus: advertising on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("nus accept: %w", err)
		}
		s.serve(ctx, conn)
	}
}

// serve reads one central until it hangs up. Serving is deliberately
// sequential — the radio only ever had one central too.
func (s *StreamServer) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	s.log.Info("nus: central connected from %s", conn.RemoteAddr())
	st := NewStream(s.mode, s.sink, "nus", s.log)
	st.OnHangup(func() {
		s.log.Info("nus: advertising restarted")
	})

	buf := make([]byte, WriteMTU)
	for {
		if ctx.Err() != nil {
			st.Hangup()
			return
		}
		n, err := conn.Read(buf)
		if n > 0 {
			st.Write(buf[:n])
		}
		if err != nil {
			st.Hangup()
			return
		}
	}
}
