package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/concurmeet/concurmeet/internal/core"
)

// Server accepts TCP connections and hands each one to the session
// lifecycle on its own goroutine. There is no admission limit and no
// registry of handler goroutines: cleanup is self-contained in the
// lifecycle's teardown.
type Server struct {
	addr      string
	lifecycle *core.Lifecycle
	log       *zerolog.Logger
}

// NewServer builds a TCP transport bound to addr.
func NewServer(addr string, lifecycle *core.Lifecycle, logger *zerolog.Logger) *Server {
	return &Server{addr: addr, lifecycle: lifecycle, log: logger}
}

// Run listens and serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info().Str("addr", s.addr).Msg("tcp transport listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("accept connection")
			continue
		}

		s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("connection accepted")
		go s.lifecycle.HandleConn(newLineConn(conn))
	}
}
