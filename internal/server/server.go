// Package server implements the TCP side of the AskGod protocol: an acceptor
// that spawns one session goroutine per connection, and the per-session
// command state machine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mcoot/askgod-go/internal/registry"
)

// Config holds configuration for the TCP server
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "",
		Port:            1234,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server accepts connections and runs one session per client. There is no
// pooling and no admission control: one goroutine per connection, unbounded,
// which matches the expected scale of tens of players.
type Server struct {
	registry *registry.Service
	logger   *slog.Logger
	config   Config

	mu       sync.Mutex
	listener net.Listener
	sessions sync.WaitGroup
}

// New creates a new TCP server
func New(reg *registry.Service, config Config, logger *slog.Logger) *Server {
	return &Server{
		registry: reg,
		logger:   logger.With(slog.String("component", "tcp")),
		config:   config,
	}
}

// Start binds the listening port and serves until Shutdown closes the
// listener. Failure to bind is the one unrecoverable startup fault.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("tcp server listening", slog.String("addr", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("accept failed", slog.String("error", err.Error()))
			continue
		}

		s.logger.Info("client connected", slog.String("remote", conn.RemoteAddr().String()))
		sess := newSession(conn, s.registry, s.logger)
		s.sessions.Add(1)
		go func() {
			defer s.sessions.Done()
			sess.run()
		}()
	}
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting and waits for live sessions to drain, up to the
// configured timeout. Sessions only end when their client disconnects; the
// timeout keeps shutdown bounded when clients linger.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down tcp server")

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		if err := listener.Close(); err != nil {
			return fmt.Errorf("close listener: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()

	timeout := s.config.ShutdownTimeout
	if timeout == 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	select {
	case <-done:
	case <-ctx.Done():
	case <-time.After(timeout):
		s.logger.Warn("shutdown timeout with sessions still live")
	}

	s.logger.Info("tcp server stopped")
	return nil
}
