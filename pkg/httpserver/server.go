package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/reservekit/pkg/logger"
)

const defaultShutdownTimeout = 5 * time.Second

// Server runs an http.Server until its context is cancelled, then shuts it
// down gracefully.
type Server struct {
	cfg       Config
	log       *slog.Logger
	onStart   []func(addr string)
	mu        sync.Mutex
	srv       *http.Server
	listening net.Addr
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStartHook registers fn to run once the listener is bound.
// It receives the resolved listen address.
func WithStartHook(fn func(addr string)) Option {
	return func(s *Server) {
		if fn != nil {
			s.onStart = append(s.onStart, fn)
		}
	}
}

func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("httpserver"))
	return s
}

// Run serves handler and blocks until ctx is done or the server fails.
// A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv = srv
	s.listening = ln.Addr()
	s.mu.Unlock()

	addr := ln.Addr().String()
	s.log.InfoContext(ctx, "http server started", slog.String("addr", addr))
	for _, fn := range s.onStart {
		fn(addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.ErrorContext(ctx, "http server shutdown failed", logger.Error(err))
		return errors.Join(ErrShutdown, err)
	}
	<-errCh
	s.log.InfoContext(ctx, "http server stopped")
	return nil
}

// Addr returns the bound address, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}
