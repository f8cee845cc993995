// Package server exposes the interval index over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/internal/observability"
)

const (
	tracerName = "ivtree/server"

	defaultShutdownTimeout = 5 * time.Second
	serverIdleTimeout      = 120 * time.Second
)

// ErrNotReady is reported by the readiness check until an index is set.
var ErrNotReady = errors.New("index not loaded")

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Logger *slog.Logger
	Tracer trace.Tracer
	RED    *observability.REDMetrics

	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
}

// Server answers interval queries over HTTP. The index can be swapped
// while serving; requests see either the old or the new index.
type Server struct {
	opts    Options
	logger  *slog.Logger
	index   atomic.Pointer[index.Index]
	handler http.Handler

	httpServer *http.Server
	listener   net.Listener
}

// New creates a server for ix, which may be nil until SetIndex is called.
func New(ix *index.Index, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &Server{opts: opts, logger: opts.Logger}
	if ix != nil {
		srv.index.Store(ix)
	}

	srv.handler = observability.HTTPMiddleware(opts.Tracer, opts.Logger, opts.RED, srv.routes())

	return srv
}

// SetIndex replaces the served index.
func (s *Server) SetIndex(ix *index.Index) {
	s.index.Store(ix)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/intervals", s.handleIntervals)
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(s.ready))

	if s.opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}

	return mux
}

func (s *Server) ready(_ context.Context) error {
	if s.index.Load() == nil {
		return ErrNotReady
	}

	return nil
}

// Listen binds the configured address. Addr is valid afterwards.
func (s *Server) Listen(ctx context.Context) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  serverIdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.opts.Addr
	}

	return s.listener.Addr().String()
}

// Serve handles requests until ctx is canceled, then shuts down gracefully
// within the shutdown timeout. Listen is called first if needed.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		err := s.Listen(ctx)
		if err != nil {
			return err
		}
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	s.logger.InfoContext(ctx, "serving interval queries", "addr", s.Addr())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	s.logger.InfoContext(shutdownCtx, "shutting down", "timeout", s.opts.ShutdownTimeout)

	err := s.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
