// Package server serves a live preview of the generated documentation page.
// Every request to the page runs a full generation.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/generator"
	"git.home.luguber.info/inful/codex/internal/logfields"
	"git.home.luguber.info/inful/codex/internal/metrics"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Generator produces the page for a request.
type Generator interface {
	Generate(ctx context.Context, opts generator.Options) (*generator.Result, error)
}

// Config configures a Server.
type Config struct {
	Options generator.Options
	// Registry backs /metrics; nil serves the default Prometheus gatherer.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	gen       Generator
	opts      generator.Options
	registry  *prom.Registry
	logger    *slog.Logger
	adapter   *ferrors.HTTPErrorAdapter
	startTime time.Time
}

// New returns a Server that renders pages with gen.
func New(gen Generator, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		gen:       gen,
		opts:      cfg.Options,
		registry:  cfg.Registry,
		logger:    logger,
		adapter:   ferrors.NewHTTPErrorAdapter(logger),
		startTime: time.Now(),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger, s.adapter))

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.registry))
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "listen").
			WithContext("addr", addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "serve").Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down preview server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "shutdown").Build()
	}
	return nil
}
