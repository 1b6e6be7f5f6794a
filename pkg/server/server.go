// Package server exposes the hierarchy builder over HTTP.
//
// # Endpoints
//
//	GET  /healthz                  liveness and build version
//	GET  /api/v1/tree              build from the configured source
//	POST /api/v1/tree              build from a document in the request body
//
// Both tree endpoints accept ?inactive=true to keep inactive positions and
// ?format= to pick the output (json by default; dot, svg, pdf, png and text
// return the rendered artifact). JSON responses carry the tree, the
// diagnostics and build statistics.
//
// Errors are returned as {"code": "...", "message": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/orgtree/pkg/pipeline"
	"github.com/matzehuels/orgtree/pkg/source"
)

// MaxBodyBytes bounds POSTed documents.
const MaxBodyBytes = 16 << 20

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server serves the tree API.
type Server struct {
	runner *pipeline.Runner
	loader source.Loader // nil disables GET /api/v1/tree
	logger *log.Logger
}

// New creates a server. loader may be nil when only POST is wanted.
func New(runner *pipeline.Runner, loader source.Loader, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, loader: loader, logger: logger}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tree", s.getTree)
		r.Post("/tree", s.postTree)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, s.logger, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
