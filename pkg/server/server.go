// Package server exposes the compaction and rendering pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz                    liveness check
//	POST   /v1/compact                 compact a posted document
//	POST   /v1/graphs                  store a document
//	GET    /v1/graphs                  list stored documents
//	GET    /v1/graphs/{id}             fetch a stored document
//	DELETE /v1/graphs/{id}             delete a stored document
//	GET    /v1/graphs/{id}/compact     compact a stored document
//	GET    /v1/graphs/{id}/render      render a stored document
//
// Documents are JSON unless the request carries Content-Type
// application/toml. The compaction and render endpoints accept a group query
// parameter selecting a nested container. Errors are returned as JSON bodies
// of the form {"code": "...", "error": "..."}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodegraph/pkg/pipeline"
	"github.com/matzehuels/nodegraph/pkg/store"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 8 << 20

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server backed by runner and st.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/compact", s.handleCompact)

		r.Route("/graphs", func(r chi.Router) {
			r.Post("/", s.handleSaveGraph)
			r.Get("/", s.handleListGraphs)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGraph)
				r.Delete("/", s.handleDeleteGraph)
				r.Get("/compact", s.handleCompactGraph)
				r.Get("/render", s.handleRenderGraph)
			})
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
