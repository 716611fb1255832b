// Package server exposes the creative pipeline over HTTP.
//
// Routes:
//
//	GET  /health       liveness and build info
//	POST /generate     render every requested format
//	POST /debug/hero   draw the located hero box onto the source
//	POST /locate       hero detection in the detection-service wire format
//
// All bodies are JSON. Request-level failures answer
// {"error": {"code": ..., "message": ...}} with a status derived from the
// error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cyzmcl/Lunarian/pkg/config"
	"github.com/cyzmcl/Lunarian/pkg/pipeline"
)

const shutdownTimeout = 15 * time.Second

// Server serves the HTTP API for one pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    config.Server
	logger *log.Logger
	router chi.Router
}

// New creates a server. Zero config fields get defaults.
func New(runner *pipeline.Runner, cfg config.Server, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.MaxBodyMB <= 0 {
		cfg.MaxBodyMB = config.DefaultMaxBodyMB
	}
	if cfg.RequestTimeout.Duration <= 0 {
		cfg.RequestTimeout.Duration = config.DefaultRequestTimeout
	}
	s := &Server{runner: runner, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.CORSOrigins))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes()))
		r.Use(middleware.Timeout(s.cfg.RequestTimeout.Duration))

		r.Post("/generate", s.handleGenerate)
		r.Post("/debug/hero", s.handleDebugHero)
		r.Post("/locate", s.handleLocate)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}
