// Package server exposes the drawing pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/v1/schema
//	GET  /api/v1/template.xlsx
//	POST /api/v1/parameters/validate
//	POST /api/v1/parameters/import      (multipart field "file")
//	POST /api/v1/drawings/{format}      (JSON {"params": {...}, "options": {...}})
//	GET  /api/v1/drawings
//	GET  /api/v1/records/{id}
//
// Failures are answered with a JSON body {"code", "message", "violations"}
// and a status derived from the error code.
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

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

const (
	// DefaultMaxUploadBytes bounds request bodies and uploaded workbooks.
	DefaultMaxUploadBytes = 10 << 20

	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Runner executes drawing requests. Required.
	Runner *pipeline.Runner

	// Archive backs the drawing history routes; defaults to Runner.Archive.
	Archive archive.Store

	// Defaults seeds every drawing request before the body is applied.
	Defaults pipeline.Options

	// RateLimit is the sustained requests per second allowed per client
	// address on /api routes, with bursts of RateBurst. Zero disables it.
	RateLimit float64
	RateBurst int

	MaxUploadBytes int64
	Logger         *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	archive  archive.Store
	defaults pipeline.Options
	maxBytes int64
	limiter  *rateLimiter
	logger   *log.Logger
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Archive == nil {
		opts.Archive = opts.Runner.Archive
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		runner:   opts.Runner,
		archive:  opts.Archive,
		defaults: opts.Defaults,
		maxBytes: opts.MaxUploadBytes,
		logger:   opts.Logger,
	}
	if opts.RateLimit > 0 {
		s.limiter = newRateLimiter(opts.RateLimit, opts.RateBurst)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware)
		}
		r.Get("/schema", s.handleSchema)
		r.Get("/template.xlsx", s.handleTemplate)
		r.Post("/parameters/validate", s.handleValidate)
		r.Post("/parameters/import", s.handleImport)
		r.Post("/drawings/{format}", s.handleDrawing)
		r.Get("/drawings", s.handleListDrawings)
		r.Get("/records/{id}", s.handleGetRecord)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
