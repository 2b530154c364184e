// Package server exposes the skilltree pipeline and interactive sessions
// over HTTP.
//
// # Routes
//
//	POST   /api/v1/layout                  records → layout JSON
//	POST   /api/v1/render                  records or layout → artifacts
//	POST   /api/v1/sessions                create a view session
//	GET    /api/v1/sessions/{id}           session state
//	GET    /api/v1/sessions/{id}/svg       session rendered at its viewport
//	POST   /api/v1/sessions/{id}/commands  wheel, pan, pinch, zoom, reset, center, fit
//	DELETE /api/v1/sessions/{id}
//	GET    /metrics                        Prometheus exposition
//	GET    /healthz
//
// Errors are JSON objects with the [errors.Code] of the failure and a user
// message; codes map to HTTP status in [StatusFor].
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/session"
)

// Defaults for the HTTP listener.
const (
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 8 << 20
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCleanupInterval = 10 * time.Minute
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaults sets the options every request starts from, typically
// loaded from a config file.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *Server) { s.gatherer = g } }

// WithMaxBodyBytes limits request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// Server handles HTTP requests. Build one with New and serve Handler.
type Server struct {
	runner   *pipeline.Runner
	sessions *session.Manager
	defaults pipeline.Options
	logger   *log.Logger
	gatherer prometheus.Gatherer
	maxBody  int64
}

// New creates a server over a pipeline runner and a session manager.
func New(runner *pipeline.Runner, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		sessions: sessions,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		gatherer: prometheus.DefaultGatherer,
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultRequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/svg", s.handleSessionSVG)
				r.Post("/commands", s.handleCommand)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background meanwhile.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.sessions.Run(cleanupCtx, DefaultCleanupInterval)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "store", s.sessions.Store().Name())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
