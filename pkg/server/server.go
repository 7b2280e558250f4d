// Package server hosts the form registry over HTTP: a small REST API to
// describe, validate and submit registered forms, an OpenAPI export, a
// Prometheus endpoint and a static single-page-app fallback.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formkit/internal/logging"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/registry"
)

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	maxBodyBytes             = 1 << 20
)

// SubmitHook receives every accepted submission. A returned error turns the
// response into a 500 and the submission is counted as failed.
type SubmitHook func(ctx context.Context, form, id string, payload model.Payload) error

// Server serves a form registry.
type Server struct {
	registry *registry.Registry
	logger   *slog.Logger

	staticFS        fs.FS
	corsOrigins     []string
	shutdownTimeout time.Duration
	metricsEnabled  bool
	promRegistry    *prometheus.Registry
	metrics         *metrics
	onSubmit        SubmitHook

	router chi.Router
}

// New builds a server around reg.
func New(reg *registry.Registry, opts ...Option) *Server {
	if reg == nil {
		reg = registry.New()
	}
	s := &Server{
		registry:        reg,
		logger:          logging.Nop(),
		corsOrigins:     []string{"*"},
		shutdownTimeout: defaultShutdownTimeout,
		metricsEnabled:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.promRegistry == nil {
		s.promRegistry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.promRegistry)

	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors(s.corsOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/openapi.json", s.handleOpenAPI)
		r.Route("/forms", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Get("/{name}", s.handleDescribe)
			r.Post("/{name}/validate", s.handleValidate)
			r.Post("/{name}/submit", s.handleSubmit)
		})
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	})

	if s.staticFS != nil {
		r.NotFound(spaHandler(s.staticFS))
	}
	return r
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = ":3000"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("server stopped with error", slog.Any("error", err))
		return err
	}
	s.logger.Info("shutdown completed")
	return nil
}
