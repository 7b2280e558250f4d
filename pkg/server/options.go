package server

import (
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and lifecycle logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStaticFS serves fsys for every non-API path, falling back to
// index.html for unknown paths.
func WithStaticFS(fsys fs.FS) Option {
	return func(s *Server) {
		s.staticFS = fsys
	}
}

// WithStaticDir is WithStaticFS over a directory. A missing directory
// disables static serving.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		if dir == "" {
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			s.logger.Warn("static directory unavailable", slog.String("dir", dir))
			return
		}
		s.staticFS = os.DirFS(dir)
	}
}

// WithCORSOrigins sets the allowed origins. "*" allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithMetrics toggles the /metrics endpoint. Counters are kept either way.
func WithMetrics(enabled bool) Option {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// WithMetricsRegistry registers the server collectors on reg instead of a
// private registry.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.promRegistry = reg
	}
}

// WithSubmitHook forwards accepted submissions to hook.
func WithSubmitHook(hook SubmitHook) Option {
	return func(s *Server) {
		s.onSubmit = hook
	}
}
