// Package metrics provides the HTTP server that exposes the exporter's
// Prometheus registry to scrapers.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/ganesha-exporter/internal/logger"
)

// DefaultPort is the port scrapes are served on unless overridden.
const DefaultPort = 8080

// DefaultPath is the metrics exposition path.
const DefaultPath = "/metrics"

// ServerConfig configures the scrape HTTP server.
type ServerConfig struct {
	// Port to listen on. Default: 8080.
	Port int

	// Path the exposition format is served at. Default: /metrics.
	Path string

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration
}

func (c *ServerConfig) applyDefaults() {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Server serves a Prometheus registry over HTTP.
//
// Every inbound scrape drives a full collect cycle across the registered
// collectors; a collector error surfaces as an HTTP error so the scraper
// can tell a broken exporter from a daemon reporting zeros.
type Server struct {
	server          *http.Server
	port            int
	path            string
	shutdownTimeout time.Duration
	shutdownOnce    sync.Once
}

// NewServer creates the scrape server for the given registry. The server
// is created stopped; call Start to begin serving.
func NewServer(cfg ServerConfig, reg *prometheus.Registry) *Server {
	cfg.applyDefaults()

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog: promhttpLogger{},
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "NFS-Ganesha exporter\n\nMetrics are served at %s\n", cfg.Path)
	})

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		port:            cfg.Port,
		path:            cfg.Path,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves scrapes until the context is cancelled, then shuts down
// gracefully. Returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Serving metrics on port %d at %s", s.port, s.path)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("metrics server failed: %w", err)
	}
}

// Stop shuts the server down gracefully. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("metrics server shutdown error: %w", err)
		} else {
			logger.Info("Metrics server stopped")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.port
}

// promhttpLogger routes promhttp's error lines into the exporter's logger.
type promhttpLogger struct{}

func (promhttpLogger) Println(v ...any) {
	logger.Error("Scrape error: %s", fmt.Sprintln(v...))
}
