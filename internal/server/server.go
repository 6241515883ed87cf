// Package server implements the optional HTTP endpoint exposing
// Prometheus metrics and a health probe during long archiving runs.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether the pipeline is still making progress.
type HealthChecker interface {
	IsHealthy() bool
	Status() map[string]string
}

// Server serves /metrics and /health on a single port.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New creates the HTTP server.
func New(port int, checker HealthChecker, registry *prometheus.Registry, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", healthHandler(checker, logger))

	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start starts serving in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("starting metrics server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.srv.Shutdown(ctx)
}

// healthResponse is the health probe response body.
type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func healthHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		statusCode := http.StatusOK
		if !checker.IsHealthy() {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}

		response := healthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checker.Status(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("failed to encode health response", "error", err)
		}
	}
}
