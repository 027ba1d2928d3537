package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/resources"
)

// MetricsServer exposes Prometheus metrics and a health check over HTTP.
type MetricsServer struct {
	srv    *http.Server
	logger *logrus.Logger
}

// NewMetricsServer creates a metrics server listening on addr.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, catalog resources.StatsProvider, logger *logrus.Logger) *MetricsServer {
	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           metricsHandler(gatherer, catalog),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func metricsHandler(gatherer prometheus.Gatherer, catalog resources.StatsProvider) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "healthy",
			"catalog": catalog.Stats(),
		})
	})

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

// Start listens until Shutdown is called.
func (s *MetricsServer) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr": s.srv.Addr,
	}).Info("Starting HTTP server for metrics and health")

	return s.srv.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
