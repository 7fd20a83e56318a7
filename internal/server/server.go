// Package server exposes the vocabulary admin API and the classification
// boundary over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/brandpulse/triage/internal/classify"
	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/syncer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the sync coordinator and classifier to HTTP handlers.
type Server struct {
	coordinator *syncer.Coordinator
	classifier  *classify.Classifier
	metrics     *Metrics
	registry    *prometheus.Registry
	mux         *http.ServeMux
}

// New builds the admin server. The returned server owns its own
// Prometheus registry.
func New(coordinator *syncer.Coordinator, classifier *classify.Classifier) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		coordinator: coordinator,
		classifier:  classifier,
		metrics:     NewMetrics(registry),
		registry:    registry,
		mux:         http.NewServeMux(),
	}
	s.routes()
	s.refreshGauges()
	return s
}

// Metrics returns the server's collectors so the coordinator's degraded
// hook can drive the gauge.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/keywords/all", s.handleAll)
	s.mux.HandleFunc("GET /api/keywords/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/keywords/stats", s.handleStats)
	s.mux.HandleFunc("POST /api/keywords/add", s.handleAdd)
	s.mux.HandleFunc("POST /api/keywords/update", s.handleUpdate)
	s.mux.HandleFunc("POST /api/keywords/delete", s.handleDelete)
	s.mux.HandleFunc("POST /api/keywords/move", s.handleMove)
	s.mux.HandleFunc("POST /api/keywords/resync", s.handleResync)
	s.mux.HandleFunc("POST /api/classify", s.handleClassify)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// Handler returns the instrumented root handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		s.metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, r.URL.Path, strconv.Itoa(rec.status),
		).Inc()
	})
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("admin server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down admin server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admin server failed: %w", err)
	}
}

// refreshGauges re-reads vocabulary stats into the term and degraded
// gauges.
func (s *Server) refreshGauges() {
	stats := s.coordinator.Stats()
	for cat, cs := range stats.PerCategory {
		s.metrics.VocabularyTerms.WithLabelValues(string(cat)).Set(float64(cs.Count))
	}
	if stats.Degraded {
		s.metrics.DegradedSync.Set(1)
	} else {
		s.metrics.DegradedSync.Set(0)
	}
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// statusForError maps the engine error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case common.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrDuplicateWord):
		return http.StatusConflict
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
