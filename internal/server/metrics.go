package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the admin server.
type Metrics struct {
	ClassificationsTotal *prometheus.CounterVec
	ClassifyConfidence   prometheus.Histogram
	MutationsTotal       *prometheus.CounterVec
	DegradedSync         prometheus.Gauge
	VocabularyTerms      *prometheus.GaugeVec
	HTTPRequestsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the server's collectors on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClassificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_classifications_total",
				Help: "Total classifications served, by resulting category.",
			},
			[]string{"category"},
		),
		ClassifyConfidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "triage_classification_confidence",
				Help:    "Confidence distribution of served classifications.",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_vocabulary_mutations_total",
				Help: "Total vocabulary mutations, by operation and outcome.",
			},
			[]string{"op", "status"},
		),
		DegradedSync: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "triage_degraded_sync",
				Help: "1 while the generated mirror is out of step with the durable store.",
			},
		),
		VocabularyTerms: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "triage_vocabulary_terms",
				Help: "Current number of vocabulary terms, by category.",
			},
			[]string{"category"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_http_requests_total",
				Help: "Total HTTP requests, by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
	}
}
