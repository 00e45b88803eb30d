package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: status
	FetchFailures    prometheus.Counter
	AnalysisDuration prometheus.Histogram
	LastScore        *prometheus.GaugeVec // labels: symbol

	registry *prometheus.Registry
}

// New registers and returns all pipeline metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsignal_analyses_total",
			Help: "Total analysis runs by outcome",
		}, []string{"status"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsignal_fetch_failures_total",
			Help: "Total market data fetch failures",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendsignal_analysis_duration_seconds",
			Help:    "End-to-end analysis duration",
			Buckets: prometheus.DefBuckets,
		}),
		LastScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trendsignal_last_score_total",
			Help: "Most recent total score per symbol",
		}, []string{"symbol"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.FetchFailures,
		m.AnalysisDuration,
		m.LastScore,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server returns a standalone /metrics server for processes that have
// no API listener of their own, like the scheduler.
func (m *Metrics) Server(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
