package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	SlotsExtracted *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	RunDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "torscrape_runs_total",
			Help: "The total number of scrape runs",
		}, []string{"status"}), // 'success', 'failure'
		SlotsExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "torscrape_slots_extracted_total",
			Help: "The total number of price slots extracted",
		}, []string{"source"}), // 'network-json', 'dom'
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "torscrape_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g., 'scrape_failed', 'db_save_failed'
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "torscrape_run_duration_seconds",
			Help:    "Duration of scrape runs",
			Buckets: []float64{5, 15, 30, 60, 90, 120, 180},
		}),
	}
}

func (m *Metrics) IncRunsTotal(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncSlotsExtracted(source string) {
	m.SlotsExtracted.WithLabelValues(source).Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveRunDuration(d time.Duration) {
	m.RunDuration.Observe(d.Seconds())
}
