package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger write and read paths.
// All methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	// Posting outcomes by product type
	PostingOutcome *prometheus.CounterVec

	// Posting commit latency
	PostingLatency prometheus.Histogram

	// Report generation latency by report kind
	ReportLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		PostingOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amanah_ledger_postings_total",
			Help: "Total posting attempts by product type and outcome",
		}, []string{"product_type", "outcome"}), // outcome: "posted", "duplicate", "rejected"

		PostingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "amanah_ledger_posting_duration_seconds",
			Help:    "Duration of posting commits including validation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		ReportLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amanah_ledger_report_duration_seconds",
			Help:    "Duration of report generation by report kind",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"report"}),
	}
}

// IncrementPosting records one posting attempt outcome.
func (m *Metrics) IncrementPosting(productType, outcome string) {
	if m != nil {
		m.PostingOutcome.WithLabelValues(productType, outcome).Inc()
	}
}

// ObservePosting records the duration of a posting attempt.
func (m *Metrics) ObservePosting(d time.Duration) {
	if m != nil {
		m.PostingLatency.Observe(d.Seconds())
	}
}

// ObserveReport records the duration of generating one report.
func (m *Metrics) ObserveReport(report string, d time.Duration) {
	if m != nil {
		m.ReportLatency.WithLabelValues(report).Observe(d.Seconds())
	}
}
