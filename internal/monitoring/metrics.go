package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	AuditsTotal   *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	AuditDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		AuditsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pageaudit_audits_total",
			Help: "The total number of audits processed",
		}, nil),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pageaudit_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'fetch_failed', 'scoring_failed', 'db_save_failed'
		AuditDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pageaudit_audit_duration_seconds",
			Help:    "End-to-end audit processing time",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
}

func (m *Metrics) IncAuditsTotal() {
	m.AuditsTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveAuditDuration(d time.Duration) {
	m.AuditDuration.Observe(d.Seconds())
}
