package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookkeeping"

// Metrics holds the ledger's Prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	AccountMutations  *prometheus.CounterVec
	EntriesSubmitted  prometheus.Counter
	EntriesReviewed   *prometheus.CounterVec
	AuditAppends      prometheus.Counter
	ReportDuration    *prometheus.HistogramVec
	OperationFailures *prometheus.CounterVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "mutations_total",
			Help:      "Account mutations by audit action.",
		}, []string{"action"}),
		EntriesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_submitted_total",
			Help:      "Journal entry groups submitted for approval.",
		}),
		EntriesReviewed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_reviewed_total",
			Help:      "Journal entry groups moved to a terminal status.",
		}, []string{"status"}),
		AuditAppends: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "appends_total",
			Help:      "Audit log entries written.",
		}),
		ReportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "duration_seconds",
			Help:      "Time spent generating reports and ratios.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
		OperationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "core",
			Name:      "operation_failures_total",
			Help:      "Failed operations by name.",
		}, []string{"operation"}),
	}
}

// NewRegistry returns a Metrics bound to a fresh registry.
func NewRegistry() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return New(reg), reg
}

// AccountMutated counts one account mutation.
func (m *Metrics) AccountMutated(action string) {
	if m == nil {
		return
	}
	m.AccountMutations.WithLabelValues(action).Inc()
}

// AccountsMutated counts n account mutations of one action, such as the
// postings of an approval.
func (m *Metrics) AccountsMutated(action string, n int) {
	if m == nil {
		return
	}
	m.AccountMutations.WithLabelValues(action).Add(float64(n))
}

// EntrySubmitted counts one submitted group.
func (m *Metrics) EntrySubmitted() {
	if m == nil {
		return
	}
	m.EntriesSubmitted.Inc()
}

// EntryReviewed counts one approved or rejected group.
func (m *Metrics) EntryReviewed(status string) {
	if m == nil {
		return
	}
	m.EntriesReviewed.WithLabelValues(status).Inc()
}

// AuditAppended counts committed audit entries.
func (m *Metrics) AuditAppended(n int) {
	if m == nil {
		return
	}
	m.AuditAppends.Add(float64(n))
}

// OperationFailed counts one failed operation.
func (m *Metrics) OperationFailed(operation string) {
	if m == nil {
		return
	}
	m.OperationFailures.WithLabelValues(operation).Inc()
}

// ObserveReport records how long report took since start.
func (m *Metrics) ObserveReport(report string, start time.Time) {
	if m == nil {
		return
	}
	m.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}
