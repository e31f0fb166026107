// Package metrics exposes Prometheus instrumentation for the payroll engine.
//
// Counters are registered against an explicit Registerer so tests and
// multiple companies in one process never collide on the default registry.
// Every method is safe to call on a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/warp/payroll-engine/payroll"
)

// Outcome labels for vacation requests.
const (
	OutcomeGranted  = "granted"
	OutcomeRejected = "rejected"
)

// Metrics provides observability for payments, vacation requests and
// configuration changes.
type Metrics struct {
	// Completed payments by compensation type
	Payments *prometheus.CounterVec

	// Total amount paid by compensation type
	AmountPaid *prometheus.CounterVec

	// Vacation requests by kind (take, payout) and outcome
	VacationRequests *prometheus.CounterVec

	// Vacation days granted by kind
	VacationDays *prometheus.CounterVec

	// Audit entries appended by kind
	AuditEntries *prometheus.CounterVec

	ConfigUpdates prometheus.Counter

	// Duration of a full payroll run
	PayrollRunLatency prometheus.Histogram
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Payments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_payments_total",
			Help: "Total completed payments by compensation type",
		}, []string{"type"}),

		AmountPaid: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_amount_paid_total",
			Help: "Total amount paid by compensation type",
		}, []string{"type"}),

		VacationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_vacation_requests_total",
			Help: "Vacation requests by kind and outcome",
		}, []string{"kind", "outcome"}), // kind: "take", "payout"

		VacationDays: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_vacation_days_total",
			Help: "Vacation days granted by kind",
		}, []string{"kind"}),

		AuditEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_audit_entries_total",
			Help: "Audit log entries appended by kind",
		}, []string{"kind"}),

		ConfigUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "payroll_config_updates_total",
			Help: "Accepted payroll configuration updates",
		}),

		PayrollRunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payroll_run_duration_seconds",
			Help:    "Duration of paying every employee in one run",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// RecordPayment records one completed payment. Negative amounts are
// counted as payments but not added to AmountPaid, since counters cannot
// decrease.
func (m *Metrics) RecordPayment(compType payroll.CompensationType, amount float64) {
	if m == nil {
		return
	}
	m.Payments.WithLabelValues(string(compType)).Inc()
	if amount > 0 {
		m.AmountPaid.WithLabelValues(string(compType)).Add(amount)
	}
}

// RecordVacation records the outcome of one vacation request.
func (m *Metrics) RecordVacation(payout bool, days int, granted bool) {
	if m == nil {
		return
	}
	kind := requestKind(payout)
	if granted {
		m.VacationRequests.WithLabelValues(kind, OutcomeGranted).Inc()
		m.VacationDays.WithLabelValues(kind).Add(float64(days))
		return
	}
	m.VacationRequests.WithLabelValues(kind, OutcomeRejected).Inc()
}

// IncrementConfigUpdates records an accepted configuration update.
func (m *Metrics) IncrementConfigUpdates() {
	if m != nil {
		m.ConfigUpdates.Inc()
	}
}

// ObservePayrollRun records the duration of a full payroll run.
func (m *Metrics) ObservePayrollRun(d time.Duration) {
	if m != nil {
		m.PayrollRunLatency.Observe(d.Seconds())
	}
}

// Observe counts audit entries. It satisfies payroll.Observer.
func (m *Metrics) Observe(e payroll.Entry) {
	if m != nil {
		m.AuditEntries.WithLabelValues(string(e.Kind)).Inc()
	}
}

func requestKind(payout bool) string {
	if payout {
		return "payout"
	}
	return "take"
}
