package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics records timings and failures for cart reconcile operations.
type ReconcileMetrics struct {
	duration     *prometheus.HistogramVec
	lockWait     *prometheus.HistogramVec
	failure      *prometheus.CounterVec
	compensation *prometheus.CounterVec
}

// NewReconcileMetrics registers the reconcile metrics on the provided registerer.
func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	if reg == nil {
		return &ReconcileMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_reconcile_duration_seconds",
		Help:    "Duration of cart reconcile operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	lockWait := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_lock_wait_seconds",
		Help:    "Time spent waiting for the cart lock in seconds.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_reconcile_failure",
		Help: "Failed cart reconcile operations.",
	}, []string{"operation", "code"})
	compensation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_compensation_failure",
		Help: "Rollback steps that could not be undone.",
	}, []string{"operation"})
	reg.MustRegister(duration, lockWait, failure, compensation)
	return &ReconcileMetrics{
		duration:     duration,
		lockWait:     lockWait,
		failure:      failure,
		compensation: compensation,
	}
}

// ObserveDuration records the total duration for the named operation.
func (r *ReconcileMetrics) ObserveDuration(operation string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// ObserveLockWait records how long the operation waited for the cart lock.
func (r *ReconcileMetrics) ObserveLockWait(operation string, wait time.Duration) {
	if r == nil || r.lockWait == nil {
		return
	}
	r.lockWait.WithLabelValues(normalizeLabel(operation)).Observe(wait.Seconds())
}

// IncFailure increments the failure counter for the operation and error code.
func (r *ReconcileMetrics) IncFailure(operation, code string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// IncCompensationFailure increments the counter for rollback steps that failed.
func (r *ReconcileMetrics) IncCompensationFailure(operation string) {
	if r == nil || r.compensation == nil {
		return
	}
	r.compensation.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
