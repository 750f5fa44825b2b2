// internal/metrics/ledger.go
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Phermidex/zenithCrypto/internal/util"
)

// Ledger records the outcome and latency of every ledger attempt.
// A nil *Ledger records nothing.
type Ledger struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	retries    *prometheus.CounterVec
}

// NewLedger creates the ledger collectors and registers them with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zenith_ledger_operations_total",
				Help: "Ledger attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zenith_ledger_operation_duration_seconds",
				Help:    "Duration of ledger attempts",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zenith_ledger_conflict_retries_total",
				Help: "Ledger attempts retried after a concurrent modification",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.operations, m.duration, m.retries)
	return m
}

// Observe records one finished attempt.
func (m *Ledger) Observe(kind string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(kind, Outcome(err)).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// Retried records a retry of a conflicted attempt.
func (m *Ledger) Retried(kind string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(kind).Inc()
}

// Outcome is the label value for an attempt's result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, util.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, util.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, util.ErrInvalidAsset):
		return "invalid_asset"
	case errors.Is(err, util.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, util.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, util.ErrStoreConflict):
		return "conflict"
	case errors.Is(err, util.ErrStoreUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
