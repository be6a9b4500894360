package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	Sampled         prometheus.Counter
	BreakerDropped  prometheus.Counter
	BufferDropped   prometheus.Counter
	PersistFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with audit publisher metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "htb_audit_events_emitted_total",
			Help: "Total audit events persisted by category",
		}, []string{"category"}),
		Sampled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "htb_audit_events_sampled_total",
			Help: "Total operational audit events dropped by sampling",
		}),
		BreakerDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "htb_audit_events_breaker_dropped_total",
			Help: "Total audit events rejected while the store circuit was open",
		}),
		BufferDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "htb_audit_events_buffer_dropped_total",
			Help: "Total audit events dropped because the async buffer was full",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "htb_audit_persist_failures_total",
			Help: "Total audit event persistence failures",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "htb_audit_circuit_breaker_state",
			Help: "Audit store circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncEmitted(category string) {
	if m != nil {
		m.Emitted.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) IncSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) IncBreakerDropped() {
	if m != nil {
		m.BreakerDropped.Inc()
	}
}

func (m *Metrics) IncBufferDropped() {
	if m != nil {
		m.BufferDropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) SetBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
