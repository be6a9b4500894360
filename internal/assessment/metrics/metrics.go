package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the assessment module.
type Metrics struct {
	// Outcomes by eligibility and home type
	AssessmentOutcome *prometheus.CounterVec

	// Failed assessments by error kind
	AssessmentErrors *prometheus.CounterVec

	AssessLatency prometheus.Histogram

	CreditLatency *prometheus.HistogramVec

	// Awarded grants in euro
	GrantAmount prometheus.Histogram

	// Credit report cache lookups by result (hit, miss, error)
	CreditCache *prometheus.CounterVec

	StatusTransitions *prometheus.CounterVec
}

// New creates a new Metrics instance with all assessment metrics registered.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors on reg, so tests can use a
// private registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AssessmentOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "htb_assessment_outcomes_total",
			Help: "Total assessments by eligibility and home type",
		}, []string{"eligible", "home_type"}),

		AssessmentErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "htb_assessment_errors_total",
			Help: "Total failed assessments by error code",
		}, []string{"code"}),

		AssessLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "htb_assessment_duration_seconds",
			Help:    "Duration of a full assessment including the credit lookup",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		CreditLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "htb_credit_check_duration_seconds",
			Help:    "Duration of credit bureau lookups by outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"outcome"}),

		GrantAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "htb_grant_amount_euro",
			Help:    "Actual grant amounts awarded",
			Buckets: []float64{0, 5000, 10000, 15000, 20000, 25000, 30000},
		}),

		CreditCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "htb_credit_cache_lookups_total",
			Help: "Credit report cache lookups by result",
		}, []string{"result"}),

		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "htb_assessment_status_transitions_total",
			Help: "Assessment lifecycle transitions by target status",
		}, []string{"to"}),
	}
}

func (m *Metrics) IncrementOutcome(eligible bool, homeType string) {
	if m != nil {
		label := "false"
		if eligible {
			label = "true"
		}
		m.AssessmentOutcome.WithLabelValues(label, homeType).Inc()
	}
}

func (m *Metrics) IncrementError(code string) {
	if m != nil {
		m.AssessmentErrors.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) ObserveAssessLatency(d time.Duration) {
	if m != nil {
		m.AssessLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveCreditLatency(outcome string, d time.Duration) {
	if m != nil {
		m.CreditLatency.WithLabelValues(outcome).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveGrant(amount int64) {
	if m != nil {
		m.GrantAmount.Observe(float64(amount))
	}
}

func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CreditCache.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CreditCache.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) RecordCacheError() {
	if m != nil {
		m.CreditCache.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) IncrementTransition(to string) {
	m.AddTransitions(to, 1)
}

func (m *Metrics) AddTransitions(to string, n int) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(to).Add(float64(n))
	}
}
