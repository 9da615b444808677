package production

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/hsmx/internal/core"
)

// Metrics is an Observer exporting Prometheus metrics for evaluations and
// transitions.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// NewMetrics registers the collectors with registerer. A nil registerer means
// prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Metrics{
		Evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hsmx_evaluations_total",
				Help: "Total number of Evaluate calls by outcome",
			},
			[]string{"outcome"}, // outcome: ok, error
		),
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hsmx_transitions_total",
				Help: "Total number of fired transitions",
			},
			[]string{"from", "to"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hsmx_evaluation_duration_seconds",
				Help:    "Evaluate duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
}

// OnTransition counts a fired transition.
func (m *Metrics) OnTransition(_ context.Context, rec core.TransitionRecord) {
	m.Transitions.WithLabelValues(rec.From, rec.To).Inc()
}

// OnEvaluated counts the evaluation and observes its duration.
func (m *Metrics) OnEvaluated(_ context.Context, rec core.EvaluationRecord) {
	outcome := "ok"
	if rec.Failed() {
		outcome = "error"
	}
	m.Evaluations.WithLabelValues(outcome).Inc()
	m.Duration.Observe(rec.Duration.Seconds())
}
