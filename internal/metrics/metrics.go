// Package metrics defines the Prometheus instruments exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service instruments. A nil *Metrics is valid and records
// nothing, so components can be built without a registry in tests.
//
// Metrics:
//   - creative_validation_runs_total{tier} - pipeline runs by last executed tier
//   - creative_validation_score - histogram of overall compliance scores
//   - creative_model_calls_seconds{prompt,outcome} - model call latency
//   - creative_model_fallbacks_total{component} - model failures recovered locally
//   - creative_router_decisions_total{category,clarify} - classifier verdicts
//   - creative_workflow_runs_total{phase} - creative runs by final phase
//   - creative_hitl_decisions_total{outcome} - human review outcomes
type Metrics struct {
	ValidationRuns  *prometheus.CounterVec
	ValidationScore prometheus.Histogram
	ModelCalls      *prometheus.HistogramVec
	ModelFallbacks  *prometheus.CounterVec
	RouterDecisions *prometheus.CounterVec
	WorkflowRuns    *prometheus.CounterVec
	HITLDecisions   *prometheus.CounterVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ValidationRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creative_validation_runs_total",
			Help: "Validation pipeline runs by the last tier executed",
		}, []string{"tier"}),
		ValidationScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creative_validation_score",
			Help:    "Overall compliance score of validated designs",
			Buckets: []float64{0, 25, 50, 60, 70, 80, 90, 95, 100},
		}),
		ModelCalls: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "creative_model_calls_seconds",
			Help:    "Latency of generative model calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"prompt", "outcome"}),
		ModelFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creative_model_fallbacks_total",
			Help: "Model call failures recovered by a local fallback",
		}, []string{"component"}),
		RouterDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creative_router_decisions_total",
			Help: "Intent classifier decisions",
		}, []string{"category", "clarify"}),
		WorkflowRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creative_workflow_runs_total",
			Help: "Creative workflow runs by final phase",
		}, []string{"phase"}),
		HITLDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creative_hitl_decisions_total",
			Help: "Human review requests and outcomes",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ValidationRun(tier string, score float64) {
	if m == nil {
		return
	}
	m.ValidationRuns.WithLabelValues(tier).Inc()
	m.ValidationScore.Observe(score)
}

func (m *Metrics) ModelCall(prompt string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ModelCalls.WithLabelValues(prompt, outcome).Observe(took.Seconds())
}

func (m *Metrics) Fallback(component string) {
	if m == nil {
		return
	}
	m.ModelFallbacks.WithLabelValues(component).Inc()
}

func (m *Metrics) RouterDecision(category string, clarify bool) {
	if m == nil {
		return
	}
	label := "false"
	if clarify {
		label = "true"
	}
	m.RouterDecisions.WithLabelValues(category, label).Inc()
}

func (m *Metrics) WorkflowRun(phase string) {
	if m == nil {
		return
	}
	m.WorkflowRuns.WithLabelValues(phase).Inc()
}

func (m *Metrics) HITLDecision(outcome string) {
	if m == nil {
		return
	}
	m.HITLDecisions.WithLabelValues(outcome).Inc()
}
