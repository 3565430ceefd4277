// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
)

type promRecorder struct {
	callTotal   *prom.CounterVec
	callSeconds *prom.HistogramVec
	stepTotal   *prom.CounterVec
	stepSeconds *prom.HistogramVec
	intents     *prom.CounterVec
}

func (p *promRecorder) ObserveCall(service, op string, success bool, seconds float64) {
	ok := strconv.FormatBool(success)
	p.callTotal.WithLabelValues(service, op, ok).Inc()
	p.callSeconds.WithLabelValues(service, op, ok).Observe(seconds)
}

func (p *promRecorder) ObserveStep(step string, success bool, seconds float64) {
	ok := strconv.FormatBool(success)
	p.stepTotal.WithLabelValues(step, ok).Inc()
	p.stepSeconds.WithLabelValues(step, ok).Observe(seconds)
}

func (p *promRecorder) IncIntent(intent string) {
	p.intents.WithLabelValues(intent).Inc()
}

// EnablePrometheus registers the paper-graph collectors with reg and makes
// them the default recorder.
func EnablePrometheus(reg prom.Registerer) error {
	p := &promRecorder{
		callTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "paper_graph",
			Name:      "external_calls_total",
			Help:      "Total number of calls to external services",
		}, []string{"service", "op", "success"}),
		callSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "paper_graph",
			Name:      "external_call_seconds",
			Help:      "External service call duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"service", "op", "success"}),
		stepTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "paper_graph",
			Name:      "workflow_steps_total",
			Help:      "Total number of workflow steps executed",
		}, []string{"step", "success"}),
		stepSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "paper_graph",
			Name:      "workflow_step_seconds",
			Help:      "Workflow step duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"step", "success"}),
		intents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "paper_graph",
			Name:      "intents_total",
			Help:      "Classified chat intents",
		}, []string{"intent"}),
	}

	for _, c := range []prom.Collector{p.callTotal, p.callSeconds, p.stepTotal, p.stepSeconds, p.intents} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	SetRecorder(p)
	return nil
}
