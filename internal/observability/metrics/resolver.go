package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

// ResolverMetrics records the image cascade. It satisfies
// ports.ResolutionRecorder.
type ResolverMetrics struct {
	service string

	stageTotal      *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	resolvedTotal   *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	breakerState    *prometheus.GaugeVec
}

func NewResolverMetrics(service string, registerer prometheus.Registerer) *ResolverMetrics {
	stageTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "stage_outcomes_total",
			Help:      "Provider stage outcomes by provider and kind.",
		},
		[]string{"service", "provider", "outcome"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "stage_duration_seconds",
			Help:      "Provider stage duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"service", "provider"},
	)
	resolvedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Resolved images by source.",
		},
		[]string{"service", "source", "fallback"},
	)
	resolveDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolution_duration_seconds",
			Help:      "End-to-end image resolution duration in seconds.",
			Buckets:   []float64{0.01, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"service"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per operation (0 closed, 1 half-open, 2 open).",
		},
		[]string{"service", "operation"},
	)

	if registerer != nil {
		registerer.MustRegister(stageTotal, stageDuration, resolvedTotal, resolveDuration, breakerState)
	}

	return &ResolverMetrics{
		service:         service,
		stageTotal:      stageTotal,
		stageDuration:   stageDuration,
		resolvedTotal:   resolvedTotal,
		resolveDuration: resolveDuration,
		breakerState:    breakerState,
	}
}

func (m *ResolverMetrics) RecordStage(provider string, outcome domain.OutcomeKind, seconds float64) {
	if provider == "" {
		provider = "unknown"
	}
	m.stageTotal.WithLabelValues(m.service, provider, outcome.String()).Inc()
	m.stageDuration.WithLabelValues(m.service, provider).Observe(seconds)
}

func (m *ResolverMetrics) RecordResolution(source domain.ImageSource, seconds float64) {
	m.resolvedTotal.WithLabelValues(m.service, string(source), boolLabel(source.IsFallback())).Inc()
	m.resolveDuration.WithLabelValues(m.service).Observe(seconds)
}

// ObserveBreakerState matches resilience.StateObserver.
func (m *ResolverMetrics) ObserveBreakerState(operation string, _ gobreaker.State, to gobreaker.State) {
	var value float64
	switch to {
	case gobreaker.StateHalfOpen:
		value = 1
	case gobreaker.StateOpen:
		value = 2
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
