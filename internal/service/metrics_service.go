package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService owns the bot's Prometheus collectors on a private
// registry so tests never trip over duplicate registration.
type MetricsService struct {
	registry *prometheus.Registry

	eventsTotal    *prometheus.CounterVec
	outcomesTotal  *prometheus.CounterVec
	handleDuration *prometheus.HistogramVec
}

// NewMetricsService builds and registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tatib_bot",
			Name:      "events_total",
			Help:      "Incoming conversation events by kind.",
		}, []string{"kind"}),
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tatib_bot",
			Name:      "flow_outcomes_total",
			Help:      "Completed flow outcomes by flow and result.",
		}, []string{"flow", "outcome"}),
		handleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tatib_bot",
			Name:      "handle_duration_seconds",
			Help:      "Time spent handling one conversation event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	registry.MustRegister(m.eventsTotal, m.outcomesTotal, m.handleDuration)

	return m
}

// Registry exposes the private registry for the HTTP metrics endpoint.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEvent counts one incoming event.
func (m *MetricsService) ObserveEvent(kind string, seconds float64) {
	m.eventsTotal.WithLabelValues(kind).Inc()
	m.handleDuration.WithLabelValues(kind).Observe(seconds)
}

// ObserveOutcome counts one finished flow.
func (m *MetricsService) ObserveOutcome(flow, outcome string) {
	m.outcomesTotal.WithLabelValues(flow, outcome).Inc()
}
