// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"songbot/songs"
)

// Metrics uses its own registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	InteractionsTotal  *prometheus.CounterVec
	PanicsTotal        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbot_resolutions_total",
				Help: "Links resolved through Odesli, by outcome",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "songbot_resolution_duration_seconds",
				Help:    "Time spent resolving and summarizing a single link",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		InteractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbot_interactions_total",
				Help: "Discord interactions handled, by command",
			},
			[]string{"command"},
		),
		PanicsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "songbot_command_panics_total",
				Help: "Commands that panicked and were recovered",
			},
		),
	}

	m.registry.MustRegister(
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.InteractionsTotal,
		m.PanicsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveResolution(outcome songs.Outcome, elapsed time.Duration) {
	m.ResolutionsTotal.WithLabelValues(string(outcome)).Inc()
	m.ResolutionDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveInteraction(command string) {
	m.InteractionsTotal.WithLabelValues(command).Inc()
}

func (m *Metrics) ObservePanic() {
	m.PanicsTotal.Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
