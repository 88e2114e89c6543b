package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdrpinto/astar-hanoi"
)

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace is the metrics namespace prefix.
	Namespace string `yaml:"namespace" validate:"omitempty,alphanumunicode"`

	// Path is the HTTP path the server exposes metrics on.
	Path string `yaml:"path" validate:"omitempty,startswith=/"`
}

// Metrics collects search metrics. It implements astar.Observer and is safe
// to share between concurrent searches.
type Metrics struct {
	searches    *prometheus.CounterVec
	expansions  prometheus.Counter
	pushes      prometheus.Counter
	stale       prometheus.Counter
	duration    *prometheus.HistogramVec
	maxFrontier prometheus.Gauge
	solution    prometheus.Histogram

	registry *prometheus.Registry
}

var _ astar.Observer = (*Metrics)(nil)

// NewMetrics registers the search metrics on a fresh registry. A disabled
// config yields a Metrics whose methods do nothing.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{}
	}
	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expansions_total",
			Help:      "Total number of expanded nodes",
		}),
		pushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frontier_pushes_total",
			Help:      "Total number of nodes pushed onto a frontier",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_pops_total",
			Help:      "Total number of frontier entries discarded because their state was closed",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of searches in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
			},
			[]string{"outcome"},
		),
		maxFrontier: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frontier_high_water",
			Help:      "Largest frontier size reached by the most recent search",
		}),
		solution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solution_length",
			Help:      "Number of actions in returned solutions",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	registry.MustRegister(
		m.searches,
		m.expansions,
		m.pushes,
		m.stale,
		m.duration,
		m.maxFrontier,
		m.solution,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) OnExpand(string, int, float64) {
	if m.expansions == nil {
		return
	}
	m.expansions.Inc()
}

func (m *Metrics) OnPush(string, float64) {
	if m.pushes == nil {
		return
	}
	m.pushes.Inc()
}

func (m *Metrics) OnStale(string) {
	if m.stale == nil {
		return
	}
	m.stale.Inc()
}

func (m *Metrics) OnFinish(outcome astar.Outcome, stats astar.Stats) {
	if m.searches == nil {
		return
	}
	m.searches.WithLabelValues(outcome.String()).Inc()
	m.duration.WithLabelValues(outcome.String()).Observe(stats.Duration.Seconds())
	m.maxFrontier.Set(float64(stats.MaxFrontier))
}

// RecordSolution records the length of a returned solution.
func (m *Metrics) RecordSolution(moves int) {
	if m.solution == nil {
		return
	}
	m.solution.Observe(float64(moves))
}

// Registry returns the underlying registry, nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
