// Package prometheus exposes Page Object statistics as Prometheus gauges.
package prometheus

import (
	"github.com/fwojciec/webpo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes metric names unless WithNamespace is given.
const DefaultNamespace = "webpo"

// Ensure Stats implements webpo.Stats at compile time.
var _ webpo.Stats = (*Stats)(nil)

// Stats records statistics in a gauge vector labelled by key.
type Stats struct {
	values *prometheus.GaugeVec
}

type config struct {
	namespace  string
	registerer prometheus.Registerer
}

// Option configures Stats.
type Option func(*config)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithRegisterer registers the gauge with reg instead of the default
// Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// NewStats creates Stats and registers its gauge vector.
// It panics if a collector with the same name is already registered.
func NewStats(opts ...Option) *Stats {
	c := config{
		namespace:  DefaultNamespace,
		registerer: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&c)
	}

	return &Stats{
		values: promauto.With(c.registerer).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: c.namespace,
				Name:      "page_stat",
				Help:      "Statistics recorded by Page Objects",
			},
			[]string{"key"},
		),
	}
}

// Set stores value under key.
func (s *Stats) Set(key string, value float64) {
	s.values.WithLabelValues(key).Set(value)
}

// Inc adds delta to the value stored under key.
func (s *Stats) Inc(key string, delta float64) {
	s.values.WithLabelValues(key).Add(delta)
}

// Collector returns the underlying collector.
func (s *Stats) Collector() prometheus.Collector {
	return s.values
}
