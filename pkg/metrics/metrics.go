// Package metrics collects usage metrics about protocol operations.
//
// Collection is opt-in: core operations call the Usage hooks only when a
// collector was injected.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Usage times protocol operations and counts their failures.
type Usage struct {
	durations *prometheus.HistogramVec
	failures  *prometheus.CounterVec
	_         struct{}
}

// Option configures the usage collector
type Option func(*settings)

type settings struct {
	namespace  string
	registerer prometheus.Registerer
}

// WithNamespace prefixes the exported metric names
func WithNamespace(namespace string) Option {
	return func(s *settings) {
		if namespace != "" {
			s.namespace = namespace
		}
	}
}

// WithRegisterer registers the collectors on some registry other than the
// prometheus default, e.g. a throwaway registry in tests
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(s *settings) {
		if registerer != nil {
			s.registerer = registerer
		}
	}
}

// NewUsage builds and registers the usage collectors
func NewUsage(opts ...Option) *Usage {
	s := settings{
		namespace:  "geomon",
		registerer: prometheus.DefaultRegisterer,
	}
	for _, apply := range opts {
		apply(&s)
	}

	u := &Usage{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: s.namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of branch-versioning protocol operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: s.namespace,
			Name:      "operation_failures_total",
			Help:      "Failed branch-versioning protocol operations",
		}, []string{"operation"}),
	}
	s.registerer.MustRegister(u.durations, u.failures)
	return u
}

// UsedAll returns a completion hook timing the operation since t0 and
// recording its failure, if any.
//
// Usage:
//
//	defer func(t0 time.Time) { m.UsedAll(t0, "Reconcile")(err) }(time.Now())
func (u *Usage) UsedAll(t0 time.Time, operation string) func(error) {
	return func(err error) {
		u.durations.WithLabelValues(operation).Observe(time.Since(t0).Seconds())
		if err != nil {
			u.failures.WithLabelValues(operation).Inc()
		}
	}
}
