// Package metrics counts mixin applications with Prometheus collectors kept
// in a private registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"remixin/mixin"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Collector records mixin applications. It implements mixin.Observer.
type Collector struct {
	registry *prometheus.Registry

	applications *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     prometheus.Histogram
}

var _ mixin.Observer = (*Collector)(nil)

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "remixin"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.applications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_total",
			Help:      "Total number of top-level mixin applications",
		},
		[]string{"result"},
	)

	c.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Total number of failed mixin applications by error code",
		},
		[]string{"code"},
	)

	c.duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Time taken to apply a mixin, parents included",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		},
	)

	c.registry.MustRegister(c.applications, c.failures, c.duration)

	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveApply records one top-level application.
func (c *Collector) ObserveApply(_ string, elapsed time.Duration, err error) {
	c.duration.Observe(elapsed.Seconds())

	if err != nil {
		c.applications.WithLabelValues(resultFailure).Inc()
		c.failures.WithLabelValues(mixin.CodeOf(err)).Inc()

		return
	}

	c.applications.WithLabelValues(resultSuccess).Inc()
}

// Snapshot returns the current counter values, keyed by metric name and label
// value (for example "applications_total/success").
func (c *Collector) Snapshot() (map[string]float64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}

			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}

			out[key] = m.GetCounter().GetValue()
		}
	}

	return out, nil
}
