// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package metric

import (
	"sync/atomic"

	prometheusgo "github.com/prometheus/client_model/go"
)

// Metadata holds metadata about a metric.
type Metadata struct {
	Name string
	Help string
	// Unit is informational, e.g. "count" or "bytes".
	Unit string
}

// GetName returns the metric's name.
func (m *Metadata) GetName() string { return m.Name }

// GetHelp returns the metric's help string.
func (m *Metadata) GetHelp() string { return m.Help }

// Iterable provides a method for synchronized access to interior objects.
type Iterable interface {
	// GetName returns the fully-qualified name of the metric.
	GetName() string
	// GetHelp returns the help text for the metric.
	GetHelp() string
	// Inspect calls the given closure with itself.
	Inspect(func(interface{}))
}

// PrometheusExportable is the standard interface for an individual metric
// that can be exported to prometheus.
type PrometheusExportable interface {
	Iterable
	// GetType returns the prometheus type enum for this metric.
	GetType() *prometheusgo.MetricType
	// ToPrometheusMetric returns a filled-in prometheus metric of the
	// right type for the given metric.
	ToPrometheusMetric() *prometheusgo.Metric
}

// A Counter holds a single mutable atomic value.
type Counter struct {
	Metadata
	count atomic.Int64
}

var _ PrometheusExportable = (*Counter)(nil)

// NewCounter creates a counter.
func NewCounter(metadata Metadata) *Counter {
	return &Counter{Metadata: metadata}
}

// Inc atomically increments the counter by the given value.
func (c *Counter) Inc(v int64) {
	c.count.Add(v)
}

// Count returns the counter's current value.
func (c *Counter) Count() int64 {
	return c.count.Load()
}

// Inspect calls the given closure with itself.
func (c *Counter) Inspect(f func(interface{})) { f(c) }

// GetType returns the prometheus type enum for this metric.
func (c *Counter) GetType() *prometheusgo.MetricType {
	return prometheusgo.MetricType_COUNTER.Enum()
}

// ToPrometheusMetric returns a filled-in prometheus metric of the right type.
func (c *Counter) ToPrometheusMetric() *prometheusgo.Metric {
	v := float64(c.Count())
	return &prometheusgo.Metric{Counter: &prometheusgo.Counter{Value: &v}}
}

// A Gauge atomically stores a single integer value.
type Gauge struct {
	Metadata
	value atomic.Int64
}

var _ PrometheusExportable = (*Gauge)(nil)

// NewGauge creates a Gauge.
func NewGauge(metadata Metadata) *Gauge {
	return &Gauge{Metadata: metadata}
}

// Update updates the gauge's value.
func (g *Gauge) Update(v int64) {
	g.value.Store(v)
}

// Inc increments the gauge's value.
func (g *Gauge) Inc(v int64) {
	g.value.Add(v)
}

// Dec decrements the gauge's value.
func (g *Gauge) Dec(v int64) {
	g.value.Add(-v)
}

// Value returns the gauge's current value.
func (g *Gauge) Value() int64 {
	return g.value.Load()
}

// Inspect calls the given closure with itself.
func (g *Gauge) Inspect(f func(interface{})) { f(g) }

// GetType returns the prometheus type enum for this metric.
func (g *Gauge) GetType() *prometheusgo.MetricType {
	return prometheusgo.MetricType_GAUGE.Enum()
}

// ToPrometheusMetric returns a filled-in prometheus metric of the right type.
func (g *Gauge) ToPrometheusMetric() *prometheusgo.Metric {
	v := float64(g.Value())
	return &prometheusgo.Metric{Gauge: &prometheusgo.Gauge{Value: &v}}
}
