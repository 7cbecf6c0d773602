// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

/*
Package metric provides in-process counters and gauges (a.k.a. transient
stats) for the spatial index. Metrics are grouped in a Registry and can be
exported in the Prometheus text format or pushed to a Graphite server.

# Adding a new metric

Declare the metric with its Metadata, usually as a field of a metrics
struct:

	type Metrics struct {
		Splits *metric.Counter
	}

	func makeMetrics() Metrics {
		return Metrics{
			Splits: metric.NewCounter(metric.Metadata{
				Name: "rtree.splits",
				Help: "Number of node splits",
			}),
		}
	}

then register the whole struct:

	registry.AddMetricStruct(m)

and update it from the code that does the work:

	m.Splits.Inc(1)

# Exporting

A PrometheusExporter scrapes one or more registries:

	pm := metric.MakePrometheusExporter()
	pm.ScrapeRegistry(registry)
	_ = pm.PrintAsText(os.Stdout)

Metric names are converted to Prometheus names by replacing every
character outside [a-zA-Z0-9_] with an underscore, so "rtree.splits"
is exported as "rtree_splits".
*/
package metric
