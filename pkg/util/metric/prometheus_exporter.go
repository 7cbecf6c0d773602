// Copyright 2016 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package metric

import (
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/spatialindex/pkg/util/syncutil"
	"github.com/prometheus/client_golang/prometheus"
	prometheusgo "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// PrometheusExporter contains a map of metric families (a metric with multiple labels).
// It initializes each metric family once and reuses it for each prometheus scrape.
// It is NOT thread-safe.
type PrometheusExporter struct {
	muScrape syncutil.Mutex
	families map[string]*prometheusgo.MetricFamily
}

var _ prometheus.Gatherer = (*PrometheusExporter)(nil)

// MakePrometheusExporter returns an initialized prometheus exporter.
func MakePrometheusExporter() PrometheusExporter {
	return PrometheusExporter{families: map[string]*prometheusgo.MetricFamily{}}
}

// exportedName converts a metric name to a Prometheus compatible name.
func exportedName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// findOrCreateFamily returns the family for metric, creating it if needed.
func (pm *PrometheusExporter) findOrCreateFamily(
	metric PrometheusExportable,
) *prometheusgo.MetricFamily {
	familyName := exportedName(metric.GetName())
	if family, ok := pm.families[familyName]; ok {
		return family
	}
	help := metric.GetHelp()
	family := &prometheusgo.MetricFamily{
		Name: &familyName,
		Help: &help,
		Type: metric.GetType(),
	}
	pm.families[familyName] = family
	return family
}

// ScrapeRegistry scrapes all metrics contained in the registry to the metric
// family map, holding on only to the scraped values (not to metric objects).
func (pm *PrometheusExporter) ScrapeRegistry(registry *Registry) {
	pm.muScrape.Lock()
	defer pm.muScrape.Unlock()
	registry.Each(func(_ string, v interface{}) {
		metric, ok := v.(PrometheusExportable)
		if !ok {
			return
		}
		family := pm.findOrCreateFamily(metric)
		family.Metric = append(family.Metric, metric.ToPrometheusMetric())
	})
}

// Gather implements prometheus.Gatherer. Families are sorted by name.
func (pm *PrometheusExporter) Gather() ([]*prometheusgo.MetricFamily, error) {
	pm.muScrape.Lock()
	defer pm.muScrape.Unlock()
	families := make([]*prometheusgo.MetricFamily, 0, len(pm.families))
	for _, family := range pm.families {
		if len(family.Metric) > 0 {
			families = append(families, family)
		}
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	return families, nil
}

// PrintAsText writes all metrics in the families map to the io.Writer in
// prometheus text format, then clears the scraped values.
func (pm *PrometheusExporter) PrintAsText(w io.Writer) error {
	families, err := pm.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	pm.clearMetrics()
	return nil
}

// clearMetrics clears all metrics in the family map, keeping the families
// themselves.
func (pm *PrometheusExporter) clearMetrics() {
	pm.muScrape.Lock()
	defer pm.muScrape.Unlock()
	for _, family := range pm.families {
		family.Metric = []*prometheusgo.Metric{}
	}
}
