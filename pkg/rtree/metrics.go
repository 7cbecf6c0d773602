// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import "github.com/cockroachdb/spatialindex/pkg/util/metric"

var (
	metaInserts = metric.Metadata{
		Name: "rtree.inserts",
		Help: "Number of rectangles inserted",
		Unit: "count",
	}
	metaDeletes = metric.Metadata{
		Name: "rtree.deletes",
		Help: "Number of rectangles deleted",
		Unit: "count",
	}
	metaDeleteMisses = metric.Metadata{
		Name: "rtree.delete.misses",
		Help: "Number of deletes that did not find their item",
		Unit: "count",
	}
	metaSearches = metric.Metadata{
		Name: "rtree.searches",
		Help: "Number of searches",
		Unit: "count",
	}
	metaSearchHits = metric.Metadata{
		Name: "rtree.search.hits",
		Help: "Number of items returned by searches",
		Unit: "count",
	}
	metaSplits = metric.Metadata{
		Name: "rtree.splits",
		Help: "Number of node splits",
		Unit: "count",
	}
	metaForcedReinsertions = metric.Metadata{
		Name: "rtree.reinsertions.forced",
		Help: "Number of overflowing nodes handled by forced reinsertion",
		Unit: "count",
	}
	metaCondensedNodes = metric.Metadata{
		Name: "rtree.condensed.nodes",
		Help: "Number of underfull nodes dissolved by deletes",
		Unit: "count",
	}
	metaRootGrowths = metric.Metadata{
		Name: "rtree.root.growths",
		Help: "Number of times the tree grew by one level",
		Unit: "count",
	}
	metaRootShrinks = metric.Metadata{
		Name: "rtree.root.shrinks",
		Help: "Number of times the tree shrank by one level",
		Unit: "count",
	}
	metaCacheHits = metric.Metadata{
		Name: "rtree.cache.hits",
		Help: "Number of node lookups served by the node cache",
		Unit: "count",
	}
	metaCacheMisses = metric.Metadata{
		Name: "rtree.cache.misses",
		Help: "Number of node lookups that read from the file",
		Unit: "count",
	}
	metaNodeReads = metric.Metadata{
		Name: "rtree.node.reads",
		Help: "Number of nodes read from the file",
		Unit: "count",
	}
	metaNodeWrites = metric.Metadata{
		Name: "rtree.node.writes",
		Help: "Number of nodes written to the file",
		Unit: "count",
	}
	metaHeight = metric.Metadata{
		Name: "rtree.height",
		Help: "Level of the root node",
		Unit: "count",
	}
	metaItems = metric.Metadata{
		Name: "rtree.items",
		Help: "Number of items in the tree",
		Unit: "count",
	}
)

// Metrics holds the counters of a tree. Register it with
// metric.Registry.AddMetricStruct.
type Metrics struct {
	Inserts            *metric.Counter
	Deletes            *metric.Counter
	DeleteMisses       *metric.Counter
	Searches           *metric.Counter
	SearchHits         *metric.Counter
	Splits             *metric.Counter
	ForcedReinsertions *metric.Counter
	CondensedNodes     *metric.Counter
	RootGrowths        *metric.Counter
	RootShrinks        *metric.Counter
	CacheHits          *metric.Counter
	CacheMisses        *metric.Counter
	NodeReads          *metric.Counter
	NodeWrites         *metric.Counter
	Height             *metric.Gauge
	Items              *metric.Gauge
}

// NewMetrics returns a fresh set of tree metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Inserts:            metric.NewCounter(metaInserts),
		Deletes:            metric.NewCounter(metaDeletes),
		DeleteMisses:       metric.NewCounter(metaDeleteMisses),
		Searches:           metric.NewCounter(metaSearches),
		SearchHits:         metric.NewCounter(metaSearchHits),
		Splits:             metric.NewCounter(metaSplits),
		ForcedReinsertions: metric.NewCounter(metaForcedReinsertions),
		CondensedNodes:     metric.NewCounter(metaCondensedNodes),
		RootGrowths:        metric.NewCounter(metaRootGrowths),
		RootShrinks:        metric.NewCounter(metaRootShrinks),
		CacheHits:          metric.NewCounter(metaCacheHits),
		CacheMisses:        metric.NewCounter(metaCacheMisses),
		NodeReads:          metric.NewCounter(metaNodeReads),
		NodeWrites:         metric.NewCounter(metaNodeWrites),
		Height:             metric.NewGauge(metaHeight),
		Items:              metric.NewGauge(metaItems),
	}
}
