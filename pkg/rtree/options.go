// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/util/envutil"
)

// Process-wide defaults, overridable from the environment.
var (
	defaultSplitMethodName = envutil.EnvOrDefaultString("COCKROACH_RTREE_SPLIT_METHOD", "rstar")
	defaultOverflow        = envutil.EnvOrDefaultBool("COCKROACH_RTREE_OVERFLOW", true)
)

// Options configures a Tree. The zero value is usable: EnsureDefaults fills
// in every unset field.
type Options struct {
	// NodeCard is the capacity of internal nodes, in [MinNodeCard, MaxCard].
	NodeCard int
	// LeafCard is the capacity of leaf nodes, at most MaxCard.
	LeafCard int

	// MinNodeFill and MinLeafFill are the fewest branches a non-root node
	// may keep after a delete before it is dissolved and its branches
	// reinserted.
	MinNodeFill int
	MinLeafFill int

	// MinNodeSplitFill and MinLeafSplitFill are the fewest branches each
	// half of a split must receive. MinNodeSplitFill is at least 2 so that
	// the height of a tree grows logarithmically with its size.
	MinNodeSplitFill int
	MinLeafSplitFill int

	// SplitMethod selects the split algorithm.
	SplitMethod SplitMethod

	// DisableOverflow turns off forced reinsertion. Trees built this way are
	// slightly larger but cheaper to build.
	DisableOverflow bool

	// Metrics receives the tree's counters. If nil the tree allocates its
	// own, available through Tree.Metrics.
	Metrics *Metrics
}

const (
	// MinNodeCard is the smallest internal node capacity, the smallest that
	// splits into two halves of at least two branches.
	MinNodeCard = 3
	// MinLeafCard is the smallest leaf capacity.
	MinLeafCard = 2
)

func atLeast(lo, v int) int {
	if v < lo {
		return lo
	}
	return v
}

func atLeastOne(v int) int {
	return atLeast(1, v)
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.NodeCard <= 0 {
		o.NodeCard = MaxCard
	}
	if o.LeafCard <= 0 {
		o.LeafCard = MaxCard
	}
	if o.MinNodeFill <= 0 {
		o.MinNodeFill = atLeastOne((o.NodeCard - 2) / 2)
	}
	if o.MinLeafFill <= 0 {
		o.MinLeafFill = atLeastOne((o.LeafCard - 2) / 2)
	}
	if o.MinNodeSplitFill <= 0 {
		o.MinNodeSplitFill = atLeast(2, (o.NodeCard-1)/2)
	}
	if o.MinLeafSplitFill <= 0 {
		o.MinLeafSplitFill = atLeastOne((o.LeafCard - 1) / 2)
	}
	if o.SplitMethod == DefaultSplit {
		if m, err := ParseSplitMethod(defaultSplitMethodName); err == nil {
			o.SplitMethod = m
		}
	}
	if !defaultOverflow {
		o.DisableOverflow = true
	}
	return o
}

// Validate verifies that the options are mutually consistent. It must be
// called after EnsureDefaults.
func (o *Options) Validate() error {
	for _, c := range []struct {
		name      string
		card, min int
	}{{"node", o.NodeCard, MinNodeCard}, {"leaf", o.LeafCard, MinLeafCard}} {
		if c.card < c.min || c.card > MaxCard {
			return errors.Newf("rtree: %s capacity %d out of range [%d, %d]", c.name, c.card, c.min, MaxCard)
		}
	}
	if o.MinNodeSplitFill < 2 {
		return errors.Newf("rtree: node split fill %d below 2", o.MinNodeSplitFill)
	}
	for _, c := range []struct {
		name             string
		card, fill, split int
	}{
		{"node", o.NodeCard, o.MinNodeFill, o.MinNodeSplitFill},
		{"leaf", o.LeafCard, o.MinLeafFill, o.MinLeafSplitFill},
	} {
		if 2*c.split > c.card+1 {
			return errors.Newf("rtree: %s split fill %d too large for capacity %d", c.name, c.split, c.card)
		}
		if c.fill > c.split {
			return errors.Newf("rtree: %s fill %d exceeds split fill %d", c.name, c.fill, c.split)
		}
		if !o.DisableOverflow && c.card+1-ForceCard < c.fill {
			return errors.Newf("rtree: %s capacity %d too small for forced reinsertion with fill %d",
				c.name, c.card, c.fill)
		}
	}
	switch o.SplitMethod {
	case RStarSplit, QuadraticSplit:
	case DefaultSplit:
		return errors.Newf("rtree: invalid COCKROACH_RTREE_SPLIT_METHOD %q", defaultSplitMethodName)
	default:
		return errors.Newf("rtree: unknown split method %d", o.SplitMethod)
	}
	return nil
}
