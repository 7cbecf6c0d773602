// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
)

// SplitMethod selects how an overflowing node is divided.
type SplitMethod int8

const (
	// DefaultSplit defers to the process default, which is RStarSplit unless
	// COCKROACH_RTREE_SPLIT_METHOD says otherwise.
	DefaultSplit SplitMethod = iota
	// RStarSplit is Beckmann's R*-tree split: choose the axis with the least
	// total margin, then the distribution with the least overlap.
	RStarSplit
	// QuadraticSplit is Guttman's quadratic split.
	QuadraticSplit
)

var splitMethodNames = map[SplitMethod]string{
	DefaultSplit:   "default",
	RStarSplit:     "rstar",
	QuadraticSplit: "quadratic",
}

// String implements fmt.Stringer.
func (m SplitMethod) String() string {
	if s, ok := splitMethodNames[m]; ok {
		return s
	}
	return "unknown"
}

// SafeValue implements redact.SafeValue.
func (m SplitMethod) SafeValue() {}

var _ redact.SafeValue = SplitMethod(0)

// ParseSplitMethod parses the name of a split method.
func ParseSplitMethod(s string) (SplitMethod, error) {
	for m, name := range splitMethodNames {
		if name == s {
			return m, nil
		}
	}
	return DefaultSplit, errors.Newf("unknown split method %q", s)
}

// splitter divides capacity+1 candidate branches into two groups. It owns
// the scratch space the split methods need.
type splitter struct {
	ndims int
	group [maxSortLen]int8
	count [2]int
	cover [2]Rect
	area  [2]float64

	order, bestOrder [maxSortLen]int
	prefix, suffix   [maxSortLen + 1]Rect
	tmp              Rect
}

func newSplitter(ndims int) *splitter {
	s := &splitter{ndims: ndims, tmp: NullRect(ndims)}
	s.cover[0], s.cover[1] = NullRect(ndims), NullRect(ndims)
	for i := range s.prefix {
		s.prefix[i] = NullRect(ndims)
		s.suffix[i] = NullRect(ndims)
	}
	return s
}

// split assigns every branch of buf to group 0 or 1 such that both groups
// hold at least minFill branches. The result is indexed like buf and is
// valid until the next call.
func (s *splitter) split(buf []branch, minFill int, method SplitMethod) []int8 {
	total := len(buf)
	if total > maxSortLen || minFill < 1 || 2*minFill > total {
		panic(errors.AssertionFailedf("cannot split %d branches with minimum fill %d", total, minFill))
	}
	s.count[0], s.count[1] = 0, 0
	s.cover[0].setNull()
	s.cover[1].setNull()
	s.area[0], s.area[1] = 0, 0
	for i := 0; i < total; i++ {
		s.group[i] = -1
	}

	switch method {
	case QuadraticSplit:
		s.quadratic(buf, minFill)
	default:
		s.rstar(buf, minFill)
	}

	if s.count[0]+s.count[1] != total || s.count[0] < minFill || s.count[1] < minFill {
		panic(errors.AssertionFailedf("invalid split of %d branches: %d and %d, minimum fill %d",
			total, s.count[0], s.count[1], minFill))
	}
	return s.group[:total]
}

// classify puts branch i into group g.
func (s *splitter) classify(buf []branch, i int, g int8) {
	if s.group[i] != -1 {
		panic(errors.AssertionFailedf("branch %d classified twice", i))
	}
	s.group[i] = g
	s.cover[g].Expand(buf[i].rect)
	s.area[g] = s.cover[g].SphericalVolume()
	s.count[g]++
}

// quadratic seeds the two groups with the pair of branches that would waste
// the most area if covered together. Then, one at a time, it assigns the
// branch with the strongest preference for one group, until one group is
// so full that the other must take the rest.
func (s *splitter) quadratic(buf []branch, minFill int) {
	total := len(buf)
	all := s.tmp
	all.setNull()
	var area [maxSortLen]float64
	for i := range buf {
		all.Expand(buf[i].rect)
		area[i] = buf[i].rect.SphericalVolume()
	}

	worst := -all.SphericalVolume() - 1
	seed0, seed1 := 0, 1
	for i := 0; i < total-1; i++ {
		for j := i + 1; j < total; j++ {
			CombineInto(s.tmp, buf[i].rect, buf[j].rect)
			waste := s.tmp.SphericalVolume() - area[i] - area[j]
			if waste > worst {
				worst, seed0, seed1 = waste, i, j
			}
		}
	}
	s.classify(buf, seed0, 0)
	s.classify(buf, seed1, 1)

	for s.count[0]+s.count[1] < total &&
		s.count[0] < total-minFill && s.count[1] < total-minFill {
		biggestDiff := -1.0
		chosen, betterGroup := -1, int8(0)
		for i := range buf {
			if s.group[i] != -1 {
				continue
			}
			CombineInto(s.tmp, buf[i].rect, s.cover[0])
			growth0 := s.tmp.SphericalVolume() - s.area[0]
			CombineInto(s.tmp, buf[i].rect, s.cover[1])
			growth1 := s.tmp.SphericalVolume() - s.area[1]
			diff, group := growth1-growth0, int8(0)
			if diff < 0 {
				diff, group = -diff, 1
			}
			if diff > biggestDiff {
				biggestDiff, chosen, betterGroup = diff, i, group
			} else if diff == biggestDiff && s.count[group] < s.count[betterGroup] {
				chosen, betterGroup = i, group
			}
		}
		s.classify(buf, chosen, betterGroup)
	}

	// If one group is too full, the other takes the remaining branches.
	if s.count[0]+s.count[1] < total {
		group := int8(0)
		if s.count[0] >= total-minFill {
			group = 1
		}
		for i := range buf {
			if s.group[i] == -1 {
				s.classify(buf, i, group)
			}
		}
	}
}

// computeCovers fills prefix[k] with the cover of the first k branches of
// the current order and suffix[k] with the cover of the rest.
func (s *splitter) computeCovers(buf []branch) {
	total := len(buf)
	s.prefix[0].setNull()
	for k := 1; k <= total; k++ {
		copy(s.prefix[k], s.prefix[k-1])
		s.prefix[k].Expand(buf[s.order[k-1]].rect)
	}
	s.suffix[total].setNull()
	for k := total - 1; k >= 0; k-- {
		copy(s.suffix[k], s.suffix[k+1])
		s.suffix[k].Expand(buf[s.order[k]].rect)
	}
}

// rstar picks the split axis whose sorted distributions have the smallest
// total margin, then the distribution along it with the least overlap
// between the two groups, ties going to the least total volume.
//
// The margin of an axis is summed over every distribution of both its
// lower and upper bound orders, as in Beckmann et al. It is not the margin
// of a single best distribution.
func (s *splitter) rstar(buf []branch, minFill int) {
	total := len(buf)
	nd := s.ndims
	order := s.order[:total]
	sortBy := func(side int) {
		for i := range order {
			order[i] = i
		}
		quicksort(branchOrder{b: buf, order: order, side: side})
		s.computeCovers(buf)
	}

	bestAxis, bestMargin := 0, math.MaxFloat64
	for axis := 0; axis < nd; axis++ {
		var margin float64
		for _, side := range [2]int{axis, axis + nd} {
			sortBy(side)
			for k := minFill; k <= total-minFill; k++ {
				margin += s.prefix[k].Margin() + s.suffix[k].Margin()
			}
		}
		if margin < bestMargin {
			bestAxis, bestMargin = axis, margin
		}
	}

	bestCut := -1
	bestOverlap, bestVolume := math.MaxFloat64, math.MaxFloat64
	for _, side := range [2]int{bestAxis, bestAxis + nd} {
		sortBy(side)
		for k := minFill; k <= total-minFill; k++ {
			overlap := overlapVolume(s.prefix[k], s.suffix[k])
			volume := s.prefix[k].Volume() + s.suffix[k].Volume()
			if bestCut < 0 || overlap < bestOverlap || (overlap == bestOverlap && volume < bestVolume) {
				bestCut, bestOverlap, bestVolume = k, overlap, volume
				copy(s.bestOrder[:total], order)
			}
		}
	}

	for k, i := range s.bestOrder[:total] {
		if k < bestCut {
			s.classify(buf, i, 0)
		} else {
			s.classify(buf, i, 1)
		}
	}
}

// splitNode divides the full node n plus b between n and a new sibling,
// which is returned.
func (t *Tree) splitNode(n *node, b *branch) *node {
	level := n.level
	capacity := t.capacity(level)
	total := capacity + 1
	buf := t.scratch.buf[:total]
	for i := 0; i < capacity; i++ {
		if !n.branches[i].child.valid() {
			panic(errors.AssertionFailedf("splitting level %d node with empty branch %d", level, i))
		}
		buf[i].copyFrom(&n.branches[i])
	}
	buf[capacity].copyFrom(b)

	minFill := t.minSplitFill(level)
	groups := t.splitter.split(buf, minFill, t.opts.SplitMethod)
	n.reset()
	nn := t.newNode(level)
	for i := range buf {
		if groups[i] == 0 {
			n.add(&buf[i], capacity)
		} else {
			nn.add(&buf[i], capacity)
		}
	}
	if n.count+nn.count != total {
		panic(errors.AssertionFailedf("split lost branches: %d + %d != %d", n.count, nn.count, total))
	}
	t.metrics.Splits.Inc(1)
	log.VEventf(t.ctx, 3, "split level %d node into %d and %d branches", level, n.count, nn.count)
	return nn
}
