// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import "github.com/cockroachdb/errors"

const (
	// MaxCard is the largest number of branches a node may hold.
	MaxCard = 9
	// ForceCard is the number of branches evicted by forced reinsertion.
	ForceCard = 3
	// MaxLevel bounds the height of a tree.
	MaxLevel = 20
)

// childKind tags the meaning of a childRef.
type childKind uint8

const (
	emptyChild childKind = iota
	// dataChild is a leaf entry identifying a user item.
	dataChild
	// nodeChild points at a node one level down.
	nodeChild
)

func (k childKind) String() string {
	switch k {
	case emptyChild:
		return "empty"
	case dataChild:
		return "data"
	case nodeChild:
		return "node"
	}
	return "unknown"
}

// nodeRef locates a node within its store. Memory trees use ptr, file trees
// use pos (-1 when unset).
type nodeRef struct {
	ptr *node
	pos int64
}

var noRef = nodeRef{pos: -1}

// childRef is what a branch points to.
type childRef struct {
	kind childKind
	id   int64
	ref  nodeRef
}

func dataRef(id int64) childRef {
	return childRef{kind: dataChild, id: id, ref: noRef}
}

func nodeChildRef(ref nodeRef) childRef {
	return childRef{kind: nodeChild, ref: ref}
}

func (c childRef) valid() bool {
	return c.kind != emptyChild
}

// branch pairs a bounding rectangle with a child.
type branch struct {
	rect  Rect
	child childRef
}

// copyFrom overwrites b with src without aliasing src's rectangle.
func (b *branch) copyFrom(src *branch) {
	copy(b.rect, src.rect)
	b.child = src.child
}

func (b *branch) reset() {
	b.rect.setNull()
	b.child = childRef{ref: noRef}
}

// node is a fixed capacity array of branches. Empty slots may appear
// anywhere; count tracks the occupied ones.
type node struct {
	level    int
	count    int
	branches []branch
}

func (n *node) isLeaf() bool {
	return n.level == 0
}

// makeNode allocates a node with slots empty branches.
func makeNode(level, slots, ndims int) *node {
	n := &node{level: level, branches: make([]branch, slots)}
	rects := make([]float64, slots*2*ndims)
	for i := range n.branches {
		n.branches[i].rect = rects[i*2*ndims : (i+1)*2*ndims : (i+1)*2*ndims]
		n.branches[i].reset()
	}
	return n
}

// reset empties every branch of n.
func (n *node) reset() {
	for i := range n.branches {
		n.branches[i].reset()
	}
	n.count = 0
}

// copyFrom makes n an exact copy of src. Both must have the same shape.
func (n *node) copyFrom(src *node) {
	n.level = src.level
	n.count = src.count
	for i := range n.branches {
		n.branches[i].copyFrom(&src.branches[i])
	}
}

// cover returns the union of the rectangles of the occupied branches.
func (n *node) cover(ndims int) Rect {
	r := NullRect(ndims)
	n.coverInto(r)
	return r
}

func (n *node) coverInto(r Rect) {
	r.setNull()
	for i := range n.branches {
		if n.branches[i].child.valid() {
			r.Expand(n.branches[i].rect)
		}
	}
}

// add copies b into the first empty slot among the first capacity slots.
func (n *node) add(b *branch, capacity int) int {
	for i := 0; i < capacity; i++ {
		if !n.branches[i].child.valid() {
			n.branches[i].copyFrom(b)
			n.count++
			return i
		}
	}
	panic(errors.AssertionFailedf("no free slot in level %d node with %d/%d branches",
		n.level, n.count, capacity))
}

// disconnect empties branch i. The caller is responsible for whatever the
// branch pointed to.
func (n *node) disconnect(i int) {
	if !n.branches[i].child.valid() {
		panic(errors.AssertionFailedf("disconnecting empty branch %d", i))
	}
	n.branches[i].reset()
	n.count--
}

// pickBranch returns the index of the branch of n that needs the least
// enlargement to include r. Directly above the leaves it instead minimizes
// the number of siblings the enlarged branch would overlap.
func (t *Tree) pickBranch(r Rect, n *node) int {
	if n.level == 1 {
		return t.pickLeafBranch(r, n)
	}
	tmp := t.scratch.rect0
	best := -1
	var bestIncr, bestArea float64
	for i := range n.branches {
		b := &n.branches[i]
		if !b.child.valid() {
			continue
		}
		area := b.rect.SphericalVolume()
		CombineInto(tmp, r, b.rect)
		increase := tmp.SphericalVolume() - area
		if best < 0 || increase < bestIncr || (increase == bestIncr && area < bestArea) {
			best, bestIncr, bestArea = i, increase, area
		}
	}
	if best < 0 {
		panic(errors.AssertionFailedf("level %d node has no branches", n.level))
	}
	return best
}

// pickLeafBranch chooses the branch whose enlargement overlaps the fewest
// siblings, breaking ties by least enlargement and then least area.
func (t *Tree) pickLeafBranch(r Rect, n *node) int {
	tmp := t.scratch.rect0
	best := -1
	var bestOverlaps int
	var bestIncr, bestArea float64
	for i := range n.branches {
		b := &n.branches[i]
		if !b.child.valid() {
			continue
		}
		CombineInto(tmp, r, b.rect)
		overlaps := 0
		for j := range n.branches {
			if j != i && n.branches[j].child.valid() && tmp.Overlaps(n.branches[j].rect) {
				overlaps++
			}
		}
		area := b.rect.SphericalVolume()
		increase := tmp.SphericalVolume() - area
		better := best < 0 || overlaps < bestOverlaps
		if !better && overlaps == bestOverlaps {
			better = increase < bestIncr || (increase == bestIncr && area < bestArea)
		}
		if better {
			best, bestOverlaps, bestIncr, bestArea = i, overlaps, increase, area
		}
	}
	if best < 0 {
		panic(errors.AssertionFailedf("level %d node has no branches", n.level))
	}
	return best
}

// addResult describes what addBranch did to a node.
type addResult int

const (
	// branchInserted means the branch fit in a free slot.
	branchInserted addResult = iota
	// nodeSplit means the node was split and a new sibling was produced.
	nodeSplit
	// branchesReinserted means some branches were evicted from the node
	// and queued for reinsertion.
	branchesReinserted
)

func (r addResult) String() string {
	switch r {
	case branchInserted:
		return "inserted"
	case nodeSplit:
		return "split"
	case branchesReinserted:
		return "reinserted"
	}
	return "unknown"
}

// addBranch adds b to n. A full node either gives up ForceCard branches to
// op's reinsertion queue, at most once per level per top-level operation
// and never at the root, or is split, in which case the new sibling is
// returned.
func (t *Tree) addBranch(b *branch, n *node, op *insertOp) (addResult, *node) {
	capacity := t.capacity(n.level)
	if n.count < capacity {
		n.add(b, capacity)
		return branchInserted, nil
	}
	if op != nil && t.overflow && n.level < t.rootLevel && !op.overflowed[n.level] {
		op.overflowed[n.level] = true
		t.removeBranches(n, b, op)
		return branchesReinserted, nil
	}
	return nodeSplit, t.splitNode(n, b)
}
