// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import "github.com/cockroachdb/errors"

// maxSortLen bounds the inputs of quicksort: a full node plus one branch.
const maxSortLen = MaxCard + 1

// sortable is the view of a small sequence quicksort operates on.
type sortable interface {
	Len() int
	// Compare returns -1, 0 or 1 as element i is less than, equal to or
	// greater than element j.
	Compare(i, j int) int
	Swap(i, j int)
}

func isSorted(s sortable, first, last int) bool {
	for i := first; i < last; i++ {
		if s.Compare(i, i+1) > 0 {
			return false
		}
	}
	return true
}

// partition moves the pivot, chosen as the median of the first, middle and
// last elements, to its final position and returns it.
func partition(s sortable, first, last int) int {
	if last-first == 1 {
		if s.Compare(first, last) > 0 {
			s.Swap(first, last)
		}
		return last
	}

	mid := (first + last) >> 1
	larger, smaller := mid, first
	pivot := mid
	if s.Compare(first, mid) > 0 {
		larger, smaller = first, mid
		pivot = first
	}
	if s.Compare(larger, last) > 0 {
		// larger is the largest of the three.
		pivot = last
		if s.Compare(smaller, last) > 0 {
			pivot = smaller
		}
	}
	if pivot != last {
		s.Swap(pivot, last)
	}

	pivot = first
	for i := first; i < last; i++ {
		if s.Compare(i, last) <= 0 {
			if pivot != i {
				s.Swap(pivot, i)
			}
			pivot++
		}
	}
	if pivot != last {
		s.Swap(pivot, last)
	}
	return pivot
}

// quicksort sorts s in place without recursion, using an explicit stack of
// pending subranges.
func quicksort(s sortable) {
	n := s.Len()
	if n > maxSortLen {
		panic(errors.AssertionFailedf("cannot sort %d elements, at most %d", n, maxSortLen))
	}
	var stackFirst, stackLast [maxSortLen + 1]int
	stackFirst[0], stackLast[0] = 0, n-1
	size := 1
	for size > 0 {
		size--
		first, last := stackFirst[size], stackLast[size]
		if first >= last || isSorted(s, first, last) {
			continue
		}
		pivot := partition(s, first, last)
		stackFirst[size], stackLast[size] = first, pivot-1
		size++
		stackFirst[size], stackLast[size] = pivot+1, last
		size++
	}
}

// branchOrder orders a permutation of branches by one bound of their
// rectangles, leaving the branches themselves in place.
type branchOrder struct {
	b     []branch
	order []int
	side  int
}

func (s branchOrder) Len() int { return len(s.order) }

func (s branchOrder) Compare(i, j int) int {
	a, b := s.b[s.order[i]].rect[s.side], s.b[s.order[j]].rect[s.side]
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s branchOrder) Swap(i, j int) { s.order[i], s.order[j] = s.order[j], s.order[i] }

// byDistance orders candidate indexes by distance from a center point.
type byDistance struct {
	idx  []int
	dist []float64
}

func (s byDistance) Len() int { return len(s.idx) }

func (s byDistance) Compare(i, j int) int {
	a, b := s.dist[i], s.dist[j]
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s byDistance) Swap(i, j int) {
	s.idx[i], s.idx[j] = s.idx[j], s.idx[i]
	s.dist[i], s.dist[j] = s.dist[j], s.dist[i]
}
