// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package georect

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/twpayne/go-geom"
)

// Index is the subset of rtree.Tree and rtree.Locked used here.
type Index interface {
	NumDims() int
	Insert(r rtree.Rect, id int64) error
	Delete(r rtree.Rect, id int64) (bool, error)
	Search(r rtree.Rect, fn func(id int64, r rtree.Rect) bool) (int, error)
}

var _ Index = (*rtree.Tree)(nil)

// boxOf returns the bounding box of g restricted to the index's
// dimensions. Geometries with fewer ordinates than the index cannot be
// indexed.
func boxOf(idx Index, g geom.T) (rtree.Rect, error) {
	r, err := FromBounds(g.Bounds())
	if err != nil {
		return nil, err
	}
	have, want := r.NumDims(), idx.NumDims()
	if have < want {
		return nil, errors.Newf("georect: %s geometry has %d dimensions, index has %d", g.Layout(), have, want)
	}
	if have == want {
		return r, nil
	}
	return rtree.MakeRect(r[:want], r[have:have+want]), nil
}

// IndexGeometry inserts the bounding box of g under id.
func IndexGeometry(idx Index, g geom.T, id int64) error {
	r, err := boxOf(idx, g)
	if err != nil {
		return errors.Wrapf(err, "indexing geometry %d", id)
	}
	return idx.Insert(r, id)
}

// RemoveGeometry deletes the entry for g under id, reporting whether it
// was found.
func RemoveGeometry(idx Index, g geom.T, id int64) (bool, error) {
	r, err := boxOf(idx, g)
	if err != nil {
		return false, errors.Wrapf(err, "removing geometry %d", id)
	}
	return idx.Delete(r, id)
}

// SearchGeometry calls fn for every entry whose box overlaps the bounding
// box of g. The results are candidates: their geometries may not intersect
// g itself.
func SearchGeometry(idx Index, g geom.T, fn func(id int64) bool) (int, error) {
	r, err := boxOf(idx, g)
	if err != nil {
		return 0, err
	}
	return idx.Search(r, func(id int64, _ rtree.Rect) bool {
		return fn == nil || fn(id)
	})
}
