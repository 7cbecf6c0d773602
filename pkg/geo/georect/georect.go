// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package georect converts between the bounding boxes of the geometry
// libraries and rtree rectangles, and indexes geometries by their boxes.
package georect

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/twpayne/go-geom"
)

// ErrEmpty is returned for geometries and boxes without any coordinates.
var ErrEmpty = errors.New("georect: empty bounds")

func boundsEmpty(b *geom.Bounds) bool {
	return b == nil || b.Layout().Stride() == 0 || b.Min(0) > b.Max(0)
}

// FromBounds returns the rectangle covering b, with one dimension per
// ordinate of b's layout.
func FromBounds(b *geom.Bounds) (rtree.Rect, error) {
	if boundsEmpty(b) {
		return nil, ErrEmpty
	}
	stride := b.Layout().Stride()
	if stride < rtree.MinDims || stride > rtree.MaxDims {
		return nil, errors.Newf("georect: unsupported layout %s", b.Layout())
	}
	r := make(rtree.Rect, 2*stride)
	for i := 0; i < stride; i++ {
		r[i] = b.Min(i)
		r[i+stride] = b.Max(i)
	}
	if !r.IsValid() {
		return nil, errors.Newf("georect: invalid bounds %s", r)
	}
	return r, nil
}

// ToBounds returns r as a bounding box. Rectangles of 2 to 4 dimensions map
// to the XY, XYZ and XYZM layouts.
func ToBounds(r rtree.Rect) (*geom.Bounds, error) {
	var layout geom.Layout
	switch r.NumDims() {
	case 2:
		layout = geom.XY
	case 3:
		layout = geom.XYZ
	case 4:
		layout = geom.XYZM
	default:
		return nil, errors.Newf("georect: no layout for %d dimensions", r.NumDims())
	}
	if r.IsNull() {
		return geom.NewBounds(layout), nil
	}
	return geom.NewBounds(layout).Set(r...), nil
}

// FromR2 returns the planar rectangle r.
func FromR2(r r2.Rect) (rtree.Rect, error) {
	if r.IsEmpty() {
		return nil, ErrEmpty
	}
	return rtree.Rect2D(r.X.Lo, r.Y.Lo, r.X.Hi, r.Y.Hi), nil
}

// ToR2 returns the two dimensional rectangle r.
func ToR2(r rtree.Rect) r2.Rect {
	if r.NumDims() != 2 {
		panic(errors.AssertionFailedf("cannot convert %d dimensional rect to r2", r.NumDims()))
	}
	if r.IsNull() {
		return r2.EmptyRect()
	}
	return r2.Rect{X: r1.Interval{Lo: r[0], Hi: r[2]}, Y: r1.Interval{Lo: r[1], Hi: r[3]}}
}

// FromLatLngRect returns rectangles over (longitude, latitude) in degrees
// that together cover r. A rectangle crossing the antimeridian is split
// in two.
func FromLatLngRect(r s2.Rect) ([]rtree.Rect, error) {
	if r.IsEmpty() {
		return nil, ErrEmpty
	}
	deg := func(rad float64) float64 { return s1.Angle(rad).Degrees() }
	latLo, latHi := deg(r.Lat.Lo), deg(r.Lat.Hi)
	lng := r.Lng
	if lng.IsFull() {
		return []rtree.Rect{rtree.Rect2D(-180, latLo, 180, latHi)}, nil
	}
	if !lng.IsInverted() {
		return []rtree.Rect{rtree.Rect2D(deg(lng.Lo), latLo, deg(lng.Hi), latHi)}, nil
	}
	return []rtree.Rect{
		rtree.Rect2D(deg(lng.Lo), latLo, 180, latHi),
		rtree.Rect2D(-180, latLo, deg(lng.Hi), latHi),
	}, nil
}
