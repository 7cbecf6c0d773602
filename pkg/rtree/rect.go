// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

const (
	// MinDims is the smallest dimensionality a Tree accepts.
	MinDims = 2
	// MaxDims is the largest dimensionality a Tree accepts.
	MaxDims = 20
)

// unitSphereVolume is the volume of the unit ball, indexed by dimension.
var unitSphereVolume = [MaxDims + 1]float64{
	0.000000, 2.000000, 3.141593, // Dimension  0,1,2
	4.188790, 4.934802, 5.263789, // Dimension  3,4,5
	5.167713, 4.724766, 4.058712, // Dimension  6,7,8
	3.298509, 2.550164, 1.884104, // Dimension  9,10,11
	1.335263, 0.910629, 0.599265, // Dimension  12,13,14
	0.381443, 0.235331, 0.140981, // Dimension  15,16,17
	0.082146, 0.046622, 0.025807, // Dimension  18,19,20
}

// Rect is an axis-aligned N-dimensional rectangle stored as 2*N bounds:
// r[0:N] are the minima and r[N:2N] the maxima. A Rect with r[0] > r[N] is
// undefined (null); it is used as a sentinel for "no rectangle".
type Rect []float64

// NullRect returns an undefined rectangle of the given dimensionality.
func NullRect(ndims int) Rect {
	r := make(Rect, 2*ndims)
	r.setNull()
	return r
}

// MakeRect returns a rectangle with the given minima and maxima.
func MakeRect(min, max []float64) Rect {
	if len(min) != len(max) || len(min) == 0 || len(min) > MaxDims {
		panic(errors.AssertionFailedf("mismatched rect bounds: %d minima, %d maxima", len(min), len(max)))
	}
	r := make(Rect, 0, 2*len(min))
	r = append(r, min...)
	return append(r, max...)
}

// RectFromBoundary returns a copy of a flat boundary array laid out like Rect.
func RectFromBoundary(boundary []float64) Rect {
	if len(boundary) == 0 || len(boundary)%2 != 0 || len(boundary) > 2*MaxDims {
		panic(errors.AssertionFailedf("invalid rect boundary of length %d", len(boundary)))
	}
	return append(Rect(nil), boundary...)
}

// Rect1D returns the interval [x0, x1].
func Rect1D(x0, x1 float64) Rect {
	return Rect{x0, x1}
}

// Rect2D returns the rectangle spanning (x0, y0) to (x1, y1).
func Rect2D(x0, y0, x1, y1 float64) Rect {
	return Rect{x0, y0, x1, y1}
}

// Rect3D returns the box spanning (x0, y0, z0) to (x1, y1, z1).
func Rect3D(x0, y0, z0, x1, y1, z1 float64) Rect {
	return Rect{x0, y0, z0, x1, y1, z1}
}

// Rect4D returns the 4D box spanning (x0, y0, z0, t0) to (x1, y1, z1, t1).
func Rect4D(x0, y0, z0, t0, x1, y1, z1, t1 float64) Rect {
	return Rect{x0, y0, z0, t0, x1, y1, z1, t1}
}

// NumDims returns the dimensionality of r.
func (r Rect) NumDims() int {
	return len(r) / 2
}

// IsNull reports whether r is undefined.
func (r Rect) IsNull() bool {
	n := len(r) / 2
	return n == 0 || r[0] > r[n]
}

// IsValid reports whether r is a defined rectangle: in every dimension the
// low coordinate is at most the high one, and neither is NaN.
func (r Rect) IsValid() bool {
	n := len(r) / 2
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if !(r[i] <= r[i+n]) {
			return false
		}
	}
	return true
}

func (r Rect) setNull() {
	n := len(r) / 2
	for i := range r {
		r[i] = 0
	}
	r[0] = 1
	r[n] = -1
}

// Clone returns a copy of r.
func (r Rect) Clone() Rect {
	return append(Rect(nil), r...)
}

// Equal reports whether r and s have identical bounds.
func (r Rect) Equal(s Rect) bool {
	if len(r) != len(s) {
		return false
	}
	if r.IsNull() && s.IsNull() {
		return true
	}
	for i := range r {
		if r[i] != s[i] {
			return false
		}
	}
	return true
}

// Center returns the midpoint of r on every dimension.
func (r Rect) Center() []float64 {
	n := len(r) / 2
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		c[i] = (r[i] + r[i+n]) / 2
	}
	return c
}

func assertSameDims(r, s Rect) {
	if len(r) != len(s) {
		panic(errors.AssertionFailedf("rect dimension mismatch: %d != %d", len(r)/2, len(s)/2))
	}
}

// Combine returns the smallest rectangle containing both a and b. If either
// is undefined the result is a copy of the other.
func Combine(a, b Rect) Rect {
	c := make(Rect, len(a))
	CombineInto(c, a, b)
	return c
}

// CombineInto stores the union of a and b into dst, which may alias either.
func CombineInto(dst, a, b Rect) {
	assertSameDims(a, b)
	assertSameDims(dst, a)
	if a.IsNull() {
		copy(dst, b)
		return
	}
	if b.IsNull() {
		copy(dst, a)
		return
	}
	n := len(a) / 2
	for i := 0; i < n; i++ {
		dst[i] = math.Min(a[i], b[i])
		j := i + n
		dst[j] = math.Max(a[j], b[j])
	}
}

// Expand grows r in place to include s and reports whether r changed.
func (r Rect) Expand(s Rect) bool {
	assertSameDims(r, s)
	if s.IsNull() {
		return false
	}
	if r.IsNull() {
		copy(r, s)
		return true
	}
	n := len(r) / 2
	grew := false
	for i := 0; i < n; i++ {
		if s[i] < r[i] {
			r[i] = s[i]
			grew = true
		}
		j := i + n
		if s[j] > r[j] {
			r[j] = s[j]
			grew = true
		}
	}
	return grew
}

// Overlaps reports whether r and s intersect. Touching boundaries count as
// an overlap; an undefined rectangle overlaps nothing.
func (r Rect) Overlaps(s Rect) bool {
	assertSameDims(r, s)
	if r.IsNull() || s.IsNull() {
		return false
	}
	n := len(r) / 2
	for i := 0; i < n; i++ {
		j := i + n
		if r[i] > s[j] || s[i] > r[j] {
			return false
		}
	}
	return true
}

// ContainedIn reports whether r lies within s, boundaries included. An
// undefined rectangle is contained in anything.
func (r Rect) ContainedIn(s Rect) bool {
	assertSameDims(r, s)
	if r.IsNull() {
		return true
	}
	if s.IsNull() {
		return false
	}
	n := len(r) / 2
	for i := 0; i < n; i++ {
		j := i + n
		if r[i] < s[i] || r[j] > s[j] {
			return false
		}
	}
	return true
}

// Contains reports whether s lies within r. An undefined rectangle contains
// only another undefined rectangle.
func (r Rect) Contains(s Rect) bool {
	return s.ContainedIn(r)
}

// Volume returns the product of the extents of r, or 0 if r is undefined.
func (r Rect) Volume() float64 {
	if r.IsNull() {
		return 0
	}
	n := len(r) / 2
	v := 1.0
	for i := 0; i < n; i++ {
		v *= r[i+n] - r[i]
	}
	return v
}

// SphericalVolume returns the volume of the ball whose radius is half the
// diagonal of r, or 0 if r is undefined.
func (r Rect) SphericalVolume() float64 {
	if r.IsNull() {
		return 0
	}
	n := len(r) / 2
	var sumOfSquares float64
	for i := 0; i < n; i++ {
		halfExtent := (r[i+n] - r[i]) / 2
		sumOfSquares += halfExtent * halfExtent
	}
	radius := math.Sqrt(sumOfSquares)
	switch n {
	case 2:
		return radius * radius * unitSphereVolume[2]
	case 3:
		return radius * radius * radius * unitSphereVolume[3]
	default:
		return math.Pow(radius, float64(n)) * unitSphereVolume[n]
	}
}

// Margin returns the sum of the extents of r, or 0 if r is undefined.
func (r Rect) Margin() float64 {
	if r.IsNull() {
		return 0
	}
	n := len(r) / 2
	var m float64
	for i := 0; i < n; i++ {
		m += r[i+n] - r[i]
	}
	return m
}

// overlapVolume returns the volume of the intersection of a and b.
func overlapVolume(a, b Rect) float64 {
	if a.IsNull() || b.IsNull() {
		return 0
	}
	n := len(a) / 2
	v := 1.0
	for i := 0; i < n; i++ {
		j := i + n
		lo, hi := math.Max(a[i], b[i]), math.Min(a[j], b[j])
		if lo > hi {
			return 0
		}
		v *= hi - lo
	}
	return v
}

// SafeFormat implements redact.SafeFormatter. Coordinates are not
// considered sensitive.
func (r Rect) SafeFormat(w redact.SafePrinter, _ rune) {
	if r.IsNull() {
		w.SafeString("null")
		return
	}
	n := len(r) / 2
	writePoint := func(p []float64) {
		w.SafeRune('(')
		for i, v := range p {
			if i > 0 {
				w.SafeRune(',')
			}
			w.SafeString(redact.SafeString(strconv.FormatFloat(v, 'g', -1, 64)))
		}
		w.SafeRune(')')
	}
	writePoint(r[:n])
	w.SafeRune('-')
	writePoint(r[n:])
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return redact.StringWithoutMarkers(r)
}
