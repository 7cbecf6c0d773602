// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// parseRect parses the 2*ndims coordinates of a rectangle, the low
// corner first.
func parseRect(fields []string, ndims int) (rtree.Rect, error) {
	if len(fields) != 2*ndims {
		return nil, errors.Newf("expected %d coordinates, got %d", 2*ndims, len(fields))
	}
	r := make(rtree.Rect, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %d", i+1)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Newf("coordinate %d: %s is not a finite number", i+1, s)
		}
		r[i] = v
	}
	for i := 0; i < ndims; i++ {
		if r[i] > r[ndims+i] {
			return nil, errors.Newf("low coordinate %g exceeds high coordinate %g in dimension %d",
				r[i], r[ndims+i], i+1)
		}
	}
	return r, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid id")
	}
	if id <= 0 {
		return 0, errors.Newf("invalid id %d: ids must be positive", id)
	}
	return id, nil
}

// readItems calls fn for every item line of r. Blank lines and lines
// starting with '#' are skipped.
func readItems(r io.Reader, ndims int, fn func(id int64, rect rtree.Rect) error) error {
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		id, err := parseID(fields[0])
		if err == nil {
			var rect rtree.Rect
			if rect, err = parseRect(fields[1:], ndims); err == nil {
				err = fn(id, rect)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNo)
		}
	}
	return sc.Err()
}

// readFeatures calls fn for every feature of the GeoJSON feature
// collection in r. Feature ids must be positive integers.
func readFeatures(r io.Reader, fn func(id int64, g geom.T) error) error {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return errors.Wrap(err, "decoding feature collection")
	}
	for i, f := range fc.Features {
		id, err := parseID(f.ID)
		if err == nil {
			if f.Geometry == nil {
				err = errors.New("feature has no geometry")
			} else {
				err = fn(id, f.Geometry)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "feature %d", i+1)
		}
	}
	return nil
}
