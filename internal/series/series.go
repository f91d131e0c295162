// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package series turns evaluated sample arrays into plot-ready continuous
// segments, dropping invalid samples and breaking runs at poles so no
// spurious line is drawn across an asymptote.
package series

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// poleThreshold is the magnitude two adjacent samples must both exceed,
// combined with a sign flip, to count as a pole crossing. It sits at the
// edge of a typical display window so bounded functions like sin, which
// flip sign near zero, never trip it.
const poleThreshold = 10.0

// Segment is a maximal contiguous run of valid samples.
type Segment struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// GraphData is a segmented sample series plus its summary statistics.
type GraphData struct {
	Segments    []Segment  `json:"segments"`
	TotalPoints int        `json:"total_points"`
	ValidPoints int        `json:"valid_points"`
	XRange      [2]float64 `json:"x_range"`
	YRange      [2]float64 `json:"y_range"`
}

// Linspace returns n evenly spaced samples over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Build partitions (xs, ys) into continuous segments. A sample is dropped
// when its y is non-finite; a break is forced across any dropped sample and
// across adjacent retained samples that look like a pole crossing: opposite
// signs with both magnitudes beyond the display boundary.
func Build(xs, ys []float64) GraphData {
	data := GraphData{
		Segments:    []Segment{},
		TotalPoints: len(xs),
	}
	if len(xs) > 0 {
		data.XRange = [2]float64{xs[0], xs[len(xs)-1]}
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if !isFinite(y) {
			continue
		}
		data.ValidPoints++
		yMin = math.Min(yMin, y)
		yMax = math.Max(yMax, y)
	}
	if data.ValidPoints == 0 {
		data.YRange = [2]float64{0, 0}
		return data
	}
	data.YRange = [2]float64{yMin, yMax}

	var cur Segment
	flush := func() {
		if len(cur.X) > 0 {
			data.Segments = append(data.Segments, cur)
			cur = Segment{}
		}
	}

	gap := false
	for i := range xs {
		y := ys[i]
		if !isFinite(y) {
			gap = true
			continue
		}
		if len(cur.X) > 0 {
			prev := cur.Y[len(cur.Y)-1]
			if gap || poleBetween(prev, y) {
				flush()
			}
		}
		gap = false
		cur.X = append(cur.X, xs[i])
		cur.Y = append(cur.Y, y)
	}
	flush()
	return data
}

// poleBetween reports whether two adjacent finite samples straddle a pole:
// opposite signs with both magnitudes beyond the display boundary.
func poleBetween(a, b float64) bool {
	return a*b < 0 && math.Abs(a) > poleThreshold && math.Abs(b) > poleThreshold
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
