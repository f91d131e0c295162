// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

package series

import (
	"math"
	"testing"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("Linspace = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got := Linspace(3, 7, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("Linspace n=1 = %v, want [3]", got)
	}
	if got := Linspace(0, 1, 0); len(got) != 0 {
		t.Errorf("Linspace n=0 = %v, want empty", got)
	}
}

func TestBuildContinuous(t *testing.T) {
	xs := Linspace(-2, 2, 50)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = x * x
	}
	data := Build(xs, ys)
	if len(data.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(data.Segments))
	}
	if data.TotalPoints != 50 || data.ValidPoints != 50 {
		t.Errorf("points = %d/%d, want 50/50", data.ValidPoints, data.TotalPoints)
	}
	if data.XRange != [2]float64{-2, 2} {
		t.Errorf("XRange = %v", data.XRange)
	}
	if data.YRange[0] != 0 || data.YRange[1] != 4 {
		t.Errorf("YRange = %v, want [0 4]", data.YRange)
	}
}

func TestBuildDropsInvalidSamples(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, math.NaN(), 3, math.Inf(1), 5}
	data := Build(xs, ys)
	if data.TotalPoints != 5 || data.ValidPoints != 3 {
		t.Fatalf("points = %d/%d, want 3/5", data.ValidPoints, data.TotalPoints)
	}
	if len(data.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(data.Segments))
	}
	for _, seg := range data.Segments {
		for _, y := range seg.Y {
			if !isFinite(y) {
				t.Fatal("non-finite sample retained")
			}
		}
	}
}

func TestBuildBreaksAtTangentPoles(t *testing.T) {
	xs := Linspace(-10, 10, 500)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Tan(x)
	}
	data := Build(xs, ys)
	if len(data.Segments) <= 1 {
		t.Fatalf("segments = %d, want several for tan over (-10, 10)", len(data.Segments))
	}
	// No segment may join two samples straddling an asymptote.
	for _, seg := range data.Segments {
		for i := 1; i < len(seg.Y); i++ {
			if poleBetween(seg.Y[i-1], seg.Y[i]) {
				t.Fatalf("segment joins pole-straddling samples %v and %v", seg.Y[i-1], seg.Y[i])
			}
		}
	}
}

func TestBuildKeepsBoundedSignFlips(t *testing.T) {
	// sin crosses zero constantly and must stay one segment.
	xs := Linspace(0, 4*math.Pi, 200)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Sin(x)
	}
	data := Build(xs, ys)
	if len(data.Segments) != 1 {
		t.Errorf("segments = %d, want 1", len(data.Segments))
	}
}

func TestBuildAllInvalid(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{math.NaN(), math.NaN(), math.NaN()}
	data := Build(xs, ys)
	if data.ValidPoints != 0 || len(data.Segments) != 0 {
		t.Errorf("ValidPoints = %d, segments = %d, want 0, 0", data.ValidPoints, len(data.Segments))
	}
	if data.YRange != [2]float64{0, 0} {
		t.Errorf("YRange = %v, want zeros", data.YRange)
	}
}

func TestBuildEmpty(t *testing.T) {
	data := Build(nil, nil)
	if data.TotalPoints != 0 || data.ValidPoints != 0 || len(data.Segments) != 0 {
		t.Errorf("unexpected data for empty input: %+v", data)
	}
}
