// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

package eval

import (
	"errors"
	"math"
	"testing"

	"github.com/plotfn/grapher/internal/parser"
)

func TestEvaluate(t *testing.T) {
	e := New()
	cases := []struct {
		name   string
		expr   string
		xs     []float64
		params map[string]float64
		want   []float64
	}{
		{"identity", "x", []float64{5}, nil, []float64{5}},
		{"scaling", "2*x", []float64{3}, nil, []float64{6}},
		{"implicit multiplication", "2x", []float64{3}, nil, []float64{6}},
		{"quadratic with params", "a*x^2 + b", []float64{2}, map[string]float64{"a": 1, "b": 3}, []float64{7}},
		{"double star power", "x**2", []float64{3}, nil, []float64{9}},
		{"unary minus", "-x^2", []float64{2}, nil, []float64{-4}},
		{"negative exponent", "x^-2", []float64{2}, nil, []float64{0.25}},
		{"modulo", "x%2", []float64{5}, nil, []float64{1}},
		{"comparison", "x<2", []float64{1, 3}, nil, []float64{1, 0}},
		{"several points", "x+1", []float64{0, 1, 2}, nil, []float64{1, 2, 3}},
		{"free variable defaults to zero", "x+c", []float64{4}, nil, []float64{4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Evaluate(tc.expr, tc.xs, tc.params)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tc.expr, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
			}
			for i := range got {
				if math.Abs(got[i]-tc.want[i]) > 1e-12 {
					t.Errorf("Evaluate(%q)[%d] = %v, want %v", tc.expr, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestEvaluatePreservesLength(t *testing.T) {
	e := New()
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i)
	}
	got, err := e.Evaluate("x^2", xs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(xs) {
		t.Errorf("len = %d, want %d", len(got), len(xs))
	}
}

func TestEvaluateEmptyInput(t *testing.T) {
	e := New()
	got, err := e.Evaluate("x^2", []float64{}, nil)
	if err != nil {
		t.Fatalf("Evaluate over empty samples: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestEvaluateNaNMarkers(t *testing.T) {
	e := New()
	cases := []struct {
		expr string
		x    float64
	}{
		{"1/x", 0},
		{"log(x)", -1},
		{"sqrt(x)", -1},
		{"1/0", 5},
	}
	for _, tc := range cases {
		got, err := e.Evaluate(tc.expr, []float64{tc.x}, nil)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tc.expr, err)
		}
		if len(got) != 1 || !math.IsNaN(got[0]) {
			t.Errorf("Evaluate(%q) at %v = %v, want [NaN]", tc.expr, tc.x, got)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	e := New()
	for _, expr := range []string{"", "exec(x)", "eval(x)", "import os", "__import__(x)", "sin(", "sin(x, y)"} {
		if _, err := e.Evaluate(expr, []float64{1}, nil); err == nil {
			t.Errorf("Evaluate(%q): expected error, got nil", expr)
		}
	}
}

// The denylist fires on the raw text: these words would otherwise reach the
// evaluator as harmless letter products after expansion.
func TestEvaluateRejectsRawUnsafe(t *testing.T) {
	e := New()
	for _, expr := range []string{"exec(x)", "open(x)", "eval(sin(x))"} {
		_, err := e.Evaluate(expr, []float64{1}, nil)
		if !errors.Is(err, parser.ErrUnsafe) {
			t.Errorf("Evaluate(%q): err = %v, want ErrUnsafe", expr, err)
		}
	}
}

// An unknown multi-letter name is not a call; expansion splits it into a
// letter product.
func TestEvaluateUnknownNameSplits(t *testing.T) {
	e := New()
	got, err := e.EvaluateSingle("foo(x)", 5, map[string]float64{"f": 2, "o": 3})
	if err != nil {
		t.Fatalf("EvaluateSingle(foo(x)): %v", err)
	}
	if got != 90 {
		t.Errorf("EvaluateSingle(foo(x)) = %v, want 90", got)
	}
}

func TestEvaluateConstants(t *testing.T) {
	e := New()
	cases := []struct {
		expr string
		want float64
	}{
		{"pi", math.Pi},
		{"e", math.E},
		{"tau", 2 * math.Pi},
		{"2*pi", 2 * math.Pi},
		{"sin(pi)", math.Sin(math.Pi)},
	}
	for _, tc := range cases {
		got, err := e.EvaluateSingle(tc.expr, 0, nil)
		if err != nil {
			t.Fatalf("EvaluateSingle(%q): %v", tc.expr, err)
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("EvaluateSingle(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestParametersNeverOverrideIndependent(t *testing.T) {
	e := New()
	got, err := e.Evaluate("x", []float64{1}, map[string]float64{"x": 99})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 1 {
		t.Errorf("got %v, want 1", got[0])
	}
}

func TestEvaluateConstant(t *testing.T) {
	e := New()
	got, err := e.EvaluateConstant("2*a", map[string]float64{"a": 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("got %v, want 6", got)
	}
}

func TestEvaluateParametric(t *testing.T) {
	e := New()
	xs, ys, err := e.EvaluateParametric("cos(t)", "sin(t)", 0, 2*math.Pi, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 100 || len(ys) != 100 {
		t.Fatalf("len = %d, %d, want 100, 100", len(xs), len(ys))
	}
	if math.Abs(xs[0]-1) > 1e-12 || math.Abs(ys[0]) > 1e-12 {
		t.Errorf("start point = (%v, %v), want (1, 0)", xs[0], ys[0])
	}
	for i := range xs {
		r := xs[i]*xs[i] + ys[i]*ys[i]
		if math.Abs(r-1) > 1e-9 {
			t.Fatalf("point %d off the unit circle: %v", i, r)
		}
	}
}

func TestEvaluateParametricErrors(t *testing.T) {
	e := New()
	if _, _, err := e.EvaluateParametric("", "sin(t)", 0, 1, 10, nil); err == nil {
		t.Error("missing x expression accepted")
	}
	if _, _, err := e.EvaluateParametric("cos(t)", "sin(t)", 0, 1, 1, nil); err == nil {
		t.Error("single-point parametric range accepted")
	}
}

func TestEvaluateSurface(t *testing.T) {
	e := New()
	xs, ys, zs, err := e.EvaluateSurface("x+y", [2]float64{0, 1}, [2]float64{0, 2}, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	wantXs := []float64{0, 1}
	wantYs := []float64{0, 2}
	wantZs := []float64{0, 1, 2, 3} // row-major, rows iterate y
	for i := range wantXs {
		if xs[i] != wantXs[i] || ys[i] != wantYs[i] {
			t.Fatalf("axes = %v, %v, want %v, %v", xs, ys, wantXs, wantYs)
		}
	}
	if len(zs) != 4 {
		t.Fatalf("len(zs) = %d, want 4", len(zs))
	}
	for i := range wantZs {
		if zs[i] != wantZs[i] {
			t.Errorf("zs[%d] = %v, want %v", i, zs[i], wantZs[i])
		}
	}
}

func TestEvaluateSurfaceResolutionBounds(t *testing.T) {
	e := New()
	for _, res := range []int{0, 1, MaxSurfaceResolution + 1} {
		if _, _, _, err := e.EvaluateSurface("x+y", [2]float64{0, 1}, [2]float64{0, 1}, res, nil); err == nil {
			t.Errorf("resolution %d accepted", res)
		}
	}
}

func TestCompilationMemo(t *testing.T) {
	e := New()
	first, err := e.Evaluate("sin(x)+cos(x)", []float64{0.5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Evaluate("sin(x)+cos(x)", []float64{0.5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first[0] != second[0] {
		t.Errorf("memoized evaluation diverged: %v vs %v", first[0], second[0])
	}
}
