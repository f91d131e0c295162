// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package implicit solves the recognized closed-form implicit equation
// shapes: axis-aligned lines, circles and ellipses. Everything else yields
// empty series; general implicit curves are out of scope.
package implicit

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/plotfn/grapher/internal/ast"
	"github.com/plotfn/grapher/internal/eval"
	"github.com/plotfn/grapher/internal/normalize"
	"github.com/plotfn/grapher/internal/parser"
)

// maxErrorLen bounds solver error messages so internals never leak wholesale.
const maxErrorLen = 200

var (
	circlePattern  = regexp.MustCompile(`^x\^2\+y\^2=(.+)$`)
	ellipsePattern = regexp.MustCompile(`^x\^2/(\([^()]*\)|[a-z0-9.]+)\+y\^2(?:/(\([^()]*\)|[a-z0-9.]+))?=1$`)
)

// Solver pattern-matches implicit equations against the canonical shapes.
type Solver struct {
	eval *eval.Evaluator
}

// New creates a Solver that uses ev for constant-subexpression evaluation.
func New(ev *eval.Evaluator) *Solver {
	return &Solver{eval: ev}
}

// Solve emits a parametrized point series for a recognized equation shape.
// Unrecognized equations return two empty series and no error; callers treat
// empty output as "no supported closed form".
func (s *Solver) Solve(equation string, domain [2]float64, resolution int, params map[string]float64) (xs, ys []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = boundedErr(fmt.Sprintf("implicit solve failed: %v", r))
		}
	}()

	if err := parser.CheckSafe(equation); err != nil {
		return nil, nil, err
	}
	normalized := strings.ReplaceAll(normalize.Normalize(equation), " ", "")
	if !parser.IsImplicit(normalized) {
		return nil, nil, boundedErr("not an implicit equation: missing '='")
	}
	left, right, err := parser.SplitEquation(normalized)
	if err != nil {
		return nil, nil, err
	}
	if resolution < 2 {
		return nil, nil, boundedErr("implicit solve needs a resolution of at least 2")
	}

	// Axis-aligned lines: x = c and y = c (either side).
	if axis, other, ok := lineParts(left, right); ok && isConstantSide(other) {
		c, err := s.constant(other, params)
		if err != nil {
			return nil, nil, err
		}
		if axis == "x" {
			return []float64{c, c}, []float64{domain[0], domain[1]}, nil
		}
		return []float64{domain[0], domain[1]}, []float64{c, c}, nil
	}

	if m := circlePattern.FindStringSubmatch(normalized); m != nil {
		r2, err := s.constant(m[1], params)
		if err != nil {
			return nil, nil, err
		}
		if r2 < 0 {
			return []float64{}, []float64{}, nil // no real locus
		}
		return sweep(math.Sqrt(r2), math.Sqrt(r2), resolution)
	}

	if m := ellipsePattern.FindStringSubmatch(normalized); m != nil {
		a, err := s.constant(m[1], params)
		if err != nil {
			return nil, nil, err
		}
		b := 1.0
		if m[2] != "" {
			if b, err = s.constant(m[2], params); err != nil {
				return nil, nil, err
			}
		}
		if a <= 0 || b <= 0 {
			return []float64{}, []float64{}, nil
		}
		return sweep(math.Sqrt(a), math.Sqrt(b), resolution)
	}

	return []float64{}, []float64{}, nil
}

// isConstantSide reports whether a side references neither x nor y, so it can
// reduce to a constant under the supplied parameters.
func isConstantSide(side string) bool {
	node, err := parser.Parse(side)
	if err != nil {
		// Still a candidate; constant evaluation reports the real error.
		return true
	}
	for _, v := range ast.Variables(node) {
		if v == "x" || v == "y" {
			return false
		}
	}
	return true
}

// lineParts recognizes "x = expr" / "y = expr" with the axis on either side.
func lineParts(left, right string) (axis, other string, ok bool) {
	if left == "x" || left == "y" {
		return left, right, true
	}
	if right == "x" || right == "y" {
		return right, left, true
	}
	return "", "", false
}

// constant evaluates a side that must reduce to a finite constant.
func (s *Solver) constant(expr string, params map[string]float64) (float64, error) {
	v, err := s.eval.EvaluateConstant(expr, params)
	if err != nil {
		return 0, boundedErr(fmt.Sprintf("constant term %q: %v", expr, err))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, boundedErr(fmt.Sprintf("constant term %q does not evaluate to a finite value", expr))
	}
	return v, nil
}

// sweep samples resolution angles over [0, 2*pi).
func sweep(rx, ry float64, resolution int) ([]float64, []float64, error) {
	xs := make([]float64, resolution)
	ys := make([]float64, resolution)
	step := 2 * math.Pi / float64(resolution)
	for i := 0; i < resolution; i++ {
		theta := float64(i) * step
		xs[i] = rx * math.Cos(theta)
		ys[i] = ry * math.Sin(theta)
	}
	return xs, ys, nil
}

func boundedErr(msg string) error {
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return fmt.Errorf("%s", msg)
}
