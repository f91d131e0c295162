// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package grapher provides the public API for evaluating mathematical
// expressions into plot-ready coordinate data.
package grapher

import (
	"github.com/plotfn/grapher/internal/classify"
	"github.com/plotfn/grapher/internal/eval"
	"github.com/plotfn/grapher/internal/implicit"
	"github.com/plotfn/grapher/internal/normalize"
	"github.com/plotfn/grapher/internal/parser"
	"github.com/plotfn/grapher/internal/series"
)

// Classification is the result of classifying an expression.
type Classification = classify.Classification

// Expression kinds.
const (
	KindExplicit   = classify.Explicit
	KindImplicit   = classify.Implicit
	KindParametric = classify.Parametric
	KindError      = classify.Error
)

// Segment is a continuous run of plotted samples.
type Segment = series.Segment

// GraphData is a segmented sample series with summary statistics.
type GraphData = series.GraphData

// Engine evaluates expressions. It holds no mutable state beyond an
// append-only compilation memo and is safe for concurrent use. Construct one
// per process and inject it; there is no package-level default.
type Engine struct {
	eval      *eval.Evaluator
	solver    *implicit.Solver
	maxPoints int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPoints caps the sample count of generated series. Requests above the
// cap are clamped, not rejected.
func WithMaxPoints(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPoints = n
		}
	}
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		eval:      eval.New(),
		maxPoints: 10000,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.solver = implicit.New(e.eval)
	return e
}

// Normalize rewrites raw input into plain expression text.
func (e *Engine) Normalize(expr string) string {
	return normalize.Normalize(expr)
}

// Classify determines the kind, variables and parameters of an expression.
func (e *Engine) Classify(expr string) Classification {
	return classify.Classify(expr)
}

// Validate checks an expression against the grammar and the safety policy.
// A nil return means the expression is accepted. The safety denylist is
// checked against the raw text, before normalization rewrites it.
func (e *Engine) Validate(expr string) error {
	if err := parser.CheckSafe(expr); err != nil {
		return err
	}
	return parser.Validate(normalize.Normalize(expr))
}

// Evaluate evaluates an explicit expression over the sample array xs, with x
// as the independent variable. Invalid points come back as NaN.
func (e *Engine) Evaluate(expr string, xs []float64, params map[string]float64) ([]float64, error) {
	return e.eval.Evaluate(expr, xs, params)
}

// EvaluateSingle evaluates an expression at one point.
func (e *Engine) EvaluateSingle(expr string, x float64, params map[string]float64) (float64, error) {
	return e.eval.EvaluateSingle(expr, x, params)
}

// EvaluateParametric evaluates x(t), y(t) over count samples of the t domain.
func (e *Engine) EvaluateParametric(xExpr, yExpr string, tDomain [2]float64, count int, params map[string]float64) ([]float64, []float64, error) {
	return e.eval.EvaluateParametric(xExpr, yExpr, tDomain[0], tDomain[1], e.clamp(count), params)
}

// EvaluateSurface evaluates z = f(x, y) over a square grid, returning the
// axis samples and the row-major z values.
func (e *Engine) EvaluateSurface(expr string, xDomain, yDomain [2]float64, resolution int, params map[string]float64) (xs, ys, zs []float64, err error) {
	return e.eval.EvaluateSurface(expr, xDomain, yDomain, resolution, params)
}

// SolveImplicit emits coordinates for a recognized closed-form implicit
// equation. Unrecognized equations return two empty series.
func (e *Engine) SolveImplicit(equation string, domain [2]float64, resolution int, params map[string]float64) ([]float64, []float64, error) {
	return e.solver.Solve(equation, domain, e.clamp(resolution), params)
}

// GenerateSeries samples an explicit expression over a linearly spaced domain
// and splits the result into continuous segments.
func (e *Engine) GenerateSeries(expr string, domain [2]float64, count int, params map[string]float64) (GraphData, error) {
	count = e.clamp(count)
	xs := series.Linspace(domain[0], domain[1], count)
	ys, err := e.eval.Evaluate(expr, xs, params)
	if err != nil {
		return GraphData{}, err
	}
	return series.Build(xs, ys), nil
}

func (e *Engine) clamp(count int) int {
	if count > e.maxPoints {
		return e.maxPoints
	}
	return count
}
