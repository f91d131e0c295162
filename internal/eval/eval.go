// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package eval compiles normalized expressions and evaluates them over
// vectorized inputs. Structural failures (syntax, unsafe constructs, unknown
// functions) return errors; pointwise numeric failures become NaN markers so
// one bad sample never aborts a series.
package eval

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/plotfn/grapher/internal/ast"
	"github.com/plotfn/grapher/internal/normalize"
	"github.com/plotfn/grapher/internal/parser"
	"github.com/plotfn/grapher/internal/token"
)

// MaxSurfaceResolution bounds one side of a surface grid (200^2 = 40k points).
const MaxSurfaceResolution = 200

// Evaluator compiles and evaluates expressions. The zero value is not usable;
// construct with New. The only state is an append-only compilation memo, so a
// single Evaluator is safe for concurrent use.
type Evaluator struct {
	memo sync.Map // normalized expression -> ast.Node
}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// compile normalizes, validates and parses an expression, memoizing the
// resulting tree. The denylist scan runs on the raw text, before normalization
// can rewrite its patterns.
func (e *Evaluator) compile(expr string) (ast.Node, string, error) {
	if err := parser.CheckSafe(expr); err != nil {
		return nil, "", err
	}
	normalized := normalize.Normalize(expr)
	if normalized == "" {
		return nil, "", fmt.Errorf("empty expression")
	}
	if cached, ok := e.memo.Load(normalized); ok {
		return cached.(ast.Node), normalized, nil
	}
	if err := parser.Validate(normalized); err != nil {
		return nil, "", err
	}
	node, err := parser.Parse(normalized)
	if err != nil {
		return nil, "", err
	}
	e.memo.Store(normalized, node)
	return node, normalized, nil
}

// Evaluate evaluates expr over the sample array xs with x as the independent
// variable. The result always has len(xs) elements; non-finite results are
// marked NaN.
func (e *Evaluator) Evaluate(expr string, xs []float64, params map[string]float64) ([]float64, error) {
	return e.EvaluateVar(expr, "x", xs, params)
}

// EvaluateVar is Evaluate with a caller-chosen independent variable name
// (parametric curves use t).
func (e *Evaluator) EvaluateVar(expr, indep string, vals []float64, params map[string]float64) ([]float64, error) {
	node, _, err := e.compile(expr)
	if err != nil {
		return nil, err
	}
	env := e.buildEnv(node, map[string][]float64{indep: vals}, params)
	return e.run(node, env, len(vals))
}

// EvaluateSingle evaluates expr at a single point, unwrapping the one-element
// vector result.
func (e *Evaluator) EvaluateSingle(expr string, x float64, params map[string]float64) (float64, error) {
	res, err := e.Evaluate(expr, []float64{x}, params)
	if err != nil {
		return math.NaN(), err
	}
	if len(res) == 0 {
		return math.NaN(), nil
	}
	return res[0], nil
}

// EvaluateConstant evaluates an expression with no independent variable, such
// as the right side of "x = 2*pi". Free variables still default to zero.
func (e *Evaluator) EvaluateConstant(expr string, params map[string]float64) (float64, error) {
	return e.EvaluateSingle(expr, 0, params)
}

// EvaluateParametric evaluates the pair x(t), y(t) over count samples of
// [t0, t1].
func (e *Evaluator) EvaluateParametric(xExpr, yExpr string, t0, t1 float64, count int, params map[string]float64) ([]float64, []float64, error) {
	if xExpr == "" || yExpr == "" {
		return nil, nil, fmt.Errorf("both parametric expressions are required")
	}
	if count < 2 {
		return nil, nil, fmt.Errorf("parametric evaluation needs at least 2 points")
	}
	ts := floats.Span(make([]float64, count), t0, t1)
	xs, err := e.EvaluateVar(xExpr, "t", ts, params)
	if err != nil {
		return nil, nil, fmt.Errorf("x(t): %w", err)
	}
	ys, err := e.EvaluateVar(yExpr, "t", ts, params)
	if err != nil {
		return nil, nil, fmt.Errorf("y(t): %w", err)
	}
	return xs, ys, nil
}

// EvaluateSurface evaluates z = f(x, y) over a resolution-by-resolution grid,
// returning the axis sample arrays and the row-major z grid (rows iterate y).
func (e *Evaluator) EvaluateSurface(expr string, xDomain, yDomain [2]float64, resolution int, params map[string]float64) (xs, ys, zs []float64, err error) {
	if resolution < 2 || resolution > MaxSurfaceResolution {
		return nil, nil, nil, fmt.Errorf("surface resolution must be between 2 and %d", MaxSurfaceResolution)
	}
	node, _, err := e.compile(expr)
	if err != nil {
		return nil, nil, nil, err
	}

	xs = floats.Span(make([]float64, resolution), xDomain[0], xDomain[1])
	ys = floats.Span(make([]float64, resolution), yDomain[0], yDomain[1])

	n := resolution * resolution
	gridX := make([]float64, n)
	gridY := make([]float64, n)
	for j := 0; j < resolution; j++ {
		for i := 0; i < resolution; i++ {
			gridX[j*resolution+i] = xs[i]
			gridY[j*resolution+i] = ys[j]
		}
	}

	env := e.buildEnv(node, map[string][]float64{"x": gridX, "y": gridY}, params)
	zs, err = e.run(node, env, n)
	if err != nil {
		return nil, nil, nil, err
	}
	return xs, ys, zs, nil
}

// vec is a vectorized value: a scalar broadcast lazily, or a full array.
type vec struct {
	scalar float64
	arr    []float64
}

func scalarVec(v float64) vec { return vec{scalar: v} }

// buildEnv merges the independent sample arrays, caller parameters, and a
// zero default for any referenced name that remains unbound. Parameters never
// override an independent variable: those names are reserved.
func (e *Evaluator) buildEnv(node ast.Node, indep map[string][]float64, params map[string]float64) map[string]vec {
	env := make(map[string]vec)
	for _, name := range ast.Variables(node) {
		env[name] = scalarVec(0)
	}
	for name, v := range params {
		if _, reserved := indep[name]; reserved {
			continue
		}
		env[name] = scalarVec(v)
	}
	for name, vals := range indep {
		env[name] = vec{arr: vals}
	}
	return env
}

// run evaluates the tree and materializes the result to length n with
// non-finite elements swept to NaN.
func (e *Evaluator) run(node ast.Node, env map[string]vec, n int) ([]float64, error) {
	v, err := evalNode(node, env, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	if v.arr == nil {
		for i := range out {
			out[i] = v.scalar
		}
	} else {
		copy(out, v.arr)
	}
	for i, y := range out {
		if !isFinite(y) {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func evalNode(n ast.Node, env map[string]vec, size int) (vec, error) {
	switch t := n.(type) {
	case ast.Number:
		return scalarVec(t.Value), nil

	case ast.Variable:
		if c, ok := constants[t.Name]; ok {
			return scalarVec(c), nil
		}
		if v, ok := env[t.Name]; ok {
			return v, nil
		}
		return vec{}, fmt.Errorf("unknown variable %q", t.Name)

	case ast.Call:
		fn, ok := functions[t.Name]
		if !ok {
			return vec{}, fmt.Errorf("unknown function %q", t.Name)
		}
		if len(t.Args) != 1 {
			return vec{}, fmt.Errorf("function %q takes exactly one argument", t.Name)
		}
		arg, err := evalNode(t.Args[0], env, size)
		if err != nil {
			return vec{}, err
		}
		return mapVec(arg, size, fn), nil

	case ast.Unary:
		x, err := evalNode(t.X, env, size)
		if err != nil {
			return vec{}, err
		}
		return mapVec(x, size, func(v float64) float64 { return -v }), nil

	case ast.Binary:
		l, err := evalNode(t.L, env, size)
		if err != nil {
			return vec{}, err
		}
		r, err := evalNode(t.R, env, size)
		if err != nil {
			return vec{}, err
		}
		op, err := binaryOp(t.Op)
		if err != nil {
			return vec{}, err
		}
		return zipVec(l, r, size, op), nil
	}
	return vec{}, fmt.Errorf("unsupported expression node %T", n)
}

func binaryOp(k token.Kind) (func(a, b float64) float64, error) {
	switch k {
	case token.PLUS:
		return func(a, b float64) float64 { return a + b }, nil
	case token.MINUS:
		return func(a, b float64) float64 { return a - b }, nil
	case token.STAR:
		return func(a, b float64) float64 { return a * b }, nil
	case token.SLASH:
		return func(a, b float64) float64 { return a / b }, nil
	case token.PERCENT:
		return math.Mod, nil
	case token.CARET:
		return math.Pow, nil
	case token.LT:
		return boolOp(func(a, b float64) bool { return a < b }), nil
	case token.GT:
		return boolOp(func(a, b float64) bool { return a > b }), nil
	case token.LE:
		return boolOp(func(a, b float64) bool { return a <= b }), nil
	case token.GE:
		return boolOp(func(a, b float64) bool { return a >= b }), nil
	case token.EQL:
		return boolOp(func(a, b float64) bool { return a == b }), nil
	case token.NE:
		return boolOp(func(a, b float64) bool { return a != b }), nil
	}
	return nil, fmt.Errorf("unsupported operator %q", k.String())
}

func boolOp(cmp func(a, b float64) bool) func(a, b float64) float64 {
	return func(a, b float64) float64 {
		if cmp(a, b) {
			return 1
		}
		return 0
	}
}

func mapVec(v vec, size int, f func(float64) float64) vec {
	if v.arr == nil {
		return scalarVec(f(v.scalar))
	}
	out := make([]float64, size)
	for i, x := range v.arr {
		out[i] = f(x)
	}
	return vec{arr: out}
}

func zipVec(a, b vec, size int, f func(x, y float64) float64) vec {
	if a.arr == nil && b.arr == nil {
		return scalarVec(f(a.scalar, b.scalar))
	}
	out := make([]float64, size)
	for i := range out {
		av, bv := a.scalar, b.scalar
		if a.arr != nil {
			av = a.arr[i]
		}
		if b.arr != nil {
			bv = b.arr[i]
		}
		out[i] = f(av, bv)
	}
	return vec{arr: out}
}
