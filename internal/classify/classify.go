// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package classify determines what kind of curve an expression describes and
// which names it depends on.
package classify

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/plotfn/grapher/internal/ast"
	"github.com/plotfn/grapher/internal/normalize"
	"github.com/plotfn/grapher/internal/parser"
	"github.com/plotfn/grapher/internal/token"
)

// Kind is the classified expression kind.
type Kind string

const (
	Explicit   Kind = "explicit"
	Implicit   Kind = "implicit"
	Parametric Kind = "parametric"
	Error      Kind = "error"
)

// Classification is the result of classifying one expression. It is computed
// fresh per call and never mutated afterwards.
type Classification struct {
	Kind            Kind     `json:"kind"`
	Normalized      string   `json:"normalized"`
	Variables       []string `json:"variables"`
	PrimaryVariable string   `json:"primary_variable,omitempty"`
	Parameters      []string `json:"parameters"`
	IsValid         bool     `json:"is_valid"`
	Error           string   `json:"error,omitempty"`
	Left            string   `json:"left,omitempty"`  // implicit only
	Right           string   `json:"right,omitempty"` // implicit only
}

// parametricPattern matches a bare x(...) / y(...) call on the raw input,
// before implicit multiplication turns "x(" into "x*(".
var parametricPattern = regexp.MustCompile(`\b[xy]\s*\(`)

// bareLetter is the fallback variable extractor for sides that fail to parse.
var bareLetter = regexp.MustCompile(`\b[a-z]\b`)

// Classify normalizes raw input, determines its kind from surface syntax and
// extracts its variables. It is pure and safe to call concurrently.
func Classify(raw string) (c Classification) {
	defer func() {
		if r := recover(); r != nil {
			c = Classification{
				Kind:       Error,
				Variables:  []string{},
				Parameters: []string{},
				Error:      fmt.Sprintf("classification failed: %v", r),
			}
		}
	}()

	normalized := normalize.Normalize(raw)
	// The denylist scans the raw text: normalization splits unknown
	// identifiers into letter products, which would hide its patterns.
	safeErr := parser.CheckSafe(raw)

	if parser.IsImplicit(normalized) {
		c = classifyImplicit(normalized)
		if safeErr != nil {
			c.IsValid = false
			c.Error = safeErr.Error()
		}
		return c
	}

	kind := Explicit
	if parametricPattern.MatchString(raw) {
		kind = Parametric
	}

	c = Classification{Kind: kind, Normalized: normalized}
	vars := extractVariables(normalized)
	c.Variables = vars
	c.PrimaryVariable = primaryOf(vars)
	c.Parameters = parametersOf(vars)
	err := safeErr
	if err == nil {
		err = parser.Validate(normalized)
	}
	if err != nil {
		c.IsValid = false
		c.Error = err.Error()
	} else {
		c.IsValid = true
	}
	return c
}

func classifyImplicit(normalized string) Classification {
	c := Classification{Kind: Implicit, Normalized: normalized}
	left, right, err := parser.SplitEquation(normalized)
	if err != nil {
		c.Variables = []string{}
		c.Parameters = []string{}
		c.Error = err.Error()
		return c
	}
	c.Left = left
	c.Right = right

	seen := make(map[string]bool)
	for _, side := range []string{left, right} {
		for _, v := range extractVariables(side) {
			seen[v] = true
		}
	}
	vars := make([]string, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	c.Variables = vars
	c.PrimaryVariable = primaryOf(vars)
	c.Parameters = parametersOf(vars)
	// Splitting succeeded; strict per-side syntax checking is the validator's
	// job and is invoked separately by callers that need it.
	c.IsValid = true
	return c
}

// extractVariables walks the parsed tree when possible and falls back to a
// bare single-letter scan when the side does not parse.
func extractVariables(s string) []string {
	node, err := parser.Parse(s)
	if err != nil {
		var vars []string
		seen := make(map[string]bool)
		for _, m := range bareLetter.FindAllString(s, -1) {
			if token.IsConstant(m) || token.IsFunction(m) || seen[m] {
				continue
			}
			seen[m] = true
			vars = append(vars, m)
		}
		sort.Strings(vars)
		if vars == nil {
			vars = []string{}
		}
		return vars
	}
	vars := ast.Variables(node)
	sort.Strings(vars)
	if vars == nil {
		vars = []string{}
	}
	return vars
}

func primaryOf(vars []string) string {
	for _, v := range vars {
		if v == "x" {
			return "x"
		}
	}
	return ""
}

func parametersOf(vars []string) []string {
	params := []string{}
	for _, v := range vars {
		switch v {
		case "x", "y", "t":
		default:
			params = append(params, v)
		}
	}
	return params
}
