// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package ast defines the expression tree produced by the parser. The node
// set is deliberately small: arithmetic, comparisons, calls, numbers and
// names. Nothing else can be represented, so nothing else can be evaluated.
package ast

import (
	"sort"
	"strconv"
	"strings"

	"github.com/plotfn/grapher/internal/token"
)

// Node is the interface all expression nodes implement.
type Node interface {
	// String returns a fully parenthesized rendering of the node.
	String() string
}

// Number is a numeric literal.
type Number struct {
	Value float64
	Lit   string // original literal text, kept for round-tripping
}

func (n Number) String() string {
	if n.Lit != "" {
		return n.Lit
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Variable is a named value: a free variable, a constant, or a parameter.
type Variable struct {
	Name string
}

func (v Variable) String() string { return v.Name }

// Call is a function application.
type Call struct {
	Name string
	Args []Node
}

func (c Call) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Unary is a prefix + or - applied to an operand.
type Unary struct {
	Op token.Kind
	X  Node
}

func (u Unary) String() string {
	return "(" + u.Op.String() + u.X.String() + ")"
}

// Binary is an arithmetic or comparison operation on two operands.
type Binary struct {
	Op   token.Kind
	L, R Node
}

func (b Binary) String() string {
	return "(" + b.L.String() + " " + b.Op.String() + " " + b.R.String() + ")"
}

// Variables collects the free variable names referenced by a tree, excluding
// named constants. Function names never appear as Variable nodes.
func Variables(n Node) []string {
	seen := make(map[string]bool)
	collect(n, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collect(n Node, seen map[string]bool) {
	switch t := n.(type) {
	case Variable:
		if !token.IsConstant(t.Name) {
			seen[t.Name] = true
		}
	case Call:
		for _, a := range t.Args {
			collect(a, seen)
		}
	case Unary:
		collect(t.X, seen)
	case Binary:
		collect(t.L, seen)
		collect(t.R, seen)
	}
}
