// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package token defines the token kinds and the built-in vocabulary of the
// math expression grammar.
package token

// Kind represents a token kind.
type Kind int

const (
	EOF Kind = iota
	NUMBER
	IDENT

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^ or ** (exponentiation)

	LPAREN // (
	RPAREN // )
	COMMA  // ,

	EQUALS // = (implicit equations only)

	// Comparisons
	LT  // <
	GT  // >
	LE  // <=
	GE  // >=
	NE  // !=
	EQL // ==
)

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case IDENT:
		return "IDENT"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case CARET:
		return "^"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case COMMA:
		return ","
	case EQUALS:
		return "="
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	case NE:
		return "!="
	case EQL:
		return "=="
	}
	return "UNKNOWN"
}

// IsComparison returns true for comparison operator kinds.
func (k Kind) IsComparison() bool {
	switch k {
	case LT, GT, LE, GE, NE, EQL:
		return true
	}
	return false
}

// FunctionNames lists the supported functions, longest first so greedy
// matching inside identifier runs never splits a name.
var FunctionNames = []string{
	"floor", "log10", "round",
	"asin", "acos", "atan",
	"sinh", "cosh", "tanh",
	"log2", "sqrt", "ceil", "sign",
	"sin", "cos", "tan",
	"exp", "log", "abs",
}

// ConstantNames lists the named constants, longest first.
var ConstantNames = []string{"tau", "inf", "pi", "e"}

var functionSet = func() map[string]bool {
	m := make(map[string]bool, len(FunctionNames))
	for _, n := range FunctionNames {
		m[n] = true
	}
	return m
}()

var constantSet = func() map[string]bool {
	m := make(map[string]bool, len(ConstantNames))
	for _, n := range ConstantNames {
		m[n] = true
	}
	return m
}()

// IsFunction returns true if name is a supported function.
func IsFunction(name string) bool { return functionSet[name] }

// IsConstant returns true if name is a named constant.
func IsConstant(name string) bool { return constantSet[name] }
