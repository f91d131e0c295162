// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsafe marks expressions rejected by the safety checks rather than by
// the grammar itself.
var ErrUnsafe = fmt.Errorf("unsafe expression")

// denylist contains textual patterns rejected before parsing. CheckSafe must
// run against the raw input: normalization splits unknown identifiers into
// letter products ("exec" becomes "e*x*e*c"), which would hide every word
// pattern here.
var denylist = []struct {
	re  *regexp.Regexp
	msg string
}{
	{regexp.MustCompile(`__`), "attribute access"},
	{regexp.MustCompile(`(?i)\bimport\b`), "import"},
	{regexp.MustCompile(`(?i)\bexec\s*\(`), "exec"},
	{regexp.MustCompile(`(?i)\beval\s*\(`), "eval"},
	{regexp.MustCompile(`(?i)\bopen\s*\(`), "open"},
	{regexp.MustCompile(`(?i)\bfile\s*\(`), "file"},
	{regexp.MustCompile(`(?i)\binput\s*\(`), "input"},
	{regexp.MustCompile(`(?i)\bglobals\s*\(`), "globals"},
	{regexp.MustCompile(`(?i)\blocals\s*\(`), "locals"},
	{regexp.MustCompile(`(?i)\bvars\s*\(`), "vars"},
	{regexp.MustCompile(`(?i)\bdir\s*\(`), "dir"},
	{regexp.MustCompile(`\+\+`), "increment"},
	{regexp.MustCompile(`--`), "decrement"},
}

// CheckSafe scans s against the textual denylist. Callers apply it to the raw
// expression text, before any rewriting.
func CheckSafe(s string) error {
	for _, d := range denylist {
		if d.re.MatchString(s) {
			return fmt.Errorf("%w: unsupported construct: %s", ErrUnsafe, d.msg)
		}
	}
	return nil
}

var comparisonOps = []string{"<=", ">=", "!=", "==", "<", ">"}

// HasComparison reports whether s contains a comparison operator.
func HasComparison(s string) bool {
	for _, op := range comparisonOps {
		if strings.Contains(s, op) {
			return true
		}
	}
	return false
}

// IsImplicit reports whether s looks like an implicit equation: it contains
// '=' and no comparison operator.
func IsImplicit(s string) bool {
	return strings.Contains(s, "=") && !HasComparison(s)
}

// SplitEquation splits an implicit equation on its single '='. It fails when
// more than one '=' is present.
func SplitEquation(s string) (left, right string, err error) {
	parts := strings.Split(s, "=")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("implicit equation must contain exactly one '='")
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// Validate checks an expression against the accepted grammar and the safety
// policy. A nil return means valid. Implicit equations (a single '=', no
// comparisons) are validated side-by-side; anything else must be a plain
// expression, where '=' is rejected outright.
func Validate(s string) error {
	if err := CheckSafe(s); err != nil {
		return err
	}
	if IsImplicit(s) {
		left, right, err := SplitEquation(s)
		if err != nil {
			return err
		}
		if _, err := Parse(left); err != nil {
			return fmt.Errorf("left side of equation: %w", err)
		}
		if _, err := Parse(right); err != nil {
			return fmt.Errorf("right side of equation: %w", err)
		}
		return nil
	}

	if strings.Contains(s, "=") && !strings.Contains(s, "==") && !strings.Contains(s, "<=") &&
		!strings.Contains(s, ">=") && !strings.Contains(s, "!=") {
		return fmt.Errorf("%w: assignment (=) is not supported here; write an implicit equation like 'x^2 + y^2 = 4'", ErrUnsafe)
	}
	if _, err := Parse(s); err != nil {
		return err
	}
	return nil
}
