// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package normalize rewrites loosely formatted human input (LaTeX macros,
// HTML entities, implicit multiplication) into plain expression text the
// parser accepts.
package normalize

import (
	"regexp"
	"strings"
)

// entities maps HTML entities to their expression-text equivalents.
var entities = strings.NewReplacer(
	"&sup1;", "^1",
	"&sup2;", "^2",
	"&sup3;", "^3",
	"&pi;", "pi",
	"&theta;", "theta",
	"&alpha;", "alpha",
	"&beta;", "beta",
	"&gamma;", "gamma",
	"&lambda;", "lambda",
	"&mu;", "mu",
	"&omega;", "omega",
	"&phi;", "phi",
	"&sigma;", "sigma",
	"&infin;", "inf",
	"&radic;", "sqrt",
	"&middot;", "*",
	"&sdot;", "*",
	"&times;", "*",
	"&divide;", "/",
	"&minus;", "-",
	"&frac12;", "(1/2)",
	"&frac14;", "(1/4)",
	"&frac34;", "(3/4)",
	"&le;", "<=",
	"&ge;", ">=",
	"&ne;", "!=",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&nbsp;", " ",
)

// unicodeSymbols maps math symbols that arrive as raw Unicode.
var unicodeSymbols = strings.NewReplacer(
	"¹", "^1",
	"²", "^2",
	"³", "^3",
	"π", "pi",
	"τ", "tau",
	"θ", "theta",
	"α", "alpha",
	"β", "beta",
	"γ", "gamma",
	"λ", "lambda",
	"μ", "mu",
	"ω", "omega",
	"φ", "phi",
	"σ", "sigma",
	"√", "sqrt",
	"·", "*",
	"×", "*",
	"÷", "/",
	"−", "-",
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"∞", "inf",
)

type latexRule struct {
	re   *regexp.Regexp
	repl string
}

// latexRules are applied in order. Rules whose replacement can expose further
// matches (nested \frac) are re-applied to a fixed point by rewriteLaTeX.
var latexRules = []latexRule{
	{regexp.MustCompile(`\\frac\s*\{([^{}]*)\}\s*\{([^{}]*)\}`), `(($1)/($2))`},
	{regexp.MustCompile(`\\sqrt\s*\[([^\[\]]*)\]\s*\{([^{}]*)\}`), `(($2)^(1/($1)))`},
	{regexp.MustCompile(`\\sqrt\s*\{([^{}]*)\}`), `sqrt($1)`},
	{regexp.MustCompile(`\\left`), ``},
	{regexp.MustCompile(`\\right`), ``},
	{regexp.MustCompile(`\\arcsin`), `asin`},
	{regexp.MustCompile(`\\arccos`), `acos`},
	{regexp.MustCompile(`\\arctan`), `atan`},
	{regexp.MustCompile(`\\ln\b`), `log`},
	{regexp.MustCompile(`\\(sinh|cosh|tanh|sin|cos|tan|exp|log|sqrt)\b`), `$1`},
	{regexp.MustCompile(`\\cdot`), `*`},
	{regexp.MustCompile(`\\times`), `*`},
	{regexp.MustCompile(`\\div\b`), `/`},
	{regexp.MustCompile(`\\(pi|tau|theta|alpha|beta|gamma|lambda|mu|omega|phi|sigma)\b`), `$1`},
	{regexp.MustCompile(`\\leq?\b`), `<=`},
	{regexp.MustCompile(`\\geq?\b`), `>=`},
	{regexp.MustCompile(`\\neq?\b`), `!=`},
	{regexp.MustCompile(`\\infty`), `inf`},
	{regexp.MustCompile(`\^\s*\{([^{}]*)\}`), `^($1)`},
	// Subscripts stay part of the identifier: x_{12} becomes the plain
	// variable x_12. Requiring an identifier on the left keeps names
	// like __import__ intact rather than stripping their underscores.
	{regexp.MustCompile(`([A-Za-z0-9])_\{([A-Za-z0-9]*)\}`), `${1}_$2`},
}

const maxLatexPasses = 10

func rewriteLaTeX(s string) string {
	if !strings.ContainsAny(s, `\^_{}`) {
		return s
	}
	for i := 0; i < maxLatexPasses; i++ {
		prev := s
		for _, r := range latexRules {
			s = r.re.ReplaceAllString(s, r.repl)
		}
		if s == prev {
			break
		}
	}
	// Leftover grouping braces act as parentheses.
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return s
}

// Normalize converts raw human input into expression text: HTML entities and
// Unicode symbols first, then LaTeX macros, case folding, and finally
// implicit multiplication. It never fails; anything it does not recognize
// passes through for the validator to report.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "&") {
		s = entities.Replace(s)
	}
	s = unicodeSymbols.Replace(s)
	s = rewriteLaTeX(s)
	s = strings.ToLower(s)
	return Expand(s)
}
