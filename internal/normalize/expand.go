// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

package normalize

import (
	"strings"
	"unicode"

	"github.com/plotfn/grapher/internal/scanner"
	"github.com/plotfn/grapher/internal/token"
)

// unit is one atom of the expanded token stream. Identifier runs from the
// scanner are split into units here: known function and constant names stay
// whole, everything else becomes single-letter variables and digit runs.
type unit struct {
	kind   token.Kind
	value  string
	isFunc bool
}

// knownWords holds function and constant names ordered longest-first so the
// greedy segmenter never splits one into letters.
var knownWords = func() []string {
	words := append([]string{}, token.FunctionNames...)
	words = append(words, token.ConstantNames...)
	for i := 1; i < len(words); i++ {
		for j := i; j > 0 && len(words[j]) > len(words[j-1]); j-- {
			words[j], words[j-1] = words[j-1], words[j]
		}
	}
	return words
}()

// Expand inserts explicit multiplication between juxtaposed operands:
// 2x -> 2*x, xyz -> x*y*z, xsiny -> x*sin(y), 2(x+1) -> 2*(x+1). A function
// name not followed by parentheses takes the single following unit as its
// argument (sinx -> sin(x)). The result is a fixed point: expanding already
// expanded text changes nothing.
func Expand(s string) string {
	items, err := scanner.ScanAll(s)
	if err != nil {
		// Not lexable. Leave it alone; validation reports the real error.
		return s
	}

	var units []unit
	for _, it := range items {
		if it.Kind == token.IDENT {
			units = append(units, splitIdent(it.Value)...)
			continue
		}
		units = append(units, unit{kind: it.Kind, value: it.Value})
	}
	return emit(units)
}

// splitIdent segments an identifier run into known words, single letters and
// digit runs. Identifiers containing underscores are kept whole so explicit
// multi-character parameter names survive.
func splitIdent(s string) []unit {
	if strings.ContainsRune(s, '_') {
		return []unit{{kind: token.IDENT, value: s}}
	}
	if token.IsFunction(s) {
		return []unit{{kind: token.IDENT, value: s, isFunc: true}}
	}
	if token.IsConstant(s) {
		return []unit{{kind: token.IDENT, value: s}}
	}

	var units []unit
	rest := []rune(s)
	for len(rest) > 0 {
		if unicode.IsDigit(rest[0]) {
			n := 1
			for n < len(rest) && unicode.IsDigit(rest[n]) {
				n++
			}
			units = append(units, unit{kind: token.NUMBER, value: string(rest[:n])})
			rest = rest[n:]
			continue
		}
		if w := matchWord(rest); w != "" {
			units = append(units, unit{kind: token.IDENT, value: w, isFunc: token.IsFunction(w)})
			rest = rest[len(w):]
			continue
		}
		units = append(units, unit{kind: token.IDENT, value: string(rest[0])})
		rest = rest[1:]
	}
	return units
}

func matchWord(rest []rune) string {
	for _, w := range knownWords {
		if len(rest) < len(w) {
			continue
		}
		if string(rest[:len(w)]) == w {
			return w
		}
	}
	return ""
}

// emit serializes the unit stream, inserting '*' between adjacent operands
// and wrapping bare function arguments.
func emit(units []unit) string {
	var b strings.Builder
	prevOperand := false // previous chunk ended an operand
	prevFunc := false    // previous chunk was a function name awaiting '('
	prevSign := false    // previous chunk was + or - (avoid emitting ++/--)

	for i := 0; i < len(units); i++ {
		u := units[i]

		if u.isFunc {
			if i+1 < len(units) && units[i+1].kind == token.LPAREN {
				if prevOperand {
					b.WriteByte('*')
				}
				b.WriteString(u.value)
				prevOperand, prevFunc, prevSign = false, true, false
				continue
			}
			chunk, consumed := wrapFunc(units, i)
			if prevOperand {
				b.WriteByte('*')
			}
			b.WriteString(chunk)
			i += consumed
			prevOperand, prevFunc, prevSign = true, false, false
			continue
		}

		switch u.kind {
		case token.NUMBER, token.IDENT:
			if prevOperand {
				b.WriteByte('*')
			}
			b.WriteString(u.value)
			prevOperand, prevFunc, prevSign = true, false, false
		case token.LPAREN:
			if prevOperand && !prevFunc {
				b.WriteByte('*')
			}
			b.WriteByte('(')
			prevOperand, prevFunc, prevSign = false, false, false
		case token.RPAREN:
			b.WriteByte(')')
			prevOperand, prevFunc, prevSign = true, false, false
		case token.CARET:
			b.WriteByte('^')
			prevOperand, prevFunc, prevSign = false, false, false
		case token.PLUS, token.MINUS:
			if prevSign {
				b.WriteByte(' ')
			}
			b.WriteString(u.kind.String())
			prevOperand, prevFunc, prevSign = false, false, true
		default:
			b.WriteString(u.kind.String())
			prevOperand, prevFunc, prevSign = false, false, false
		}
	}
	return b.String()
}

// wrapFunc renders a function unit with no following parenthesis. The single
// next unit becomes its argument: a variable or number directly (sinx ->
// sin(x)), another bare function recursively (sincosx -> sin(cos(x))). With
// nothing usable after it the name is emitted bare and left for validation.
func wrapFunc(units []unit, i int) (string, int) {
	name := units[i].value
	if i+1 >= len(units) {
		return name, 0
	}
	next := units[i+1]
	if next.isFunc && (i+2 >= len(units) || units[i+2].kind != token.LPAREN) {
		inner, consumed := wrapFunc(units, i+1)
		return name + "(" + inner + ")", 1 + consumed
	}
	if next.kind == token.NUMBER || (next.kind == token.IDENT && !next.isFunc) {
		return name + "(" + next.value + ")", 1
	}
	return name, 0
}
