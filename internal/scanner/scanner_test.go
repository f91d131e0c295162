// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

package scanner

import (
	"testing"

	"github.com/plotfn/grapher/internal/token"
)

func kinds(items []Item) []token.Kind {
	out := make([]token.Kind, 0, len(items))
	for _, it := range items {
		out = append(out, it.Kind)
	}
	return out
}

func TestScanAll(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"number", "42", []token.Kind{token.NUMBER, token.EOF}},
		{"decimal", "3.14", []token.Kind{token.NUMBER, token.EOF}},
		{"scientific", "1e5", []token.Kind{token.NUMBER, token.EOF}},
		{"scientific signed", "2.5e-3", []token.Kind{token.NUMBER, token.EOF}},
		{"ident", "sin", []token.Kind{token.IDENT, token.EOF}},
		{"call", "sin(x)", []token.Kind{token.IDENT, token.LPAREN, token.IDENT, token.RPAREN, token.EOF}},
		{"arith", "1+2*3", []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.STAR, token.NUMBER, token.EOF}},
		{"power caret", "x^2", []token.Kind{token.IDENT, token.CARET, token.NUMBER, token.EOF}},
		{"power doublestar", "x**2", []token.Kind{token.IDENT, token.CARET, token.NUMBER, token.EOF}},
		{"comparison", "x<=2", []token.Kind{token.IDENT, token.LE, token.NUMBER, token.EOF}},
		{"equality", "x==2", []token.Kind{token.IDENT, token.EQL, token.NUMBER, token.EOF}},
		{"equation", "y=x", []token.Kind{token.IDENT, token.EQUALS, token.IDENT, token.EOF}},
		{"spaces", "  1 + 2  ", []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}},
		{"modulo", "x%2", []token.Kind{token.IDENT, token.PERCENT, token.NUMBER, token.EOF}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := ScanAll(tc.input)
			if err != nil {
				t.Fatalf("ScanAll(%q): %v", tc.input, err)
			}
			got := kinds(items)
			if len(got) != len(tc.want) {
				t.Fatalf("ScanAll(%q) = %v, want %v", tc.input, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("ScanAll(%q)[%d] = %v, want %v", tc.input, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestScanNumberValues(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"1e5", "1e5"},
		{"2.5e-3", "2.5e-3"},
		{"1e", "1"}, // bare e is not an exponent
	}
	for _, tc := range cases {
		items, err := ScanAll(tc.input)
		if err != nil {
			t.Fatalf("ScanAll(%q): %v", tc.input, err)
		}
		if items[0].Kind != token.NUMBER || items[0].Value != tc.want {
			t.Errorf("ScanAll(%q)[0] = %v %q, want NUMBER %q", tc.input, items[0].Kind, items[0].Value, tc.want)
		}
	}
}

func TestScanInvalidRune(t *testing.T) {
	for _, input := range []string{"x $ y", "a'b", "1 @ 2"} {
		if _, err := ScanAll(input); err == nil {
			t.Errorf("ScanAll(%q): expected error, got nil", input)
		}
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	s := New("1+2")
	first, err := s.Peek()
	if err != nil {
		t.Fatal(err)
	}
	next, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if first != next {
		t.Errorf("Peek = %v, Next = %v, want equal", first, next)
	}
}
