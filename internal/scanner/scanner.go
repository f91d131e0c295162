// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package scanner provides the lexer for math expression text.
package scanner

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/plotfn/grapher/internal/token"
)

// Item represents a scanned token with its literal text.
type Item struct {
	Kind  token.Kind
	Value string
	Pos   int // Rune offset where this token started
}

// Scanner tokenizes expression text rune-by-rune.
type Scanner struct {
	input  []rune
	pos    int
	peeked *Item
}

// New creates a Scanner over the given expression text.
func New(s string) *Scanner {
	return &Scanner{input: []rune(s)}
}

// ScanAll tokenizes the whole input, excluding the trailing EOF item.
func ScanAll(s string) ([]Item, error) {
	sc := New(s)
	var items []Item
	for {
		it, err := sc.Next()
		if err != nil {
			return nil, err
		}
		if it.Kind == token.EOF {
			return items, nil
		}
		items = append(items, it)
	}
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (Item, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return Item{}, err
	}
	s.peeked = &item
	return item, nil
}

// Next returns the next token from the input.
func (s *Scanner) Next() (Item, error) {
	if s.peeked != nil {
		item := *s.peeked
		s.peeked = nil
		return item, nil
	}

	for s.pos < len(s.input) && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.input) {
		return Item{Kind: token.EOF, Pos: s.pos}, nil
	}

	start := s.pos
	r := s.input[s.pos]

	switch {
	case unicode.IsDigit(r) || (r == '.' && s.pos+1 < len(s.input) && unicode.IsDigit(s.input[s.pos+1])):
		return s.scanNumber(start)
	case unicode.IsLetter(r) || r == '_':
		return s.scanIdent(start)
	}

	s.pos++
	switch r {
	case '+':
		return Item{Kind: token.PLUS, Value: "+", Pos: start}, nil
	case '-':
		return Item{Kind: token.MINUS, Value: "-", Pos: start}, nil
	case '*':
		if s.pos < len(s.input) && s.input[s.pos] == '*' {
			s.pos++
			return Item{Kind: token.CARET, Value: "**", Pos: start}, nil
		}
		return Item{Kind: token.STAR, Value: "*", Pos: start}, nil
	case '/':
		return Item{Kind: token.SLASH, Value: "/", Pos: start}, nil
	case '%':
		return Item{Kind: token.PERCENT, Value: "%", Pos: start}, nil
	case '^':
		return Item{Kind: token.CARET, Value: "^", Pos: start}, nil
	case '(':
		return Item{Kind: token.LPAREN, Value: "(", Pos: start}, nil
	case ')':
		return Item{Kind: token.RPAREN, Value: ")", Pos: start}, nil
	case ',':
		return Item{Kind: token.COMMA, Value: ",", Pos: start}, nil
	case '=':
		if s.pos < len(s.input) && s.input[s.pos] == '=' {
			s.pos++
			return Item{Kind: token.EQL, Value: "==", Pos: start}, nil
		}
		return Item{Kind: token.EQUALS, Value: "=", Pos: start}, nil
	case '<':
		if s.pos < len(s.input) && s.input[s.pos] == '=' {
			s.pos++
			return Item{Kind: token.LE, Value: "<=", Pos: start}, nil
		}
		return Item{Kind: token.LT, Value: "<", Pos: start}, nil
	case '>':
		if s.pos < len(s.input) && s.input[s.pos] == '=' {
			s.pos++
			return Item{Kind: token.GE, Value: ">=", Pos: start}, nil
		}
		return Item{Kind: token.GT, Value: ">", Pos: start}, nil
	case '!':
		if s.pos < len(s.input) && s.input[s.pos] == '=' {
			s.pos++
			return Item{Kind: token.NE, Value: "!=", Pos: start}, nil
		}
	}
	return Item{}, fmt.Errorf("unexpected character %q at position %d", r, start)
}

// scanNumber scans an integer or decimal literal, with optional scientific
// exponent. The exponent marker is only consumed when a digit follows, so
// "2e" lexes as the number 2 and the identifier e.
func (s *Scanner) scanNumber(start int) (Item, error) {
	var b strings.Builder
	for s.pos < len(s.input) && unicode.IsDigit(s.input[s.pos]) {
		b.WriteRune(s.input[s.pos])
		s.pos++
	}
	if s.pos < len(s.input) && s.input[s.pos] == '.' {
		b.WriteRune('.')
		s.pos++
		for s.pos < len(s.input) && unicode.IsDigit(s.input[s.pos]) {
			b.WriteRune(s.input[s.pos])
			s.pos++
		}
	}
	if s.pos < len(s.input) && (s.input[s.pos] == 'e' || s.input[s.pos] == 'E') {
		next := s.pos + 1
		if next < len(s.input) && (s.input[next] == '+' || s.input[next] == '-') {
			next++
		}
		if next < len(s.input) && unicode.IsDigit(s.input[next]) {
			for s.pos < next {
				b.WriteRune(s.input[s.pos])
				s.pos++
			}
			for s.pos < len(s.input) && unicode.IsDigit(s.input[s.pos]) {
				b.WriteRune(s.input[s.pos])
				s.pos++
			}
		}
	}
	return Item{Kind: token.NUMBER, Value: b.String(), Pos: start}, nil
}

func (s *Scanner) scanIdent(start int) (Item, error) {
	var b strings.Builder
	for s.pos < len(s.input) {
		r := s.input[s.pos]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		b.WriteRune(r)
		s.pos++
	}
	return Item{Kind: token.IDENT, Value: b.String(), Pos: start}, nil
}
