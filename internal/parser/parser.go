// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The grapher Authors

// Package parser implements the recursive-descent parser for the accepted
// expression grammar. The grammar's productions are the safety allow-list:
// it can only build arithmetic, comparisons, calls, numbers and names, so
// anything else is a parse error by construction.
package parser

import (
	"fmt"
	"strconv"

	"github.com/plotfn/grapher/internal/ast"
	"github.com/plotfn/grapher/internal/scanner"
	"github.com/plotfn/grapher/internal/token"
)

type parser struct {
	sc *scanner.Scanner
}

// Parse parses a single expression and requires it to consume all input.
func Parse(s string) (ast.Node, error) {
	p := &parser{sc: scanner.New(s)}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	it, err := p.sc.Next()
	if err != nil {
		return nil, err
	}
	if it.Kind != token.EOF {
		return nil, fmt.Errorf("unexpected %q at position %d", it.Value, it.Pos)
	}
	return node, nil
}

// expression := additive (compareOp additive)?
func (p *parser) parseExpression() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	it, err := p.sc.Peek()
	if err != nil {
		return nil, err
	}
	if it.Kind.IsComparison() {
		if _, err := p.sc.Next(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: it.Kind, L: left, R: right}, nil
	}
	return left, nil
}

// additive := multiplicative (('+'|'-') multiplicative)*
func (p *parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		it, err := p.sc.Peek()
		if err != nil {
			return nil, err
		}
		if it.Kind != token.PLUS && it.Kind != token.MINUS {
			return left, nil
		}
		if _, err := p.sc.Next(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: it.Kind, L: left, R: right}
	}
}

// multiplicative := unary (('*'|'/'|'%') unary)*
func (p *parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		it, err := p.sc.Peek()
		if err != nil {
			return nil, err
		}
		if it.Kind != token.STAR && it.Kind != token.SLASH && it.Kind != token.PERCENT {
			return left, nil
		}
		if _, err := p.sc.Next(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: it.Kind, L: left, R: right}
	}
}

// unary := ('+'|'-') unary | power
func (p *parser) parseUnary() (ast.Node, error) {
	it, err := p.sc.Peek()
	if err != nil {
		return nil, err
	}
	if it.Kind == token.PLUS || it.Kind == token.MINUS {
		if _, err := p.sc.Next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if it.Kind == token.PLUS {
			return x, nil
		}
		return ast.Unary{Op: token.MINUS, X: x}, nil
	}
	return p.parsePower()
}

// power := primary ('^' unary)?
//
// Exponentiation is right-associative and binds tighter than unary minus on
// its left (-x^2 is -(x^2)), while the exponent itself may carry a sign
// (x^-2).
func (p *parser) parsePower() (ast.Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	it, err := p.sc.Peek()
	if err != nil {
		return nil, err
	}
	if it.Kind != token.CARET {
		return base, nil
	}
	if _, err := p.sc.Next(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.Binary{Op: token.CARET, L: base, R: exp}, nil
}

// primary := NUMBER | IDENT | IDENT '(' args ')' | '(' expression ')'
func (p *parser) parsePrimary() (ast.Node, error) {
	it, err := p.sc.Next()
	if err != nil {
		return nil, err
	}
	switch it.Kind {
	case token.NUMBER:
		v, err := strconv.ParseFloat(it.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", it.Value, it.Pos)
		}
		return ast.Number{Value: v, Lit: it.Value}, nil

	case token.IDENT:
		next, err := p.sc.Peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == token.LPAREN {
			return p.parseCall(it.Value)
		}
		return ast.Variable{Name: it.Value}, nil

	case token.LPAREN:
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return node, nil

	case token.EOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at position %d", it.Value, it.Pos)
}

func (p *parser) parseCall(name string) (ast.Node, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Node
	it, err := p.sc.Peek()
	if err != nil {
		return nil, err
	}
	if it.Kind == token.RPAREN {
		p.sc.Next()
		return ast.Call{Name: name}, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		it, err := p.sc.Next()
		if err != nil {
			return nil, err
		}
		switch it.Kind {
		case token.COMMA:
			continue
		case token.RPAREN:
			return ast.Call{Name: name, Args: args}, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')' at position %d, got %q", it.Pos, it.Value)
		}
	}
}

func (p *parser) expect(kind token.Kind) error {
	it, err := p.sc.Next()
	if err != nil {
		return err
	}
	if it.Kind != kind {
		return fmt.Errorf("expected %q at position %d, got %q", kind.String(), it.Pos, it.Value)
	}
	return nil
}
