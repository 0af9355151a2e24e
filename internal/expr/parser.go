package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type parser struct {
	toks []token
	pos  int
}

// Parse builds an expression tree from src. Only the functions and
// constants listed in Functions and Constants are accepted.
func Parse(src string) (Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}

	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}

	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops string) bool {
	t := p.peek()
	return t.kind == tokOp && strings.Contains(ops, t.text)
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.isOp("+-") {
		op := p.next().text[0]
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.isOp("*/") {
		op := p.next().text[0]
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.isOp("+-") {
		op := p.next().text[0]
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			return operand, nil
		}
		return unaryNode{op: op, operand: operand}, nil
	}

	return p.parsePower()
}

// parsePower is right associative: 2^3^2 is 2^(3^2), and -2^2 is -(2^2).
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if p.isOp("^") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: '^', left: base, right: exp}, nil
	}

	return base, nil
}

func (p *parser) parsePostfix() (Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.isOp("%") {
		p.next()
		n = percentNode{operand: n}
	}

	return n, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()

	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrSyntax, t.text, t.pos)
		}
		return numberNode{value: v}, nil

	case tokIdent:
		if fn, ok := functions[t.text]; ok {
			if p.peek().kind != tokLParen {
				return nil, fmt.Errorf("%w: %s needs an argument at offset %d", ErrSyntax, t.text, t.pos)
			}
			p.next()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectRParen(); err != nil {
				return nil, err
			}
			return callNode{fn: fn, arg: arg}, nil
		}
		if v, ok := constants[t.text]; ok {
			return constNode{name: t.text, value: v}, nil
		}
		return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownIdentifier, t.text, t.pos)

	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectRParen(); err != nil {
			return nil, err
		}
		return inner, nil

	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)

	default:
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}
}

func (p *parser) expectRParen() error {
	t := p.next()
	if t.kind != tokRParen {
		return fmt.Errorf("%w: expected ) at offset %d", ErrSyntax, t.pos)
	}
	return nil
}
