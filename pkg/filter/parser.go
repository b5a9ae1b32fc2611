// ABOUTME: Recursive descent parser for the textual filter grammar
// ABOUTME: and|or|not(list) composites over op(class.prop,"value") leaves

package filter

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed filter string with the byte offset of the
// offending token.
type SyntaxError struct {
	Pos    int
	Token  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter: %s at offset %d near %q", e.Reason, e.Pos, e.Token)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokValue
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '.'
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && l.input[l.pos] == ' ' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	switch c := l.input[l.pos]; {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	case c == '"':
		end := strings.IndexByte(l.input[l.pos+1:], '"')
		if end < 0 {
			return token{}, &SyntaxError{Pos: start, Token: l.input[start:], Reason: "unterminated value"}
		}
		l.pos += end + 2
		return token{kind: tokValue, text: l.input[start+1 : l.pos-1], pos: start}, nil
	case isWordChar(c):
		for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokWord, text: l.input[start:l.pos], pos: start}, nil
	}
	return token{}, &SyntaxError{Pos: start, Token: l.input[start : start+1], Reason: "unexpected character"}
}

type parser struct {
	lex lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.kind != kind {
		return &SyntaxError{Pos: p.tok.pos, Token: p.tok.text, Reason: "expected " + what}
	}
	return nil
}

// Parse parses a filter string into an expression tree.
//
// The grammar composes and(...), or(...) and not(...) over comparison
// leaves of the form op(class.prop,"value") with op one of eq, ne, lt, gt,
// ge, le and wcard. List elements are comma separated; values are double
// quoted and contain no escapes.
func Parse(s string) (Expr, error) {
	p := &parser{lex: lexer{input: s}}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokEOF, "end of filter"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) parseExpr() (Expr, error) {
	if err := p.expect(tokWord, "operator"); err != nil {
		return nil, err
	}
	op := p.tok
	switch op.text {
	case "and", "or", "not":
		exprs, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		switch op.text {
		case "and":
			return &And{Exprs: exprs}, nil
		case "or":
			return &Or{Exprs: exprs}, nil
		}
		return &Not{Exprs: exprs}, nil
	case OpEq, OpNe, OpLt, OpGt, OpGe, OpLe, OpWcard:
		return p.parsePropExpr(op.text)
	}
	return nil, &SyntaxError{Pos: op.pos, Token: op.text, Reason: "unknown operator"}
}

func (p *parser) parseExprList() ([]Expr, error) {
	if err := p.expect(tokLParen, `"("`); err != nil {
		return nil, err
	}
	var exprs []Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.kind {
		case tokComma:
			continue
		case tokRParen:
			return exprs, nil
		}
		return nil, &SyntaxError{Pos: p.tok.pos, Token: p.tok.text, Reason: `expected "," or ")"`}
	}
}

func (p *parser) parsePropExpr(op string) (Expr, error) {
	if err := p.expect(tokLParen, `"("`); err != nil {
		return nil, err
	}
	if err := p.expect(tokWord, "class.prop"); err != nil {
		return nil, err
	}
	class, prop, ok := strings.Cut(p.tok.text, ".")
	if !ok || class == "" || prop == "" {
		return nil, &SyntaxError{Pos: p.tok.pos, Token: p.tok.text, Reason: "expected class.prop"}
	}
	if err := p.expect(tokComma, `","`); err != nil {
		return nil, err
	}
	if err := p.expect(tokValue, "quoted value"); err != nil {
		return nil, err
	}
	value := p.tok.text
	if err := p.expect(tokRParen, `")"`); err != nil {
		return nil, err
	}
	return &PropExpr{Class: class, Prop: prop, Value: value, Op: op}, nil
}
