// Package parser builds an AST from formula tokens by recursive descent.
//
// Grammar, lowest to highest binding, every level left associative:
//
//	expression := term (("+" | "-") term)*
//	term       := factor (("*" | "/") factor)*
//	factor     := primary ("^" primary)*
//	primary    := NUMBER | CELL | RANGE
//	            | FUNCTION "(" [ expression ("," expression)* ] ")"
//	            | "(" expression ")"
package parser

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/formulast/pkg/ast"
	"github.com/walteh/formulast/pkg/lexer"
	"github.com/walteh/formulast/pkg/position"
	"github.com/walteh/formulast/pkg/token"
)

// SyntaxError reports the first token the grammar could not accept. When
// Expected is empty no production matched Found at all.
type SyntaxError struct {
	Found    token.Token
	Expected []token.Kind
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Found.Pos.Offset, e.Message())
}

// Message describes the error without its location
func (e *SyntaxError) Message() string {
	if len(e.Expected) == 0 {
		return "unexpected token " + e.Found.String()
	}

	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	return fmt.Sprintf("expected %s, got %s", strings.Join(names, " or "), e.Found.Kind)
}

// Parse tokenizes and parses a formula body (no leading "="). The whole input
// must form exactly one expression; trailing tokens are a syntax error. The
// returned error wraps either a *lexer.Error or a *SyntaxError.
func Parse(formula string) (ast.Node, error) {
	tokens, err := lexer.Tokenize(formula)
	if err != nil {
		return nil, errors.Errorf("tokenizing formula: %w", err)
	}

	node, err := New(tokens).Parse()
	if err != nil {
		return nil, errors.Errorf("parsing formula: %w", err)
	}

	return node, nil
}

// Parser holds a cursor into one token sequence. It is single use: create a
// new Parser for every formula.
type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a single expression and requires the cursor to end on EOF.
func (p *Parser) Parse() (ast.Node, error) {
	node, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.EOF); err != nil {
		return nil, err
	}

	return node, nil
}

// current never runs off the end: a sequence missing its EOF behaves as if it
// had one just past the last token.
func (p *Parser) current() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}

	offset := 0
	if n := len(p.tokens); n > 0 {
		offset = p.tokens[n-1].Pos.End()
	}
	return token.Token{Kind: token.EOF, Pos: position.New("", offset)}
}

// eat consumes the current token, which must be of the given kind.
func (p *Parser) eat(kind token.Kind) (token.Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return tok, &SyntaxError{Found: tok, Expected: []token.Kind{kind}}
	}

	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok, nil
}

func (p *Parser) expression() (ast.Node, error) {
	return p.binary(p.term, token.OpAdd, token.OpSub)
}

func (p *Parser) term() (ast.Node, error) {
	return p.binary(p.factor, token.OpMul, token.OpDiv)
}

func (p *Parser) factor() (ast.Node, error) {
	return p.binary(p.primary, token.OpPow)
}

// binary folds operand (op operand)* to the left.
func (p *Parser) binary(operand func() (ast.Node, error), ops ...token.Operator) (ast.Node, error) {
	node, err := operand()
	if err != nil {
		return nil, err
	}

	for p.current().IsOperator(ops...) {
		op, err := p.eat(token.OPERATOR)
		if err != nil {
			return nil, err
		}

		right, err := operand()
		if err != nil {
			return nil, err
		}

		node = ast.NewBinaryOp(node, op.Op, right, op.Pos)
	}

	return node, nil
}

func (p *Parser) primary() (ast.Node, error) {
	tok := p.current()

	switch tok.Kind {
	case token.NUMBER:
		p.pos++
		return ast.NewNumber(tok.Number, tok.Pos), nil
	case token.CELL:
		p.pos++
		return ast.NewCell(tok.Text, tok.Pos), nil
	case token.RANGE:
		p.pos++
		return ast.NewRange(tok.Text, tok.Pos), nil
	case token.FUNCTION:
		return p.functionCall()
	case token.LPAREN:
		p.pos++
		node, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN); err != nil {
			return nil, err
		}
		return node, nil
	}

	return nil, &SyntaxError{Found: tok}
}

func (p *Parser) functionCall() (ast.Node, error) {
	name, err := p.eat(token.FUNCTION)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LPAREN); err != nil {
		return nil, err
	}

	args := []ast.Node{}
	if !p.current().Is(token.RPAREN) {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		for p.current().Is(token.COMMA) {
			p.pos++
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}

	if _, err := p.eat(token.RPAREN); err != nil {
		return nil, err
	}

	return ast.NewFunctionCall(name.Text, args, name.Pos), nil
}
