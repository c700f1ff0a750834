// Package token defines the lexical units of a spreadsheet formula.
package token

import (
	"strconv"

	"github.com/walteh/formulast/pkg/position"
)

// Kind is the closed set of token classes
type Kind int

const (
	EOF Kind = iota
	NUMBER
	CELL
	RANGE
	OPERATOR
	FUNCTION
	LPAREN
	RPAREN
	COMMA
)

var kindNames = [...]string{
	EOF:      "EOF",
	NUMBER:   "NUMBER",
	CELL:     "CELL",
	RANGE:    "RANGE",
	OPERATOR: "OPERATOR",
	FUNCTION: "FUNCTION",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
	COMMA:    "COMMA",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Operator is one of the five binary arithmetic operators
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var operatorSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorSymbols) {
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
	return operatorSymbols[o]
}

// Precedence is 1 for + and -, 2 for * and /, 3 for ^.
func (o Operator) Precedence() int {
	switch o {
	case OpAdd, OpSub:
		return 1
	case OpMul, OpDiv:
		return 2
	case OpPow:
		return 3
	}
	return 0
}

func ParseOperator(r rune) (Operator, bool) {
	switch r {
	case '+':
		return OpAdd, true
	case '-':
		return OpSub, true
	case '*':
		return OpMul, true
	case '/':
		return OpDiv, true
	case '^':
		return OpPow, true
	}
	return 0, false
}

// Token is a classified lexical unit. Text always holds the raw source text;
// Number is only meaningful for NUMBER and Op only for OPERATOR.
type Token struct {
	Kind   Kind
	Text   string
	Number float64
	Op     Operator
	Pos    position.Position
}

// String renders the token as KIND or KIND(payload).
func (t Token) String() string {
	switch t.Kind {
	case NUMBER:
		return t.Kind.String() + "(" + strconv.FormatFloat(t.Number, 'f', -1, 64) + ")"
	case OPERATOR:
		return t.Kind.String() + "(" + t.Op.String() + ")"
	case CELL, RANGE, FUNCTION:
		return t.Kind.String() + "(" + t.Text + ")"
	}
	return t.Kind.String()
}

func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// IsOperator reports whether t is an OPERATOR token carrying one of ops.
func (t Token) IsOperator(ops ...Operator) bool {
	if t.Kind != OPERATOR {
		return false
	}
	for _, op := range ops {
		if t.Op == op {
			return true
		}
	}
	return false
}
