package ast

import (
	"strings"

	"github.com/walteh/formulast/pkg/token"
)

// Formula renders n back into formula text, adding only the parentheses the
// grammar needs. Parsing the result of any parser-built tree yields the same
// tree.
func Formula(n Node) string {
	var b strings.Builder
	writeFormula(&b, n)
	return b.String()
}

func writeFormula(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Number:
		b.WriteString(formatNumber(n.Value))
	case *Cell:
		b.WriteString(n.Name)
	case *Range:
		b.WriteString(n.Value)
	case *FunctionCall:
		b.WriteString(n.Name)
		b.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			writeFormula(b, arg)
		}
		b.WriteByte(')')
	case *BinaryOp:
		writeOperand(b, n.Left, n.Op, false)
		b.WriteString(n.Op.String())
		writeOperand(b, n.Right, n.Op, true)
	}
}

// every level is left associative, so a right operand of equal precedence
// needs parentheses and a left one does not
func writeOperand(b *strings.Builder, child Node, parent token.Operator, right bool) {
	bin, ok := child.(*BinaryOp)
	wrap := ok && (bin.Op.Precedence() < parent.Precedence() ||
		(right && bin.Op.Precedence() == parent.Precedence()))

	if wrap {
		b.WriteByte('(')
	}
	writeFormula(b, child)
	if wrap {
		b.WriteByte(')')
	}
}
