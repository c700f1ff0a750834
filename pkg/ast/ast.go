// Package ast defines the tree a formula parses into.
//
// The node set is closed: Number, Cell, Range, BinaryOp and FunctionCall are
// the only implementations of Node, so a type switch over them is exhaustive.
// Nodes are never mutated once the parser has built them.
package ast

import (
	"strconv"
	"strings"

	"github.com/walteh/formulast/pkg/position"
	"github.com/walteh/formulast/pkg/token"
)

// Node represents a formula AST node
type Node interface {
	// Position returns the source span that produced the node
	Position() position.Position
	String() string

	node()
}

var (
	_ Node = (*Number)(nil)
	_ Node = (*Cell)(nil)
	_ Node = (*Range)(nil)
	_ Node = (*BinaryOp)(nil)
	_ Node = (*FunctionCall)(nil)
)

// Number is a numeric literal
type Number struct {
	Value float64
	Pos   position.Position
}

func NewNumber(value float64, pos position.Position) *Number {
	return &Number{Value: value, Pos: pos}
}

func (n *Number) Position() position.Position { return n.Pos }

func (n *Number) String() string {
	return "Number(" + formatNumber(n.Value) + ")"
}

func (*Number) node() {}

// Cell is a single cell reference such as A1
type Cell struct {
	Name string
	Pos  position.Position
}

func NewCell(name string, pos position.Position) *Cell {
	return &Cell{Name: name, Pos: pos}
}

func (n *Cell) Position() position.Position { return n.Pos }

func (n *Cell) String() string {
	return "Cell(" + n.Name + ")"
}

func (*Cell) node() {}

// Range is a range reference such as A1:B5. The bounds are kept as written.
type Range struct {
	Value string
	Pos   position.Position
}

func NewRange(value string, pos position.Position) *Range {
	return &Range{Value: value, Pos: pos}
}

func (n *Range) Position() position.Position { return n.Pos }

func (n *Range) String() string {
	return "Range(" + n.Value + ")"
}

func (*Range) node() {}

// BinaryOp applies Op to exactly two operands
type BinaryOp struct {
	Left  Node
	Op    token.Operator
	Right Node
	Pos   position.Position
}

func NewBinaryOp(left Node, op token.Operator, right Node, pos position.Position) *BinaryOp {
	return &BinaryOp{Left: left, Op: op, Right: right, Pos: pos}
}

// Position returns the operator token's span
func (n *BinaryOp) Position() position.Position { return n.Pos }

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

func (*BinaryOp) node() {}

// FunctionCall is NAME(args...). Args holds one node per comma separated
// argument and is empty for NAME().
type FunctionCall struct {
	Name string
	Args []Node
	Pos  position.Position
}

func NewFunctionCall(name string, args []Node, pos position.Position) *FunctionCall {
	if args == nil {
		args = []Node{}
	}
	return &FunctionCall{Name: name, Args: args, Pos: pos}
}

// Position returns the function name's span
func (n *FunctionCall) Position() position.Position { return n.Pos }

func (n *FunctionCall) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

func (*FunctionCall) node() {}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
