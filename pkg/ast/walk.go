package ast

// Walk visits n and its descendants depth first, parents before children and
// arguments left to right. Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *FunctionCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	}
}

// References returns every Cell and Range under n in source order. This is
// what a dependency graph needs from a formula.
func References(n Node) []Node {
	var refs []Node
	Walk(n, func(n Node) bool {
		switch n.(type) {
		case *Cell, *Range:
			refs = append(refs, n)
		}
		return true
	})
	return refs
}

// Functions returns the name of every function call under n in source order,
// duplicates included.
func Functions(n Node) []string {
	var names []string
	Walk(n, func(n Node) bool {
		if call, ok := n.(*FunctionCall); ok {
			names = append(names, call.Name)
		}
		return true
	})
	return names
}
