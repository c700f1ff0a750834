package semtok

import (
	"strings"

	"github.com/walteh/formulast/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	TokenNumber TokenType = iota + 1
	TokenVariable
	TokenRange
	TokenFunction
	TokenOperator
	TokenPunctuation
)

// TokenModifier is a bit set of additional characteristics
type TokenModifier uint32

const (
	ModifierNone TokenModifier = 0

	// ModifierReadonly marks literals
	ModifierReadonly TokenModifier = 1 << (iota - 1)

	// ModifierAbsolute marks references anchored with "$"
	ModifierAbsolute
)

type Token struct {
	Type     TokenType
	Modifier TokenModifier
	Range    position.Position
}

func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "number"
	case TokenVariable:
		return "variable"
	case TokenRange:
		return "range"
	case TokenFunction:
		return "function"
	case TokenOperator:
		return "operator"
	case TokenPunctuation:
		return "punctuation"
	default:
		return "unknown"
	}
}

// String joins the set modifiers with ",".
func (m TokenModifier) String() string {
	if m == ModifierNone {
		return "none"
	}

	var names []string
	if m&ModifierReadonly != 0 {
		names = append(names, "readonly")
	}
	if m&ModifierAbsolute != 0 {
		names = append(names, "absolute")
	}
	if len(names) == 0 {
		return "unknown"
	}
	return strings.Join(names, ",")
}

func (t Token) String() string {
	if t.Modifier == ModifierNone {
		return t.Type.String() + "(" + t.Range.Text + ")"
	}
	return t.Type.String() + "[" + t.Modifier.String() + "](" + t.Range.Text + ")"
}
