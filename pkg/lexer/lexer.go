// Package lexer splits a formula body into typed tokens.
package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	plexer "github.com/alecthomas/participle/v2/lexer"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/formulast/pkg/position"
	"github.com/walteh/formulast/pkg/token"
)

var (
	// Rules are tried in order and the first match wins, so ranges come
	// before cells and function names (LOG10) before cells.
	Rules = []plexer.SimpleRule{
		{Name: "whitespace", Pattern: `\s+`},
		{Name: "Range", Pattern: `\$?[A-Za-z]+\$?[0-9]+:\$?[A-Za-z]+\$?[0-9]+`},
		{Name: "Function", Pattern: `[A-Za-z_][A-Za-z0-9_.]*\(`},
		{Name: "Cell", Pattern: `\$?[A-Za-z]+\$?[0-9]+`},
		{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]*)?|\.[0-9]+`},
		{Name: "Operator", Pattern: `[-+*/^]`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "Comma", Pattern: `,`},
	}

	// FormulaLexer is read-only after init and safe for concurrent use
	FormulaLexer = plexer.MustSimple(Rules)

	symWhitespace = FormulaLexer.Symbols()["whitespace"]
	symRange      = FormulaLexer.Symbols()["Range"]
	symFunction   = FormulaLexer.Symbols()["Function"]
	symCell       = FormulaLexer.Symbols()["Cell"]
	symNumber     = FormulaLexer.Symbols()["Number"]
	symOperator   = FormulaLexer.Symbols()["Operator"]
	symLParen     = FormulaLexer.Symbols()["LParen"]
	symRParen     = FormulaLexer.Symbols()["RParen"]
	symComma      = FormulaLexer.Symbols()["Comma"]
)

// Error is a lexical error: a character that cannot start any token, or a
// number literal too large for a float64. Reason is empty in the first case.
type Error struct {
	Char   rune
	Pos    position.Position
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error at offset %d: %s", e.Pos.Offset, e.Message())
}

// Message describes the error without its location
func (e *Error) Message() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("unexpected character %q", e.Char)
}

// Tokenize scans the whole formula (without its leading "=") and returns the
// tokens in source order. The last token is always the only EOF.
func Tokenize(formula string) ([]token.Token, error) {
	lex, err := FormulaLexer.LexString("", formula)
	if err != nil {
		return nil, errors.Errorf("creating lexer: %w", err)
	}

	raw, err := plexer.ConsumeAll(lex)
	if err != nil {
		return nil, newError(formula, err)
	}

	tokens := make([]token.Token, 0, len(raw)+2)
	for _, tok := range raw {
		pos := position.New(tok.Value, tok.Pos.Offset)

		switch tok.Type {
		case symWhitespace:
			continue
		case plexer.EOF:
			tokens = append(tokens, token.Token{Kind: token.EOF, Pos: position.New("", tok.Pos.Offset)})
		case symNumber:
			num, err := strconv.ParseFloat(tok.Value, 64)
			if errors.Is(err, strconv.ErrRange) {
				return nil, &Error{Char: rune(tok.Value[0]), Pos: pos, Reason: "number out of range"}
			}
			if err != nil {
				return nil, errors.Errorf("parsing number %q: %w", tok.Value, err)
			}
			tokens = append(tokens, token.Token{Kind: token.NUMBER, Text: tok.Value, Number: num, Pos: pos})
		case symCell:
			tokens = append(tokens, token.Token{Kind: token.CELL, Text: tok.Value, Pos: pos})
		case symRange:
			tokens = append(tokens, token.Token{Kind: token.RANGE, Text: tok.Value, Pos: pos})
		case symFunction:
			// the match includes the "(" so split it back out
			name := tok.Value[:len(tok.Value)-1]
			paren := tok.Pos.Offset + len(name)
			tokens = append(tokens,
				token.Token{Kind: token.FUNCTION, Text: name, Pos: position.New(name, tok.Pos.Offset)},
				token.Token{Kind: token.LPAREN, Text: "(", Pos: position.New("(", paren)},
			)
		case symOperator:
			op, _ := token.ParseOperator(rune(tok.Value[0]))
			tokens = append(tokens, token.Token{Kind: token.OPERATOR, Text: tok.Value, Op: op, Pos: pos})
		case symLParen:
			tokens = append(tokens, token.Token{Kind: token.LPAREN, Text: tok.Value, Pos: pos})
		case symRParen:
			tokens = append(tokens, token.Token{Kind: token.RPAREN, Text: tok.Value, Pos: pos})
		case symComma:
			tokens = append(tokens, token.Token{Kind: token.COMMA, Text: tok.Value, Pos: pos})
		default:
			return nil, errors.Errorf("unhandled lexer symbol %d for %q", tok.Type, tok.Value)
		}
	}

	return tokens, nil
}

func newError(formula string, err error) error {
	var lexErr *plexer.Error
	if !errors.As(err, &lexErr) {
		return errors.Errorf("lexing formula: %w", err)
	}

	offset := lexErr.Pos.Offset
	if offset < 0 || offset >= len(formula) {
		return errors.Errorf("lexing formula: %w", err)
	}

	r, _ := utf8.DecodeRuneInString(formula[offset:])
	return &Error{Char: r, Pos: position.New(string(r), offset)}
}
