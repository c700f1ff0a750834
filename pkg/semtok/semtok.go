package semtok

import (
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/formulast/pkg/lexer"
	"github.com/walteh/formulast/pkg/position"
	"github.com/walteh/formulast/pkg/token"
)

// GetTokensForText returns the semantic tokens of a formula in source order.
func GetTokensForText(ctx context.Context, formula string) ([]Token, error) {
	tokens, err := lexer.Tokenize(formula)
	if err != nil {
		return nil, errors.Errorf("tokenizing formula: %w", err)
	}

	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		sem, ok := classify(tok)
		if !ok {
			continue
		}
		out = append(out, sem)
	}

	zerolog.Ctx(ctx).Trace().Int("tokens", len(out)).Msg("classified formula tokens")

	return out, nil
}

// GetTokensForRange returns the semantic tokens overlapping ranged.
func GetTokensForRange(ctx context.Context, formula string, ranged position.Position) ([]Token, error) {
	all, err := GetTokensForText(ctx, formula)
	if err != nil {
		return nil, err
	}

	var out []Token
	for _, tok := range all {
		if tok.Range.HasOverlapWith(ranged) {
			out = append(out, tok)
		}
	}
	return out, nil
}

func classify(tok token.Token) (Token, bool) {
	sem := Token{Range: tok.Pos}

	switch tok.Kind {
	case token.NUMBER:
		sem.Type = TokenNumber
		sem.Modifier = ModifierReadonly
	case token.CELL:
		sem.Type = TokenVariable
	case token.RANGE:
		sem.Type = TokenRange
	case token.FUNCTION:
		sem.Type = TokenFunction
	case token.OPERATOR:
		sem.Type = TokenOperator
	case token.LPAREN, token.RPAREN, token.COMMA:
		sem.Type = TokenPunctuation
	default:
		return Token{}, false
	}

	if (tok.Kind == token.CELL || tok.Kind == token.RANGE) && strings.Contains(tok.Text, "$") {
		sem.Modifier |= ModifierAbsolute
	}

	return sem, true
}

var palette = map[TokenType][]color.Attribute{
	TokenNumber:      {color.FgMagenta},
	TokenVariable:    {color.FgCyan},
	TokenRange:       {color.FgCyan, color.Underline},
	TokenFunction:    {color.FgYellow, color.Bold},
	TokenOperator:    {color.FgRed},
	TokenPunctuation: {color.Faint},
}

// Highlight writes formula with each token painted by its type. Text between
// tokens is copied through unchanged.
func Highlight(w io.Writer, formula string, tokens []Token, colorize bool) error {
	var b strings.Builder
	last := 0

	for _, tok := range tokens {
		if tok.Range.Offset < last || tok.Range.End() > len(formula) {
			return errors.Errorf("token %s at offset %d is out of order", tok, tok.Range.Offset)
		}
		b.WriteString(formula[last:tok.Range.Offset])

		c := color.New(palette[tok.Type]...)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		b.WriteString(c.Sprint(tok.Range.Text))

		last = tok.Range.End()
	}
	b.WriteString(formula[last:])

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Errorf("writing highlighted formula: %w", err)
	}
	return nil
}
