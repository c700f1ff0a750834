package list_tokens

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/formulast/pkg/diagnostic"
	"github.com/walteh/formulast/pkg/lexer"
	"github.com/walteh/formulast/pkg/semtok"
)

type Handler struct {
	formula   string
	semantic  bool
	highlight bool
	colorize  bool
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "tokens [formula]",
		Short: "print the tokens of a formula, one per line with its byte offset",
	}

	cmd.Flags().BoolVar(&me.semantic, "semantic", false, "print semantic token types instead of lexer kinds")
	cmd.Flags().BoolVar(&me.highlight, "highlight", false, "print the formula with each token colored by its type")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		noColor, err := cmd.Flags().GetBool("no-color")
		me.colorize = err == nil && !noColor
		me.formula = args[0]
		return me.Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out, errOut io.Writer) error {
	source := strings.TrimPrefix(me.formula, "=")

	if me.semantic || me.highlight {
		return me.runSemantic(ctx, source, out, errOut)
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return me.fail(source, err, errOut)
	}

	for _, tok := range tokens {
		if _, err := fmt.Fprintf(out, "%4d  %s\n", tok.Pos.Offset, tok); err != nil {
			return errors.Errorf("writing output: %w", err)
		}
	}

	return nil
}

func (me *Handler) runSemantic(ctx context.Context, source string, out, errOut io.Writer) error {
	tokens, err := semtok.GetTokensForText(ctx, source)
	if err != nil {
		return me.fail(source, err, errOut)
	}

	if me.highlight {
		if err := semtok.Highlight(out, source, tokens, me.colorize); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	}

	for _, tok := range tokens {
		if _, err := fmt.Fprintf(out, "%4d  %s\n", tok.Range.Offset, tok); err != nil {
			return errors.Errorf("writing output: %w", err)
		}
	}

	return nil
}

func (me *Handler) fail(source string, err error, errOut io.Writer) error {
	if diag, ok := diagnostic.FromError(err); ok {
		if rerr := diagnostic.Render(errOut, source, diag, me.colorize); rerr != nil {
			return rerr
		}
		return diagnostic.ErrInvalidFormula
	}
	return errors.Errorf("invalid formula: %w", err)
}
