package parse_formula

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/formulast/pkg/ast"
	"github.com/walteh/formulast/pkg/diagnostic"
	"github.com/walteh/formulast/pkg/parser"
)

type Handler struct {
	formula  string
	format   string // text, json, formula
	colorize bool
}

func NewParseCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "parse [formula]",
		Short: "parse a formula and print its syntax tree",
	}

	cmd.Flags().StringVar(&me.format, "format", "text", "the output format (text, json, formula)")
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
	// accept the formula the way it is typed into a cell
	source := strings.TrimPrefix(me.formula, "=")

	tree, err := parser.Parse(source)
	if err != nil {
		if diag, ok := diagnostic.FromError(err); ok {
			if rerr := diagnostic.Render(errOut, source, diag, me.colorize); rerr != nil {
				return rerr
			}
			return diagnostic.ErrInvalidFormula
		}
		return errors.Errorf("invalid formula: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("formula", source).Int("references", len(ast.References(tree))).Msg("parsed formula")

	switch me.format {
	case "text":
		_, err = fmt.Fprintln(out, tree.String())
	case "formula":
		_, err = fmt.Fprintln(out, ast.Formula(tree))
	case "json":
		var data []byte
		data, err = json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return errors.Errorf("encoding tree: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
	default:
		return errors.Errorf("unknown format %q", me.format)
	}
	if err != nil {
		return errors.Errorf("writing output: %w", err)
	}

	return nil
}
