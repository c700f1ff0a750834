package check_sheets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/formulast/pkg/check"
	"github.com/walteh/formulast/pkg/diagnostic"
	"github.com/walteh/formulast/pkg/workbook"
)

type Handler struct {
	dir         string
	concurrency int
	refs        bool
	colorize    bool
	patterns    []string

	fs afero.Fs
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "check [glob]...",
		Short: "parse every formula cell in a set of sheet files (yaml, toml, hcl, csv)",
	}

	cmd.Flags().StringVar(&me.dir, "dir", ".", "the directory the globs are matched against")
	cmd.Flags().IntVar(&me.concurrency, "concurrency", 0, "the number of formulas parsed at once (0 means one per cpu)")
	cmd.Flags().BoolVar(&me.refs, "refs", false, "print the cell and range references of each formula")
	cmd.Args = cobra.MinimumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		noColor, err := cmd.Flags().GetBool("no-color")
		me.colorize = err == nil && !noColor
		me.patterns = args
		return me.Run(cmd.Context(), cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer) error {
	logger := zerolog.Ctx(ctx).With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	fs := me.fs
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), me.dir)
	}

	paths, err := workbook.Glob(fs, me.patterns...)
	if err != nil {
		return errors.Errorf("matching sheet files: %w", err)
	}
	if len(paths) == 0 {
		return errors.Errorf("no sheet files match %s", strings.Join(me.patterns, ", "))
	}

	logger.Debug().Strs("paths", paths).Msg("loading sheet files")

	books, loadErr := workbook.LoadAll(fs, paths)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("some sheet files could not be loaded")
	}

	report, err := check.Run(ctx, books, check.Options{Concurrency: me.concurrency})
	if err != nil {
		return err
	}

	for _, res := range report.Results {
		if err := me.print(out, res); err != nil {
			return errors.Errorf("writing output: %w", err)
		}
	}

	failed := len(report.Failed())
	if _, err := fmt.Fprintf(out, "%d formulas, %d failed\n", len(report.Results), failed); err != nil {
		return errors.Errorf("writing output: %w", err)
	}

	if err := multierr.Combine(loadErr, report.Err()); err != nil {
		return errors.Errorf("check failed: %w", err)
	}

	return nil
}

func (me *Handler) print(out io.Writer, res *check.Result) error {
	if res.Err != nil {
		if _, err := fmt.Fprintf(out, "%s ERR %s\n", res.Cell(), res.Formula); err != nil {
			return err
		}
		if diag, ok := diagnostic.FromError(res.Err); ok {
			return diagnostic.Render(out, res.Formula, diag, me.colorize)
		}
		_, err := fmt.Fprintf(out, "  %s\n", res.Err)
		return err
	}

	if _, err := fmt.Fprintf(out, "%s OK %s\n", res.Cell(), res.Tree); err != nil {
		return err
	}

	if me.refs && len(res.References) > 0 {
		refs := make([]string, 0, len(res.References))
		for _, ref := range res.References {
			refs = append(refs, ref.String())
		}
		if _, err := fmt.Fprintf(out, "  refs: %s\n", strings.Join(refs, ", ")); err != nil {
			return err
		}
	}

	return nil
}
