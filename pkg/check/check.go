// Package check parses every formula cell of a set of workbooks.
package check

import (
	"context"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/formulast/pkg/ast"
	"github.com/walteh/formulast/pkg/parser"
	"github.com/walteh/formulast/pkg/workbook"
)

type Options struct {
	// Concurrency bounds the number of formulas parsed at once. Zero means
	// GOMAXPROCS.
	Concurrency int
}

// Result is the outcome for one formula cell. Exactly one of Tree and Err is
// set.
type Result struct {
	Sheet      string
	Coordinate string
	Formula    string
	Tree       ast.Node
	References []ast.Node
	Err        error
}

func (r *Result) Cell() string {
	return r.Sheet + "!" + r.Coordinate
}

type Report struct {
	// Results follow workbook order, then row and column within a workbook
	Results []*Result
}

func (r *Report) Failed() []*Result {
	var failed []*Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err combines every cell failure, or returns nil when all cells parsed.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, res := range r.Failed() {
		merr = multierror.Append(merr, errors.Errorf("%s: %w", res.Cell(), res.Err))
	}
	return merr.ErrorOrNil()
}

// Run parses the formula cells of books in parallel. Parse failures are
// recorded per cell; the returned error is only set when ctx ends first.
func Run(ctx context.Context, books []*workbook.Workbook, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	report := &Report{}
	for _, wb := range books {
		for _, f := range wb.Formulas() {
			report.Results = append(report.Results, &Result{Sheet: wb.Name, Coordinate: f.Coordinate, Formula: f.Text})
		}
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(limit)

	for _, res := range report.Results {
		if gctx.Err() != nil {
			break
		}

		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			tree, err := parser.Parse(res.Formula)
			if err != nil {
				res.Err = err
				logger.Debug().Str("cell", res.Cell()).Str("formula", res.Formula).Err(err).Msg("formula failed to parse")
				return nil
			}

			res.Tree = tree
			res.References = ast.References(tree)
			logger.Debug().Str("cell", res.Cell()).Int("references", len(res.References)).Msg("formula parsed")
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, errors.Errorf("checking formulas: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("checking formulas: %w", err)
	}

	logger.Info().Int("cells", len(report.Results)).Int("failed", len(report.Failed())).Msg("check complete")

	return report, nil
}
