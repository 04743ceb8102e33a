package larder

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/larder/pkg/larder/metrics"
	"github.com/cognicore/larder/pkg/larder/report"
)

// Batch is the result of FormatBatch.
type Batch struct {
	// Results holds one entry per kept line, in input order. Skipped and
	// failed lines are left out and listed in Report.
	Results []Result
	Report  report.Report

	errs []error
}

// Err joins the errors of all failed lines, or returns nil.
func (b *Batch) Err() error {
	return errors.Join(b.errs...)
}

// Ingredients returns the ingredient results, in input order.
func (b *Batch) Ingredients() []Ingredient {
	var out []Ingredient
	for _, r := range b.Results {
		if r.Ingredient != nil {
			out = append(out, *r.Ingredient)
		}
	}
	return out
}

// FormatBatch formats lines in parallel. The catalog and pantry snapshot are
// shared read-only, so lines need no coordination.
//
// With FailFast the first failed line cancels the rest and its *LineError is
// returned. Otherwise failures are collected into the report and Batch.Err.
// A canceled ctx aborts the batch.
func (f *Formatter) FormatBatch(ctx context.Context, lines []string) (*Batch, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.BatchLines.Observe(float64(len(lines)))

	results := make([]Result, len(lines))
	errs := make([]error, len(lines))

	workers := f.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		if gctx.Err() != nil {
			break
		}
		i, line := i, line
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := f.Format(line)
			results[i], errs[i] = res, err
			if err != nil && f.failFast {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &Batch{}
	outcomes := make([]report.Outcome, len(lines))
	for i, line := range lines {
		res, err := results[i], errs[i]
		o := report.Outcome{Index: i, Line: line}
		switch {
		case err != nil:
			o.Status = report.StatusFailed
			o.Err = err
			batch.errs = append(batch.errs, err)
		case res.Skipped:
			o.Status = report.StatusSkipped
			if res.unmatched != nil {
				o.Item = res.unmatched.Item
				o.Err = res.unmatched
			}
		case res.Recipe != nil:
			o.Status = report.StatusReference
		case !res.Ingredient.Matched():
			o.Status = report.StatusUnmatched
			o.Item = res.Ingredient.Item
		default:
			o.Status = report.StatusIngredient
		}
		outcomes[i] = o

		if err == nil && !res.Skipped {
			batch.Results = append(batch.Results, res)
		}
	}

	batch.Report = f.reports.Build(outcomes)
	f.log.Info("formatted batch",
		zap.String("report", batch.Report.ID),
		zap.Int("lines", batch.Report.Lines),
		zap.Int("ingredients", batch.Report.Ingredients),
		zap.Int("references", batch.Report.References),
		zap.Int("unmatched", batch.Report.Unmatched),
		zap.Int("skipped", batch.Report.Skipped),
		zap.Int("failed", batch.Report.Failed),
		zap.Duration("elapsed", time.Since(start)))

	return batch, nil
}
