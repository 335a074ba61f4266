// Package compare fits two formulations of the same problem side by side and
// reports how far apart their coefficients are, e.g. the fused-lasso signal
// approximator against the generalized lasso, or a dense Laplacian against a
// sparse one.
package compare

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/metrics"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
)

// Side is one formulation: an objective and the map from its solution to the
// coefficients being compared. A nil Recover uses the solution as is.
type Side struct {
	Name      string
	Objective fista.Objective
	// Recover maps solver coefficients to comparable ones, e.g. a dual point
	// to its primal signal.
	Recover func(coef []float64) []float64
}

// Report is the outcome of Pair.
type Report struct {
	A, B *fista.Result
	// CoefA, CoefB are the recovered coefficients that were compared.
	CoefA, CoefB []float64
	// AbsDiffSum is Σ|a − b|.
	AbsDiffSum float64
	// RelativeDiff is Σ|a − b| / Σ|a|.
	RelativeDiff float64
	// MaxAbsDiff is max|a − b|, RMSE the root mean squared difference.
	MaxAbsDiff float64
	RMSE       float64
	Duration   time.Duration
}

// Agree reports whether RelativeDiff is at most tol.
func (r *Report) Agree(tol float64) bool {
	return r.RelativeDiff <= tol
}

// Pair fits a and b concurrently with the same configuration. Each side owns
// its objective; the two must not share mutable state. ctx is checked before
// the fits start. A running fit is not interrupted; a panic inside an
// objective is returned as an error marked with errors.ErrObjectivePanic.
func Pair(ctx context.Context, a, b Side, cfg fista.Config) (*Report, error) {
	if a.Objective == nil || b.Objective == nil {
		return nil, errors.NewValueError("compare.Pair", "both objectives are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.OperationKey, log.OperationCompare)

	start := time.Now()
	results := make([]*fista.Result, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, side := range []Side{a, b} {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.WithStack(err)
			}
			sideCfg := cfg.With(fista.WithLogger(logger.With(log.SideKey, side.Name)))
			err := errors.SafeExecute("compare.Pair", func() error {
				res, err := fista.Fit(side.Objective, sideCfg, nil)
				results[i] = res
				return err
			})
			if err != nil {
				return errors.Wrapf(err, "fit %q", side.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		A:     results[0],
		B:     results[1],
		CoefA: recoverCoef(a, results[0]),
		CoefB: recoverCoef(b, results[1]),
	}
	var err error
	if report.AbsDiffSum, err = metrics.AbsDiffSum(report.CoefA, report.CoefB); err != nil {
		return nil, errors.Wrap(err, "compare.Pair")
	}
	if report.RelativeDiff, err = metrics.RelativeL1Difference(report.CoefA, report.CoefB); err != nil {
		return nil, errors.Wrap(err, "compare.Pair")
	}
	if report.MaxAbsDiff, err = metrics.MaxAbsDiff(report.CoefA, report.CoefB); err != nil {
		return nil, errors.Wrap(err, "compare.Pair")
	}
	if report.RMSE, err = metrics.RMSE(report.CoefA, report.CoefB); err != nil {
		return nil, errors.Wrap(err, "compare.Pair")
	}
	report.Duration = time.Since(start)

	logger.Info("comparison finished",
		"a", a.Name,
		"b", b.Name,
		"relative_diff", report.RelativeDiff,
		"abs_diff_sum", report.AbsDiffSum,
		"max_abs_diff", report.MaxAbsDiff,
		log.DurationMsKey, report.Duration.Milliseconds(),
	)
	return report, nil
}

func recoverCoef(s Side, res *fista.Result) []float64 {
	if s.Recover == nil {
		return res.Coefficients
	}
	return s.Recover(res.Coefficients)
}
