// Package fista implements the fast iterative shrinkage-thresholding algorithm
// for composite objectives F(β) = f(β) + g(β), where f is convex and smooth and
// g is convex with a cheap proximal map.
//
// The solver is problem-agnostic: everything specific to a loss or a penalty
// enters through the Objective interface. Optional capabilities (Valuer,
// SmoothValuer, LipschitzBounder) unlock objective reporting, backtracking and
// automatic step sizes.
package fista

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
)

// backtrackSlack absorbs rounding in the sufficient-decrease test.
const backtrackSlack = 1e-12

// solver holds the buffers of one run. A solver is never shared.
type solver struct {
	obj    Objective
	cfg    Config
	logger log.Logger

	valuer Valuer
	smooth SmoothValuer

	lipschitz float64
	backtrack bool

	beta, betaPrev []float64
	y, grad, z     []float64
	cand, diff     []float64
}

// Fit minimises obj starting from x0 (the zero vector when x0 is nil).
//
// Non-convergence is reported through Result.Converged and a
// ConvergenceWarning, not through the returned error. Errors are marked with
// errors.ErrInvalidDimension, errors.ErrNonFiniteIterate or
// errors.ErrBacktrackExhausted.
func Fit(obj Objective, cfg Config, x0 []float64) (*Result, error) {
	start := time.Now()
	if obj == nil {
		return nil, errors.NewValueError("fista.Fit", "objective must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := obj.Dimension()
	if n <= 0 {
		return nil, errors.NewDimensionError("fista.Fit", 1, n, 0)
	}
	if x0 != nil && len(x0) != n {
		return nil, errors.NewDimensionError("fista.Fit", n, len(x0), 0)
	}

	s, err := newSolver(obj, cfg, n)
	if err != nil {
		return nil, err
	}
	if x0 != nil {
		if err := errors.CheckNumericalStability("fista.init", x0, 0); err != nil {
			return nil, err
		}
		copy(s.beta, x0)
		copy(s.y, x0)
	}

	res, err := s.run()
	if err != nil {
		s.logger.Error("FISTA failed", err, log.ErrorCodeKey, errorCode(err))
		return nil, err
	}
	res.Duration = time.Since(start)

	if !res.Converged {
		if !cfg.Silent {
			errors.Warn(errors.NewConvergenceWarning("FISTA", res.Iterations,
				"relative coefficient change is still above the tolerance"))
		}
		s.logger.Warn("FISTA did not converge",
			log.IterationKey, res.Iterations,
			log.ChangeKey, res.Change,
			log.ToleranceKey, cfg.Tol,
			log.ErrorCodeKey, log.ErrorConvergence,
			log.SuggestionKey, "increase max_iterations or the tolerance",
		)
	} else {
		fields := []any{
			log.IterationKey, res.Iterations,
			log.LipschitzKey, res.Lipschitz,
			log.DurationMsKey, res.Duration.Milliseconds(),
		}
		if res.HasObjective {
			fields = append(fields, log.LossKey, res.Objective)
		}
		s.logger.Info("FISTA converged", fields...)
	}
	return res, nil
}

func newSolver(obj Objective, cfg Config, n int) (*solver, error) {
	s := &solver{
		obj:      obj,
		cfg:      cfg,
		logger:   cfg.logger().With(log.ComponentKey, "fista", log.FeaturesKey, n),
		beta:     make([]float64, n),
		betaPrev: make([]float64, n),
		y:        make([]float64, n),
		grad:     make([]float64, n),
		z:        make([]float64, n),
		cand:     make([]float64, n),
		diff:     make([]float64, n),
	}
	s.valuer, _ = obj.(Valuer)
	s.smooth, _ = obj.(SmoothValuer)

	s.backtrack = cfg.Backtrack
	switch b, ok := obj.(LipschitzBounder); {
	case cfg.Lipschitz > 0:
		s.lipschitz = cfg.Lipschitz
	case ok && b.Lipschitz() > 0:
		s.lipschitz = b.Lipschitz()
	default:
		s.lipschitz = cfg.InitialLipschitz
		s.backtrack = true
	}
	if err := errors.CheckScalar("fista.lipschitz", s.lipschitz, 0); err != nil {
		return nil, err
	}

	if s.backtrack && s.smooth == nil {
		return nil, errors.NewValidationError("backtrack",
			"objective must implement SmoothValuer when no Lipschitz bound is available", true)
	}
	if cfg.Monotone && s.valuer == nil {
		return nil, errors.NewValidationError("monotone", "objective must implement Valuer", true)
	}
	return s, nil
}

func (s *solver) run() (*Result, error) {
	var (
		t        = 1.0
		k        int
		change   float64
		fBeta    float64
		status   = Running
		observed = len(s.cfg.Callbacks) > 0
		debug    = s.logger.Enabled(context.Background(), log.LevelDebug)
	)
	if s.cfg.Monotone {
		fBeta = s.valuer.Value(s.beta)
	}

	for status == Running {
		s.obj.Gradient(s.grad, s.y)

		backtracks, err := s.step(k + 1)
		if err != nil {
			return nil, err
		}
		if err := errors.CheckNumericalStability("fista.iterate", s.cand, k+1); err != nil {
			return nil, err
		}

		change = floats.Distance(s.cand, s.beta, 2) / math.Max(floats.Norm(s.beta, 2), s.cfg.MinNorm)
		copy(s.betaPrev, s.beta)
		tNext := (1 + math.Sqrt(1+4*t*t)) / 2

		if s.cfg.Monotone {
			fCand := s.valuer.Value(s.cand)
			if fCand <= fBeta {
				copy(s.beta, s.cand)
				fBeta = fCand
			}
			// y = β + (t/t')(z − β) + ((t−1)/t')(β − β_prev)
			a, b := t/tNext, (t-1)/tNext
			for i := range s.y {
				s.y[i] = s.beta[i] + a*(s.cand[i]-s.beta[i]) + b*(s.beta[i]-s.betaPrev[i])
			}
		} else {
			copy(s.beta, s.cand)
			b := (t - 1) / tNext
			for i := range s.y {
				s.y[i] = s.beta[i] + b*(s.beta[i]-s.betaPrev[i])
			}
		}
		t = tNext
		k++

		if debug {
			s.logger.Debug("iteration",
				log.IterationKey, k,
				log.ChangeKey, change,
				log.LipschitzKey, s.lipschitz,
				log.BacktracksKey, backtracks,
			)
		}
		if observed {
			env := IterationEnv{
				Iteration:    k,
				Coefficients: s.beta,
				Change:       change,
				Lipschitz:    s.lipschitz,
			}
			switch {
			case s.cfg.Monotone:
				env.Objective, env.HasObjective = fBeta, true
			case s.valuer != nil:
				env.Objective, env.HasObjective = s.valuer.Value(s.beta), true
			}
			for _, cb := range s.cfg.Callbacks {
				cb(env)
			}
		}

		switch {
		case change < s.cfg.Tol:
			status = Converged
		case k >= s.cfg.MaxIterations:
			status = Exhausted
		}
	}

	res := &Result{
		Coefficients: append([]float64(nil), s.beta...),
		Converged:    status == Converged,
		Status:       status,
		Iterations:   k,
		Lipschitz:    s.lipschitz,
		Change:       change,
	}
	switch {
	case s.cfg.Monotone:
		res.Objective, res.HasObjective = fBeta, true
	case s.valuer != nil:
		res.Objective, res.HasObjective = s.valuer.Value(s.beta), true
	}
	return res, nil
}

// step writes prox(y − ∇f(y)/L, 1/L) into cand, growing L first when
// backtracking is enabled. It returns the number of increases of L.
func (s *solver) step(iteration int) (int, error) {
	if !s.backtrack {
		s.proxStep()
		return 0, nil
	}

	fy := s.smooth.SmoothValue(s.y)
	if err := errors.CheckScalar("fista.backtrack", fy, iteration); err != nil {
		return 0, err
	}
	slack := backtrackSlack * math.Max(1, math.Abs(fy))
	for nb := 0; ; nb++ {
		s.proxStep()
		floats.SubTo(s.diff, s.cand, s.y)
		model := fy + floats.Dot(s.grad, s.diff) + s.lipschitz/2*floats.Dot(s.diff, s.diff)
		if s.smooth.SmoothValue(s.cand) <= model+slack {
			return nb, nil
		}
		if nb == s.cfg.MaxBacktracks {
			return nb, errors.NewBacktrackExhaustedError(iteration, nb, s.lipschitz)
		}
		s.lipschitz *= s.cfg.BacktrackFactor
		if err := errors.CheckScalar("fista.lipschitz", s.lipschitz, iteration); err != nil {
			return nb, err
		}
	}
}

func (s *solver) proxStep() {
	step := 1 / s.lipschitz
	for i := range s.z {
		s.z[i] = s.y[i] - step*s.grad[i]
	}
	s.obj.Prox(s.cand, s.z, step)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidDimension):
		return log.ErrorDimensionMismatch
	case errors.Is(err, errors.ErrNonFiniteIterate):
		return log.ErrorNonFinite
	case errors.Is(err, errors.ErrBacktrackExhausted):
		return log.ErrorBacktrackExhausted
	default:
		return ""
	}
}
