// Package reference provides derivative-free minimisers used to check solver
// output on small problems. They are slow and make no use of structure; their
// only job is to be right.
package reference

import (
	"math"

	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
)

// Func is an objective to minimise. It may return +Inf outside its domain.
type Func func(x []float64) float64

// Solution is the best point found.
type Solution struct {
	X           []float64
	F           float64
	Evaluations int
}

type settings struct {
	ftol, xtol     float64
	maxEvaluations int
	maxRestarts    int
	maxSweeps      int
	logger         log.Logger
}

// Option configures a reference minimiser.
type Option func(*settings)

func defaultSettings() settings {
	return settings{
		ftol:           1e-10,
		xtol:           1e-10,
		maxEvaluations: 100000,
		maxRestarts:    20,
		maxSweeps:      2000,
	}
}

// WithTolerance sets the function and argument tolerances.
func WithTolerance(ftol, xtol float64) Option {
	return func(s *settings) {
		s.ftol = ftol
		s.xtol = xtol
	}
}

// WithMaxEvaluations caps the number of objective evaluations.
func WithMaxEvaluations(n int) Option {
	return func(s *settings) { s.maxEvaluations = n }
}

// WithMaxRestarts caps the number of Nelder-Mead restarts.
func WithMaxRestarts(n int) Option {
	return func(s *settings) { s.maxRestarts = n }
}

// WithMaxSweeps caps the number of coordinate sweeps.
func WithMaxSweeps(n int) Option {
	return func(s *settings) { s.maxSweeps = n }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(op string, opts []Option) (settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	switch {
	case !(s.ftol > 0) || !(s.xtol > 0):
		return s, errors.NewValidationError("tolerance", "must be positive", [2]float64{s.ftol, s.xtol})
	case s.maxEvaluations <= 0:
		return s, errors.NewValidationError("max_evaluations", "must be positive", s.maxEvaluations)
	case s.maxRestarts < 0:
		return s, errors.NewValidationError("max_restarts", "must be non-negative", s.maxRestarts)
	case s.maxSweeps <= 0:
		return s, errors.NewValidationError("max_sweeps", "must be positive", s.maxSweeps)
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName(op)
	} else {
		s.logger = s.logger.With(log.ComponentKey, op)
	}
	s.logger = s.logger.With(log.OperationKey, log.OperationReference)
	return s, nil
}

// counter wraps f and counts evaluations.
type counter struct {
	f Func
	n int
}

func (c *counter) eval(x []float64) float64 {
	c.n++
	return c.f(x)
}

func start(op string, f Func, x0 []float64) (*counter, float64, error) {
	if f == nil {
		return nil, 0, errors.NewValueError(op, "objective must not be nil")
	}
	if len(x0) == 0 {
		return nil, 0, errors.NewEmptyDataError(op)
	}
	c := &counter{f: f}
	fx := c.eval(x0)
	if math.IsNaN(fx) || math.IsInf(fx, 1) {
		return nil, 0, errors.NewValueError(op, "objective must be finite at x0")
	}
	return c, fx, nil
}

// improved reports whether next is better than prev by more than ftol, relative.
func improved(prev, next, ftol float64) bool {
	return prev-next > ftol*(math.Abs(next)+ftol)
}
