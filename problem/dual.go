package problem

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/penalty"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/smooth"
)

// SignalDual is the signal approximator
//
//	min_β ½‖y − β‖² + λ‖Dβ‖₁
//
// solved through its dual min_u ½‖y − Dᵀu‖² subject to ‖u‖∞ ≤ λ. The solver
// fits u ∈ ℝᵐ (m = rows of D); Primal maps a dual point back to β = y − Dᵀu.
type SignalDual struct {
	*Composite
	d      linop.Operator
	y      []float64
	lambda float64
	buf    []float64
}

// NewSignalDual builds the dual of the signal approximator for D and y.
func NewSignalDual(d linop.Operator, y []float64, lambda float64) (*SignalDual, error) {
	if err := (Weights{L1: lambda}).validate(); err != nil {
		return nil, err
	}
	m, n := d.Dims()
	if n != len(y) {
		return nil, errors.NewDimensionError("problem.NewSignalDual", n, len(y), 1)
	}
	ls, err := smooth.NewLeastSquares(linop.Transpose(d), y)
	if err != nil {
		return nil, err
	}
	c, err := New(m, ls, penalty.LInfBall{Radius: lambda})
	if err != nil {
		return nil, err
	}
	return &SignalDual{
		Composite: c,
		d:         d,
		y:         append([]float64(nil), y...),
		lambda:    lambda,
		buf:       make([]float64, m),
	}, nil
}

// Primal returns β = y − Dᵀu.
func (s *SignalDual) Primal(u []float64) []float64 {
	beta := make([]float64, len(s.y))
	s.d.ApplyTranspose(beta, u)
	floats.SubTo(beta, s.y, beta)
	return beta
}

// PrimalValue returns ½‖y − β‖² + λ‖Dβ‖₁ at β = Primal(u).
func (s *SignalDual) PrimalValue(u []float64) float64 {
	beta := s.Primal(u)
	s.d.Apply(s.buf, beta)
	dist := floats.Distance(s.y, beta, 2)
	return 0.5*dist*dist + s.lambda*floats.Norm(s.buf, 1)
}
