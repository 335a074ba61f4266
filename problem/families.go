package problem

import (
	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/penalty"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/smooth"
)

// Weights are the penalty weights of a graph-net problem.
type Weights struct {
	L1 float64 // λ₁‖β‖₁
	L2 float64 // λ₂‖β‖²
	L3 float64 // λ₃βᵀLβ
}

func (w Weights) validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"l1", w.L1}, {"l2", w.L2}, {"l3", w.L3}} {
		if p.v < 0 || p.v != p.v {
			return errors.NewValidationError(p.name, "must be non-negative", p.v)
		}
	}
	return nil
}

// NewLasso builds ½‖Xβ − y‖² + λ‖β‖₁.
func NewLasso(x linop.Operator, y []float64, lambda float64) (*Composite, error) {
	if err := (Weights{L1: lambda}).validate(); err != nil {
		return nil, err
	}
	ls, err := smooth.NewLeastSquares(x, y)
	if err != nil {
		return nil, err
	}
	_, n := x.Dims()
	return New(n, ls, penalty.L1{Lambda: lambda})
}

// NewGraphNet builds the linear graph-net objective
//
//	−Yᵀβ + λ₁‖β‖₁ + λ₂‖β‖² + λ₃βᵀLβ
//
// for a graph Laplacian lap, dense or sparse. With nonneg the coefficients are
// constrained to β ≥ 0.
func NewGraphNet(y []float64, lap linop.Operator, w Weights, nonneg bool) (*Composite, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	r, c := lap.Dims()
	if r != len(y) || c != len(y) {
		return nil, errors.NewDimensionError("problem.NewGraphNet", len(y), r, 0)
	}

	terms := []smooth.Term{smooth.Negated(y)}
	if w.L2 > 0 {
		terms = append(terms, smooth.Ridge{Lambda: w.L2})
	}
	if w.L3 > 0 {
		q, err := smooth.NewQuadratic(lap, w.L3)
		if err != nil {
			return nil, err
		}
		terms = append(terms, q)
	}

	var g penalty.Prox = penalty.L1{Lambda: w.L1}
	if nonneg {
		g = penalty.NonNegativeL1{Lambda: w.L1}
	}
	return New(len(y), smooth.NewSum(terms...), g)
}

// NewGeneralizedLasso builds ½‖Xβ − y‖² + λ‖Dβ‖₁. The proximal map of the
// penalty is solved iteratively; inner adjusts that inner solver.
func NewGeneralizedLasso(x, d linop.Operator, y []float64, lambda float64, inner ...fista.Option) (*Composite, error) {
	_, n := x.Dims()
	if _, dc := d.Dims(); dc != n {
		return nil, errors.NewDimensionError("problem.NewGeneralizedLasso", n, dc, 1)
	}
	ls, err := smooth.NewLeastSquares(x, y)
	if err != nil {
		return nil, err
	}
	g, err := penalty.NewGeneralizedL1(d, lambda, inner...)
	if err != nil {
		return nil, err
	}
	return New(n, ls, g)
}
