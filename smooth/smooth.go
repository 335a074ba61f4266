// Package smooth provides the differentiable parts f(β) of composite
// objectives, each with an upper bound on the Lipschitz constant of ∇f.
//
// Terms with internal buffers (Quadratic, LeastSquares, Sum) belong to a single
// solver run at a time.
package smooth

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/pkg/errors"
)

// Term is a convex differentiable function of the coefficients.
type Term interface {
	// Value returns f(beta).
	Value(beta []float64) float64
	// Gradient overwrites dst with ∇f(beta).
	Gradient(dst, beta []float64)
	// Lipschitz returns an upper bound on the Lipschitz constant of ∇f.
	Lipschitz() float64
}

// Linear is f(β) = ⟨c, β⟩. The graph-net loss −Yᵀβ is Linear{Coef: −Y}.
type Linear struct {
	Coef []float64
}

// Negated returns Linear{−y}.
func Negated(y []float64) Linear {
	c := make([]float64, len(y))
	floats.ScaleTo(c, -1, y)
	return Linear{Coef: c}
}

func (l Linear) Value(beta []float64) float64 { return floats.Dot(l.Coef, beta) }

func (l Linear) Gradient(dst, _ []float64) { copy(dst, l.Coef) }

func (Linear) Lipschitz() float64 { return 0 }

// Ridge is f(β) = λ‖β‖².
type Ridge struct {
	Lambda float64
}

func (r Ridge) Value(beta []float64) float64 { return r.Lambda * floats.Dot(beta, beta) }

func (r Ridge) Gradient(dst, beta []float64) { floats.ScaleTo(dst, 2*r.Lambda, beta) }

func (r Ridge) Lipschitz() float64 { return 2 * r.Lambda }

// Quadratic is f(β) = λ·βᵀQβ for a symmetric positive semidefinite Q, e.g. a
// graph Laplacian. The largest eigenvalue of Q is computed once at construction.
type Quadratic struct {
	q      linop.Operator
	lambda float64
	eig    float64
	buf    []float64
}

// NewQuadratic builds λ·βᵀQβ. Dense symmetric operators get an exact
// eigenvalue; anything else gets an upper bound from linop.SymmetricOperatorMaxEigen.
func NewQuadratic(q linop.Operator, lambda float64) (*Quadratic, error) {
	r, c := q.Dims()
	if r != c {
		return nil, errors.NewDimensionError("smooth.NewQuadratic", r, c, 1)
	}
	if lambda < 0 || math.IsNaN(lambda) {
		return nil, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}

	var (
		eig float64
		err error
	)
	if d, ok := q.(*linop.Dense); ok {
		if s, ok := d.Matrix().(mat.Symmetric); ok {
			eig, err = linop.SymmetricMaxEigen(s)
		} else {
			eig, err = linop.SymmetricOperatorMaxEigen(q)
		}
	} else {
		eig, err = linop.SymmetricOperatorMaxEigen(q)
	}
	if err != nil {
		return nil, errors.Wrap(err, "smooth.NewQuadratic")
	}
	return &Quadratic{q: q, lambda: lambda, eig: eig, buf: make([]float64, r)}, nil
}

// MaxEigenvalue returns the largest eigenvalue of Q, or an upper bound on it
// for operators too large to factorise.
func (q *Quadratic) MaxEigenvalue() float64 { return q.eig }

func (q *Quadratic) Value(beta []float64) float64 {
	q.q.Apply(q.buf, beta)
	return q.lambda * floats.Dot(beta, q.buf)
}

func (q *Quadratic) Gradient(dst, beta []float64) {
	q.q.Apply(dst, beta)
	floats.Scale(2*q.lambda, dst)
}

func (q *Quadratic) Lipschitz() float64 { return 2 * q.lambda * q.eig }

// LeastSquares is f(β) = ½‖Xβ − y‖².
type LeastSquares struct {
	x     linop.Operator
	y     []float64
	resid []float64
	lip   float64
}

// NewLeastSquares builds ½‖Xβ − y‖² with an upper bound on ‖X‖₂² as its
// Lipschitz constant.
func NewLeastSquares(x linop.Operator, y []float64) (*LeastSquares, error) {
	r, _ := x.Dims()
	if len(y) != r {
		return nil, errors.NewDimensionError("smooth.NewLeastSquares", r, len(y), 0)
	}
	lip, err := linop.MaxEigenvalueAtA(x)
	if err != nil {
		return nil, errors.Wrap(err, "smooth.NewLeastSquares")
	}
	return &LeastSquares{
		x:     x,
		y:     append([]float64(nil), y...),
		resid: make([]float64, r),
		lip:   lip,
	}, nil
}

// SetResponse replaces y, keeping X and its Lipschitz bound.
func (l *LeastSquares) SetResponse(y []float64) error {
	if len(y) != len(l.y) {
		return errors.NewDimensionError("LeastSquares.SetResponse", len(l.y), len(y), 0)
	}
	copy(l.y, y)
	return nil
}

func (l *LeastSquares) residual(beta []float64) {
	l.x.Apply(l.resid, beta)
	floats.Sub(l.resid, l.y)
}

func (l *LeastSquares) Value(beta []float64) float64 {
	l.residual(beta)
	return 0.5 * floats.Dot(l.resid, l.resid)
}

func (l *LeastSquares) Gradient(dst, beta []float64) {
	l.residual(beta)
	l.x.ApplyTranspose(dst, l.resid)
}

func (l *LeastSquares) Lipschitz() float64 { return l.lip }

// Sum is f = Σ fᵢ.
type Sum struct {
	terms []Term
	buf   []float64
}

// NewSum combines terms; nil entries are skipped.
func NewSum(terms ...Term) *Sum {
	s := &Sum{}
	for _, t := range terms {
		if t != nil {
			s.terms = append(s.terms, t)
		}
	}
	return s
}

func (s *Sum) Value(beta []float64) float64 {
	var v float64
	for _, t := range s.terms {
		v += t.Value(beta)
	}
	return v
}

func (s *Sum) Gradient(dst, beta []float64) {
	for i := range dst {
		dst[i] = 0
	}
	if len(s.buf) != len(dst) {
		s.buf = make([]float64, len(dst))
	}
	for _, t := range s.terms {
		t.Gradient(s.buf, beta)
		floats.Add(dst, s.buf)
	}
}

func (s *Sum) Lipschitz() float64 {
	var l float64
	for _, t := range s.terms {
		l += t.Lipschitz()
	}
	return l
}
