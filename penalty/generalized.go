package penalty

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
	"github.com/YuminosukeSato/regreg/smooth"
)

// GeneralizedL1 is g(β) = λ‖Dβ‖₁, e.g. the fused lasso with D the first
// difference matrix. It has no closed-form proximal map; Prox solves the dual
//
//	min_u ½‖z − Dᵀu‖²  subject to  ‖u‖∞ ≤ step·λ
//
// with an inner FISTA run and returns z − Dᵀu. The dual solution of one call
// warm-starts the next, so a GeneralizedL1 belongs to one solver run at a time.
type GeneralizedL1 struct {
	d      linop.Operator
	lambda float64
	cfg    fista.Config

	dual *dualProblem
	u    []float64
	buf  []float64
	err  error
}

// NewGeneralizedL1 builds λ‖Dβ‖₁. opts adjust the inner solver, whose
// defaults are a 1e-10 tolerance and 2000 iterations.
func NewGeneralizedL1(d linop.Operator, lambda float64, opts ...fista.Option) (*GeneralizedL1, error) {
	if lambda < 0 || math.IsNaN(lambda) {
		return nil, errors.NewValidationError("lambda", "must be non-negative", lambda)
	}
	m, n := d.Dims()
	if m <= 0 || n <= 0 {
		return nil, errors.NewDimensionError("penalty.NewGeneralizedL1", 1, m, 0)
	}

	ls, err := smooth.NewLeastSquares(linop.Transpose(d), make([]float64, n))
	if err != nil {
		return nil, errors.Wrap(err, "penalty.NewGeneralizedL1")
	}
	cfg := fista.NewConfig(
		fista.WithTol(1e-10),
		fista.WithMaxIterations(2000),
		fista.WithSilent(true),
		fista.WithLogger(log.NewNopLogger()),
	).With(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &GeneralizedL1{
		d:      d,
		lambda: lambda,
		cfg:    cfg,
		dual:   &dualProblem{ls: ls, m: m},
		u:      make([]float64, m),
		buf:    make([]float64, m),
	}, nil
}

// Lambda returns λ.
func (g *GeneralizedL1) Lambda() float64 { return g.lambda }

// Err returns the error of the most recent inner solve, if any. A failed
// solve also fills the proximal output with NaN so that the outer run stops
// with errors.ErrNonFiniteIterate.
func (g *GeneralizedL1) Err() error { return g.err }

func (g *GeneralizedL1) Value(beta []float64) float64 {
	g.d.Apply(g.buf, beta)
	return g.lambda * floats.Norm(g.buf, 1)
}

func (g *GeneralizedL1) Prox(dst, z []float64, step float64) {
	g.err = nil
	radius := step * g.lambda
	if radius == 0 {
		copy(dst, z)
		return
	}
	if err := g.dual.ls.SetResponse(z); err != nil {
		g.fail(dst, err)
		return
	}
	g.dual.ball.Radius = radius
	// 前回の双対解を新しい半径の球に射影してから再開する
	g.dual.ball.Prox(g.u, g.u, 0)

	res, err := fista.Fit(g.dual, g.cfg, g.u)
	if err != nil {
		g.fail(dst, err)
		return
	}
	copy(g.u, res.Coefficients)

	g.d.ApplyTranspose(dst, g.u)
	floats.SubTo(dst, z, dst)
}

func (g *GeneralizedL1) fail(dst []float64, err error) {
	g.err = errors.Wrap(err, "generalized lasso proximal map")
	for i := range dst {
		dst[i] = math.NaN()
	}
	for i := range g.u {
		g.u[i] = 0
	}
}

// dualProblem is ½‖z − Dᵀu‖² + indicator(‖u‖∞ ≤ r) over u ∈ ℝᵐ.
type dualProblem struct {
	ls   *smooth.LeastSquares
	ball LInfBall
	m    int
}

func (p *dualProblem) Dimension() int { return p.m }

func (p *dualProblem) Gradient(dst, u []float64) { p.ls.Gradient(dst, u) }

func (p *dualProblem) Prox(dst, z []float64, step float64) { p.ball.Prox(dst, z, step) }

func (p *dualProblem) Value(u []float64) float64 { return p.ls.Value(u) + p.ball.Value(u) }

func (p *dualProblem) SmoothValue(u []float64) float64 { return p.ls.Value(u) }

func (p *dualProblem) Lipschitz() float64 { return p.ls.Lipschitz() }
