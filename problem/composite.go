// Package problem assembles smooth terms and penalties into objectives the
// solver can fit, and provides constructors for the common problem families:
// lasso, graph-net, generalized lasso and the fused-lasso signal approximator.
package problem

import (
	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/penalty"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/smooth"
)

var (
	_ fista.Objective        = (*Composite)(nil)
	_ fista.Valuer           = (*Composite)(nil)
	_ fista.SmoothValuer     = (*Composite)(nil)
	_ fista.LipschitzBounder = (*Composite)(nil)
)

// Composite is F(β) = f(β) + g(β) over ℝⁿ.
type Composite struct {
	n int
	f smooth.Term
	g penalty.Prox
}

// New builds f + g. A nil g means no penalty.
func New(n int, f smooth.Term, g penalty.Prox) (*Composite, error) {
	if n <= 0 {
		return nil, errors.NewDimensionError("problem.New", 1, n, 0)
	}
	if f == nil {
		return nil, errors.NewValueError("problem.New", "smooth term must not be nil")
	}
	if g == nil {
		g = penalty.Zero{}
	}
	return &Composite{n: n, f: f, g: g}, nil
}

// Smooth returns f.
func (c *Composite) Smooth() smooth.Term { return c.f }

// Penalty returns g.
func (c *Composite) Penalty() penalty.Prox { return c.g }

func (c *Composite) Dimension() int { return c.n }

func (c *Composite) Gradient(dst, beta []float64) { c.f.Gradient(dst, beta) }

func (c *Composite) Prox(dst, z []float64, step float64) { c.g.Prox(dst, z, step) }

func (c *Composite) Value(beta []float64) float64 { return c.f.Value(beta) + c.g.Value(beta) }

func (c *Composite) SmoothValue(beta []float64) float64 { return c.f.Value(beta) }

func (c *Composite) Lipschitz() float64 { return c.f.Lipschitz() }
