// Package linop provides the linear-operator capability shared by dense and
// sparse matrices. Solvers and smooth terms only call Apply / ApplyTranspose and
// never look at the representation behind them.
package linop

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regreg/pkg/errors"
)

// Operator is a linear map A: ℝᶜ → ℝʳ.
//
// Apply and ApplyTranspose overwrite dst and panic with mat.ErrShape when the
// slice lengths disagree with Dims, the way gonum's own kernels do.
type Operator interface {
	// Dims returns the number of rows and columns of A.
	Dims() (r, c int)
	// Apply computes dst = A·x.
	Apply(dst, x []float64)
	// ApplyTranspose computes dst = Aᵀ·y.
	ApplyTranspose(dst, y []float64)
}

// Dense は任意の mat.Matrix を Operator として扱うラッパー
type Dense struct {
	m mat.Matrix
}

// NewDense は m をラップした Dense を返す
func NewDense(m mat.Matrix) (*Dense, error) {
	if m == nil {
		return nil, errors.NewValueError("linop.NewDense", "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("linop.NewDense", "empty matrix")
	}
	return &Dense{m: m}, nil
}

// Dims implements Operator.
func (d *Dense) Dims() (int, int) { return d.m.Dims() }

// Matrix returns the wrapped matrix.
func (d *Dense) Matrix() mat.Matrix { return d.m }

// Apply implements Operator.
func (d *Dense) Apply(dst, x []float64) {
	r, c := d.m.Dims()
	if len(x) != c || len(dst) != r {
		panic(mat.ErrShape)
	}
	out := mat.NewVecDense(r, dst)
	out.MulVec(d.m, mat.NewVecDense(c, x))
}

// ApplyTranspose implements Operator.
func (d *Dense) ApplyTranspose(dst, y []float64) {
	r, c := d.m.Dims()
	if len(y) != r || len(dst) != c {
		panic(mat.ErrShape)
	}
	out := mat.NewVecDense(c, dst)
	out.MulVec(d.m.T(), mat.NewVecDense(r, y))
}

// Identity is the n×n identity operator.
type Identity int

// Dims implements Operator.
func (id Identity) Dims() (int, int) { return int(id), int(id) }

// Apply implements Operator.
func (id Identity) Apply(dst, x []float64) {
	if len(x) != int(id) || len(dst) != int(id) {
		panic(mat.ErrShape)
	}
	copy(dst, x)
}

// ApplyTranspose implements Operator.
func (id Identity) ApplyTranspose(dst, y []float64) { id.Apply(dst, y) }

// transposed swaps the roles of Apply and ApplyTranspose.
type transposed struct {
	op Operator
}

// Transpose returns Aᵀ as an Operator without copying A.
func Transpose(op Operator) Operator {
	if t, ok := op.(transposed); ok {
		return t.op
	}
	return transposed{op: op}
}

func (t transposed) Dims() (int, int) {
	r, c := t.op.Dims()
	return c, r
}

func (t transposed) Apply(dst, x []float64)          { t.op.ApplyTranspose(dst, x) }
func (t transposed) ApplyTranspose(dst, y []float64) { t.op.Apply(dst, y) }
