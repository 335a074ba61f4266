package linop

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regreg/pkg/errors"
)

const (
	defaultPowerMaxIter = 5000
	defaultPowerTol     = 1e-12

	// 次元がこれ以下の作用素は行列に展開して固有値を厳密に求める
	exactEigenLimit = 512

	// 厳密解に乗せる丸め誤差分の相対マージン
	exactMargin = 1e-12

	// 冪乗法の推定値（常に λmax 以下）を上界側へ寄せる相対マージン
	powerSafety = 1e-2
)

// SymmetricMaxEigen returns the largest eigenvalue of a dense symmetric matrix.
func SymmetricMaxEigen(s mat.Symmetric) (float64, error) {
	var es mat.EigenSym
	if ok := es.Factorize(s, false); !ok {
		return 0, errors.NewValueError("linop.SymmetricMaxEigen", "eigendecomposition failed")
	}
	vals := es.Values(nil)
	return floats.Max(vals), nil
}

// MaxEigenvalueAtA returns an upper bound on the largest eigenvalue of AᵀA,
// i.e. ‖A‖₂², the Lipschitz constant of β ↦ Aᵀ(Aβ − y).
//
// Up to exactEigenLimit columns the value is exact. Beyond that it is the
// smaller of ‖A‖₁·‖A‖∞ (when A exposes its entries) and a power-iteration
// estimate widened by its residual.
func MaxEigenvalueAtA(op Operator) (float64, error) {
	r, c := op.Dims()
	tmp := make([]float64, r)
	gram := func(dst, x []float64) {
		op.Apply(tmp, x)
		op.ApplyTranspose(dst, tmp)
	}
	var bound float64
	if rowMax, colMax, ok := absSumMax(op); ok {
		bound = rowMax * colMax
	}
	return maxEigenBound(c, gram, bound)
}

// SymmetricOperatorMaxEigen returns an upper bound on the largest eigenvalue of
// a symmetric positive semidefinite operator such as a graph Laplacian, exact
// up to exactEigenLimit rows. Larger operators are capped by the Gershgorin
// bound max_i Σ_j |Q_ij| when the entries are available.
func SymmetricOperatorMaxEigen(op Operator) (float64, error) {
	r, c := op.Dims()
	if r != c {
		return 0, errors.NewDimensionError("linop.SymmetricOperatorMaxEigen", r, c, 1)
	}
	var bound float64
	if rowMax, _, ok := absSumMax(op); ok {
		bound = rowMax
	}
	return maxEigenBound(c, op.Apply, bound)
}

// maxEigenBound bounds λmax of the PSD map apply on ℝⁿ from above. A positive
// norm caps the iterative estimate.
func maxEigenBound(n int, apply func(dst, x []float64), norm float64) (float64, error) {
	if n <= 0 {
		return 0, errors.NewValidationError("n", "must be positive", n)
	}
	if n <= exactEigenLimit {
		return exactMaxEigen(n, apply)
	}

	lambda, x, err := powerIteration(n, apply, defaultPowerMaxIter, defaultPowerTol)
	if err != nil {
		return 0, err
	}
	// ‖Qx − λx‖ for the final iterate
	resid := make([]float64, n)
	apply(resid, x)
	floats.AddScaled(resid, -lambda, x)
	est := lambda*(1+powerSafety) + floats.Norm(resid, 2)
	if norm > 0 && norm < est {
		return norm, nil
	}
	return est, nil
}

// exactMaxEigen materialises apply column by column and factorises it.
func exactMaxEigen(n int, apply func(dst, x []float64)) (float64, error) {
	g := mat.NewSymDense(n, nil)
	e := make([]float64, n)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		e[j] = 1
		apply(col, e)
		e[j] = 0
		if err := errors.CheckNumericalStability("linop.exactMaxEigen", col, j); err != nil {
			return 0, err
		}
		for i := 0; i <= j; i++ {
			g.SetSym(i, j, col[i])
		}
	}
	eig, err := SymmetricMaxEigen(g)
	if err != nil {
		return 0, err
	}
	// 丸めで負になった PSD の固有値は 0、残りは丸め誤差の分だけ上へ
	return math.Max(eig, 0) * (1 + exactMargin), nil
}

// absSumMax returns the largest absolute row sum and column sum of op, i.e.
// ‖A‖∞ and ‖A‖₁, when op exposes its entries.
func absSumMax(op Operator) (rowMax, colMax float64, ok bool) {
	switch o := op.(type) {
	case *CSR:
		colSum := make([]float64, o.cols)
		for i := 0; i < o.rows; i++ {
			var s float64
			for k := o.indptr[i]; k < o.indptr[i+1]; k++ {
				v := math.Abs(o.data[k])
				s += v
				colSum[o.indices[k]] += v
			}
			rowMax = math.Max(rowMax, s)
		}
		return rowMax, floats.Max(colSum), true
	case *Dense:
		r, c := o.m.Dims()
		colSum := make([]float64, c)
		for i := 0; i < r; i++ {
			var s float64
			for j := 0; j < c; j++ {
				v := math.Abs(o.m.At(i, j))
				s += v
				colSum[j] += v
			}
			rowMax = math.Max(rowMax, s)
		}
		return rowMax, floats.Max(colSum), true
	case Identity:
		return 1, 1, o > 0
	case transposed:
		r, c, ok := absSumMax(o.op)
		return c, r, ok
	}
	return 0, 0, false
}

// powerIteration runs the power method and returns the Rayleigh quotient, which
// never exceeds λmax, together with the last normalised iterate. The start
// vector comes from a fixed-seed generator so results are reproducible and
// almost surely not orthogonal to the top eigenvector (an all-ones start would
// be, for difference operators).
func powerIteration(n int, apply func(dst, x []float64), maxIter int, tol float64) (float64, []float64, error) {
	src := rand.New(rand.NewPCG(0x5eed, 0x1eaf))
	x := make([]float64, n)
	for i := range x {
		x[i] = src.Float64() + 0.5
	}
	floats.Scale(1/floats.Norm(x, 2), x)

	y := make([]float64, n)
	lambda := 0.0
	for it := 0; it < maxIter; it++ {
		apply(y, x)
		norm := floats.Norm(y, 2)
		if err := errors.CheckScalar("linop.powerIteration", norm, it); err != nil {
			return 0, nil, err
		}
		if norm == 0 {
			return 0, x, nil
		}
		next := floats.Dot(x, y)
		floats.ScaleTo(x, 1/norm, y)
		if it > 0 && math.Abs(next-lambda) <= tol*math.Abs(next) {
			return next, x, nil
		}
		lambda = next
	}
	return lambda, x, nil
}
