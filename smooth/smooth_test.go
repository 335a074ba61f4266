package smooth

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/pkg/errors"
)

func normalVector(n int, seed uint64) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed+1)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// checkGradient compares Gradient against central differences of Value.
func checkGradient(t *testing.T, term Term, beta []float64) {
	t.Helper()
	grad := make([]float64, len(beta))
	term.Gradient(grad, beta)

	const h = 1e-6
	x := append([]float64(nil), beta...)
	for i := range x {
		x[i] = beta[i] + h
		up := term.Value(x)
		x[i] = beta[i] - h
		down := term.Value(x)
		x[i] = beta[i]
		assert.InDelta(t, (up-down)/(2*h), grad[i], 1e-4, "coordinate %d", i)
	}
}

func pathLaplacian(n int) *mat.SymDense {
	l := mat.NewSymDense(n, nil)
	for i := 0; i < n-1; i++ {
		l.SetSym(i, i, l.At(i, i)+1)
		l.SetSym(i+1, i+1, l.At(i+1, i+1)+1)
		l.SetSym(i, i+1, -1)
	}
	return l
}

func TestTerms_Gradients(t *testing.T) {
	beta := normalVector(6, 1)

	lap, err := linop.NewDense(pathLaplacian(6))
	require.NoError(t, err)
	quad, err := NewQuadratic(lap, 0.7)
	require.NoError(t, err)

	x, err := linop.NewDense(mat.NewDense(4, 6, normalVector(24, 2)))
	require.NoError(t, err)
	ls, err := NewLeastSquares(x, normalVector(4, 3))
	require.NoError(t, err)

	tests := []struct {
		name string
		term Term
	}{
		{"linear", Negated(normalVector(6, 4))},
		{"ridge", Ridge{Lambda: 1.5}},
		{"quadratic", quad},
		{"least squares", ls},
		{"sum", NewSum(Negated(normalVector(6, 5)), Ridge{Lambda: 0.2}, quad)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradient(t, tt.term, beta)
		})
	}
}

func TestTerms_Lipschitz(t *testing.T) {
	assert.Zero(t, Linear{Coef: []float64{1, 2}}.Lipschitz())
	assert.Equal(t, 3.0, Ridge{Lambda: 1.5}.Lipschitz())

	lap, err := linop.NewDense(pathLaplacian(5))
	require.NoError(t, err)
	quad, err := NewQuadratic(lap, 2)
	require.NoError(t, err)
	eig, err := linop.SymmetricMaxEigen(pathLaplacian(5))
	require.NoError(t, err)
	assert.InDelta(t, 4*eig, quad.Lipschitz(), 1e-12)

	sum := NewSum(Ridge{Lambda: 1.5}, nil, quad)
	assert.InDelta(t, 3+4*eig, sum.Lipschitz(), 1e-12)

	// ‖I‖₂² = 1
	ls, err := NewLeastSquares(linop.Identity(3), []float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1, ls.Lipschitz(), 1e-10)
}

func TestQuadratic_SparseMatchesDense(t *testing.T) {
	dense := pathLaplacian(12)
	sparse, err := linop.CSRFromDense(dense)
	require.NoError(t, err)
	op, err := linop.NewDense(dense)
	require.NoError(t, err)

	qd, err := NewQuadratic(op, 1)
	require.NoError(t, err)
	qs, err := NewQuadratic(sparse, 1)
	require.NoError(t, err)

	assert.InEpsilon(t, qd.MaxEigenvalue(), qs.MaxEigenvalue(), 1e-6)

	beta := normalVector(12, 9)
	assert.InDelta(t, qd.Value(beta), qs.Value(beta), 1e-12)
}

func TestConstructors_Validate(t *testing.T) {
	rect, err := linop.NewDense(mat.NewDense(2, 3, nil))
	require.NoError(t, err)

	_, err = NewQuadratic(rect, 1)
	assert.True(t, errors.Is(err, errors.ErrInvalidDimension))

	_, err = NewQuadratic(linop.Identity(2), -1)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = NewLeastSquares(rect, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, errors.ErrInvalidDimension))

	ls, err := NewLeastSquares(linop.Identity(2), []float64{1, 2})
	require.NoError(t, err)
	assert.True(t, errors.Is(ls.SetResponse([]float64{1}), errors.ErrInvalidDimension))

	require.NoError(t, ls.SetResponse([]float64{3, 4}))
	assert.Equal(t, 12.5, ls.Value([]float64{0, 0}))
}

func TestLipschitz_IsUpperBound(t *testing.T) {
	// λmax(DᵀD) = 2 − 2cos(π(n−1)/n); the top of the spectrum is tightly packed.
	for _, n := range []int{100, 500, 1500} {
		exact := 2 - 2*math.Cos(math.Pi*float64(n-1)/float64(n))

		d, err := linop.FirstDifference(n)
		require.NoError(t, err)
		ls, err := NewLeastSquares(d, make([]float64, n-1))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ls.Lipschitz(), exact, "least squares n=%d", n)

		dual, err := NewLeastSquares(linop.Transpose(d), make([]float64, n))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, dual.Lipschitz(), exact, "dual least squares n=%d", n)

		lap, err := linop.CSRFromDense(pathLaplacian(n))
		require.NoError(t, err)
		quad, err := NewQuadratic(lap, 0.5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quad.Lipschitz(), exact, "quadratic n=%d", n)
	}
}
