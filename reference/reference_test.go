package reference

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/laplacian"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
	"github.com/YuminosukeSato/regreg/problem"
)

func bowl(x []float64) float64 {
	var v float64
	for i, xi := range x {
		d := xi - float64(i)
		v += (1 + float64(i)) * d * d
	}
	return v
}

func TestNelderMead_Bowl(t *testing.T) {
	sol, err := NelderMead(bowl, make([]float64, 3), WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0, 1, 2}, sol.X, 1e-4)
	assert.InDelta(t, 0, sol.F, 1e-8)
	assert.Positive(t, sol.Evaluations)
}

func TestCoordinateSearch_Bowl(t *testing.T) {
	sol, err := CoordinateSearch(bowl, []float64{5, -5, 5}, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0, 1, 2}, sol.X, 1e-6)
	assert.InDelta(t, 0, sol.F, 1e-10)
}

func TestCoordinateSearch_NonNegativeBoundary(t *testing.T) {
	// min (x+1)² + (y−2)² over x, y ≥ 0 → (0, 2)
	f := func(x []float64) float64 {
		if x[0] < 0 || x[1] < 0 {
			return math.Inf(1)
		}
		return (x[0]+1)*(x[0]+1) + (x[1]-2)*(x[1]-2)
	}
	sol, err := CoordinateSearch(f, []float64{1, 1}, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0, 2}, sol.X, 1e-6)
	assert.InDelta(t, 1, sol.F, 1e-10)
}

// graphNet builds the graph-net objective on a rows×cols lattice.
func graphNet(t *testing.T, rows, cols int, seed uint64, nonneg bool) *problem.Composite {
	t.Helper()
	g, err := laplacian.Lattice(rows, cols)
	require.NoError(t, err)
	lap, _, err := laplacian.Sparse(g)
	require.NoError(t, err)

	dist := distuv.Normal{Mu: 0, Sigma: 2, Src: rand.NewPCG(seed, 7)}
	y := make([]float64, rows*cols)
	for i := range y {
		y[i] = dist.Rand()
	}
	obj, err := problem.NewGraphNet(y, lap, problem.Weights{L1: 0.8, L2: 0.5, L3: 0.3}, nonneg)
	require.NoError(t, err)
	return obj
}

func TestBruteForceAgreesWithFISTA(t *testing.T) {
	cfg := fista.NewConfig(fista.WithTol(1e-10), fista.WithMaxIterations(5000), fista.WithLogger(log.NewNopLogger()))

	tests := []struct {
		name       string
		rows, cols int
		nonneg     bool
		search     func(Func, []float64, ...Option) (*Solution, error)
	}{
		{"nelder-mead", 2, 2, false, NelderMead},
		{"nelder-mead nonneg", 2, 2, true, NelderMead},
		{"coordinate", 3, 3, false, CoordinateSearch},
		{"coordinate nonneg", 3, 4, true, CoordinateSearch},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := graphNet(t, tt.rows, tt.cols, uint64(i+1), tt.nonneg)
			res, err := fista.Fit(obj, cfg, nil)
			require.NoError(t, err)

			sol, err := tt.search(obj.Value, make([]float64, obj.Dimension()), WithLogger(log.NewNopLogger()))
			require.NoError(t, err)

			assert.InDelta(t, sol.F, res.Objective, 1e-4)
			// the reference can only be worse than the true minimum
			assert.GreaterOrEqual(t, sol.F, res.Objective-1e-8)
		})
	}
}

func TestReference_Errors(t *testing.T) {
	methods := map[string]func(Func, []float64, ...Option) (*Solution, error){
		"nelder-mead": NelderMead,
		"coordinate":  CoordinateSearch,
	}
	for name, m := range methods {
		t.Run(name, func(t *testing.T) {
			var valueErr *errors.ValueError
			_, err := m(nil, []float64{1})
			assert.True(t, errors.As(err, &valueErr))

			_, err = m(bowl, nil)
			assert.True(t, errors.As(err, &valueErr))
			assert.True(t, errors.Is(err, errors.ErrEmptyData))

			_, err = m(func([]float64) float64 { return math.Inf(1) }, []float64{1})
			assert.True(t, errors.As(err, &valueErr))

			var valErr *errors.ValidationError
			_, err = m(bowl, []float64{1}, WithTolerance(0, 1e-8))
			assert.True(t, errors.As(err, &valErr))

			_, err = m(bowl, []float64{1}, WithMaxEvaluations(0))
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestMaxEvaluationsIsRespected(t *testing.T) {
	sol, err := CoordinateSearch(bowl, []float64{5, -5, 5}, WithMaxEvaluations(50), WithMaxSweeps(100), WithLogger(log.NewNopLogger()))
	require.NoError(t, err)
	// a sweep in progress finishes before the cap is checked
	assert.Less(t, sol.Evaluations, 50+3*200)
	assert.Less(t, sol.F, bowl([]float64{5, -5, 5}))
}
