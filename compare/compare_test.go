package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/regreg/core/linop"
	"github.com/YuminosukeSato/regreg/fista"
	"github.com/YuminosukeSato/regreg/laplacian"
	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
	"github.com/YuminosukeSato/regreg/problem"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noisy(n int, seed uint64) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, 3)}
	y := make([]float64, n)
	for i := range y {
		y[i] = dist.Rand()
	}
	return y
}

func TestPair_FusedLasso(t *testing.T) {
	const n = 50
	y := noisy(n, 1)
	for i := n / 10; i < 3*n/10; i++ {
		y[i] += 6
	}
	d, err := linop.FirstDifference(n)
	require.NoError(t, err)

	dual, err := problem.NewSignalDual(d, y, 2)
	require.NoError(t, err)
	glasso, err := problem.NewGeneralizedLasso(linop.Identity(n), d, y, 2)
	require.NoError(t, err)

	cfg := fista.NewConfig(fista.WithTol(1e-10), fista.WithMaxIterations(1500), fista.WithLogger(log.NewNopLogger()))
	report, err := Pair(context.Background(),
		Side{Name: "signal approximator", Objective: dual, Recover: dual.Primal},
		Side{Name: "generalized lasso", Objective: glasso},
		cfg,
	)
	require.NoError(t, err)

	assert.True(t, report.Agree(1e-4), "relative difference %g", report.RelativeDiff)
	assert.Len(t, report.CoefA, n)
	assert.Len(t, report.CoefB, n)
	assert.Len(t, report.A.Coefficients, n-1)
	assert.Positive(t, report.Duration)
}

func TestPair_DenseAndSparseLaplacian(t *testing.T) {
	g, err := laplacian.Lattice(4, 4)
	require.NoError(t, err)
	ld, _, err := laplacian.Dense(g)
	require.NoError(t, err)
	ls, _, err := laplacian.Sparse(g)
	require.NoError(t, err)
	dense, err := linop.NewDense(ld)
	require.NoError(t, err)

	y := noisy(16, 2)
	w := problem.Weights{L1: 0.4, L2: 0.2, L3: 1}
	pd, err := problem.NewGraphNet(y, dense, w, false)
	require.NoError(t, err)
	ps, err := problem.NewGraphNet(y, ls, w, false)
	require.NoError(t, err)

	cfg := fista.NewConfig(fista.WithTol(1e-10), fista.WithMaxIterations(5000), fista.WithLogger(log.NewNopLogger()))
	report, err := Pair(context.Background(), Side{Name: "dense", Objective: pd}, Side{Name: "sparse", Objective: ps}, cfg)
	require.NoError(t, err)

	assert.Less(t, report.AbsDiffSum, 1e-6)
	assert.LessOrEqual(t, report.MaxAbsDiff, report.AbsDiffSum)
	assert.LessOrEqual(t, report.RMSE, report.MaxAbsDiff)
	assert.True(t, report.A.Converged)
	assert.True(t, report.B.Converged)
}

func TestPair_Errors(t *testing.T) {
	cfg := fista.NewConfig(fista.WithLogger(log.NewNopLogger()))
	ok, err := problem.NewLasso(linop.Identity(2), []float64{1, 2}, 0.1)
	require.NoError(t, err)

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Pair(ctx, Side{Name: "a", Objective: ok}, Side{Name: "b", Objective: ok}, cfg)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("failing side", func(t *testing.T) {
		bad, err := problem.NewLasso(linop.Identity(2), []float64{1, math.NaN()}, 0.1)
		require.NoError(t, err)
		_, err = Pair(context.Background(), Side{Name: "a", Objective: ok}, Side{Name: "broken", Objective: bad}, cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNonFiniteIterate))
		assert.Contains(t, err.Error(), `fit "broken"`)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		other, err := problem.NewLasso(linop.Identity(3), []float64{1, 2, 3}, 0.1)
		require.NoError(t, err)
		_, err = Pair(context.Background(), Side{Name: "a", Objective: ok}, Side{Name: "b", Objective: other}, cfg)
		assert.True(t, errors.Is(err, errors.ErrInvalidDimension))
	})

	t.Run("panicking objective", func(t *testing.T) {
		_, err := Pair(context.Background(), Side{Name: "a", Objective: ok}, Side{Name: "boom", Objective: panicky{}}, cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrObjectivePanic))
		assert.Contains(t, err.Error(), `fit "boom"`)
	})

	t.Run("missing objective", func(t *testing.T) {
		_, err := Pair(context.Background(), Side{Name: "a"}, Side{Name: "b", Objective: ok}, cfg)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})
}

type panicky struct{}

func (panicky) Dimension() int { return 2 }

func (panicky) Gradient(_, beta []float64) { _ = beta[7] }

func (panicky) Prox(dst, z []float64, _ float64) { copy(dst, z) }

func (panicky) Lipschitz() float64 { return 1 }

// duplicateKeys returns the top-level keys that occur more than once in one
// JSON record.
func duplicateKeys(t *testing.T, line []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(line))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	seen := map[string]int{}
	var dups []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		key := tok.(string)
		if seen[key]++; seen[key] == 2 {
			dups = append(dups, key)
		}
		var v json.RawMessage
		require.NoError(t, dec.Decode(&v))
	}
	return dups
}

func TestPair_LogRecordsHaveUniqueKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewZerologLogger(zerolog.SyncWriter(&buf), log.LevelDebug)
	obj, err := problem.NewLasso(linop.Identity(3), []float64{1, -2, 0.5}, 0.1)
	require.NoError(t, err)
	other, err := problem.NewLasso(linop.Identity(3), []float64{1, -2, 0.5}, 0.1)
	require.NoError(t, err)

	cfg := fista.NewConfig(fista.WithLogger(logger))
	_, err = Pair(context.Background(), Side{Name: "a", Objective: obj}, Side{Name: "b", Objective: other}, cfg)
	require.NoError(t, err)

	sides := map[string]bool{}
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Empty(t, duplicateKeys(t, line), "%s", line)

		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &rec))
		if side, ok := rec[log.SideKey].(string); ok {
			sides[side] = true
		}
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, sides)
}
