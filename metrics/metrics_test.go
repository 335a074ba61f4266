package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regreg/pkg/errors"
)

func TestDifferences(t *testing.T) {
	a := []float64{1, -2, 3, 0}
	b := []float64{1.5, -2, 2, 0.5}

	tests := []struct {
		name string
		fn   func(a, b []float64) (float64, error)
		want float64
	}{
		{"AbsDiffSum", AbsDiffSum, 2},
		{"RelativeL1Difference", RelativeL1Difference, 2.0 / 6},
		{"MaxAbsDiff", MaxAbsDiff, 1},
		{"MAE", MAE, 0.5},
		{"MSE", MSE, (0.25 + 1 + 0.25) / 4},
		{"RMSE", RMSE, math.Sqrt(1.5 / 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(a, b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)

			_, err = tt.fn(a, b[:2])
			assert.True(t, errors.Is(err, errors.ErrInvalidDimension))

			var dimErr *errors.DimensionError
			require.True(t, errors.As(err, &dimErr))
			assert.Equal(t, 4, dimErr.Expected)
			assert.Equal(t, 2, dimErr.Got)

			_, err = tt.fn(nil, nil)
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr))
			assert.True(t, errors.Is(err, errors.ErrEmptyData))
		})
	}
}

func TestRelativeL1Difference_ZeroReference(t *testing.T) {
	got, err := RelativeL1Difference([]float64{0, 0}, []float64{0, 0})
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = RelativeL1Difference([]float64{0, 0}, []float64{0, 1e-9})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestSupport(t *testing.T) {
	assert.Equal(t, []int{0, 3}, Support([]float64{0.5, 1e-9, 0, -2}, 1e-6))
	assert.Nil(t, Support([]float64{0, 0}, 0))
}
