package fista

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regreg/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1e-8, cfg.Tol)
	assert.Equal(t, 500, cfg.MaxIterations)
	assert.Zero(t, cfg.Lipschitz)
	assert.Equal(t, 1.0, cfg.InitialLipschitz)
	assert.False(t, cfg.Backtrack)
	assert.Equal(t, 2.0, cfg.BacktrackFactor)
	assert.Equal(t, 50, cfg.MaxBacktracks)
	assert.False(t, cfg.Monotone)
	assert.Equal(t, 1e-12, cfg.MinNorm)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_WithCopies(t *testing.T) {
	base := NewConfig(WithTol(1e-6), WithCallback(func(IterationEnv) {}))
	derived := base.With(WithTol(1e-3), WithMaxIterations(10), WithCallback(func(IterationEnv) {}))

	assert.Equal(t, 1e-6, base.Tol)
	assert.Equal(t, 500, base.MaxIterations)
	assert.Len(t, base.Callbacks, 1)

	assert.Equal(t, 1e-3, derived.Tol)
	assert.Equal(t, 10, derived.MaxIterations)
	assert.Len(t, derived.Callbacks, 2)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		param string
	}{
		{"zero tol", WithTol(0), "tol"},
		{"negative iterations", WithMaxIterations(-1), "max_iterations"},
		{"negative lipschitz", WithLipschitz(-1), "lipschitz"},
		{"zero initial lipschitz", WithInitialLipschitz(0), "initial_lipschitz"},
		{"shrinking factor", WithBacktrackFactor(0.5), "backtrack_factor"},
		{"no backtracks", WithMaxBacktracks(0), "max_backtracks"},
		{"zero min norm", WithMinNorm(0), "min_norm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opt).Validate()
			require.Error(t, err)

			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}
}

func TestParseConfig(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		doc := `
tol: 1.0e-10
max_iterations: 1500
backtrack: true
backtrack_factor: 3
monotone: true
`
		cfg, err := ParseConfig(strings.NewReader(doc))
		require.NoError(t, err)

		assert.Equal(t, 1e-10, cfg.Tol)
		assert.Equal(t, 1500, cfg.MaxIterations)
		assert.True(t, cfg.Backtrack)
		assert.Equal(t, 3.0, cfg.BacktrackFactor)
		assert.True(t, cfg.Monotone)
		assert.Equal(t, 50, cfg.MaxBacktracks)
		assert.Equal(t, 1.0, cfg.InitialLipschitz)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := ParseConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseConfig(strings.NewReader("tolerance: 1e-3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse solver config")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := ParseConfig(strings.NewReader("max_iterations: 0\n"))
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "max_iterations", valErr.ParamName)
	})
}
