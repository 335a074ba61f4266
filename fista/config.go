package fista

import (
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/YuminosukeSato/regreg/pkg/log"
)

// Config holds the solver settings for one Fit call. It is a plain value:
// options and With return modified copies and never touch the receiver, so one
// Config can be shared by concurrent fits.
type Config struct {
	// Tol is the relative coefficient change below which the run has converged.
	Tol float64 `yaml:"tol"`
	// MaxIterations caps the number of proximal-gradient steps.
	MaxIterations int `yaml:"max_iterations"`
	// Lipschitz, when positive, is used as L and takes precedence over the
	// objective's own bound.
	Lipschitz float64 `yaml:"lipschitz"`
	// InitialLipschitz is the first trial L when no bound is known.
	InitialLipschitz float64 `yaml:"initial_lipschitz"`
	// Backtrack enables the sufficient-decrease search for L.
	Backtrack bool `yaml:"backtrack"`
	// BacktrackFactor multiplies L after each failed sufficient-decrease test.
	BacktrackFactor float64 `yaml:"backtrack_factor"`
	// MaxBacktracks bounds the number of increases of L within one iteration.
	MaxBacktracks int `yaml:"max_backtracks"`
	// Monotone selects the monotone variant (requires Valuer).
	Monotone bool `yaml:"monotone"`
	// MinNorm is the floor of the denominator of the relative change.
	MinNorm float64 `yaml:"min_norm"`

	// Silent suppresses the ConvergenceWarning of unconverged runs. Nested
	// solves (a proximal map computed by an inner Fit) set it.
	Silent bool `yaml:"-"`

	Logger    log.Logger `yaml:"-"`
	Callbacks []Callback `yaml:"-"`
}

// Option modifies a Config.
type Option func(*Config)

// DefaultConfig returns the default solver settings.
func DefaultConfig() Config {
	return Config{
		Tol:              1e-8,
		MaxIterations:    500,
		InitialLipschitz: 1,
		BacktrackFactor:  2,
		MaxBacktracks:    50,
		MinNorm:          1e-12,
	}
}

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	return DefaultConfig().With(opts...)
}

// With returns a copy of c with opts applied.
func (c Config) With(opts ...Option) Config {
	out := c
	out.Callbacks = append([]Callback(nil), c.Callbacks...)
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// WithTol sets the convergence tolerance.
func WithTol(tol float64) Option {
	return func(c *Config) { c.Tol = tol }
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(c *Config) { c.MaxIterations = n }
}

// WithLipschitz fixes L, e.g. to a precomputed largest eigenvalue.
func WithLipschitz(l float64) Option {
	return func(c *Config) { c.Lipschitz = l }
}

// WithInitialLipschitz sets the first trial L used by backtracking.
func WithInitialLipschitz(l float64) Option {
	return func(c *Config) { c.InitialLipschitz = l }
}

// WithBacktracking enables or disables the search for L.
func WithBacktracking(enabled bool) Option {
	return func(c *Config) { c.Backtrack = enabled }
}

// WithBacktrackFactor sets the growth factor of L.
func WithBacktrackFactor(f float64) Option {
	return func(c *Config) { c.BacktrackFactor = f }
}

// WithMaxBacktracks bounds the increases of L per iteration.
func WithMaxBacktracks(n int) Option {
	return func(c *Config) { c.MaxBacktracks = n }
}

// WithMonotone selects the monotone variant.
func WithMonotone(enabled bool) Option {
	return func(c *Config) { c.Monotone = enabled }
}

// WithMinNorm sets the floor of the relative-change denominator.
func WithMinNorm(eps float64) Option {
	return func(c *Config) { c.MinNorm = eps }
}

// WithSilent suppresses convergence warnings.
func WithSilent(silent bool) Option {
	return func(c *Config) { c.Silent = silent }
}

// WithLogger sets the logger used by the run.
func WithLogger(l log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithCallback appends an iteration callback.
func WithCallback(cb Callback) Option {
	return func(c *Config) { c.Callbacks = append(c.Callbacks, cb) }
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	switch {
	case !(c.Tol > 0) || math.IsInf(c.Tol, 0):
		return errors.NewValidationError("tol", "must be positive and finite", c.Tol)
	case c.MaxIterations <= 0:
		return errors.NewValidationError("max_iterations", "must be positive", c.MaxIterations)
	case c.Lipschitz < 0 || math.IsNaN(c.Lipschitz) || math.IsInf(c.Lipschitz, 0):
		return errors.NewValidationError("lipschitz", "must be non-negative and finite", c.Lipschitz)
	case !(c.InitialLipschitz > 0) || math.IsInf(c.InitialLipschitz, 0):
		return errors.NewValidationError("initial_lipschitz", "must be positive and finite", c.InitialLipschitz)
	case !(c.BacktrackFactor > 1):
		return errors.NewValidationError("backtrack_factor", "must be greater than 1", c.BacktrackFactor)
	case c.MaxBacktracks <= 0:
		return errors.NewValidationError("max_backtracks", "must be positive", c.MaxBacktracks)
	case !(c.MinNorm > 0):
		return errors.NewValidationError("min_norm", "must be positive", c.MinNorm)
	}
	return nil
}

func (c Config) logger() log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.GetLogger()
}

// ParseConfig decodes a YAML document over DefaultConfig. Keys that are not
// Config fields are rejected; an empty document yields the defaults.
//
//	tol: 1.0e-10
//	max_iterations: 1500
//	backtrack: true
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "parse solver config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
