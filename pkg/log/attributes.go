// Package log defines standard attribute keys for optimization runs.
//
// Using these keys keeps log records from the solver, the estimator wrapper and
// the comparison helpers filterable by the same fields. Keys follow a
// hierarchical naming convention ("model.name", "solver.lipschitz").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator or objective being fitted.
	// Examples: "FISTA", "Composite", "SignalDual"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "compare", "reference"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is emitting the record.
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// FeaturesKey is the problem dimension (length of the coefficient vector).
	FeaturesKey = "data.features"

	// SamplesKey is the number of rows of a data operator, where one exists.
	SamplesKey = "data.samples"
)

// Performance and Progress
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the objective value F(β).
	LossKey = "metrics.loss"

	// IterationKey records the current iteration number.
	IterationKey = "training.iteration"
)

// Solver State
// These attributes describe the internal state of the proximal-gradient loop.
const (
	// LipschitzKey records the current Lipschitz bound L of the smooth gradient.
	LipschitzKey = "solver.lipschitz"

	// StepSizeKey records the step size 1/L.
	StepSizeKey = "solver.step"

	// ChangeKey records the relative coefficient change of the last iteration.
	ChangeKey = "solver.change"

	// StatusKey records the termination status ("converged", "exhausted").
	StatusKey = "solver.status"

	// BacktracksKey records how many times L was increased in one iteration.
	BacktracksKey = "solver.backtracks"

	// ToleranceKey records the convergence tolerance of the run.
	ToleranceKey = "solver.tol"
)

// Comparison Context
const (
	// SideKey names one formulation in a side-by-side comparison.
	SideKey = "compare.side"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationCompare   = "compare"
	OperationReference = "reference"

	ErrorDimensionMismatch  = "DIMENSION_MISMATCH"
	ErrorNonFinite          = "NON_FINITE_ITERATE"
	ErrorBacktrackExhausted = "BACKTRACK_EXHAUSTED"
	ErrorConvergence        = "CONVERGENCE_FAILURE"
	ErrorObjectivePanic     = "OBJECTIVE_PANIC"
)
