package fista

import "time"

// Status is the termination state of a run.
type Status int

const (
	// Running is the state while the loop is active.
	Running Status = iota
	// Converged means the relative change fell below Tol.
	Converged
	// Exhausted means MaxIterations was reached first.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result is the output of Fit.
type Result struct {
	Coefficients []float64
	// Objective is F(Coefficients); meaningful only when HasObjective is true.
	Objective    float64
	HasObjective bool
	Converged    bool
	Status       Status
	Iterations   int
	// Lipschitz is the value of L in force at the end of the run.
	Lipschitz float64
	// Change is the relative coefficient change of the last iteration.
	Change   float64
	Duration time.Duration
}

// ObjectiveValue returns F at the final coefficients, if the objective can report it.
func (r *Result) ObjectiveValue() (float64, bool) {
	return r.Objective, r.HasObjective
}
