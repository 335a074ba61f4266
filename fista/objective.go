package fista

// Objective is the composite function F(β) = f(β) + g(β) seen by the solver.
// f is smooth and only its gradient is required; g enters through its
// proximal map.
type Objective interface {
	// Dimension returns the length of the coefficient vector.
	Dimension() int

	// Gradient writes ∇f(beta) into dst. len(dst) == len(beta) == Dimension().
	Gradient(dst, beta []float64)

	// Prox writes argmin_x { g(x) + ‖x−z‖²/(2·step) } into dst.
	// The result must satisfy every hard constraint encoded in g
	// (non-negativity, box bounds), since iterates are produced only here.
	Prox(dst, z []float64, step float64)
}

// Valuer is implemented by objectives that can report F(β) = f(β) + g(β).
// It is required by the monotone variant and used for Result.Objective.
type Valuer interface {
	Value(beta []float64) float64
}

// SmoothValuer is implemented by objectives that can report f(β) alone.
// Backtracking needs it to test the sufficient-decrease condition.
type SmoothValuer interface {
	SmoothValue(beta []float64) float64
}

// LipschitzBounder is implemented by objectives that know an upper bound on
// the Lipschitz constant of ∇f. A non-positive bound means "unknown".
type LipschitzBounder interface {
	Lipschitz() float64
}
