package fista

// IterationEnv describes the state after one iteration. Coefficients aliases
// the solver's buffer: read it, do not keep or modify it.
type IterationEnv struct {
	Iteration    int
	Coefficients []float64
	Objective    float64
	HasObjective bool
	Change       float64
	Lipschitz    float64
}

// Callback observes the run after every iteration. Callbacks cannot stop or
// alter the loop.
type Callback func(env IterationEnv)

// History accumulates per-iteration traces.
type History struct {
	Objective []float64
	Change    []float64
	Lipschitz []float64
}

// RecordHistory returns a Callback appending to h. Objective is recorded only
// for objectives implementing Valuer.
func RecordHistory(h *History) Callback {
	return func(env IterationEnv) {
		if env.HasObjective {
			h.Objective = append(h.Objective, env.Objective)
		}
		h.Change = append(h.Change, env.Change)
		h.Lipschitz = append(h.Lipschitz, env.Lipschitz)
	}
}
