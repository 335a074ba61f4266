package reference

import (
	"gonum.org/v1/gonum/optimize"
)

// NelderMead minimises f with gonum's Nelder-Mead simplex, restarting from
// the best point until a restart no longer improves the value by ftol.
// Restarts rebuild the simplex, which lets the method escape the premature
// collapse it is prone to on non-smooth objectives.
func NelderMead(f Func, x0 []float64, opts ...Option) (*Solution, error) {
	s, err := newSettings("reference.NelderMead", opts)
	if err != nil {
		return nil, err
	}
	c, fx, err := start("reference.NelderMead", f, x0)
	if err != nil {
		return nil, err
	}

	best := &Solution{X: append([]float64(nil), x0...), F: fx}
	problem := optimize.Problem{Func: c.eval}

	for restart := 0; restart <= s.maxRestarts; restart++ {
		remaining := s.maxEvaluations - c.n
		if remaining <= 0 {
			break
		}
		settings := &optimize.Settings{
			FuncEvaluations: remaining,
			Converger: &optimize.FunctionConverge{
				Absolute:   s.ftol,
				Relative:   s.ftol,
				Iterations: 50 * len(x0),
			},
		}
		res, err := optimize.Minimize(problem, best.X, settings, &optimize.NelderMead{})
		if res == nil {
			return nil, err
		}
		if err != nil {
			s.logger.Debug("Nelder-Mead stopped early", "restart", restart, "error", err)
		}

		if !improved(best.F, res.F, s.ftol) {
			if res.F < best.F {
				best.X, best.F = res.X, res.F
			}
			break
		}
		best.X, best.F = res.X, res.F
	}

	best.Evaluations = c.n
	s.logger.Debug("reference minimum found",
		"method", "nelder-mead",
		"evaluations", best.Evaluations,
		"value", best.F,
	)
	return best, nil
}
