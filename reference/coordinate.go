package reference

import (
	"math"
)

// invPhi is 1/φ for golden-section search.
var invPhi = (math.Sqrt(5) - 1) / 2

// CoordinateSearch minimises f one coordinate at a time: each coordinate is
// bracketed by step doubling and then refined by golden-section search.
// Sweeps repeat until neither the value nor any coordinate moves by more than
// the tolerances. It reaches the global minimum of convex functions whose
// non-smooth part is separable (lasso, graph-net); it can stall on coupled
// non-smooth penalties such as the fused lasso.
func CoordinateSearch(f Func, x0 []float64, opts ...Option) (*Solution, error) {
	s, err := newSettings("reference.CoordinateSearch", opts)
	if err != nil {
		return nil, err
	}
	c, fx, err := start("reference.CoordinateSearch", f, x0)
	if err != nil {
		return nil, err
	}

	x := append([]float64(nil), x0...)
	steps := make([]float64, len(x))
	for i, v := range x {
		steps[i] = 0.1 * math.Max(1, math.Abs(v))
	}

	line := func(i int) func(t float64) float64 {
		return func(t float64) float64 {
			old := x[i]
			x[i] = t
			v := c.eval(x)
			x[i] = old
			return v
		}
	}

	sweep := 0
	for ; sweep < s.maxSweeps && c.n < s.maxEvaluations; sweep++ {
		prev := fx
		var moved float64
		for i := range x {
			t, ft := minimize1D(line(i), x[i], fx, steps[i], s.xtol)
			if ft < fx {
				move := math.Abs(t - x[i])
				moved = math.Max(moved, move/math.Max(1, math.Abs(t)))
				steps[i] = math.Max(2*move, 10*s.xtol)
				x[i], fx = t, ft
			} else {
				steps[i] = math.Max(steps[i]/2, 10*s.xtol)
			}
		}
		if !improved(prev, fx, s.ftol) && moved < s.xtol {
			break
		}
	}

	s.logger.Debug("reference minimum found",
		"method", "coordinate",
		"sweeps", sweep,
		"evaluations", c.n,
		"value", fx,
	)
	return &Solution{X: x, F: fx, Evaluations: c.n}, nil
}

// minimize1D finds a minimiser of a convex φ near t0 (φ(t0) = f0). φ may be
// +Inf on one side of a domain boundary.
func minimize1D(phi func(float64) float64, t0, f0, h, xtol float64) (float64, float64) {
	const maxExpand = 60

	best, fbest := t0, f0
	eval := func(t float64) float64 {
		v := phi(t)
		if v < fbest {
			best, fbest = t, v
		}
		return v
	}

	lo, hi := t0-h, t0+h
	if fr := eval(hi); fr < f0 {
		// 値が再び増えるまで右へ広げる
		lo = t0
		mid, fmid := hi, fr
		for k := 0; k < maxExpand; k++ {
			h *= 2
			hi = mid + h
			fnext := eval(hi)
			if fnext >= fmid {
				break
			}
			lo, mid, fmid = mid, hi, fnext
		}
	} else if fl := eval(lo); fl < f0 {
		hi = t0
		mid, fmid := lo, fl
		for k := 0; k < maxExpand; k++ {
			h *= 2
			lo = mid - h
			fnext := eval(lo)
			if fnext >= fmid {
				break
			}
			hi, mid, fmid = mid, lo, fnext
		}
	}

	a, b := lo, hi
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, f2 := eval(x1), eval(x2)
	for b-a > xtol*(1+math.Abs(a)+math.Abs(b)) {
		// 両方が定義域外なら、既知の有限な点の側へ縮める
		left := f1 < f2 || (f1 == f2 && !(math.IsInf(f1, 1) && best > x2))
		if left {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			f1 = eval(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2 = eval(x2)
		}
	}
	return best, fbest
}
