package fista

import "math"

// separable is F(β) = ½Σ d_i(β_i − c_i)² + λ‖β‖₁, optionally restricted to β ≥ 0.
// Its minimiser is known in closed form, which makes it a convenient oracle.
type separable struct {
	d, c   []float64
	lambda float64
	nonneg bool
}

func (s *separable) Dimension() int { return len(s.c) }

func (s *separable) Gradient(dst, beta []float64) {
	for i := range beta {
		dst[i] = s.d[i] * (beta[i] - s.c[i])
	}
}

func (s *separable) Prox(dst, z []float64, step float64) {
	thr := s.lambda * step
	for i, v := range z {
		switch {
		case s.nonneg:
			dst[i] = math.Max(v-thr, 0)
		case v > thr:
			dst[i] = v - thr
		case v < -thr:
			dst[i] = v + thr
		default:
			dst[i] = 0
		}
	}
}

func (s *separable) SmoothValue(beta []float64) float64 {
	var v float64
	for i := range beta {
		r := beta[i] - s.c[i]
		v += 0.5 * s.d[i] * r * r
	}
	return v
}

func (s *separable) Value(beta []float64) float64 {
	v := s.SmoothValue(beta)
	for _, b := range beta {
		if s.nonneg && b < 0 {
			return math.Inf(1)
		}
		v += s.lambda * math.Abs(b)
	}
	return v
}

func (s *separable) solution() []float64 {
	out := make([]float64, len(s.c))
	for i := range s.c {
		thr := s.lambda / s.d[i]
		switch {
		case s.nonneg:
			out[i] = math.Max(s.c[i]-thr, 0)
		case s.c[i] > thr:
			out[i] = s.c[i] - thr
		case s.c[i] < -thr:
			out[i] = s.c[i] + thr
		}
	}
	return out
}

// bounded exposes the exact Lipschitz constant max d_i.
type bounded struct{ *separable }

func (b bounded) Lipschitz() float64 {
	var l float64
	for _, v := range b.d {
		l = math.Max(l, v)
	}
	return l
}

// bare hides every optional capability.
type bare struct{ Objective }

// linearL1 is f(β) = −Yᵀβ with g = λ‖β‖₁.
type linearL1 struct {
	y      []float64
	lambda float64
}

func (l *linearL1) Dimension() int { return len(l.y) }

func (l *linearL1) Gradient(dst, _ []float64) {
	for i, v := range l.y {
		dst[i] = -v
	}
}

func (l *linearL1) Prox(dst, z []float64, step float64) {
	(&separable{lambda: l.lambda}).Prox(dst, z, step)
}

// steep is f(β) = ½·1e30·‖β‖² with no proximal term; its curvature cannot be
// reached by a handful of doublings.
type steep struct{}

func (steep) Dimension() int { return 1 }

func (steep) Gradient(dst, beta []float64) { dst[0] = 1e30 * beta[0] }

func (steep) Prox(dst, z []float64, _ float64) { copy(dst, z) }

func (steep) SmoothValue(beta []float64) float64 { return 0.5 * 1e30 * beta[0] * beta[0] }

// exploding returns NaN from its proximal map after the first call.
type exploding struct{ calls int }

func (e *exploding) Dimension() int { return 2 }

func (e *exploding) Gradient(dst, beta []float64) { copy(dst, beta) }

func (e *exploding) Prox(dst, z []float64, _ float64) {
	e.calls++
	copy(dst, z)
	if e.calls > 1 {
		dst[1] = math.NaN()
	}
}
