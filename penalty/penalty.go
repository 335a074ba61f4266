// Package penalty provides the non-smooth parts g(β) of composite objectives
// through their proximal maps
//
//	prox(z, η) = argmin_x { g(x) + ‖x − z‖² / (2η) }.
//
// Every proximal map here returns a point in the domain of g, so constraints
// such as non-negativity hold for every solver iterate.
package penalty

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Prox is a convex penalty with a computable proximal map.
type Prox interface {
	// Prox overwrites dst with prox(z, step).
	Prox(dst, z []float64, step float64)
	// Value returns g(beta); +Inf outside the domain.
	Value(beta []float64) float64
}

// feasibilitySlack tolerates rounding at constraint boundaries in Value.
const feasibilitySlack = 1e-12

// L1 is g(β) = λ‖β‖₁ (lasso).
type L1 struct {
	Lambda float64
}

// Prox soft-thresholds z by step·λ.
func (p L1) Prox(dst, z []float64, step float64) {
	SoftThreshold(dst, z, step*p.Lambda)
}

func (p L1) Value(beta []float64) float64 { return p.Lambda * floats.Norm(beta, 1) }

// SoftThreshold writes sign(z)·max(|z| − thr, 0) into dst.
func SoftThreshold(dst, z []float64, thr float64) {
	for i, v := range z {
		switch {
		case v > thr:
			dst[i] = v - thr
		case v < -thr:
			dst[i] = v + thr
		default:
			dst[i] = 0
		}
	}
}

// NonNegativeL1 is g(β) = λ·Σβ restricted to β ≥ 0.
type NonNegativeL1 struct {
	Lambda float64
}

// Prox computes max(z − step·λ, 0).
func (p NonNegativeL1) Prox(dst, z []float64, step float64) {
	thr := step * p.Lambda
	for i, v := range z {
		dst[i] = math.Max(v-thr, 0)
	}
}

func (p NonNegativeL1) Value(beta []float64) float64 {
	var sum float64
	for _, b := range beta {
		if b < 0 {
			return math.Inf(1)
		}
		sum += b
	}
	return p.Lambda * sum
}

// LInfBall is the indicator of {β : ‖β‖∞ ≤ Radius}.
type LInfBall struct {
	Radius float64
}

// Prox clips z to [−Radius, Radius]; the step is irrelevant for indicators.
func (p LInfBall) Prox(dst, z []float64, _ float64) {
	for i, v := range z {
		dst[i] = math.Max(-p.Radius, math.Min(p.Radius, v))
	}
}

func (p LInfBall) Value(beta []float64) float64 {
	limit := p.Radius + feasibilitySlack*math.Max(1, p.Radius)
	for _, b := range beta {
		if math.Abs(b) > limit {
			return math.Inf(1)
		}
	}
	return 0
}

// Zero is g ≡ 0; its proximal map is the identity.
type Zero struct{}

func (Zero) Prox(dst, z []float64, _ float64) { copy(dst, z) }

func (Zero) Value([]float64) float64 { return 0 }
