package props

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	maxIterations = 100
	// residual tolerance, in kJ/kg for enthalpy and kJ/kg·K for entropy
	residualTol = 1e-9
)

var derivSettings = &fd.Settings{Formula: fd.Central, Step: 1e-4}

// solveT finds T in [lo, hi] (K) where f(T) = target. f must increase with T.
// Newton steps use a central-difference derivative and fall back to bisection
// whenever a step leaves the bracket.
func solveT(f func(float64) float64, target, lo, hi float64) (float64, error) {
	g := func(t float64) float64 { return f(t) - target }
	glo, ghi := g(lo), g(hi)
	if math.Abs(glo) <= residualTol {
		return lo, nil
	}
	if math.Abs(ghi) <= residualTol {
		return hi, nil
	}
	if glo > 0 || ghi < 0 {
		return 0, fmt.Errorf("%w: target %g not within [%g, %g]", ErrOutOfRange, target, f(lo), f(hi))
	}

	t := lo + (hi-lo)*(-glo)/(ghi-glo)
	for i := 0; i < maxIterations; i++ {
		gt := g(t)
		if math.Abs(gt) <= residualTol {
			return t, nil
		}
		if gt > 0 {
			hi = t
		} else {
			lo = t
		}
		next := t - gt/fd.Derivative(g, t, derivSettings)
		if math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if scalar.EqualWithinAbsOrRel(next, t, 1e-12, 1e-14) {
			return next, nil
		}
		t = next
	}
	return 0, ErrNoConvergence
}
