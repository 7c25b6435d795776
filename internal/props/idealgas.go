package props

import (
	"fmt"
	"math"

	"Thermo/internal/units"
)

const (
	ruKJ  = 8.31447 // kJ/kmol·K
	gasT0 = 273.15  // reference temperature, K
	gasP0 = units.StandardAtmosphereBar
)

// gas is an ideal gas with cp = a + bT + cT² + dT³ (molar).
type gas struct {
	m          float64 // kg/kmol
	a, b, c, d float64
	tMin, tMax float64 // K
	tc, pc     float64 // critical point, K and bar
}

// Cubic cp fits for the low-pressure gas. The refrigerant entries are linear fits
// of the ideal-gas heat capacity around room temperature.
var gases = map[Fluid]gas{
	Air:      {m: 28.97, a: 28.11, b: 0.1967e-2, c: 0.4802e-5, d: -1.966e-9, tMin: 200, tMax: 2000, tc: 132.5, pc: 37.7},
	Nitrogen: {m: 28.013, a: 28.90, b: -0.1571e-2, c: 0.8081e-5, d: -2.873e-9, tMin: 200, tMax: 2000, tc: 126.2, pc: 33.9},
	CO2:      {m: 44.01, a: 22.26, b: 5.981e-2, c: -3.501e-5, d: 7.469e-9, tMin: 220, tMax: 1800, tc: 304.2, pc: 73.9},
	Methane:  {m: 16.04, a: 19.89, b: 5.024e-2, c: 1.269e-5, d: -11.01e-9, tMin: 200, tMax: 1500, tc: 191.1, pc: 46.4},
	Propane:  {m: 44.097, a: -4.04, b: 30.48e-2, c: -15.72e-5, d: 31.74e-9, tMin: 230, tMax: 1500, tc: 370.0, pc: 42.7},
	Hydrogen: {m: 2.016, a: 29.11, b: -0.1916e-2, c: 0.4003e-5, d: -0.8704e-9, tMin: 200, tMax: 1800, tc: 33.3, pc: 13.0},
	Ammonia:  {m: 17.03, a: 27.568, b: 2.5630e-2, c: 0.99072e-5, d: -6.6909e-9, tMin: 240, tMax: 1500, tc: 405.5, pc: 112.8},
	Ethanol:  {m: 46.07, a: 19.9, b: 20.96e-2, c: -10.38e-5, d: 20.05e-9, tMin: 250, tMax: 1500, tc: 516.0, pc: 63.8},
	Helium:   {m: 4.003, a: 20.786, tMin: 10, tMax: 2000, tc: 5.2, pc: 2.27},
	R134a:    {m: 102.03, a: 39.6, b: 0.156, tMin: 250, tMax: 500, tc: 374.2, pc: 40.6},
	R245fa:   {m: 134.05, a: 56.6, b: 0.2, tMin: 260, tMax: 500, tc: 427.2, pc: 36.5},
}

func (g gas) r() float64 {
	return ruKJ / g.m
}

func (g gas) h(t float64) float64 {
	i := func(t float64) float64 {
		return g.a*t + g.b*t*t/2 + g.c*t*t*t/3 + g.d*t*t*t*t/4
	}
	return (i(t) - i(gasT0)) / g.m
}

// s0 is the temperature part of the entropy at gasP0.
func (g gas) s0(t float64) float64 {
	i := func(t float64) float64 {
		return g.a*math.Log(t) + g.b*t + g.c*t*t/2 + g.d*t*t*t/3
	}
	return (i(t) - i(gasT0)) / g.m
}

func (g gas) s(pBar, t float64) float64 {
	return g.s0(t) - g.r()*math.Log(pBar/gasP0)
}

func (g gas) phase(pBar, t float64) Phase {
	switch {
	case t >= g.tc && pBar >= g.pc:
		return PhaseSupercritical
	case t >= g.tc:
		return PhaseSupercriticalGas
	default:
		return PhaseGas
	}
}

func (g gas) state(pBar, t float64) State {
	return State{
		P:     pBar,
		T:     units.KelvinToCelsius(t),
		H:     g.h(t),
		S:     g.s(pBar, t),
		Rho:   units.BarToPa(pBar) / (units.KJToJ(g.r()) * t),
		Phase: g.phase(pBar, t),
	}
}

func (g gas) checkT(t float64) error {
	if t < g.tMin || t > g.tMax {
		return fmt.Errorf("%w: ideal-gas model valid from %.0f to %.0f °C", ErrOutOfRange,
			units.KelvinToCelsius(g.tMin), units.KelvinToCelsius(g.tMax))
	}
	return nil
}

func (g gas) fromPT(pBar, tC float64) (State, error) {
	t := units.CelsiusToKelvin(tC)
	if err := g.checkT(t); err != nil {
		return State{}, err
	}
	return g.state(pBar, t), nil
}

func (g gas) fromPH(pBar, h float64) (State, error) {
	t, err := solveT(g.h, h, g.tMin, g.tMax)
	if err != nil {
		return State{}, err
	}
	return g.state(pBar, t), nil
}

func (g gas) fromPS(pBar, s float64) (State, error) {
	t, err := solveT(func(t float64) float64 { return g.s(pBar, t) }, s, g.tMin, g.tMax)
	if err != nil {
		return State{}, err
	}
	return g.state(pBar, t), nil
}
