// Package props is the fluid property service used by the cycle solvers.
//
// Callers work in bar, °C, kJ/kg and kJ/kg·K. Conversion to the units each
// backend works in happens inside this package.
package props

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

type Fluid string

const (
	Water    Fluid = "Water"
	Air      Fluid = "Air"
	Ammonia  Fluid = "Ammonia"
	R134a    Fluid = "R134a"
	R245fa   Fluid = "R245fa"
	Nitrogen Fluid = "Nitrogen"
	CO2      Fluid = "CO2"
	Helium   Fluid = "Helium"
	Methane  Fluid = "Methane"
	Hydrogen Fluid = "Hydrogen"
	Propane  Fluid = "Propane"
	Ethanol  Fluid = "Ethanol"
)

var supported = map[Fluid]bool{
	Water: true, Air: true, Ammonia: true, R134a: true, R245fa: true, Nitrogen: true,
	CO2: true, Helium: true, Methane: true, Hydrogen: true, Propane: true, Ethanol: true,
}

// Fluids returns the allow-list in alphabetical order.
func Fluids() []Fluid {
	out := make([]Fluid, 0, len(supported))
	for f := range supported {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ParseFluid(name string) (Fluid, error) {
	f := Fluid(strings.TrimSpace(name))
	if !supported[f] {
		names := make([]string, 0, len(supported))
		for _, s := range Fluids() {
			names = append(names, string(s))
		}
		return "", fmt.Errorf("%w: %q (options: %s)", ErrUnsupportedFluid, name, strings.Join(names, ", "))
	}
	return f, nil
}

// Phase names follow the usual equation-of-state library vocabulary.
type Phase string

const (
	PhaseLiquid              Phase = "liquid"
	PhaseGas                 Phase = "gas"
	PhaseTwoPhase            Phase = "twophase"
	PhaseSupercritical       Phase = "supercritical"
	PhaseSupercriticalGas    Phase = "supercritical_gas"
	PhaseSupercriticalLiquid Phase = "supercritical_liquid"
)

// State is one resolved thermodynamic state. Quality is only meaningful when
// Phase is PhaseTwoPhase.
type State struct {
	P       float64 // bar
	T       float64 // °C
	H       float64 // kJ/kg
	S       float64 // kJ/kg·K
	Rho     float64 // kg/m³
	Phase   Phase
	Quality float64
}

// Service resolves a state from two independent properties.
type Service interface {
	StateFromPT(fluid Fluid, pBar, tC float64) (State, error)
	StateFromPS(fluid Fluid, pBar, s float64) (State, error)
	StateFromPH(fluid Fluid, pBar, h float64) (State, error)
	// SaturatedLiquid returns the quality-0 state at pBar.
	SaturatedLiquid(fluid Fluid, pBar float64) (State, error)
}

var (
	ErrUnsupportedFluid = errors.New("unsupported fluid")
	ErrInvalidInput     = errors.New("invalid state input")
	ErrOutOfRange       = errors.New("state outside the fluid's valid domain")
	ErrNoConvergence    = errors.New("property inversion did not converge")
)

// Op names the input pair of a lookup.
type Op string

const (
	OpPT  Op = "PT"
	OpPS  Op = "PS"
	OpPH  Op = "PH"
	OpPQ0 Op = "PQ0"
)

// LookupError carries the failed query and its cause.
type LookupError struct {
	Op     Op
	Fluid  Fluid
	Inputs [2]float64
	Err    error
}

func (e *LookupError) Error() string {
	switch e.Op {
	case OpPQ0:
		return fmt.Sprintf("props: saturated liquid %s at p=%g bar: %v", e.Fluid, e.Inputs[0], e.Err)
	case OpPT:
		return fmt.Sprintf("props: %s at p=%g bar, T=%g °C: %v", e.Fluid, e.Inputs[0], e.Inputs[1], e.Err)
	case OpPS:
		return fmt.Sprintf("props: %s at p=%g bar, s=%g kJ/kg·K: %v", e.Fluid, e.Inputs[0], e.Inputs[1], e.Err)
	default:
		return fmt.Sprintf("props: %s at p=%g bar, h=%g kJ/kg: %v", e.Fluid, e.Inputs[0], e.Inputs[1], e.Err)
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func lookupErr(op Op, fluid Fluid, a, b float64, err error) error {
	return &LookupError{Op: op, Fluid: fluid, Inputs: [2]float64{a, b}, Err: err}
}

func checkInputs(fluid Fluid, pBar float64, other ...float64) error {
	if !supported[fluid] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFluid, fluid)
	}
	if math.IsNaN(pBar) || math.IsInf(pBar, 0) || pBar <= 0 {
		return fmt.Errorf("%w: pressure must be > 0 bar", ErrInvalidInput)
	}
	for _, v := range other {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidInput)
		}
	}
	return nil
}
