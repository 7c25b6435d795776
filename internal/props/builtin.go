package props

import (
	"fmt"
)

// Builtin is the in-process property service: IAPWS-IF97 for water and an
// ideal-gas model for everything else.
type Builtin struct {
	water water
}

func New() *Builtin {
	return &Builtin{}
}

func (b *Builtin) StateFromPT(fluid Fluid, pBar, tC float64) (State, error) {
	if err := checkInputs(fluid, pBar, tC); err != nil {
		return State{}, lookupErr(OpPT, fluid, pBar, tC, err)
	}
	var (
		st  State
		err error
	)
	if fluid == Water {
		st, err = b.water.fromPT(pBar, tC)
	} else {
		st, err = gases[fluid].fromPT(pBar, tC)
	}
	if err != nil {
		return State{}, lookupErr(OpPT, fluid, pBar, tC, err)
	}
	return st, nil
}

func (b *Builtin) StateFromPS(fluid Fluid, pBar, s float64) (State, error) {
	if err := checkInputs(fluid, pBar, s); err != nil {
		return State{}, lookupErr(OpPS, fluid, pBar, s, err)
	}
	var (
		st  State
		err error
	)
	if fluid == Water {
		st, err = b.water.fromPX(pBar, s, pickS)
	} else {
		st, err = gases[fluid].fromPS(pBar, s)
	}
	if err != nil {
		return State{}, lookupErr(OpPS, fluid, pBar, s, err)
	}
	return st, nil
}

func (b *Builtin) StateFromPH(fluid Fluid, pBar, h float64) (State, error) {
	if err := checkInputs(fluid, pBar, h); err != nil {
		return State{}, lookupErr(OpPH, fluid, pBar, h, err)
	}
	var (
		st  State
		err error
	)
	if fluid == Water {
		st, err = b.water.fromPX(pBar, h, pickH)
	} else {
		st, err = gases[fluid].fromPH(pBar, h)
	}
	if err != nil {
		return State{}, lookupErr(OpPH, fluid, pBar, h, err)
	}
	return st, nil
}

func (b *Builtin) SaturatedLiquid(fluid Fluid, pBar float64) (State, error) {
	if err := checkInputs(fluid, pBar); err != nil {
		return State{}, lookupErr(OpPQ0, fluid, pBar, 0, err)
	}
	if fluid != Water {
		err := fmt.Errorf("%w: %s is modelled as an ideal gas and has no saturation line", ErrOutOfRange, fluid)
		return State{}, lookupErr(OpPQ0, fluid, pBar, 0, err)
	}
	st, err := b.water.saturatedLiquid(pBar)
	if err != nil {
		return State{}, lookupErr(OpPQ0, fluid, pBar, 0, err)
	}
	return st, nil
}
