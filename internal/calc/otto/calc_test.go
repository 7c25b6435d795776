package otto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

func env() cycle.Env {
	return cycle.NewEnv(props.New())
}

func TestOttoClosedFormEfficiency(t *testing.T) {
	res, err := Calculate(Input{Ratio: 8, T1: 25, P1: 1.013, T3: 1500}, env())
	require.NoError(t, err)

	assert.InDelta(t, (1-math.Pow(8, -0.4))*100, res.Efficiency, 1e-12)
	assert.InDelta(t, 56.47, res.Efficiency, 0.01)
	// the energy balance is reported separately and differs
	assert.InDelta(t, 52.98, res.BalanceEfficiency, 0.05)
	assert.InDelta(t, res.NetWork/res.HeatIn*100, res.BalanceEfficiency, 1e-9)
	assert.InDelta(t, 1.013*math.Pow(8, 1.4), res.MaxPressure, 1e-9)
	assert.InDelta(t, res.HeatIn-res.HeatOut, res.NetWork, 1e-12)
}

func TestOttoStates(t *testing.T) {
	res, err := Calculate(Input{Ratio: 8, T1: 25, P1: 1.013, T3: 1500}, env())
	require.NoError(t, err)
	require.Len(t, res.States, 4)

	s := res.States
	assert.InDelta(t, s[0].S, s[1].S, 1e-8)
	assert.InDelta(t, s[2].S, s[3].S, 1e-8)
	assert.InDelta(t, 397.5, s[1].T, 0.5)
	assert.Equal(t, s[1].P, s[2].P)
}

func TestOttoErrors(t *testing.T) {
	_, err := Solve(cycle.Params{"relacion_compresion": 8, "t1": 25, "p1": 1.013}, env())
	assert.ErrorIs(t, err, cycle.ErrMissingParameter)

	// peak below the compression end temperature
	_, err = Solve(cycle.Params{"relacion_compresion": 8, "t1": 25, "p1": 1.013, "t3": 300}, env())
	assert.ErrorIs(t, err, cycle.ErrInvalidParameter)

	_, err = Solve(cycle.Params{"relacion_compresion": 8, "t1": 25, "p1": 1.013, "t3": 2500}, env())
	assert.ErrorIs(t, err, cycle.ErrPropertyLookup)
}

func TestOttoPowerBackSolve(t *testing.T) {
	rep, err := Solve(cycle.Params{"relacion_compresion": 8, "t1": 25, "p1": 1.013, "t3": 1500, "potencia": 75}, env())
	require.NoError(t, err)
	assert.InDelta(t, 75, rep.Value(cycle.MNetWork)*rep.Value(cycle.MMassFlow), 1e-9)
}
