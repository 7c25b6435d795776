package rankineregen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

func env() cycle.Env {
	return cycle.NewEnv(props.New())
}

func base() Input {
	return Input{PHigh: 80, PLow: 0.08, TMax: 500, PExtraction: 10}
}

func TestRegenerativeDefaults(t *testing.T) {
	res, err := Calculate(base(), env())
	require.NoError(t, err)

	assert.InDelta(t, 37.20, res.Efficiency, 0.02)
	assert.InDelta(t, 21.39, res.Extraction, 0.02)
	assert.InDelta(t, 6.325, res.PumpWork, 0.01)
	assert.InDelta(t, res.TurbineWork-res.PumpWork, res.NetWork, 1e-9)
	require.Len(t, res.States, 6)

	// heater exit is saturated liquid at the bleed pressure and feeds the boiler
	assert.Equal(t, string(props.PhaseTwoPhase), res.States[0].Phase)
	assert.InDelta(t, 10, res.States[0].P, 1e-12)
	assert.InDelta(t, res.States[1].H-res.States[0].H, res.HeatIn, 1e-9)
	assert.InDelta(t, 80, res.States[5].P, 1e-12)
}

func TestRegenerativeSinglePumpCarriesRemainingFlow(t *testing.T) {
	svc := props.New()
	s4, err := svc.SaturatedLiquid(props.Water, 0.08)
	require.NoError(t, err)
	s6s, err := svc.StateFromPS(props.Water, 80, s4.S)
	require.NoError(t, err)

	for _, etaP := range []float64{1.0, 0.8} {
		in := base()
		in.EtaPump = etaP
		res, err := Calculate(in, env())
		require.NoError(t, err)

		y := res.Extraction / 100
		assert.InDelta(t, (1-y)*(s6s.H-s4.H)/etaP, res.PumpWork, 1e-3)
	}
}

func TestRegenerativeBeatsNoBleedAtSameTurbineEfficiency(t *testing.T) {
	res, err := Calculate(base(), env())
	require.NoError(t, err)

	// the condenser only takes (1-y) of the flow
	y := res.Extraction / 100
	assert.Greater(t, y, 0.0)
	assert.Less(t, y, 1.0)
	assert.Less(t, res.HeatOut, res.HeatIn)
}

func TestRegenerativeMonotonic(t *testing.T) {
	prev := 0.0
	for i, eta := range []float64{1.0, 0.9, 0.8} {
		in := base()
		in.EtaTurbine = eta
		res, err := Calculate(in, env())
		require.NoError(t, err)
		if i > 0 {
			assert.Less(t, res.NetWork, prev)
		}
		prev = res.NetWork
	}
}

func TestRegenerativePressureOrder(t *testing.T) {
	cases := map[string]Input{
		"bleed above boiler":       {PHigh: 80, PLow: 0.08, TMax: 500, PExtraction: 100},
		"bleed below condenser":    {PHigh: 80, PLow: 0.08, TMax: 500, PExtraction: 0.05},
		"bleed equal to condenser": {PHigh: 80, PLow: 0.08, TMax: 500, PExtraction: 0.08},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Calculate(in, env())
			assert.ErrorIs(t, err, cycle.ErrInvalidParameter)
			assert.True(t, cycle.IsInputError(err))
		})
	}
}

func TestRegenerativeSolve(t *testing.T) {
	rep, err := Solve(cycle.Params{"p_alta": "80", "p_baja": "0.08", "t_max": "500", "p_extraccion": "10", "potencia": "1000"}, env())
	require.NoError(t, err)
	assert.InDelta(t, 1000, rep.Value(cycle.MNetWork)*rep.Value(cycle.MMassFlow), 1e-9)
	assert.Equal(t, "1000.000 kW", rep.Formatted()["Potencia neta"])
	assert.Contains(t, rep.Formatted(), "Fracción extracción")
}
