package rankinereheat

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
	return Input{PHigh: 80, PMid: 20, PLow: 0.08, TMax: 500, TReheat: 500}
}

func TestRankineReheatDefaults(t *testing.T) {
	res, err := Calculate(base(), env())
	require.NoError(t, err)

	assert.InDelta(t, 35.87, res.Efficiency, 0.02)
	assert.InDelta(t, res.HPWork+res.LPWork-res.PumpWork, res.NetWork, 1e-9)
	assert.InDelta(t, res.HeatIn-res.HeatOut, res.NetWork, 1e-9)
	assert.Greater(t, res.ReheatHeat, 0.0)
	require.Len(t, res.States, 6)
	assert.InDelta(t, 20, res.States[4].P, 1e-12)
	assert.InDelta(t, 500, res.States[4].T, 1e-9)
}

func TestRankineReheatBindDefaults(t *testing.T) {
	in, err := Bind(cycle.Params{"p_alta": 80, "p_media": 20, "p_baja": 0.08, "t_max": 500, "t_recal": 500})
	require.NoError(t, err)
	assert.Equal(t, 0.85, in.EtaHP)
	assert.Equal(t, 0.85, in.EtaLP)
	assert.Equal(t, 0.8, in.EtaPump)
	assert.Equal(t, 1.0, in.Flow.MassFlow)
}

func TestRankineReheatMonotonic(t *testing.T) {
	for _, field := range []string{"hp", "lp"} {
		t.Run(field, func(t *testing.T) {
			prev := 0.0
			for i, eta := range []float64{0.95, 0.85, 0.75} {
				in := base()
				if field == "hp" {
					in.EtaHP = eta
				} else {
					in.EtaLP = eta
				}
				res, err := Calculate(in, env())
				require.NoError(t, err)
				if i > 0 {
					assert.Less(t, res.NetWork, prev)
				}
				prev = res.NetWork
			}
		})
	}
}

func TestRankineReheatPowerBackSolve(t *testing.T) {
	in := base()
	in.Flow = cycle.Flow{Power: 250000, HasPower: true}
	res, err := Calculate(in, env())
	require.NoError(t, err)
	assert.InDelta(t, 250000, res.NetWork*res.MassFlow, 1e-6)
}

func TestRankineReheatPressureOrder(t *testing.T) {
	in := base()
	in.PMid = 90
	_, err := Calculate(in, env())
	assert.ErrorIs(t, err, cycle.ErrInvalidParameter)

	in = base()
	in.PLow = 30
	_, err = Calculate(in, env())
	assert.ErrorIs(t, err, cycle.ErrInvalidParameter)
}

func TestRankineReheatMissing(t *testing.T) {
	_, err := Solve(cycle.Params{"p_alta": 80, "p_baja": 0.08, "t_max": 500}, env())
	require.Error(t, err)
	var ce *cycle.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"p_media", "t_recal"}, ce.Keys)
}
