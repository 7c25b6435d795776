package carnot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thermo/internal/calc/cycle"
)

func TestCarnotEfficiency(t *testing.T) {
	res, err := Calculate(Input{THot: 300, TCold: 50}, cycle.Env{})
	require.NoError(t, err)
	assert.InDelta(t, 43.6186, res.Efficiency, 1e-4)
	assert.Equal(t, "vapor", res.Source)
}

func TestCarnotSolve(t *testing.T) {
	rep, err := Solve(cycle.Params{"t_caliente": 300.0, "t_fria": 50.0, "fuente_caliente": "Agua"}, cycle.Env{})
	require.NoError(t, err)

	out := rep.Formatted()
	assert.Equal(t, "43.62%", out["Eficiencia teórica"])
	assert.Equal(t, "300.00 °C", out["Temperatura caliente"])
	assert.Equal(t, "agua", out["Fuente de calor"])
	assert.Empty(t, rep.States)
}

func TestCarnotErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Solve(cycle.Params{"t_caliente": 300.0}, cycle.Env{})
		assert.ErrorIs(t, err, cycle.ErrMissingParameter)
		assert.Contains(t, err.Error(), "carnot: calculation failed")
		assert.Contains(t, err.Error(), "t_fria")
	})
	t.Run("reversed temperatures", func(t *testing.T) {
		_, err := Solve(cycle.Params{"t_caliente": 20.0, "t_fria": 50.0}, cycle.Env{})
		assert.ErrorIs(t, err, cycle.ErrInvalidParameter)
	})
	t.Run("below absolute zero", func(t *testing.T) {
		_, err := Solve(cycle.Params{"t_caliente": 20.0, "t_fria": -300.0}, cycle.Env{})
		assert.ErrorIs(t, err, cycle.ErrInvalidParameter)
	})
	t.Run("unknown source", func(t *testing.T) {
		_, err := Solve(cycle.Params{"t_caliente": 300.0, "t_fria": 50.0, "fuente_caliente": "sol"}, cycle.Env{})
		assert.ErrorIs(t, err, cycle.ErrInvalidParameter)
	})
}
