package props

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaterRegion1(t *testing.T) {
	svc := New()
	cases := []struct {
		name    string
		p, t    float64
		h, s, v float64
		phase   Phase
	}{
		{"3MPa_300K", 30, 26.85, 115.331273, 0.392294792, 0.00100215168, PhaseLiquid},
		{"80MPa_300K", 800, 26.85, 184.142828, 0.368563852, 0.000971180894, PhaseSupercriticalLiquid},
		{"3MPa_500K", 30, 226.85, 975.542239, 2.58041912, 0.00120241800, PhaseLiquid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st, err := svc.StateFromPT(Water, c.p, c.t)
			require.NoError(t, err)
			assert.InDelta(t, c.h, st.H, 1e-5)
			assert.InDelta(t, c.s, st.S, 1e-8)
			assert.InDelta(t, 1/c.v, st.Rho, 1e-3)
			assert.Equal(t, c.phase, st.Phase)
		})
	}
}

func TestWaterRegion2(t *testing.T) {
	svc := New()
	cases := []struct {
		name  string
		p, t  float64
		h, s  float64
		phase Phase
	}{
		{"0.0035MPa_300K", 0.035, 26.85, 2549.91145, 8.52238967, PhaseGas},
		{"0.0035MPa_700K", 0.035, 426.85, 3335.68375, 10.1749996, PhaseSupercriticalGas},
		{"30MPa_700K", 300, 426.85, 2631.49474, 5.17540298, PhaseSupercritical},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st, err := svc.StateFromPT(Water, c.p, c.t)
			require.NoError(t, err)
			assert.InDelta(t, c.h, st.H, 1e-4)
			assert.InDelta(t, c.s, st.S, 1e-7)
			assert.Equal(t, c.phase, st.Phase)
		})
	}
}

func TestSaturationLine(t *testing.T) {
	assert.InDelta(t, 0.00353658941, psat(300), 1e-10)
	assert.InDelta(t, 2.63889776, psat(500), 1e-7)
	assert.InDelta(t, 372.755919, tsat(0.1), 1e-5)
	assert.InDelta(t, 453.035632, tsat(1), 1e-5)
}

func TestSaturatedLiquid(t *testing.T) {
	svc := New()

	st, err := svc.SaturatedLiquid(Water, 1)
	require.NoError(t, err)
	assert.InDelta(t, 99.606, st.T, 1e-3)
	assert.InDelta(t, 417.44, st.H, 0.05)
	assert.InDelta(t, 1.3026, st.S, 1e-3)
	assert.Equal(t, PhaseTwoPhase, st.Phase)
	assert.Zero(t, st.Quality)

	_, err = svc.SaturatedLiquid(Water, 300)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = svc.SaturatedLiquid(Air, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestWaterInversionRoundTrip(t *testing.T) {
	svc := New()
	points := []struct{ p, t float64 }{
		{30, 226.85},  // compressed liquid
		{10, 400},     // superheated vapour
		{200, 30},     // liquid above the saturation dome top
		{250, 600},    // supercritical, above B23
		{0.005, 50},   // below the triple-point pressure
	}
	for _, pt := range points {
		ref, err := svc.StateFromPT(Water, pt.p, pt.t)
		require.NoError(t, err)

		bySH, err := svc.StateFromPS(Water, pt.p, ref.S)
		require.NoError(t, err)
		assert.InDelta(t, pt.t, bySH.T, 1e-6)
		assert.InDelta(t, ref.H, bySH.H, 1e-6)

		byH, err := svc.StateFromPH(Water, pt.p, ref.H)
		require.NoError(t, err)
		assert.InDelta(t, pt.t, byH.T, 1e-6)
		assert.InDelta(t, ref.S, byH.S, 1e-8)
	}
}

func TestWaterTwoPhase(t *testing.T) {
	svc := New()
	liq, err := svc.SaturatedLiquid(Water, 1)
	require.NoError(t, err)

	// entropy of saturated vapour at 1 bar is about 7.3588 kJ/kg·K
	s := liq.S + 0.5*(7.3588-liq.S)
	st, err := svc.StateFromPS(Water, 1, s)
	require.NoError(t, err)
	assert.Equal(t, PhaseTwoPhase, st.Phase)
	assert.InDelta(t, 0.5, st.Quality, 1e-3)
	assert.InDelta(t, liq.T, st.T, 1e-9)
	assert.Greater(t, st.H, liq.H)

	back, err := svc.StateFromPH(Water, 1, st.H)
	require.NoError(t, err)
	assert.InDelta(t, st.Quality, back.Quality, 1e-9)
	assert.InDelta(t, st.S, back.S, 1e-9)
}

func TestWaterOutOfRange(t *testing.T) {
	svc := New()

	_, err := svc.StateFromPT(Water, 10, 900)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// region 3
	_, err = svc.StateFromPT(Water, 250, 380)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = svc.StateFromPS(Water, 10, 50)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestIdealGas(t *testing.T) {
	svc := New()

	ref, err := svc.StateFromPT(Air, 1.01325, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, ref.H, 1e-9)
	assert.InDelta(t, 0, ref.S, 1e-9)
	assert.InDelta(t, 1.2925, ref.Rho, 1e-3)
	assert.Equal(t, PhaseSupercriticalGas, ref.Phase)

	hot, err := svc.StateFromPT(Air, 1.01325, 100)
	require.NoError(t, err)
	assert.InDelta(t, 100.5, hot.H, 1.0)

	t.Run("isentropic compression heats the gas", func(t *testing.T) {
		in, err := svc.StateFromPT(Air, 1, 26.85)
		require.NoError(t, err)
		out, err := svc.StateFromPS(Air, 10, in.S)
		require.NoError(t, err)
		// cold-air standard gives about 306 °C
		assert.InDelta(t, 306, out.T, 10)
		assert.InDelta(t, in.S, out.S, 1e-8)
	})

	t.Run("enthalpy inversion", func(t *testing.T) {
		st, err := svc.StateFromPH(CO2, 5, 250)
		require.NoError(t, err)
		again, err := svc.StateFromPT(CO2, 5, st.T)
		require.NoError(t, err)
		assert.InDelta(t, 250, again.H, 1e-6)
	})

	t.Run("phase labels", func(t *testing.T) {
		st, err := svc.StateFromPT(Propane, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, PhaseGas, st.Phase)

		st, err = svc.StateFromPT(Methane, 50, 20)
		require.NoError(t, err)
		assert.Equal(t, PhaseSupercritical, st.Phase)
	})
}

func TestInvalidInputs(t *testing.T) {
	svc := New()

	_, err := svc.StateFromPT("Mercury", 1, 20)
	assert.ErrorIs(t, err, ErrUnsupportedFluid)

	_, err = svc.StateFromPT(Water, -1, 20)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.StateFromPT(Air, 1, 5000)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, OpPT, le.Op)
	assert.Equal(t, Air, le.Fluid)
	assert.Contains(t, err.Error(), "Air")
}

func TestParseFluid(t *testing.T) {
	f, err := ParseFluid(" Water ")
	require.NoError(t, err)
	assert.Equal(t, Water, f)

	_, err = ParseFluid("water")
	assert.ErrorIs(t, err, ErrUnsupportedFluid)

	assert.Len(t, Fluids(), 12)
	assert.Equal(t, Air, Fluids()[0])
}
