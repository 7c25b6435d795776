package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperature(t *testing.T) {
	assert.InDelta(t, 573.15, CelsiusToKelvin(300), 1e-12)
	assert.InDelta(t, -273.15, KelvinToCelsius(0), 1e-12)
	assert.InDelta(t, 42.0, KelvinToCelsius(CelsiusToKelvin(42)), 1e-12)
}

func TestPressure(t *testing.T) {
	assert.InDelta(t, 800.0, BarToKPa(8), 1e-12)
	assert.InDelta(t, 0.08, KPaToBar(8), 1e-12)
	assert.InDelta(t, 101325.0, BarToPa(StandardAtmosphereBar), 1e-9)
	assert.InDelta(t, 1.0, PaToBar(1e5), 1e-12)
	assert.InDelta(t, 8.0, BarToMPa(80), 1e-12)
}

func TestEnergy(t *testing.T) {
	assert.InDelta(t, 2500.0, KJToJ(2.5), 1e-12)
	assert.InDelta(t, 2.5, JToKJ(2500), 1e-12)
}
