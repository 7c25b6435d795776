package units

// StandardAtmosphereBar is 1 atm expressed in bar.
const StandardAtmosphereBar = 1.01325

const kelvinOffset = 273.15

func CelsiusToKelvin(tC float64) float64 {
	return tC + kelvinOffset
}

func KelvinToCelsius(tK float64) float64 {
	return tK - kelvinOffset
}

func BarToKPa(pBar float64) float64 {
	return pBar * 100
}

func KPaToBar(pKPa float64) float64 {
	return pKPa / 100
}

func BarToPa(pBar float64) float64 {
	return pBar * 1e5
}

func PaToBar(pPa float64) float64 {
	return pPa / 1e5
}

func BarToMPa(pBar float64) float64 {
	return pBar / 10
}

func KJToJ(kj float64) float64 {
	return kj * 1000
}

func JToKJ(j float64) float64 {
	return j / 1000
}
