package cycle

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	UnitPercent  = "%"
	UnitSpecific = "kJ/kg"
	UnitMassFlow = "kg/s"
	UnitPower    = "kW"
	UnitPressure = "bar"
	UnitTemp     = "°C"
	UnitDensity  = "kg/m³"
)

type Metric struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	Places int32   `json:"places,omitempty"`
	// Text replaces the number for echoed string inputs.
	Text string `json:"text,omitempty"`
}

// Format renders the metric rounded to Places decimals with its unit suffix.
func (m Metric) Format() string {
	if m.Text != "" {
		return m.Text
	}
	var num string
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		num = strconv.FormatFloat(m.Value, 'g', -1, 64)
	} else {
		num = decimal.NewFromFloat(m.Value).StringFixed(m.Places)
	}
	switch m.Unit {
	case "":
		return num
	case UnitPercent:
		return num + UnitPercent
	default:
		return num + " " + m.Unit
	}
}

type Report struct {
	Cycle   string       `json:"cycle"`
	Title   string       `json:"title"`
	Metrics []Metric     `json:"metrics"`
	States  []StatePoint `json:"states,omitempty"`
}

// StatesLabel is the key of the state-point sub-mapping in Formatted.
const StatesLabel = "Estados termodinámicos"

// Formatted maps each metric label to its rendered string. State points are
// added unformatted under StatesLabel.
func (r Report) Formatted() map[string]any {
	out := make(map[string]any, len(r.Metrics)+1)
	for _, m := range r.Metrics {
		out[m.Label] = m.Format()
	}
	if len(r.States) > 0 {
		states := make(map[string]StatePoint, len(r.States))
		for _, s := range r.States {
			states[s.Label] = s
		}
		out[StatesLabel] = states
	}
	return out
}

func (r Report) Metric(key string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Value returns the numeric value of a metric, NaN when absent.
func (r Report) Value(key string) float64 {
	if m, ok := r.Metric(key); ok {
		return m.Value
	}
	return math.NaN()
}

// Common metric keys.
const (
	MEfficiency  = "eficiencia"
	MNetWork     = "trabajo_neto"
	MHeatIn      = "calor_anadido"
	MHeatOut     = "calor_rechazado"
	MMassFlow    = "flujo_masico"
	MNetPower    = "potencia_neta"
	MCompression = "relacion_compresion"
)

func Efficiency(v float64) Metric {
	return Metric{Key: MEfficiency, Label: "Eficiencia térmica", Value: v, Unit: UnitPercent, Places: 2}
}

func Specific(key, label string, v float64) Metric {
	return Metric{Key: key, Label: label, Value: v, Unit: UnitSpecific, Places: 2}
}

func MassFlow(v float64) Metric {
	return Metric{Key: MMassFlow, Label: "Flujo másico", Value: v, Unit: UnitMassFlow, Places: 3}
}

func NetPower(v float64) Metric {
	return Metric{Key: MNetPower, Label: "Potencia neta", Value: v, Unit: UnitPower, Places: 3}
}

func CompressionRatio(v float64) Metric {
	return Metric{Key: MCompression, Label: "Relación de compresión", Value: v, Places: 2}
}
