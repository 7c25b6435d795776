package cycle

import "math"

const (
	KeyMassFlow = "flujo_masico"
	KeyPower    = "potencia"
)

// FlowFields are the optional mass-flow fields shared by every thermal cycle.
func FlowFields() []Field {
	return []Field{
		{Key: KeyMassFlow, Label: "Flujo másico", Unit: "kg/s", Kind: Number, Default: 1.0, Bound: Positive},
		{Key: KeyPower, Label: "Potencia objetivo", Unit: "kW", Kind: Number, Bound: Positive},
	}
}

// Flow is the mass-flow policy of a solve: a fixed mass flow, or a target net
// power that the mass flow is derived from.
type Flow struct {
	MassFlow float64 `json:"flujo_masico"`
	Power    float64 `json:"potencia,omitempty"`
	HasPower bool    `json:"-"`
}

func FlowFrom(v Values) Flow {
	f := Flow{MassFlow: Or(v.Float(KeyMassFlow), 1)}
	if v.Has(KeyPower) {
		f.Power = v.Float(KeyPower)
		f.HasPower = true
	}
	return f
}

// BackSolve resolves mass flow and net power from the final net specific work
// (kJ/kg). With a target power the mass flow is power / netWork.
func (f Flow) BackSolve(netWork float64) (massFlow, power float64, err error) {
	if !f.HasPower {
		m := Or(f.MassFlow, 1)
		return m, netWork * m, nil
	}
	if math.IsNaN(netWork) || math.IsInf(netWork, 0) || netWork <= 0 {
		return 0, 0, IllPosed("net specific work %.4g kJ/kg cannot deliver %.4g kW", netWork, f.Power)
	}
	m := f.Power / netWork
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, 0, IllPosed("mass flow for %.4g kW is not finite", f.Power)
	}
	return m, f.Power, nil
}
