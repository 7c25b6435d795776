package cycle

import (
	"math"

	"Thermo/internal/props"
	"Thermo/internal/units"
)

// Ambient is the reference state cycles start from when they draw in air.
type Ambient struct {
	T float64 `json:"t_c"`
	P float64 `json:"p_bar"`
}

var DefaultAmbient = Ambient{T: 25, P: units.StandardAtmosphereBar}

// Env is everything a solver needs besides its parameters.
type Env struct {
	Props   props.Service
	Ambient Ambient
}

func NewEnv(svc props.Service) Env {
	return Env{Props: svc, Ambient: DefaultAmbient}
}

// Atmosphere returns the configured ambient, or DefaultAmbient when unset.
func (e Env) Atmosphere() Ambient {
	if e.Ambient.P <= 0 {
		return DefaultAmbient
	}
	return e.Ambient
}

func (e Env) Fluid(f props.Fluid) Fluid {
	return Fluid{svc: e.Props, name: f}
}

// Fluid binds the property service to one working fluid.
type Fluid struct {
	svc  props.Service
	name props.Fluid
}

func (f Fluid) PT(p, t float64) (props.State, error) {
	return f.svc.StateFromPT(f.name, p, t)
}

func (f Fluid) PS(p, s float64) (props.State, error) {
	return f.svc.StateFromPS(f.name, p, s)
}

func (f Fluid) PH(p, h float64) (props.State, error) {
	return f.svc.StateFromPH(f.name, p, h)
}

func (f Fluid) SatLiquid(p float64) (props.State, error) {
	return f.svc.SaturatedLiquid(f.name, p)
}

// StatePoint is one numbered point of a solved cycle.
type StatePoint struct {
	Label   string   `json:"label"`
	P       float64  `json:"p"`
	T       float64  `json:"T"`
	H       float64  `json:"h"`
	S       float64  `json:"s"`
	Rho     float64  `json:"rho"`
	Phase   string   `json:"phase"`
	Quality *float64 `json:"x,omitempty"`
}

func Point(label string, st props.State) StatePoint {
	sp := StatePoint{
		Label: label,
		P:     st.P,
		T:     st.T,
		H:     st.H,
		S:     st.S,
		Rho:   st.Rho,
		Phase: string(st.Phase),
	}
	if st.Phase == props.PhaseTwoPhase {
		q := st.Quality
		sp.Quality = &q
	}
	return sp
}

// Compress returns the actual exit enthalpy of a compressor or pump.
func Compress(hIn, hOutS, eta float64) float64 {
	return hIn + (hOutS-hIn)/eta
}

// Expand returns the actual exit enthalpy of a turbine.
func Expand(hIn, hOutS, eta float64) float64 {
	return hIn - eta*(hIn-hOutS)
}

// CheckEfficiency rejects a thermal efficiency (in %) outside (0, 100).
func CheckEfficiency(eta float64) error {
	if math.IsNaN(eta) || math.IsInf(eta, 0) || eta <= 0 || eta >= 100 {
		return OutOfRange("thermal efficiency %.4g%% is outside (0, 100)", eta)
	}
	return nil
}

// Or returns def when v is unset (zero). Solvers use it so a zero-valued
// Input field falls back to the schema default.
func Or(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
