package rankine

import (
	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "rankine"

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "p_alta", Label: "Presión alta", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 80.0, Bound: cycle.Positive},
		{Key: "p_baja", Label: "Presión baja", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 0.08, Bound: cycle.Positive},
		{Key: "t_max", Label: "Temperatura máxima", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 500.0},
		{Key: "rendimiento_turbina", Label: "Rendimiento turbina", Kind: cycle.Number, Default: 1.0, Bound: cycle.Fraction},
		{Key: "rendimiento_bomba", Label: "Rendimiento bomba", Kind: cycle.Number, Default: 1.0, Bound: cycle.Fraction},
	}, cycle.FlowFields()...),
}

type Input struct {
	PHigh      float64    `json:"p_alta"`
	PLow       float64    `json:"p_baja"`
	TMax       float64    `json:"t_max"`
	EtaTurbine float64    `json:"rendimiento_turbina"`
	EtaPump    float64    `json:"rendimiento_bomba"`
	Flow       cycle.Flow `json:"flow"`
}

type Result struct {
	Efficiency  float64 `json:"eficiencia"`
	TurbineWork float64 `json:"trabajo_turbina"`
	PumpWork    float64 `json:"trabajo_bomba"`
	NetWork     float64 `json:"trabajo_neto"`
	HeatIn      float64 `json:"calor_anadido"`
	HeatOut     float64 `json:"calor_rechazado"`
	// ExitQuality is the vapour fraction leaving the turbine, set when the
	// exhaust is two-phase.
	ExitQuality  float64            `json:"calidad_salida"`
	ExitTwoPhase bool               `json:"salida_bifasica"`
	MassFlow     float64            `json:"flujo_masico"`
	NetPower     float64            `json:"potencia_neta"`
	States       []cycle.StatePoint `json:"estados"`
}

func Bind(p cycle.Params) (Input, error) {
	v, err := Schema.Bind(p)
	if err != nil {
		return Input{}, err
	}
	return Input{
		PHigh:      v.Float("p_alta"),
		PLow:       v.Float("p_baja"),
		TMax:       v.Float("t_max"),
		EtaTurbine: v.Float("rendimiento_turbina"),
		EtaPump:    v.Float("rendimiento_bomba"),
		Flow:       cycle.FlowFrom(v),
	}, nil
}

func Calculate(in Input, env cycle.Env) (Result, error) {
	res, err := calculate(in, env)
	if err != nil {
		return Result{}, cycle.Fail(Name, err)
	}
	return res, nil
}

func calculate(in Input, env cycle.Env) (Result, error) {
	if in.PHigh <= in.PLow {
		return Result{}, cycle.Invalidf("p_alta", "must exceed p_baja")
	}
	water := env.Fluid(props.Water)
	etaT := cycle.Or(in.EtaTurbine, 1)
	etaP := cycle.Or(in.EtaPump, 1)

	// 2 boiler exit, 2-3 turbine
	s2, err := water.PT(in.PHigh, in.TMax)
	if err != nil {
		return Result{}, err
	}
	s3s, err := water.PS(in.PLow, s2.S)
	if err != nil {
		return Result{}, err
	}
	s3, err := water.PH(in.PLow, cycle.Expand(s2.H, s3s.H, etaT))
	if err != nil {
		return Result{}, err
	}

	// 4 condensate, 4-1 pump
	s4, err := water.SatLiquid(in.PLow)
	if err != nil {
		return Result{}, err
	}
	s1s, err := water.PS(in.PHigh, s4.S)
	if err != nil {
		return Result{}, err
	}
	s1, err := water.PH(in.PHigh, cycle.Compress(s4.H, s1s.H, etaP))
	if err != nil {
		return Result{}, err
	}

	wt := s2.H - s3.H
	wp := s1.H - s4.H
	qIn := s2.H - s1.H
	if qIn <= 0 {
		return Result{}, cycle.Invalidf("t_max", "boiler adds no heat at %.1f °C", in.TMax)
	}
	wNet := wt - wp

	m, power, err := in.Flow.BackSolve(wNet)
	if err != nil {
		return Result{}, err
	}
	eta := wNet / qIn * 100
	if err := cycle.CheckEfficiency(eta); err != nil {
		return Result{}, err
	}

	return Result{
		Efficiency:   eta,
		TurbineWork:  wt,
		PumpWork:     wp,
		NetWork:      wNet,
		HeatIn:       qIn,
		HeatOut:      s3.H - s4.H,
		ExitQuality:  s3.Quality,
		ExitTwoPhase: s3.Phase == props.PhaseTwoPhase,
		MassFlow:     m,
		NetPower:     power,
		States: []cycle.StatePoint{
			cycle.Point("1", s1),
			cycle.Point("2", s2),
			cycle.Point("3", s3),
			cycle.Point("4", s4),
		},
	}, nil
}

func (r Result) Report() cycle.Report {
	metrics := []cycle.Metric{
		cycle.Efficiency(r.Efficiency),
		cycle.Specific("trabajo_turbina", "Trabajo turbina", r.TurbineWork),
		cycle.Specific("trabajo_bomba", "Trabajo bomba", r.PumpWork),
		cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
		cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
		cycle.Specific(cycle.MHeatOut, "Calor rechazado", r.HeatOut),
	}
	if r.ExitTwoPhase {
		metrics = append(metrics, cycle.Metric{Key: "calidad_salida", Label: "Calidad salida turbina", Value: r.ExitQuality * 100, Unit: cycle.UnitPercent, Places: 2})
	}
	metrics = append(metrics, cycle.MassFlow(r.MassFlow), cycle.NetPower(r.NetPower))
	return cycle.Report{
		Cycle:   Name,
		Title:   "Ciclo Rankine simple",
		Metrics: metrics,
		States:  r.States,
	}
}

func Solve(p cycle.Params, env cycle.Env) (cycle.Report, error) {
	in, err := Bind(p)
	if err != nil {
		return cycle.Report{}, err
	}
	res, err := Calculate(in, env)
	if err != nil {
		return cycle.Report{}, err
	}
	return res.Report(), nil
}
