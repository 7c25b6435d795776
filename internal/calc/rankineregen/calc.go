package rankineregen

import (
	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "rankine-regen"

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "p_alta", Label: "Presión alta", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 80.0, Bound: cycle.Positive},
		{Key: "p_baja", Label: "Presión baja", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 0.08, Bound: cycle.Positive},
		{Key: "t_max", Label: "Temperatura máxima", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 500.0},
		{Key: "p_extraccion", Label: "Presión extracción", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 10.0, Bound: cycle.Positive},
		{Key: "rendimiento_turbina", Label: "Rendimiento turbina", Kind: cycle.Number, Default: 0.85, Bound: cycle.Fraction},
		{Key: "rendimiento_bomba", Label: "Rendimiento bomba", Kind: cycle.Number, Default: 1.0, Bound: cycle.Fraction},
	}, cycle.FlowFields()...),
}

type Input struct {
	PHigh       float64    `json:"p_alta"`
	PLow        float64    `json:"p_baja"`
	TMax        float64    `json:"t_max"`
	PExtraction float64    `json:"p_extraccion"`
	EtaTurbine  float64    `json:"rendimiento_turbina"`
	EtaPump     float64    `json:"rendimiento_bomba"`
	Flow        cycle.Flow `json:"flow"`
}

type Result struct {
	Efficiency float64 `json:"eficiencia"`
	// Extraction is the bled fraction y, in %.
	Extraction  float64            `json:"fraccion_extraccion"`
	TurbineWork float64            `json:"trabajo_turbina"`
	PumpWork    float64            `json:"trabajo_bomba"`
	NetWork     float64            `json:"trabajo_neto"`
	HeatIn      float64            `json:"calor_anadido"`
	HeatOut     float64            `json:"calor_rechazado"`
	MassFlow    float64            `json:"flujo_masico"`
	NetPower    float64            `json:"potencia_neta"`
	States      []cycle.StatePoint `json:"estados"`
}

func Bind(p cycle.Params) (Input, error) {
	v, err := Schema.Bind(p)
	if err != nil {
		return Input{}, err
	}
	return Input{
		PHigh:       v.Float("p_alta"),
		PLow:        v.Float("p_baja"),
		TMax:        v.Float("t_max"),
		PExtraction: v.Float("p_extraccion"),
		EtaTurbine:  v.Float("rendimiento_turbina"),
		EtaPump:     v.Float("rendimiento_bomba"),
		Flow:        cycle.FlowFrom(v),
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
	if in.PExtraction >= in.PHigh {
		return Result{}, cycle.Invalidf("p_extraccion", "must be below p_alta")
	}
	if in.PLow >= in.PExtraction {
		return Result{}, cycle.Invalidf("p_baja", "must be below p_extraccion")
	}
	water := env.Fluid(props.Water)
	etaT := cycle.Or(in.EtaTurbine, 0.85)
	etaP := cycle.Or(in.EtaPump, 1)

	// 1 open heater exit, taken as the boiler feed
	s1, err := water.SatLiquid(in.PExtraction)
	if err != nil {
		return Result{}, err
	}

	// 2 boiler exit, 2-3 expansion to the bleed, 3-5 expansion to the condenser
	s2, err := water.PT(in.PHigh, in.TMax)
	if err != nil {
		return Result{}, err
	}
	s3s, err := water.PS(in.PExtraction, s2.S)
	if err != nil {
		return Result{}, err
	}
	s3, err := water.PH(in.PExtraction, cycle.Expand(s2.H, s3s.H, etaT))
	if err != nil {
		return Result{}, err
	}
	s5s, err := water.PS(in.PLow, s3.S)
	if err != nil {
		return Result{}, err
	}
	s5, err := water.PH(in.PLow, cycle.Expand(s3.H, s5s.H, etaT))
	if err != nil {
		return Result{}, err
	}

	// 4 condensate, 4-6 the one pump, carrying (1-y) of the flow to p_alta
	s4, err := water.SatLiquid(in.PLow)
	if err != nil {
		return Result{}, err
	}
	s6s, err := water.PS(in.PHigh, s4.S)
	if err != nil {
		return Result{}, err
	}
	s6, err := water.PH(in.PHigh, cycle.Compress(s4.H, s6s.H, etaP))
	if err != nil {
		return Result{}, err
	}

	// mixing balance against the condensate before its pump
	y := (s1.H - s4.H) / (s3.H - s4.H)
	if y <= 0 || y >= 1 {
		return Result{}, cycle.IllPosed("extraction fraction %.4g is outside (0, 1)", y)
	}

	wt := (s2.H - s3.H) + (1-y)*(s3.H-s5.H)
	wp := (1 - y) * (s6.H - s4.H)
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
		Efficiency:  eta,
		Extraction:  y * 100,
		TurbineWork: wt,
		PumpWork:    wp,
		NetWork:     wNet,
		HeatIn:      qIn,
		HeatOut:     (1 - y) * (s5.H - s4.H),
		MassFlow:    m,
		NetPower:    power,
		States: []cycle.StatePoint{
			cycle.Point("1", s1),
			cycle.Point("2", s2),
			cycle.Point("3", s3),
			cycle.Point("4", s4),
			cycle.Point("5", s5),
			cycle.Point("6", s6),
		},
	}, nil
}

func (r Result) Report() cycle.Report {
	return cycle.Report{
		Cycle: Name,
		Title: "Ciclo Rankine regenerativo",
		Metrics: []cycle.Metric{
			cycle.Efficiency(r.Efficiency),
			{Key: "fraccion_extraccion", Label: "Fracción extracción", Value: r.Extraction, Unit: cycle.UnitPercent, Places: 2},
			cycle.Specific("trabajo_turbina", "Trabajo turbina", r.TurbineWork),
			cycle.Specific("trabajo_bomba", "Trabajo bomba", r.PumpWork),
			cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
			cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
			cycle.Specific(cycle.MHeatOut, "Calor rechazado", r.HeatOut),
			cycle.MassFlow(r.MassFlow),
			cycle.NetPower(r.NetPower),
		},
		States: r.States,
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
