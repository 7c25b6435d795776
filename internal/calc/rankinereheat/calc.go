package rankinereheat

import (
	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "rankine-reheat"

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "p_alta", Label: "Presión alta", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 80.0, Bound: cycle.Positive},
		{Key: "p_media", Label: "Presión recalentamiento", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 20.0, Bound: cycle.Positive},
		{Key: "p_baja", Label: "Presión baja", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 0.08, Bound: cycle.Positive},
		{Key: "t_max", Label: "Temperatura máxima", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 500.0},
		{Key: "t_recal", Label: "Temperatura recalentamiento", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 500.0},
		{Key: "rendimiento_turbina_HP", Label: "Rendimiento turbina HP", Kind: cycle.Number, Default: 0.85, Bound: cycle.Fraction},
		{Key: "rendimiento_turbina_LP", Label: "Rendimiento turbina LP", Kind: cycle.Number, Default: 0.85, Bound: cycle.Fraction},
		{Key: "rendimiento_bomba", Label: "Rendimiento bomba", Kind: cycle.Number, Default: 0.8, Bound: cycle.Fraction},
	}, cycle.FlowFields()...),
}

type Input struct {
	PHigh   float64    `json:"p_alta"`
	PMid    float64    `json:"p_media"`
	PLow    float64    `json:"p_baja"`
	TMax    float64    `json:"t_max"`
	TReheat float64    `json:"t_recal"`
	EtaHP   float64    `json:"rendimiento_turbina_HP"`
	EtaLP   float64    `json:"rendimiento_turbina_LP"`
	EtaPump float64    `json:"rendimiento_bomba"`
	Flow    cycle.Flow `json:"flow"`
}

type Result struct {
	Efficiency float64            `json:"eficiencia"`
	HPWork     float64            `json:"trabajo_turbina_HP"`
	LPWork     float64            `json:"trabajo_turbina_LP"`
	PumpWork   float64            `json:"trabajo_bomba"`
	NetWork    float64            `json:"trabajo_neto"`
	HeatIn     float64            `json:"calor_anadido"`
	ReheatHeat float64            `json:"calor_recalentamiento"`
	HeatOut    float64            `json:"calor_rechazado"`
	MassFlow   float64            `json:"flujo_masico"`
	NetPower   float64            `json:"potencia_neta"`
	States     []cycle.StatePoint `json:"estados"`
}

func Bind(p cycle.Params) (Input, error) {
	v, err := Schema.Bind(p)
	if err != nil {
		return Input{}, err
	}
	return Input{
		PHigh:   v.Float("p_alta"),
		PMid:    v.Float("p_media"),
		PLow:    v.Float("p_baja"),
		TMax:    v.Float("t_max"),
		TReheat: v.Float("t_recal"),
		EtaHP:   v.Float("rendimiento_turbina_HP"),
		EtaLP:   v.Float("rendimiento_turbina_LP"),
		EtaPump: v.Float("rendimiento_bomba"),
		Flow:    cycle.FlowFrom(v),
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
	if in.PMid >= in.PHigh {
		return Result{}, cycle.Invalidf("p_media", "must be below p_alta")
	}
	if in.PLow >= in.PMid {
		return Result{}, cycle.Invalidf("p_baja", "must be below p_media")
	}
	water := env.Fluid(props.Water)
	etaHP := cycle.Or(in.EtaHP, 0.85)
	etaLP := cycle.Or(in.EtaLP, 0.85)
	etaP := cycle.Or(in.EtaPump, 0.8)

	// 1 condensate, 1-2 pump
	s1, err := water.SatLiquid(in.PLow)
	if err != nil {
		return Result{}, err
	}
	s2s, err := water.PS(in.PHigh, s1.S)
	if err != nil {
		return Result{}, err
	}
	s2, err := water.PH(in.PHigh, cycle.Compress(s1.H, s2s.H, etaP))
	if err != nil {
		return Result{}, err
	}

	// 3 boiler exit, 3-4 HP turbine
	s3, err := water.PT(in.PHigh, in.TMax)
	if err != nil {
		return Result{}, err
	}
	s4s, err := water.PS(in.PMid, s3.S)
	if err != nil {
		return Result{}, err
	}
	s4, err := water.PH(in.PMid, cycle.Expand(s3.H, s4s.H, etaHP))
	if err != nil {
		return Result{}, err
	}

	// 5 reheater exit, 5-6 LP turbine
	s5, err := water.PT(in.PMid, in.TReheat)
	if err != nil {
		return Result{}, err
	}
	s6s, err := water.PS(in.PLow, s5.S)
	if err != nil {
		return Result{}, err
	}
	s6, err := water.PH(in.PLow, cycle.Expand(s5.H, s6s.H, etaLP))
	if err != nil {
		return Result{}, err
	}

	qBoiler := s3.H - s2.H
	if qBoiler <= 0 {
		return Result{}, cycle.Invalidf("t_max", "boiler adds no heat at %.1f °C", in.TMax)
	}
	qReheat := s5.H - s4.H
	if qReheat < 0 {
		return Result{}, cycle.Invalidf("t_recal", "must not be below the HP turbine exit temperature %.1f °C", s4.T)
	}
	wHP := s3.H - s4.H
	wLP := s5.H - s6.H
	wp := s2.H - s1.H
	wNet := wHP + wLP - wp
	qIn := qBoiler + qReheat

	m, power, err := in.Flow.BackSolve(wNet)
	if err != nil {
		return Result{}, err
	}
	eta := wNet / qIn * 100
	if err := cycle.CheckEfficiency(eta); err != nil {
		return Result{}, err
	}

	return Result{
		Efficiency: eta,
		HPWork:     wHP,
		LPWork:     wLP,
		PumpWork:   wp,
		NetWork:    wNet,
		HeatIn:     qIn,
		ReheatHeat: qReheat,
		HeatOut:    s6.H - s1.H,
		MassFlow:   m,
		NetPower:   power,
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
		Title: "Ciclo Rankine con recalentamiento",
		Metrics: []cycle.Metric{
			cycle.Efficiency(r.Efficiency),
			cycle.Specific("trabajo_turbina_HP", "Trabajo turbina HP", r.HPWork),
			cycle.Specific("trabajo_turbina_LP", "Trabajo turbina LP", r.LPWork),
			cycle.Specific("trabajo_bomba", "Trabajo bomba", r.PumpWork),
			cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
			cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
			cycle.Specific("calor_recalentamiento", "Calor recalentamiento", r.ReheatHeat),
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
