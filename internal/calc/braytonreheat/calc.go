package braytonreheat

import (
	"math"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "brayton-reheat"

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "relacion_compresion", Label: "Relación de compresión", Kind: cycle.Number, Required: true, Example: 10.0, Bound: cycle.Ratio},
		{Key: "t_max", Label: "Temperatura máxima", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 950.0},
		{Key: "t_recal", Label: "Temperatura recalentamiento", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 950.0},
		{Key: "rendimiento_compresor", Label: "Rendimiento compresor", Kind: cycle.Number, Default: 0.85, Bound: cycle.Fraction},
		{Key: "rendimiento_turbina_HP", Label: "Rendimiento turbina HP", Kind: cycle.Number, Default: 0.9, Bound: cycle.Fraction},
		{Key: "rendimiento_turbina_LP", Label: "Rendimiento turbina LP", Kind: cycle.Number, Default: 0.9, Bound: cycle.Fraction},
		{Key: "p_loss", Label: "Pérdida de presión", Unit: cycle.UnitPercent, Kind: cycle.Number, Default: 5.0, Bound: cycle.Percent},
	}, cycle.FlowFields()...),
}

type Input struct {
	Ratio         float64    `json:"relacion_compresion"`
	TMax          float64    `json:"t_max"`
	TReheat       float64    `json:"t_recal"`
	EtaCompressor float64    `json:"rendimiento_compresor"`
	EtaHP         float64    `json:"rendimiento_turbina_HP"`
	EtaLP         float64    `json:"rendimiento_turbina_LP"`
	// PressureLoss is the % lost across each heater. Zero is a real value
	// here and means no loss; the 5% default is applied by Bind.
	PressureLoss  float64    `json:"p_loss"`
	Flow          cycle.Flow `json:"flow"`
}

// DefaultInput carries the component defaults. Zero efficiencies in an Input
// built by hand fall back to these; a zero PressureLoss means no loss.
var DefaultInput = Input{EtaCompressor: 0.85, EtaHP: 0.9, EtaLP: 0.9, PressureLoss: 5}

type Result struct {
	Efficiency     float64            `json:"eficiencia"`
	CompressorWork float64            `json:"trabajo_compresor"`
	HPWork         float64            `json:"trabajo_turbina_HP"`
	LPWork         float64            `json:"trabajo_turbina_LP"`
	NetWork        float64            `json:"trabajo_neto"`
	HeatIn         float64            `json:"calor_anadido"`
	ReheatHeat     float64            `json:"calor_recalentamiento"`
	HeatOut        float64            `json:"calor_rechazado"`
	Ratio          float64            `json:"relacion_compresion"`
	MassFlow       float64            `json:"flujo_masico"`
	NetPower       float64            `json:"potencia_neta"`
	States         []cycle.StatePoint `json:"estados"`
}

func Bind(p cycle.Params) (Input, error) {
	v, err := Schema.Bind(p)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Ratio:         v.Float("relacion_compresion"),
		TMax:          v.Float("t_max"),
		TReheat:       v.Float("t_recal"),
		EtaCompressor: v.Float("rendimiento_compresor"),
		EtaHP:         v.Float("rendimiento_turbina_HP"),
		EtaLP:         v.Float("rendimiento_turbina_LP"),
		PressureLoss:  v.Float("p_loss"),
		Flow:          cycle.FlowFrom(v),
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
	amb := env.Atmosphere()
	rc := in.Ratio
	keep := 1 - in.PressureLoss/100

	p1 := amb.P
	p2 := p1 * rc
	p3 := p2 * keep
	p4 := p1 * math.Sqrt(rc)
	p5 := p4 * keep
	p6 := p1
	if p3 <= p4 || p5 <= p6 {
		return Result{}, cycle.Invalidf("p_loss", "%.3g%% leaves no expansion ratio at rc=%.3g", in.PressureLoss, rc)
	}

	air := env.Fluid(props.Air)
	etaC := cycle.Or(in.EtaCompressor, DefaultInput.EtaCompressor)
	etaHP := cycle.Or(in.EtaHP, DefaultInput.EtaHP)
	etaLP := cycle.Or(in.EtaLP, DefaultInput.EtaLP)

	// 1-2 compression
	s1, err := air.PT(p1, amb.T)
	if err != nil {
		return Result{}, err
	}
	s2s, err := air.PS(p2, s1.S)
	if err != nil {
		return Result{}, err
	}
	s2, err := air.PH(p2, cycle.Compress(s1.H, s2s.H, etaC))
	if err != nil {
		return Result{}, err
	}

	// 2-3 combustor, 3-4 HP expansion
	s3, err := air.PT(p3, in.TMax)
	if err != nil {
		return Result{}, err
	}
	s4s, err := air.PS(p4, s3.S)
	if err != nil {
		return Result{}, err
	}
	s4, err := air.PH(p4, cycle.Expand(s3.H, s4s.H, etaHP))
	if err != nil {
		return Result{}, err
	}

	// 4-5 reheat, 5-6 LP expansion
	s5, err := air.PT(p5, in.TReheat)
	if err != nil {
		return Result{}, err
	}
	s6s, err := air.PS(p6, s5.S)
	if err != nil {
		return Result{}, err
	}
	s6, err := air.PH(p6, cycle.Expand(s5.H, s6s.H, etaLP))
	if err != nil {
		return Result{}, err
	}

	q1 := s3.H - s2.H
	if q1 <= 0 {
		return Result{}, cycle.Invalidf("t_max", "must exceed the compressor exit temperature %.1f °C", s2.T)
	}
	q2 := s5.H - s4.H
	if q2 < 0 {
		return Result{}, cycle.Invalidf("t_recal", "must not be below the HP turbine exit temperature %.1f °C", s4.T)
	}
	wc := s2.H - s1.H
	wHP := s3.H - s4.H
	wLP := s5.H - s6.H
	wNet := wHP + wLP - wc
	qIn := q1 + q2

	m, power, err := in.Flow.BackSolve(wNet)
	if err != nil {
		return Result{}, err
	}
	eta := wNet / qIn * 100
	if err := cycle.CheckEfficiency(eta); err != nil {
		return Result{}, err
	}

	return Result{
		Efficiency:     eta,
		CompressorWork: wc,
		HPWork:         wHP,
		LPWork:         wLP,
		NetWork:        wNet,
		HeatIn:         qIn,
		ReheatHeat:     q2,
		HeatOut:        s6.H - s1.H,
		Ratio:          rc,
		MassFlow:       m,
		NetPower:       power,
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
		Title: "Ciclo Brayton con recalentamiento",
		Metrics: []cycle.Metric{
			cycle.Efficiency(r.Efficiency),
			cycle.Specific("trabajo_compresor", "Trabajo compresor", r.CompressorWork),
			cycle.Specific("trabajo_turbina_HP", "Trabajo turbina HP", r.HPWork),
			cycle.Specific("trabajo_turbina_LP", "Trabajo turbina LP", r.LPWork),
			cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
			cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
			cycle.Specific("calor_recalentamiento", "Calor recalentamiento", r.ReheatHeat),
			cycle.Specific(cycle.MHeatOut, "Calor rechazado", r.HeatOut),
			cycle.CompressionRatio(r.Ratio),
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
