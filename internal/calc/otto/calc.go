package otto

import (
	"math"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "otto"

// gamma locates the compression pressure; states still come from the property service.
const gamma = 1.4

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "relacion_compresion", Label: "Relación de compresión", Kind: cycle.Number, Required: true, Example: 8.0, Bound: cycle.Ratio},
		{Key: "t1", Label: "Temperatura inicial", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 25.0},
		{Key: "p1", Label: "Presión inicial", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 1.013, Bound: cycle.Positive},
		{Key: "t3", Label: "Temperatura máxima", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 1500.0},
	}, cycle.FlowFields()...),
}

type Input struct {
	Ratio float64    `json:"relacion_compresion"`
	T1    float64    `json:"t1"`
	P1    float64    `json:"p1"`
	T3    float64    `json:"t3"`
	Flow  cycle.Flow `json:"flow"`
}

type Result struct {
	// Efficiency is the cold-air-standard 1 - rc^-0.4. BalanceEfficiency is
	// w_net/q_in from the computed states.
	Efficiency        float64            `json:"eficiencia"`
	BalanceEfficiency float64            `json:"eficiencia_balance"`
	NetWork           float64            `json:"trabajo_neto"`
	HeatIn            float64            `json:"calor_anadido"`
	HeatOut           float64            `json:"calor_rechazado"`
	MaxPressure       float64            `json:"presion_maxima"`
	MassFlow          float64            `json:"flujo_masico"`
	NetPower          float64            `json:"potencia_neta"`
	States            []cycle.StatePoint `json:"estados"`
}

func Bind(p cycle.Params) (Input, error) {
	v, err := Schema.Bind(p)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Ratio: v.Float("relacion_compresion"),
		T1:    v.Float("t1"),
		P1:    v.Float("p1"),
		T3:    v.Float("t3"),
		Flow:  cycle.FlowFrom(v),
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
	if in.Ratio <= 1 {
		return Result{}, cycle.Invalidf("relacion_compresion", "must be > 1")
	}
	air := env.Fluid(props.Air)
	p1 := in.P1
	p2 := p1 * math.Pow(in.Ratio, gamma)

	s1, err := air.PT(p1, in.T1)
	if err != nil {
		return Result{}, err
	}
	s2, err := air.PS(p2, s1.S)
	if err != nil {
		return Result{}, err
	}
	s3, err := air.PT(p2, in.T3)
	if err != nil {
		return Result{}, err
	}
	s4, err := air.PS(p1, s3.S)
	if err != nil {
		return Result{}, err
	}

	qIn := s3.H - s2.H
	if qIn <= 0 {
		return Result{}, cycle.Invalidf("t3", "must exceed the compression end temperature %.1f °C", s2.T)
	}
	qOut := s4.H - s1.H
	wNet := qIn - qOut

	m, power, err := in.Flow.BackSolve(wNet)
	if err != nil {
		return Result{}, err
	}
	eta := (1 - math.Pow(in.Ratio, 1-gamma)) * 100
	if err := cycle.CheckEfficiency(eta); err != nil {
		return Result{}, err
	}

	return Result{
		Efficiency:        eta,
		BalanceEfficiency: wNet / qIn * 100,
		NetWork:           wNet,
		HeatIn:            qIn,
		HeatOut:           qOut,
		MaxPressure:       p2,
		MassFlow:          m,
		NetPower:          power,
		States: []cycle.StatePoint{
			cycle.Point("1", s1),
			cycle.Point("2", s2),
			cycle.Point("3", s3),
			cycle.Point("4", s4),
		},
	}, nil
}

func (r Result) Report() cycle.Report {
	return cycle.Report{
		Cycle: Name,
		Title: "Ciclo Otto",
		Metrics: []cycle.Metric{
			cycle.Efficiency(r.Efficiency),
			{Key: "eficiencia_balance", Label: "Eficiencia por balance", Value: r.BalanceEfficiency, Unit: cycle.UnitPercent, Places: 2},
			cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
			cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
			cycle.Specific(cycle.MHeatOut, "Calor rechazado", r.HeatOut),
			{Key: "presion_maxima", Label: "Presión máxima", Value: r.MaxPressure, Unit: cycle.UnitPressure, Places: 2},
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
