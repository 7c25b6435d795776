package diesel

import (
	"math"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "diesel"

const gamma = 1.4

// Fuel is the combustion-gas surrogate.
const Fuel = props.Propane

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "relacion_compresion", Label: "Relación de compresión", Kind: cycle.Number, Required: true, Example: 18.0, Bound: cycle.Ratio},
		{Key: "relacion_corte", Label: "Relación de corte", Kind: cycle.Number, Required: true, Example: 2.0, Bound: cycle.Ratio},
		{Key: "t1", Label: "Temperatura inicial", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 25.0},
		{Key: "p1", Label: "Presión inicial", Unit: cycle.UnitPressure, Kind: cycle.Number, Required: true, Example: 1.013, Bound: cycle.Positive},
		{Key: "rendimiento_combustion", Label: "Rendimiento combustión", Kind: cycle.Number, Default: 0.95, Bound: cycle.Fraction},
	}, cycle.FlowFields()...),
}

type Input struct {
	Ratio         float64    `json:"relacion_compresion"`
	Cutoff        float64    `json:"relacion_corte"`
	T1            float64    `json:"t1"`
	P1            float64    `json:"p1"`
	EtaCombustion float64    `json:"rendimiento_combustion"`
	Flow          cycle.Flow `json:"flow"`
}

type Result struct {
	Efficiency     float64            `json:"eficiencia"`
	NetWork        float64            `json:"trabajo_neto"`
	HeatIn         float64            `json:"calor_anadido"`
	HeatOut        float64            `json:"calor_rechazado"`
	FuelHeat       float64            `json:"calor_combustible"`
	MaxPressure    float64            `json:"presion_maxima"`
	MaxTemperature float64            `json:"temperatura_maxima"`
	FuelDensity    float64            `json:"densidad_combustible"`
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
		Cutoff:        v.Float("relacion_corte"),
		T1:            v.Float("t1"),
		P1:            v.Float("p1"),
		EtaCombustion: v.Float("rendimiento_combustion"),
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
	if in.Ratio <= 1 {
		return Result{}, cycle.Invalidf("relacion_compresion", "must be > 1")
	}
	if in.Cutoff <= 1 {
		return Result{}, cycle.Invalidf("relacion_corte", "must be > 1")
	}
	air := env.Fluid(props.Air)
	etaComb := cycle.Or(in.EtaCombustion, 0.95)

	fuel, err := env.Fluid(Fuel).PT(in.P1, in.T1)
	if err != nil {
		return Result{}, err
	}

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

	// peak temperature scales the °C compression temperature by the cutoff ratio
	t3 := s2.T * in.Cutoff
	s3, err := air.PT(p2, t3)
	if err != nil {
		return Result{}, err
	}
	s4, err := air.PS(p1, s3.S)
	if err != nil {
		return Result{}, err
	}

	qIn := s3.H - s2.H
	if qIn <= 0 {
		return Result{}, cycle.IllPosed("cutoff ratio %.3g adds no heat at %.1f °C", in.Cutoff, s2.T)
	}
	qOut := s4.H - s1.H
	wNet := qIn - qOut

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
		NetWork:        wNet,
		HeatIn:         qIn,
		HeatOut:        qOut,
		FuelHeat:       qIn / etaComb,
		MaxPressure:    p2,
		MaxTemperature: t3,
		FuelDensity:    fuel.Rho,
		MassFlow:       m,
		NetPower:       power,
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
		Title: "Ciclo Diesel",
		Metrics: []cycle.Metric{
			cycle.Efficiency(r.Efficiency),
			cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
			cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
			cycle.Specific(cycle.MHeatOut, "Calor rechazado", r.HeatOut),
			cycle.Specific("calor_combustible", "Calor del combustible", r.FuelHeat),
			{Key: "presion_maxima", Label: "Presión máxima", Value: r.MaxPressure, Unit: cycle.UnitPressure, Places: 2},
			{Key: "temperatura_maxima", Label: "Temperatura máxima", Value: r.MaxTemperature, Unit: cycle.UnitTemp, Places: 2},
			{Key: "densidad_combustible", Label: "Densidad combustible", Value: r.FuelDensity, Unit: cycle.UnitDensity, Places: 3},
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
