package carnot

import (
	"Thermo/internal/calc/cycle"
	"Thermo/internal/units"
)

const Name = "carnot"

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: []cycle.Field{
		{Key: "t_caliente", Label: "Temperatura caliente", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 300.0},
		{Key: "t_fria", Label: "Temperatura fría", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 50.0},
		{Key: "fuente_caliente", Label: "Fuente de calor", Kind: cycle.Choice, Default: "vapor", Choices: []string{"agua", "vapor"}},
	},
}

type Input struct {
	THot   float64 `json:"t_caliente"`
	TCold  float64 `json:"t_fria"`
	Source string  `json:"fuente_caliente"`
}

type Result struct {
	Efficiency float64 `json:"eficiencia"`
	THot       float64 `json:"t_caliente"`
	TCold      float64 `json:"t_fria"`
	Source     string  `json:"fuente_caliente"`
}

func Bind(p cycle.Params) (Input, error) {
	v, err := Schema.Bind(p)
	if err != nil {
		return Input{}, err
	}
	return Input{
		THot:   v.Float("t_caliente"),
		TCold:  v.Float("t_fria"),
		Source: v.Text("fuente_caliente"),
	}, nil
}

// Calculate needs no property lookups. env is accepted for a uniform solver shape.
func Calculate(in Input, _ cycle.Env) (Result, error) {
	hot := units.CelsiusToKelvin(in.THot)
	cold := units.CelsiusToKelvin(in.TCold)
	if cold <= 0 {
		return Result{}, cycle.Fail(Name, cycle.Invalidf("t_fria", "below absolute zero"))
	}
	if hot <= cold {
		return Result{}, cycle.Fail(Name, cycle.Invalidf("t_caliente", "must exceed t_fria"))
	}
	if in.Source == "" {
		in.Source = "vapor"
	}

	eta := (1 - cold/hot) * 100
	if err := cycle.CheckEfficiency(eta); err != nil {
		return Result{}, cycle.Fail(Name, err)
	}
	return Result{
		Efficiency: eta,
		THot:       in.THot,
		TCold:      in.TCold,
		Source:     in.Source,
	}, nil
}

func (r Result) Report() cycle.Report {
	eff := cycle.Efficiency(r.Efficiency)
	eff.Label = "Eficiencia teórica"
	return cycle.Report{
		Cycle: Name,
		Title: "Ciclo Carnot",
		Metrics: []cycle.Metric{
			eff,
			{Key: "t_caliente", Label: "Temperatura caliente", Value: r.THot, Unit: cycle.UnitTemp, Places: 2},
			{Key: "t_fria", Label: "Temperatura fría", Value: r.TCold, Unit: cycle.UnitTemp, Places: 2},
			{Key: "fuente_caliente", Label: "Fuente de calor", Text: r.Source},
		},
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
