package brayton

import (
	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

const Name = "brayton"

var Schema = cycle.Schema{
	Cycle: Name,
	Fields: append([]cycle.Field{
		{Key: "relacion_compresion", Label: "Relación de compresión", Kind: cycle.Number, Example: 10.0, Bound: cycle.Ratio},
		{Key: "p_alta", Label: "Presión alta", Unit: cycle.UnitPressure, Kind: cycle.Number, Bound: cycle.Positive},
		{Key: "p_baja", Label: "Presión baja", Unit: cycle.UnitPressure, Kind: cycle.Number, Bound: cycle.Positive},
		{Key: "t_max", Label: "Temperatura máxima", Unit: cycle.UnitTemp, Kind: cycle.Number, Required: true, Example: 1000.0},
		{Key: "rendimiento_compresor", Label: "Rendimiento compresor", Kind: cycle.Number, Default: 1.0, Bound: cycle.Fraction},
		{Key: "rendimiento_turbina", Label: "Rendimiento turbina", Kind: cycle.Number, Default: 1.0, Bound: cycle.Fraction},
	}, cycle.FlowFields()...),
	AnyOf: [][]string{{"relacion_compresion"}, {"p_alta", "p_baja"}},
}

// Input takes either Ratio, with the low pressure at ambient, or the
// PHigh/PLow pair. Ratio wins when both are set.
type Input struct {
	Ratio         float64    `json:"relacion_compresion"`
	PHigh         float64    `json:"p_alta"`
	PLow          float64    `json:"p_baja"`
	TMax          float64    `json:"t_max"`
	EtaCompressor float64    `json:"rendimiento_compresor"`
	EtaTurbine    float64    `json:"rendimiento_turbina"`
	Flow          cycle.Flow `json:"flow"`
}

type Result struct {
	Efficiency     float64            `json:"eficiencia"`
	TurbineWork    float64            `json:"trabajo_turbina"`
	CompressorWork float64            `json:"trabajo_compresor"`
	NetWork        float64            `json:"trabajo_neto"`
	HeatIn         float64            `json:"calor_anadido"`
	HeatOut        float64            `json:"calor_rechazado"`
	BackWorkRatio  float64            `json:"relacion_retroceso"`
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
	in := Input{
		TMax:          v.Float("t_max"),
		EtaCompressor: v.Float("rendimiento_compresor"),
		EtaTurbine:    v.Float("rendimiento_turbina"),
		Flow:          cycle.FlowFrom(v),
	}
	if v.Has("relacion_compresion") {
		in.Ratio = v.Float("relacion_compresion")
	} else {
		in.PHigh = v.Float("p_alta")
		in.PLow = v.Float("p_baja")
	}
	return in, nil
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
	rc, pLow, pHigh := in.Ratio, in.PLow, in.PHigh
	if rc > 0 {
		pLow = amb.P
		pHigh = rc * pLow
	} else {
		if pHigh <= pLow {
			return Result{}, cycle.Invalidf("p_alta", "must exceed p_baja")
		}
		rc = pHigh / pLow
	}
	etaC, etaT := cycle.Or(in.EtaCompressor, 1), cycle.Or(in.EtaTurbine, 1)
	air := env.Fluid(props.Air)

	// 1-2 compression
	s1, err := air.PT(pLow, amb.T)
	if err != nil {
		return Result{}, err
	}
	s2s, err := air.PS(pHigh, s1.S)
	if err != nil {
		return Result{}, err
	}
	s2, err := air.PH(pHigh, cycle.Compress(s1.H, s2s.H, etaC))
	if err != nil {
		return Result{}, err
	}

	// 2-3 heat addition
	s3, err := air.PT(pHigh, in.TMax)
	if err != nil {
		return Result{}, err
	}

	// 3-4 expansion
	s4s, err := air.PS(pLow, s3.S)
	if err != nil {
		return Result{}, err
	}
	s4, err := air.PH(pLow, cycle.Expand(s3.H, s4s.H, etaT))
	if err != nil {
		return Result{}, err
	}

	wt := s3.H - s4.H
	wc := s2.H - s1.H
	qIn := s3.H - s2.H
	if qIn <= 0 {
		return Result{}, cycle.Invalidf("t_max", "must exceed the compressor exit temperature %.1f °C", s2.T)
	}
	wNet := wt - wc
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
		TurbineWork:    wt,
		CompressorWork: wc,
		NetWork:        wNet,
		HeatIn:         qIn,
		HeatOut:        s4.H - s1.H,
		BackWorkRatio:  wc / wt * 100,
		Ratio:          rc,
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
		Title: "Ciclo Brayton simple",
		Metrics: []cycle.Metric{
			cycle.Efficiency(r.Efficiency),
			cycle.Specific("trabajo_turbina", "Trabajo turbina", r.TurbineWork),
			cycle.Specific("trabajo_compresor", "Trabajo compresor", r.CompressorWork),
			cycle.Specific(cycle.MNetWork, "Trabajo neto", r.NetWork),
			cycle.Specific(cycle.MHeatIn, "Calor añadido", r.HeatIn),
			cycle.Specific(cycle.MHeatOut, "Calor rechazado", r.HeatOut),
			{Key: "relacion_retroceso", Label: "Relación de trabajo de retroceso", Value: r.BackWorkRatio, Unit: cycle.UnitPercent, Places: 2},
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
