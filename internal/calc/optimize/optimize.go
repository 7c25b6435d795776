// Package optimize searches one parameter of a cycle for the value that
// maximizes a report metric.
package optimize

import (
	"context"
	"errors"
	"math"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
	"Thermo/internal/calc/registry"
	"Thermo/internal/calc/sweep"
)

const (
	gridSteps     = 21
	maxIterations = 60
	invPhi        = 0.6180339887498949
)

var ErrNoFeasible = errors.New("no feasible point in range")

type Request struct {
	Base      cycle.Params `json:"base"`
	Parameter string       `json:"parameter"`
	From      float64      `json:"from"`
	To        float64      `json:"to"`
	// Metric defaults to the thermal efficiency.
	Metric string `json:"metric,omitempty"`
	// Tolerance is the width of the final bracket, default 1e-4 of the range.
	Tolerance float64 `json:"tolerance,omitempty"`
}

type Result struct {
	Parameter   string         `json:"parameter"`
	Value       float64        `json:"value"`
	Metric      string         `json:"metric"`
	Best        float64        `json:"best"`
	Evaluations int            `json:"evaluations"`
	Solution    handler.Result `json:"solution"`
}

// Maximize scans the range on a coarse grid, then refines the best grid cell
// by golden-section search. Points whose solve fails are treated as
// infeasible.
func Maximize(ctx context.Context, entry registry.Entry, req Request, env cycle.Env) (Result, error) {
	metric := req.Metric
	if metric == "" {
		metric = cycle.MEfficiency
	}
	grid := sweep.Request{Base: req.Base, Parameter: req.Parameter, From: req.From, To: req.To, Steps: gridSteps}
	if err := sweep.Validate(entry, grid, gridSteps); err != nil {
		return Result{}, err
	}

	series, err := sweep.Collect(ctx, entry, grid, env)
	if err != nil {
		return Result{}, err
	}
	best := -1
	for i, p := range series.Points {
		v, ok := p.Metrics[metric]
		if p.Error != nil || !ok {
			continue
		}
		if best < 0 || v > series.Points[best].Metrics[metric] {
			best = i
		}
	}
	if best < 0 {
		e := cycle.IllPosed("%s: %v", req.Parameter, ErrNoFeasible)
		e.Cycle = entry.Name
		return Result{}, e
	}

	lo := series.Points[max(best-1, 0)].Value
	hi := series.Points[min(best+1, len(series.Points)-1)].Value
	tol := req.Tolerance
	if tol <= 0 {
		tol = 1e-4 * math.Abs(req.To-req.From)
	}

	evals := len(series.Points)
	f := func(x float64) float64 {
		evals++
		v, err := evaluate(entry, req, env, metric, x)
		if err != nil {
			return math.Inf(-1)
		}
		return v
	}
	x := goldenSection(f, lo, hi, tol)

	// the refined point may be infeasible at a feasibility edge
	if _, err := evaluate(entry, req, env, metric, x); err != nil {
		x = series.Points[best].Value
	}
	rep, err := entry.Solve(withParam(req, x), env)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Parameter:   req.Parameter,
		Value:       x,
		Metric:      metric,
		Best:        rep.Value(metric),
		Evaluations: evals,
		Solution:    handler.NewResult(rep),
	}, nil
}

func evaluate(entry registry.Entry, req Request, env cycle.Env, metric string, x float64) (float64, error) {
	rep, err := entry.Solve(withParam(req, x), env)
	if err != nil {
		return 0, err
	}
	v := rep.Value(metric)
	if math.IsNaN(v) {
		return 0, cycle.IllPosed("metric %q not reported", metric)
	}
	return v, nil
}

func withParam(req Request, x float64) cycle.Params {
	p := make(cycle.Params, len(req.Base)+1)
	for k, v := range req.Base {
		p[k] = v
	}
	p[req.Parameter] = x
	return p
}

// goldenSection returns the maximizer of a unimodal f on [lo, hi].
func goldenSection(f func(float64) float64, lo, hi, tol float64) float64 {
	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for i := 0; i < maxIterations && math.Abs(b-a) > tol; i++ {
		if fc >= fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}
	return (a + b) / 2
}
