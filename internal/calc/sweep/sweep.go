// Package sweep solves one cycle over a range of values of a single
// parameter.
package sweep

import (
	"context"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
	"Thermo/internal/calc/registry"
)

const MinSteps = 2

type Request struct {
	Base      cycle.Params `json:"base"`
	Parameter string       `json:"parameter"`
	From      float64      `json:"from"`
	To        float64      `json:"to"`
	Steps     int          `json:"steps"`
}

// Point is one solve of the sweep. Metrics holds every numeric metric of the
// report by key; Error is set instead when the solve failed.
type Point struct {
	Index   int                `json:"index"`
	Value   float64            `json:"value"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Error   *handler.ErrorBody `json:"error,omitempty"`
}

type Series struct {
	Cycle     string  `json:"cycle"`
	Parameter string  `json:"parameter"`
	Points    []Point `json:"points"`
}

// Validate checks the request against the cycle schema and the step limit.
func Validate(entry registry.Entry, req Request, maxSteps int) error {
	f, ok := entry.Schema.Field(req.Parameter)
	if !ok || f.Kind != cycle.Number {
		e := cycle.Invalidf("parameter", "%q is not a numeric parameter of %s", req.Parameter, entry.Name)
		e.Cycle = entry.Name
		return e
	}
	if set := entry.Schema.Overriding(req.Parameter, req.Base); set != nil {
		e := cycle.Invalidf("parameter", "%q has no effect while the base sets %s", req.Parameter, strings.Join(set, "+"))
		e.Cycle = entry.Name
		return e
	}
	if math.IsNaN(req.From) || math.IsInf(req.From, 0) || math.IsNaN(req.To) || math.IsInf(req.To, 0) {
		e := cycle.Invalidf(req.Parameter, "sweep bounds must be finite")
		e.Cycle = entry.Name
		return e
	}
	if req.Steps < MinSteps || req.Steps > maxSteps {
		e := cycle.Invalidf("steps", "must be in [%d, %d], got %d", MinSteps, maxSteps, req.Steps)
		e.Cycle = entry.Name
		return e
	}
	return nil
}

// Values returns the evenly spaced parameter values, both bounds included.
// It is empty for fewer than MinSteps steps.
func (r Request) Values() []float64 {
	if r.Steps < MinSteps {
		return nil
	}
	xs := floats.Span(make([]float64, r.Steps), r.From, r.To)
	xs[len(xs)-1] = r.To
	return xs
}

// Run solves every point in order and hands each to emit. It stops at the
// first emit error or when ctx is done.
func Run(ctx context.Context, entry registry.Entry, req Request, env cycle.Env, emit func(Point) error) error {
	for i, x := range req.Values() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := make(cycle.Params, len(req.Base)+1)
		for k, v := range req.Base {
			p[k] = v
		}
		p[req.Parameter] = x

		pt := Point{Index: i, Value: x}
		rep, err := entry.Solve(p, env)
		if err != nil {
			body := handler.Body(err)
			pt.Error = &body
		} else {
			pt.Metrics = numeric(rep)
		}
		if err := emit(pt); err != nil {
			return err
		}
	}
	return nil
}

// Collect runs the sweep to completion.
func Collect(ctx context.Context, entry registry.Entry, req Request, env cycle.Env) (Series, error) {
	s := Series{Cycle: entry.Name, Parameter: req.Parameter, Points: make([]Point, 0, req.Steps)}
	err := Run(ctx, entry, req, env, func(p Point) error {
		s.Points = append(s.Points, p)
		return nil
	})
	return s, err
}

func numeric(rep cycle.Report) map[string]float64 {
	out := make(map[string]float64, len(rep.Metrics))
	for _, m := range rep.Metrics {
		if m.Text != "" || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			continue
		}
		out[m.Key] = m.Value
	}
	return out
}
