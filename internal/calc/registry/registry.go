// Package registry maps cycle names to their solvers for every front end.
package registry

import (
	"errors"
	"fmt"

	"Thermo/internal/calc/brayton"
	"Thermo/internal/calc/braytonreheat"
	"Thermo/internal/calc/carnot"
	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/diesel"
	"Thermo/internal/calc/otto"
	"Thermo/internal/calc/rankine"
	"Thermo/internal/calc/rankineregen"
	"Thermo/internal/calc/rankinereheat"
)

var ErrUnknownCycle = errors.New("unknown cycle")

type SolveFunc func(cycle.Params, cycle.Env) (cycle.Report, error)

type Entry struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Schema      cycle.Schema `json:"schema"`
	Solve       SolveFunc    `json:"-"`
}

var entries = []Entry{
	{rankine.Name, "Rankine Simple", "Ciclo Rankine básico para plantas de vapor", rankine.Schema, rankine.Solve},
	{rankinereheat.Name, "Rankine con Recalentamiento", "Rankine con recalentamiento intermedio", rankinereheat.Schema, rankinereheat.Solve},
	{rankineregen.Name, "Rankine Regenerativo", "Rankine con extracción de vapor para precalentamiento", rankineregen.Schema, rankineregen.Solve},
	{brayton.Name, "Brayton Simple", "Ciclo Brayton para turbinas de gas", brayton.Schema, brayton.Solve},
	{braytonreheat.Name, "Brayton con Recalentamiento", "Brayton con recalentamiento intermedio", braytonreheat.Schema, braytonreheat.Solve},
	{otto.Name, "Ciclo Otto", "Motor de encendido por chispa", otto.Schema, otto.Solve},
	{diesel.Name, "Ciclo Diesel", "Motor de encendido por compresión", diesel.Schema, diesel.Solve},
	{carnot.Name, "Ciclo Carnot", "Ciclo teórico de máxima eficiencia", carnot.Schema, carnot.Solve},
}

var byName = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}()

func Lookup(name string) (Entry, error) {
	e, ok := byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCycle, name)
	}
	return e, nil
}

// Entries returns the catalogue in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func Names() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func Solve(name string, p cycle.Params, env cycle.Env) (cycle.Report, error) {
	e, err := Lookup(name)
	if err != nil {
		return cycle.Report{}, err
	}
	return e.Solve(p, env)
}

// Example returns a parameter set built from the schema's examples and defaults.
func (e Entry) Example() cycle.Params {
	p := cycle.Params{}
	for _, f := range e.Schema.Fields {
		switch {
		case f.Example != nil:
			p[f.Key] = f.Example
		case f.Default != nil:
			p[f.Key] = f.Default
		}
	}
	return p
}
