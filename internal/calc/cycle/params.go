package cycle

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Params is the flat boundary-parameter mapping a front end collects.
type Params map[string]any

type FieldKind string

const (
	Number FieldKind = "number"
	Choice FieldKind = "choice"
)

// Bound restricts the accepted values of a numeric field.
type Bound int

const (
	Unbounded Bound = iota
	Positive          // > 0
	Fraction          // (0, 1]
	Percent           // [0, 100)
	Ratio             // > 1
)

type Field struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Unit     string    `json:"unit,omitempty"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	// Default is applied when an optional field is absent.
	Default any `json:"default,omitempty"`
	// Example prefills forms for required fields. It is never applied.
	Example any      `json:"example,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Bound   Bound    `json:"-"`
}

type Schema struct {
	Cycle  string  `json:"cycle"`
	Fields []Field `json:"fields"`
	// AnyOf lists alternative key sets. At least one set must be complete.
	AnyOf [][]string `json:"any_of,omitempty"`
}

func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the field keys in declaration order.
func (s Schema) Keys() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Key
	}
	return out
}

// Values is a validated parameter set.
type Values struct {
	nums    map[string]float64
	strs    map[string]string
	present map[string]bool
}

func (v Values) Float(key string) float64 {
	return v.nums[key]
}

func (v Values) Text(key string) string {
	return v.strs[key]
}

// Has reports whether the caller supplied key, defaults excluded.
func (v Values) Has(key string) bool {
	return v.present[key]
}

// Bind validates p against the schema. Every absent required key is reported
// in one missing-parameter error. Keys outside the schema are ignored.
func (s Schema) Bind(p Params) (Values, error) {
	v := Values{
		nums:    map[string]float64{},
		strs:    map[string]string{},
		present: map[string]bool{},
	}

	var missing []string
	for _, f := range s.Fields {
		raw, ok := p[f.Key]
		if ok && isBlank(raw) {
			ok = false
		}
		if !ok {
			if f.Required {
				missing = append(missing, f.Key)
			}
			continue
		}
		v.present[f.Key] = true
	}
	missing = append(missing, s.missingGroups(v)...)
	if len(missing) > 0 {
		e := Missing(missing...)
		e.Cycle = s.Cycle
		return Values{}, e
	}

	for _, f := range s.Fields {
		raw := f.Default
		if v.present[f.Key] {
			raw = p[f.Key]
		}
		if raw == nil {
			continue
		}
		if err := v.set(f, raw); err != nil {
			err.Cycle = s.Cycle
			return Values{}, err
		}
	}
	return v, nil
}

func (s Schema) missingGroups(v Values) []string {
	if len(s.AnyOf) == 0 {
		return nil
	}
	for _, set := range s.AnyOf {
		complete := true
		for _, k := range set {
			if !v.present[k] {
				complete = false
				break
			}
		}
		if complete {
			return nil
		}
	}
	forms := make([]string, len(s.AnyOf))
	for i, set := range s.AnyOf {
		forms[i] = strings.Join(set, "+")
	}
	return []string{strings.Join(forms, " or ")}
}

// Overriding returns the AnyOf form that is complete in p and listed before the
// form holding key. Such a form wins, so key has no effect on the solve. It is
// nil when key is not shadowed.
func (s Schema) Overriding(key string, p Params) []string {
	own := slices.IndexFunc(s.AnyOf, func(set []string) bool {
		return slices.Contains(set, key)
	})
	for _, set := range s.AnyOf[:max(own, 0)] {
		complete := true
		for _, k := range set {
			if raw, ok := p[k]; !ok || isBlank(raw) {
				complete = false
				break
			}
		}
		if complete {
			return set
		}
	}
	return nil
}

func (v Values) set(f Field, raw any) *Error {
	switch f.Kind {
	case Choice:
		str, ok := raw.(string)
		if !ok {
			return Invalidf(f.Key, "expected one of %s", strings.Join(f.Choices, ", "))
		}
		str = strings.ToLower(strings.TrimSpace(str))
		for _, c := range f.Choices {
			if c == str {
				v.strs[f.Key] = str
				return nil
			}
		}
		return Invalidf(f.Key, "%q is not one of %s", str, strings.Join(f.Choices, ", "))
	default:
		x, err := toFloat(raw)
		if err != nil {
			return Invalid(f.Key, err)
		}
		if err := f.Bound.check(x); err != nil {
			return Invalid(f.Key, err)
		}
		v.nums[f.Key] = x
		return nil
	}
}

func (b Bound) check(x float64) error {
	switch b {
	case Positive:
		if x <= 0 {
			return fmt.Errorf("must be > 0, got %g", x)
		}
	case Fraction:
		if x <= 0 || x > 1 {
			return fmt.Errorf("must be in (0, 1], got %g", x)
		}
	case Percent:
		if x < 0 || x >= 100 {
			return fmt.Errorf("must be in [0, 100), got %g", x)
		}
	case Ratio:
		if x <= 1 {
			return fmt.Errorf("must be > 1, got %g", x)
		}
	}
	return nil
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toFloat(raw any) (float64, error) {
	var x float64
	switch t := raw.(type) {
	case float64:
		x = t
	case float32:
		x = float64(t)
	case int:
		x = float64(t)
	case int64:
		x = float64(t)
	case int32:
		x = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", string(t))
		}
		x = f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		x = f
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return x, nil
}
