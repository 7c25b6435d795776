package cycle

import (
	"errors"
	"fmt"
	"strings"

	"Thermo/internal/props"
)

type Kind int

const (
	KindMissingParameter Kind = iota + 1
	KindInvalidParameter
	KindPropertyLookup
	KindIllPosed
	KindOutOfRange
)

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrPropertyLookup   = errors.New("property lookup failed")
	ErrIllPosed         = errors.New("ill-posed calculation")
	ErrOutOfRange       = errors.New("result out of range")
)

var kindNames = map[Kind]string{
	KindMissingParameter: "missing_parameter",
	KindInvalidParameter: "invalid_parameter",
	KindPropertyLookup:   "property_lookup",
	KindIllPosed:         "ill_posed",
	KindOutOfRange:       "out_of_range",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindMissingParameter:
		return ErrMissingParameter
	case KindInvalidParameter:
		return ErrInvalidParameter
	case KindPropertyLookup:
		return ErrPropertyLookup
	case KindIllPosed:
		return ErrIllPosed
	case KindOutOfRange:
		return ErrOutOfRange
	}
	return nil
}

// Error is the single failure type of a solve. Err keeps the underlying cause,
// so props sentinels stay reachable through errors.Is.
type Error struct {
	Cycle string
	Kind  Kind
	Keys  []string
	Err   error
}

func (e *Error) Error() string {
	var cause string
	switch {
	case e.Kind == KindMissingParameter:
		cause = "missing parameter(s): " + strings.Join(e.Keys, ", ")
	case e.Kind == KindInvalidParameter && len(e.Keys) > 0:
		cause = fmt.Sprintf("invalid parameter %s: %v", strings.Join(e.Keys, ", "), e.Err)
	case e.Err != nil:
		cause = e.Err.Error()
	default:
		cause = e.Kind.String()
	}
	if e.Cycle == "" {
		return "calculation failed: " + cause
	}
	return e.Cycle + ": calculation failed: " + cause
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func Missing(keys ...string) *Error {
	return &Error{Kind: KindMissingParameter, Keys: keys}
}

func Invalid(key string, err error) *Error {
	return &Error{Kind: KindInvalidParameter, Keys: []string{key}, Err: err}
}

func Invalidf(key, format string, args ...any) *Error {
	return Invalid(key, fmt.Errorf(format, args...))
}

func IllPosed(format string, args ...any) *Error {
	return &Error{Kind: KindIllPosed, Err: fmt.Errorf(format, args...)}
}

func OutOfRange(format string, args ...any) *Error {
	return &Error{Kind: KindOutOfRange, Err: fmt.Errorf(format, args...)}
}

// Fail attaches the cycle name to err. Errors that are not already an *Error
// come from the property service and are classed as lookup failures.
func Fail(cycle string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		if ce.Cycle != "" {
			return ce
		}
		out := *ce
		out.Cycle = cycle
		return &out
	}
	return &Error{Cycle: cycle, Kind: KindPropertyLookup, Err: err}
}

// KindOf reports the kind of a solve error, 0 when err is not one.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var le *props.LookupError
	if errors.As(err, &le) {
		return KindPropertyLookup
	}
	return 0
}

// IsInputError separates malformed input from errors raised while computing.
func IsInputError(err error) bool {
	k := KindOf(err)
	return k == KindMissingParameter || k == KindInvalidParameter
}
