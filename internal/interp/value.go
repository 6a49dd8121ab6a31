package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hassan/minic/internal/semantic/types"
)

// Value is a runtime scalar. Only the field selected by Type is meaningful.
type Value struct {
	Type  types.Type
	Int   int64
	Float float64
	Str   string
}

func IntValue(i int64) Value     { return Value{Type: types.Int, Int: i} }
func FloatValue(f float64) Value { return Value{Type: types.Float, Float: f} }
func StringValue(s string) Value { return Value{Type: types.String, Str: s} }

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// zeroValue is the value of a slot of type t that was never assigned.
func zeroValue(t types.Type) Value {
	return Value{Type: t}
}

// String formats the value the way print shows it. Floats use the shortest
// representation that round-trips and always show a fraction or exponent.
func (v Value) String() string {
	switch v.Type {
	case types.Int:
		return strconv.FormatInt(v.Int, 10)
	case types.Float:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case types.String:
		return v.Str
	default:
		return "<invalid>"
	}
}

// Truthy reports whether the value counts as true in a condition: non-zero
// numbers and non-empty strings.
func (v Value) Truthy() bool {
	switch v.Type {
	case types.Int:
		return v.Int != 0
	case types.Float:
		return v.Float != 0
	case types.String:
		return v.Str != ""
	default:
		return false
	}
}

// asFloat widens a numeric value.
func (v Value) asFloat() float64 {
	if v.Type == types.Int {
		return float64(v.Int)
	}
	return v.Float
}

// convert coerces v to the declared type t. Floats are truncated toward zero
// when stored as int. Strings and numbers do not convert into each other.
func convert(v Value, t types.Type) (Value, error) {
	switch {
	case v.Type == t:
		return v, nil
	case t == types.Float && v.Type == types.Int:
		return FloatValue(float64(v.Int)), nil
	case t == types.Int && v.Type == types.Float:
		return IntValue(int64(v.Float)), nil
	}
	return Value{}, fmt.Errorf("cannot convert %s to %s", v.Type, t)
}
