package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hassan/minic/internal/semantic/types"
)

var (
	errDivisionByZero = errors.New("division by zero")
	errNegativeShift  = errors.New("negative shift count")
	errStringTooLong  = errors.New("string repetition too long")
)

// maxStringLen bounds the result of string repetition.
const maxStringLen = 1 << 30

type intOp func(a, b int64) (int64, error)

// intOps maps an operator to its behaviour on two ints. Division and
// remainder truncate toward zero.
var intOps = map[string]intOp{
	"+": func(a, b int64) (int64, error) { return a + b, nil },
	"-": func(a, b int64) (int64, error) { return a - b, nil },
	"*": func(a, b int64) (int64, error) { return a * b, nil },
	"/": func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivisionByZero
		}
		return a / b, nil
	},
	"%": func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivisionByZero
		}
		return a % b, nil
	},
	"&": func(a, b int64) (int64, error) { return a & b, nil },
	"|": func(a, b int64) (int64, error) { return a | b, nil },
	"^": func(a, b int64) (int64, error) { return a ^ b, nil },
	"<<": func(a, b int64) (int64, error) {
		if b < 0 {
			return 0, errNegativeShift
		}
		return a << uint64(b), nil
	},
	">>": func(a, b int64) (int64, error) {
		if b < 0 {
			return 0, errNegativeShift
		}
		return a >> uint64(b), nil
	},
	"==": func(a, b int64) (int64, error) { return flag(a == b), nil },
	"!=": func(a, b int64) (int64, error) { return flag(a != b), nil },
	"<":  func(a, b int64) (int64, error) { return flag(a < b), nil },
	">":  func(a, b int64) (int64, error) { return flag(a > b), nil },
	"<=": func(a, b int64) (int64, error) { return flag(a <= b), nil },
	">=": func(a, b int64) (int64, error) { return flag(a >= b), nil },
}

type floatOp func(a, b float64) (Value, error)

// floatOps applies when at least one numeric operand is a float; the other
// is widened first.
var floatOps = map[string]floatOp{
	"+": func(a, b float64) (Value, error) { return FloatValue(a + b), nil },
	"-": func(a, b float64) (Value, error) { return FloatValue(a - b), nil },
	"*": func(a, b float64) (Value, error) { return FloatValue(a * b), nil },
	"/": func(a, b float64) (Value, error) {
		if b == 0 {
			return Value{}, errDivisionByZero
		}
		return FloatValue(a / b), nil
	},
	"==": func(a, b float64) (Value, error) { return boolValue(a == b), nil },
	"!=": func(a, b float64) (Value, error) { return boolValue(a != b), nil },
	"<":  func(a, b float64) (Value, error) { return boolValue(a < b), nil },
	">":  func(a, b float64) (Value, error) { return boolValue(a > b), nil },
	"<=": func(a, b float64) (Value, error) { return boolValue(a <= b), nil },
	">=": func(a, b float64) (Value, error) { return boolValue(a >= b), nil },
}

// stringOps compare lexicographically by bytes; + concatenates.
var stringOps = map[string]func(a, b string) Value{
	"+":  func(a, b string) Value { return StringValue(a + b) },
	"==": func(a, b string) Value { return boolValue(a == b) },
	"!=": func(a, b string) Value { return boolValue(a != b) },
	"<":  func(a, b string) Value { return boolValue(a < b) },
	">":  func(a, b string) Value { return boolValue(a > b) },
	"<=": func(a, b string) Value { return boolValue(a <= b) },
	">=": func(a, b string) Value { return boolValue(a >= b) },
}

func flag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// binary applies a non-short-circuit operator to two evaluated operands.
func binary(op string, l, r Value) (Value, error) {
	switch {
	case l.Type == types.Int && r.Type == types.Int:
		if fn, ok := intOps[op]; ok {
			v, err := fn(l.Int, r.Int)
			return IntValue(v), err
		}
	case types.IsNumeric(l.Type) && types.IsNumeric(r.Type):
		if fn, ok := floatOps[op]; ok {
			return fn(l.asFloat(), r.asFloat())
		}
	case l.Type == types.String && r.Type == types.String:
		if fn, ok := stringOps[op]; ok {
			return fn(l.Str, r.Str), nil
		}
	case l.Type == types.String && r.Type == types.Int && op == "*":
		if r.Int <= 0 || l.Str == "" {
			return StringValue(""), nil
		}
		if r.Int > maxStringLen/int64(len(l.Str)) {
			return Value{}, errStringTooLong
		}
		return StringValue(strings.Repeat(l.Str, int(r.Int))), nil
	}
	return Value{}, fmt.Errorf("illegal operation %s %s %s", l.Type, op, r.Type)
}
