// Package types holds the static types of minic and the fixed table of
// which operators accept which operand types.
package types

// Type is a static type. Values are small and comparable, so a Type is used
// directly as a map key.
type Type uint8

const (
	// Invalid is the type of an expression that already produced a
	// diagnostic. Operations involving Invalid yield Invalid without a new
	// diagnostic.
	Invalid Type = iota
	Int
	Float
	String
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "<invalid>"
	}
}

// Lookup returns the type named by a TYPE token.
func Lookup(name string) (Type, bool) {
	switch name {
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "string":
		return String, true
	}
	return Invalid, false
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t Type) bool {
	return t == Int || t == Float
}

// Operator groups.
var (
	arithmeticOps = []string{"+", "-", "*", "/"}
	integerOps    = []string{"%", "|", "^", "&", "<<", ">>", "&&", "||"}
	comparisonOps = []string{"<", ">", "==", "!=", "<=", ">="}
)

type key struct {
	op          string
	left, right Type
}

// resultTable is built once and only read afterwards.
var resultTable = buildResultTable()

func buildResultTable() map[key]Type {
	t := make(map[key]Type)
	for _, op := range arithmeticOps {
		t[key{op, Int, Int}] = Int
		t[key{op, Int, Float}] = Float
		t[key{op, Float, Int}] = Float
		t[key{op, Float, Float}] = Float
	}
	for _, op := range integerOps {
		t[key{op, Int, Int}] = Int
	}
	for _, op := range comparisonOps {
		t[key{op, Int, Int}] = Int
		t[key{op, Int, Float}] = Int
		t[key{op, Float, Int}] = Int
		t[key{op, Float, Float}] = Int
		t[key{op, String, String}] = Int
	}
	t[key{"+", String, String}] = String
	t[key{"*", String, Int}] = String
	return t
}

// Result returns the type of "left op right". ok is false when the operation
// is illegal. If either operand is Invalid the result is Invalid and ok is
// true, so the caller reports nothing further.
func Result(op string, left, right Type) (result Type, ok bool) {
	if left == Invalid || right == Invalid {
		return Invalid, true
	}
	result, ok = resultTable[key{op, left, right}]
	return result, ok
}

// Assignable reports whether a value of type value may be stored in a
// variable, parameter or return slot of type target. narrowing is set for
// float into int, which is allowed but loses the fraction.
//
// Invalid is assignable to anything without narrowing.
func Assignable(target, value Type) (ok, narrowing bool) {
	if target == Invalid || value == Invalid {
		return true, false
	}
	switch {
	case target == value:
		return true, false
	case target == Float && value == Int:
		return true, false
	case target == Int && value == Float:
		return true, true
	}
	return false, false
}
