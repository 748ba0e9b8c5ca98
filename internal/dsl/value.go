package dsl

import "strconv"

// ValueKind tags the concrete representation held by a Value.
type ValueKind int

const (
	VEmpty ValueKind = iota
	VString
	VInt
	VFloat
)

// Value is a scalar DSL literal: a reference label/value, a fixed rule
// argument, an enum member, or a generated cell. Exactly one of Str/Int/Float
// is meaningful, selected by Kind.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
}

func StringValue(s string) Value  { return Value{Kind: VString, Str: s} }
func IntValue(n int64) Value      { return Value{Kind: VInt, Int: n} }
func FloatValue(f float64) Value  { return Value{Kind: VFloat, Float: f} }
func EmptyValue() Value           { return Value{Kind: VEmpty} }
func (v Value) IsEmpty() bool     { return v.Kind == VEmpty }

// String renders the value the way it would appear in a generated cell:
// unquoted, decimal form for numbers.
func (v Value) String() string {
	switch v.Kind {
	case VString:
		return v.Str
	case VInt:
		return strconv.FormatInt(v.Int, 10)
	case VFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports whether two values represent the same scalar, comparing
// across the int/float divide by numeric value (so a reference value typed
// as an int can still match a float-looking lookup key).
func (v Value) Equal(other Value) bool {
	if v.Kind == VString || other.Kind == VString {
		return v.Kind == other.Kind && v.Str == other.Str
	}
	return v.asFloat() == other.asFloat()
}

// Float64OrInt returns the value as a float64 regardless of whether it was
// stored as VInt or VFloat.
func (v Value) Float64OrInt() float64 { return v.asFloat() }

func (v Value) asFloat() float64 {
	switch v.Kind {
	case VInt:
		return float64(v.Int)
	case VFloat:
		return v.Float
	default:
		return 0
	}
}
