package verskema

import (
	"math"
	"strconv"
)

// Value is a tagged primitive: the unit carried by the token stream.
type Value struct {
	kind Kind
	bits uint64 // int64, uint64, float64 bits or bool (0/1)
	str  string
}

// Token is a named primitive as issued by an Adapter.
type Token struct {
	Name  string
	Value Value
}

func IntValue(v int64) Value     { return Value{kind: KindInt, bits: uint64(v)} }
func UintValue(v uint64) Value   { return Value{kind: KindUint, bits: v} }
func FloatValue(v float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(v)} }
func StringValue(v string) Value { return Value{kind: KindString, str: v} }

func BoolValue(v bool) Value {
	if v {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

// FloatBitsValue builds a float value from its raw IEEE-754 bits, preserving NaN
// payloads.
func FloatBitsValue(bits uint64) Value { return Value{kind: KindFloat, bits: bits} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) Int() int64        { return int64(v.bits) }
func (v Value) Uint() uint64      { return v.bits }
func (v Value) Float() float64    { return math.Float64frombits(v.bits) }
func (v Value) FloatBits() uint64 { return v.bits }
func (v Value) Str() string       { return v.str }
func (v Value) Bool() bool        { return v.bits != 0 }

// String renders the value for logs and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case KindUint:
		return strconv.FormatUint(v.Uint(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.Bool())
	}
	return "<invalid>"
}
