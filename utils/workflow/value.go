package workflow

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueType identifies the concrete type held by a Value.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
)

// Value is a typed configuration value: an integer, a float, or a string.
// The zero Value is the empty string.
type Value struct {
	typ ValueType
	i   int64
	f   float64
	s   string
}

func StringValue(s string) Value { return Value{typ: TypeString, s: s} }
func IntValue(i int64) Value     { return Value{typ: TypeInt, i: i} }
func FloatValue(f float64) Value { return Value{typ: TypeFloat, f: f} }

// Coerce turns a raw token into a typed value: integer first, then
// float, otherwise the token stays a string.
func Coerce(raw string) Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatValue(f)
	}
	return StringValue(raw)
}

func (v Value) Type() ValueType { return v.typ }

// IsString reports whether the value holds a string.
func (v Value) IsString() bool { return v.typ == TypeString }

// Text renders the value for display and for note-node content.
func (v Value) Text() string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Int returns the value as int64, converting floats and parseable strings.
func (v Value) Int() int64 {
	switch v.typ {
	case TypeInt:
		return v.i
	case TypeFloat:
		return int64(v.f)
	default:
		i, _ := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		return i
	}
}

// Float returns the value as float64, converting ints and parseable strings.
func (v Value) Float() float64 {
	switch v.typ {
	case TypeInt:
		return float64(v.i)
	case TypeFloat:
		return v.f
	default:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return f
	}
}

// Matches reports whether two values are equal within the same type
// family: numerics compare by numeric value regardless of int/float
// representation, strings compare only to strings.
func (v Value) Matches(other Value) bool {
	if v.typ == TypeString || other.typ == TypeString {
		return v.typ == TypeString && other.typ == TypeString && v.s == other.s
	}
	return v.Float() == other.Float()
}

func (v Value) String() string { return v.Text() }

// slotValue converts a raw widget entry into a Value. Entries that are
// not strings or numbers (booleans, nulls, nested arrays) have no Value
// representation and are not comparable.
func slotValue(slot interface{}) (Value, bool) {
	switch s := slot.(type) {
	case string:
		return StringValue(s), true
	case json.Number:
		if i, err := s.Int64(); err == nil && !strings.ContainsAny(s.String(), ".eE") {
			return IntValue(i), true
		}
		if f, err := s.Float64(); err == nil {
			return FloatValue(f), true
		}
		return Value{}, false
	case int64:
		return IntValue(s), true
	case int:
		return IntValue(int64(s)), true
	case float64:
		return FloatValue(s), true
	default:
		return Value{}, false
	}
}

// renderToSlot produces the widget entry for an incoming value while
// preserving the slot's original value type: an integer slot stays an
// integer even when the replacement arrives as a string or float.
func renderToSlot(incoming Value, slot interface{}) interface{} {
	old, ok := slotValue(slot)
	if !ok {
		return rawValue(incoming)
	}
	switch old.typ {
	case TypeInt:
		if incoming.typ == TypeString {
			coerced := Coerce(incoming.s)
			if coerced.typ == TypeString {
				return incoming.s
			}
			incoming = coerced
		}
		return incoming.Int()
	case TypeFloat:
		if incoming.typ == TypeString {
			coerced := Coerce(incoming.s)
			if coerced.typ == TypeString {
				return incoming.s
			}
			incoming = coerced
		}
		return incoming.Float()
	default:
		return incoming.Text()
	}
}

// rawValue converts a Value to the natural JSON representation.
func rawValue(v Value) interface{} {
	switch v.typ {
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	default:
		return v.s
	}
}
