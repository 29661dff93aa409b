// Package value models animatable property values and resolves value
// descriptors into interpolatable (from, to) pairs.
package value

import "fmt"

type kind uint8

const (
	kindUnset kind = iota
	kindNumber
	kindOpaque
)

// Value is either unset, a number, or an opaque discrete value
type Value struct {
	kind   kind
	num    float64
	opaque any
}

// Number wraps a numeric value
func Number(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// Opaque wraps a value that is never interpolated, e.g. a discrete state
func Opaque(v any) Value {
	return Value{kind: kindOpaque, opaque: v}
}

// IsSet reports whether v carries a value
func (v Value) IsSet() bool { return v.kind != kindUnset }

// IsNumber reports whether v is numeric
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Float returns the numeric payload
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

// Raw returns the underlying Go value (float64, the opaque payload, or nil)
func (v Value) Raw() any {
	switch v.kind {
	case kindNumber:
		return v.num
	case kindOpaque:
		return v.opaque
	}
	return nil
}

// Or returns v when set, otherwise fallback
func (v Value) Or(fallback Value) Value {
	if v.IsSet() {
		return v
	}
	return fallback
}

func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return fmt.Sprintf("%g", v.num)
	case kindOpaque:
		return fmt.Sprintf("%v", v.opaque)
	}
	return "<unset>"
}

// Equal compares kinds and payloads; opaque payloads must be comparable
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindNumber:
		return v.num == o.num
	case kindOpaque:
		return v.opaque == o.opaque
	}
	return true
}

// Neutral is the value used when a target cannot report a current value
var Neutral = Number(0)
