package dcf

import (
	"encoding/json"
	"math"
)

// Optional is either a defined value or undefined.
//
// It replaces NaN-like sentinels: an undefined IRR stays undefined and cannot leak into
// an aggregate. Undefined values are encoded as JSON null.
type Optional[T any] struct {
	value   T
	defined bool
}

// Defined returns an Optional holding v.
func Defined[T any](v T) Optional[T] { return Optional[T]{value: v, defined: true} }

// Undefined returns an empty Optional.
func Undefined[T any]() Optional[T] { return Optional[T]{} }

// DefinedFloat returns v as an Optional, undefined when v is NaN or infinite.
func DefinedFloat(v float64) Optional[float64] {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined[float64]()
	}
	return Defined(v)
}

// Get returns the value and whether it is defined.
func (o Optional[T]) Get() (T, bool) { return o.value, o.defined }

// IsDefined reports whether o holds a value.
func (o Optional[T]) IsDefined() bool { return o.defined }

// Or returns the value if defined, or v otherwise.
func (o Optional[T]) Or(v T) T {
	if o.defined {
		return o.value
	}
	return v
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.defined {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.defined = true
	return nil
}
