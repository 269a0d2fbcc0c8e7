package nbt

import (
	"fmt"
	"math"
)

// Coerce converts v to the target kind.
//
// Integer targets are range-checked: a value that does not fit fails with
// ErrKindOverflow rather than being truncated. Floats converted to an
// integer kind drop their fractional part first. Integers and Doubles
// converted to Float round to the nearest float32 and fail only when the
// magnitude is out of range. Array kinds convert element-wise under the
// same rules. Any other pairing fails with ErrIncompatibleCoercion.
// Coercing to the current kind returns v unchanged.
func Coerce(v Value, target Kind) (Value, error) {
	if target == KindEnd || !target.Valid() {
		return Value{}, fmt.Errorf("%w: cannot coerce to %s", ErrInvalidKind, target)
	}
	if v.kind == target {
		return v, nil
	}

	switch {
	case v.kind.IsNumeric() && target.IsNumeric():
		return coerceNumber(v, target)
	case v.kind.IsArray() && target.IsArray():
		return coerceArray(v, target)
	}
	return Value{}, fmt.Errorf("%w: %s to %s", ErrIncompatibleCoercion, v.kind, target)
}

func coerceNumber(v Value, target Kind) (Value, error) {
	if n, ok := v.AsInt(); ok {
		if target.IsInteger() {
			return intValue(target, n)
		}
		return floatValue(target, float64(n))
	}

	f, _ := v.AsFloat()
	if target.IsFloat() {
		return floatValue(target, f)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %g has no %s representation", ErrKindOverflow, f, target)
	}
	t := math.Trunc(f)
	// float64(MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %g out of %s range", ErrKindOverflow, f, target)
	}
	return intValue(target, int64(t))
}

func coerceArray(v Value, target Kind) (Value, error) {
	switch src := v.ref.(type) {
	case []int8:
		return convertArray(target, src)
	case []int32:
		return convertArray(target, src)
	case []int64:
		return convertArray(target, src)
	}
	return Value{}, fmt.Errorf("%w: %s to %s", ErrIncompatibleCoercion, v.kind, target)
}
