package nbt

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"
)

// Value is a decoded tag payload together with its kind. Numeric scalars are
// held unboxed in bits; strings, arrays and containers live in ref. The zero
// Value has kind End and represents "no value".
type Value struct {
	kind Kind
	bits uint64
	ref  any
}

// Byte returns a Byte value.
func Byte(v int8) Value { return Value{kind: KindByte, bits: uint64(int64(v))} }

// Short returns a Short value.
func Short(v int16) Value { return Value{kind: KindShort, bits: uint64(int64(v))} }

// Int returns an Int value.
func Int(v int32) Value { return Value{kind: KindInt, bits: uint64(int64(v))} }

// Long returns a Long value.
func Long(v int64) Value { return Value{kind: KindLong, bits: uint64(v)} }

// Float returns a Float value.
func Float(v float32) Value { return Value{kind: KindFloat, bits: uint64(math.Float32bits(v))} }

// Double returns a Double value.
func Double(v float64) Value { return Value{kind: KindDouble, bits: math.Float64bits(v)} }

// String returns a String value.
func String(v string) Value { return Value{kind: KindString, ref: v} }

// ByteArray returns a ByteArray value backed by v. The slice is not copied.
func ByteArray(v []int8) Value { return Value{kind: KindByteArray, ref: nonNil(v)} }

// IntArray returns an IntArray value backed by v. The slice is not copied.
func IntArray(v []int32) Value { return Value{kind: KindIntArray, ref: nonNil(v)} }

// LongArray returns a LongArray value backed by v. The slice is not copied.
func LongArray(v []int64) Value { return Value{kind: KindLongArray, ref: nonNil(v)} }

// ListValue wraps l. A nil list becomes an empty list with no element kind.
func ListValue(l *List) Value {
	if l == nil {
		l = NewList(KindEnd)
	}
	return Value{kind: KindList, ref: l}
}

// CompoundValue wraps c. A nil compound becomes an empty one.
func CompoundValue(c *Compound) Value {
	if c == nil {
		c = NewCompound()
	}
	return Value{kind: KindCompound, ref: c}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// New builds a value of an explicit kind from a native Go value. It fails
// with ErrKindMismatch when the native shape does not fit the kind (text for
// a number, a number for an array, ...) and with ErrKindOverflow when a whole
// number is out of the kind's range.
func New(kind Kind, native any) (Value, error) {
	if v, ok := native.(Value); ok {
		if v.kind != kind {
			return Value{}, fmt.Errorf("%w: %s value for %s", ErrKindMismatch, v.kind, kind)
		}
		return v, nil
	}

	switch kind {
	case KindByte, KindShort, KindInt, KindLong:
		n, ok, err := wholeNumber(native)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Value{}, mismatch(kind, native)
		}
		return intValue(kind, n)

	case KindFloat, KindDouble:
		f, ok := decimal(native)
		if !ok {
			return Value{}, mismatch(kind, native)
		}
		return floatValue(kind, f)

	case KindString:
		s, ok := native.(string)
		if !ok {
			return Value{}, mismatch(kind, native)
		}
		if !utf8.ValidString(s) {
			return Value{}, fmt.Errorf("%w: invalid UTF-8 for %s", ErrMalformedText, kind)
		}
		return String(s), nil

	case KindByteArray, KindIntArray, KindLongArray:
		return arrayValue(kind, native)

	case KindList:
		switch n := native.(type) {
		case *List:
			return ListValue(n), nil
		case []Value:
			l, err := listOf(n)
			if err != nil {
				return Value{}, err
			}
			return ListValue(l), nil
		case []any:
			v, err := Infer(n)
			if err != nil {
				return Value{}, err
			}
			return v, nil
		}
		return Value{}, mismatch(kind, native)

	case KindCompound:
		switch n := native.(type) {
		case *Compound:
			return CompoundValue(n), nil
		case map[string]any:
			return Infer(n)
		}
		return Value{}, mismatch(kind, native)
	}

	return Value{}, fmt.Errorf("%w: cannot construct %s", ErrInvalidKind, kind)
}

func mismatch(kind Kind, native any) error {
	return fmt.Errorf("%w: %T is not a %s", ErrKindMismatch, native, kind)
}

// wholeNumber extracts a Go integer. ok is false for non-integer types.
func wholeNumber(native any) (n int64, ok bool, err error) {
	switch v := native.(type) {
	case int:
		return int64(v), true, nil
	case int8:
		return int64(v), true, nil
	case int16:
		return int64(v), true, nil
	case int32:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case uint:
		return unsignedNumber(uint64(v))
	case uint8:
		return int64(v), true, nil
	case uint16:
		return int64(v), true, nil
	case uint32:
		return int64(v), true, nil
	case uint64:
		return unsignedNumber(v)
	}
	return 0, false, nil
}

func unsignedNumber(v uint64) (int64, bool, error) {
	if v > math.MaxInt64 {
		return 0, true, fmt.Errorf("%w: %d exceeds %s", ErrKindOverflow, v, KindLong)
	}
	return int64(v), true, nil
}

// decimal accepts floats and whole numbers.
func decimal(native any) (float64, bool) {
	switch v := native.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	if n, ok, err := wholeNumber(native); ok && err == nil {
		return float64(n), true
	}
	return 0, false
}

// intRange returns the representable range of an integer kind.
func intRange(k Kind) (lo, hi int64) {
	switch k {
	case KindByte:
		return math.MinInt8, math.MaxInt8
	case KindShort:
		return math.MinInt16, math.MaxInt16
	case KindInt:
		return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

func intValue(k Kind, n int64) (Value, error) {
	lo, hi := intRange(k)
	if n < lo || n > hi {
		return Value{}, fmt.Errorf("%w: %d out of %s range [%d, %d]", ErrKindOverflow, n, k, lo, hi)
	}
	return Value{kind: k, bits: uint64(n)}, nil
}

func floatValue(k Kind, f float64) (Value, error) {
	if k == KindDouble {
		return Double(f), nil
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return Value{}, fmt.Errorf("%w: %g out of %s range", ErrKindOverflow, f, k)
	}
	return Float(float32(f)), nil
}

func arrayValue(kind Kind, native any) (Value, error) {
	switch v := native.(type) {
	case []int8:
		return convertArray(kind, v)
	case []byte:
		if kind == KindByteArray {
			b := make([]int8, len(v))
			for i, x := range v {
				b[i] = int8(x)
			}
			return ByteArray(b), nil
		}
		return convertArray(kind, v)
	case []int16:
		return convertArray(kind, v)
	case []uint16:
		return convertArray(kind, v)
	case []int32:
		return convertArray(kind, v)
	case []uint32:
		return convertArray(kind, v)
	case []int64:
		return convertArray(kind, v)
	case []int:
		return convertArray(kind, v)
	}
	return Value{}, mismatch(kind, native)
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// convertArray builds an array value of kind from src. Source slices whose
// element type already matches are adopted without copying.
func convertArray[E integer](kind Kind, src []E) (Value, error) {
	switch s := any(src).(type) {
	case []int8:
		if kind == KindByteArray {
			return ByteArray(s), nil
		}
	case []int32:
		if kind == KindIntArray {
			return IntArray(s), nil
		}
	case []int64:
		if kind == KindLongArray {
			return LongArray(s), nil
		}
	}

	lo, hi := intRange(kind.elemKind())
	check := func(i int, x E) error {
		if int64(x) < lo || int64(x) > hi {
			return fmt.Errorf("%w: element %d (%d) out of %s range", ErrKindOverflow, i, int64(x), kind.elemKind())
		}
		return nil
	}
	switch kind {
	case KindByteArray:
		out := make([]int8, len(src))
		for i, x := range src {
			if err := check(i, x); err != nil {
				return Value{}, err
			}
			out[i] = int8(x)
		}
		return ByteArray(out), nil
	case KindIntArray:
		out := make([]int32, len(src))
		for i, x := range src {
			if err := check(i, x); err != nil {
				return Value{}, err
			}
			out[i] = int32(x)
		}
		return IntArray(out), nil
	default:
		out := make([]int64, len(src))
		for i, x := range src {
			out[i] = int64(x)
		}
		return LongArray(out), nil
	}
}

// Kind returns the kind the value is stored under.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool {
	return v.kind == KindEnd
}

// AsInt returns the value of an integer kind, sign-extended.
func (v Value) AsInt() (int64, bool) {
	if !v.kind.IsInteger() {
		return 0, false
	}
	return int64(v.bits), true
}

// AsFloat returns the value of a Float or Double.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return float64(math.Float32frombits(uint32(v.bits))), true
	case KindDouble:
		return math.Float64frombits(v.bits), true
	}
	return 0, false
}

// AsString returns the text of a String.
func (v Value) AsString() (string, bool) {
	s, ok := v.ref.(string)
	return s, ok && v.kind == KindString
}

// AsBytes returns the backing slice of a ByteArray.
func (v Value) AsBytes() ([]int8, bool) {
	b, ok := v.ref.([]int8)
	return b, ok
}

// AsInts returns the backing slice of an IntArray.
func (v Value) AsInts() ([]int32, bool) {
	s, ok := v.ref.([]int32)
	return s, ok
}

// AsLongs returns the backing slice of a LongArray.
func (v Value) AsLongs() ([]int64, bool) {
	s, ok := v.ref.([]int64)
	return s, ok
}

// AsList returns the list held by v.
func (v Value) AsList() (*List, bool) {
	l, ok := v.ref.(*List)
	return l, ok
}

// AsCompound returns the compound held by v.
func (v Value) AsCompound() (*Compound, bool) {
	c, ok := v.ref.(*Compound)
	return c, ok
}

// Native returns the payload as its natural Go type: int8, int16, int32,
// int64, float32, float64, string, []int8, []int32, []int64, *List or
// *Compound. The zero Value yields nil.
func (v Value) Native() any {
	switch v.kind {
	case KindByte:
		return int8(v.bits)
	case KindShort:
		return int16(v.bits)
	case KindInt:
		return int32(v.bits)
	case KindLong:
		return int64(v.bits)
	case KindFloat:
		return math.Float32frombits(uint32(v.bits))
	case KindDouble:
		return math.Float64frombits(v.bits)
	case KindEnd:
		return nil
	}
	return v.ref
}

// Equal reports structural equality: same kind, same payload and, for
// containers, equal children in the same order. Floats compare by bit
// pattern so NaN payloads survive a round trip.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEnd:
		return true
	case KindString:
		return v.ref.(string) == o.ref.(string)
	case KindByteArray:
		return slices.Equal(v.ref.([]int8), o.ref.([]int8))
	case KindIntArray:
		return slices.Equal(v.ref.([]int32), o.ref.([]int32))
	case KindLongArray:
		return slices.Equal(v.ref.([]int64), o.ref.([]int64))
	case KindList:
		return v.ref.(*List).Equal(o.ref.(*List))
	case KindCompound:
		return v.ref.(*Compound).Equal(o.ref.(*Compound))
	}
	return v.bits == o.bits
}

// Clone returns a deep copy of v. Arrays and containers are duplicated.
func (v Value) Clone() Value {
	switch v.kind {
	case KindByteArray:
		return ByteArray(slices.Clone(v.ref.([]int8)))
	case KindIntArray:
		return IntArray(slices.Clone(v.ref.([]int32)))
	case KindLongArray:
		return LongArray(slices.Clone(v.ref.([]int64)))
	case KindList:
		return ListValue(v.ref.(*List).Clone())
	case KindCompound:
		return CompoundValue(v.ref.(*Compound).Clone())
	}
	return v
}
