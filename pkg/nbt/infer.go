package nbt

import (
	"fmt"
	"slices"
)

// Infer converts a native Go value to a Value using default kinds:
//
//	int, int8 ... uint64     Long
//	float32, float64         Double
//	bool                     Byte (0 or 1)
//	string                   String
//	[]int8, []byte           ByteArray
//	[]int16, []uint16        IntArray
//	[]int32, []uint32        IntArray
//	[]int64, []int           LongArray
//	*List, []Value, []any    List
//	*Compound, map[string]any Compound
//	Value                    unchanged
//
// []any elements and map values are inferred recursively; map entries are
// inserted in sorted name order. Callers narrow kinds later with
// Compound.SetKind.
func Infer(native any) (Value, error) {
	switch v := native.(type) {
	case nil:
		return Value{}, fmt.Errorf("%w: nil has no kind", ErrKindMismatch)
	case Value:
		if v.kind == KindEnd {
			return Value{}, fmt.Errorf("%w: zero value has no kind", ErrKindMismatch)
		}
		return v, nil
	case bool:
		if v {
			return Byte(1), nil
		}
		return Byte(0), nil
	case float32:
		return Double(float64(v)), nil
	case float64:
		return Double(v), nil
	case string:
		return String(v), nil
	case []int8, []byte:
		return arrayValue(KindByteArray, v)
	case []int32:
		return IntArray(v), nil
	case []int16, []uint16, []uint32:
		return arrayValue(KindIntArray, v)
	case []int64:
		return LongArray(v), nil
	case []int:
		return arrayValue(KindLongArray, v)
	case *List:
		return ListValue(v), nil
	case *Compound:
		return CompoundValue(v), nil
	case []Value:
		l, err := listOf(v)
		if err != nil {
			return Value{}, err
		}
		return ListValue(l), nil
	case []any:
		l := NewList(KindEnd)
		for i, elem := range v {
			iv, err := Infer(elem)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			if err := l.Append(iv); err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return ListValue(l), nil
	case map[string]any:
		c := NewCompound()
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := c.Set(name, v[name]); err != nil {
				return Value{}, err
			}
		}
		return CompoundValue(c), nil
	}

	n, ok, err := wholeNumber(native)
	if err != nil {
		return Value{}, err
	}
	if ok {
		return Long(n), nil
	}
	return Value{}, fmt.Errorf("%w: cannot infer a kind for %T", ErrKindMismatch, native)
}

// Plain is the inverse of Infer: it returns v's payload with containers
// expanded recursively into map[string]any and []any, suitable for generic
// encoders. Scalars and arrays are returned as by Native.
func (v Value) Plain() any {
	switch v.kind {
	case KindCompound:
		c := v.ref.(*Compound)
		m := make(map[string]any, len(c.entries))
		for _, e := range c.entries {
			m[e.name] = e.value.Plain()
		}
		return m
	case KindList:
		l := v.ref.(*List)
		s := make([]any, len(l.items))
		for i, item := range l.items {
			s[i] = item.Plain()
		}
		return s
	}
	return v.Native()
}
