package nbt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		kind    Kind
		native  any
		want    Value
		wantErr error
	}{
		{"byte from int", KindByte, 100, Byte(100), nil},
		{"byte overflow", KindByte, 300, Value{}, ErrKindOverflow},
		{"short from int16", KindShort, int16(-5), Short(-5), nil},
		{"int from uint16", KindInt, uint16(65535), Int(65535), nil},
		{"long from uint64 overflow", KindLong, uint64(math.MaxUint64), Value{}, ErrKindOverflow},
		{"float from float64", KindFloat, 1.5, Float(1.5), nil},
		{"float overflow", KindFloat, 1e300, Value{}, ErrKindOverflow},
		{"double from int", KindDouble, 3, Double(3), nil},
		{"string", KindString, "hi", String("hi"), nil},
		{"string from number", KindString, 42, Value{}, ErrKindMismatch},
		{"string not utf8", KindString, "\xff\xfe", Value{}, ErrMalformedText},
		{"int array from uint16", KindIntArray, []uint16{1, 2}, IntArray([]int32{1, 2}), nil},
		{"int from string", KindInt, "42", Value{}, ErrKindMismatch},
		{"int from float", KindInt, 4.2, Value{}, ErrKindMismatch},
		{"byte array from bytes", KindByteArray, []byte{0xff, 1}, ByteArray([]int8{-1, 1}), nil},
		{"int array from ints", KindIntArray, []int{1, 2}, IntArray([]int32{1, 2}), nil},
		{"int array overflow", KindIntArray, []int64{1 << 40}, Value{}, ErrKindOverflow},
		{"long array from int32s", KindLongArray, []int32{-1}, LongArray([]int64{-1}), nil},
		{"array from string", KindByteArray, "abc", Value{}, ErrKindMismatch},
		{"value of other kind", KindInt, Long(1), Value{}, ErrKindMismatch},
		{"value of same kind", KindLong, Long(1), Long(1), nil},
		{"end kind", KindEnd, 1, Value{}, ErrInvalidKind},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := New(tc.kind, tc.native)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v (%s), want %v (%s)", got, got.Kind(), tc.want, tc.want.Kind())
		})
	}
}

func TestNewContainers(t *testing.T) {
	v, err := New(KindList, []Value{Int(1), Int(2)})
	require.NoError(t, err)
	l, ok := v.AsList()
	require.True(t, ok)
	assert.Equal(t, KindInt, l.ElemKind())
	assert.Equal(t, 2, l.Len())

	_, err = New(KindList, []Value{Int(1), String("x")})
	assert.ErrorIs(t, err, ErrListKindMismatch)

	v, err = New(KindCompound, map[string]any{"b": 1, "a": "x"})
	require.NoError(t, err)
	c, ok := v.AsCompound()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, c.Names())

	_, err = New(KindCompound, 1)
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestAccessors(t *testing.T) {
	n, ok := Short(-3).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(-3), n)

	_, ok = Double(1).AsInt()
	assert.False(t, ok)

	f, ok := Float(2.25).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 2.25, f)

	s, ok := String("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Int(1).AsString()
	assert.False(t, ok)

	b, ok := ByteArray(nil).AsBytes()
	assert.True(t, ok)
	assert.NotNil(t, b)
	assert.Empty(t, b)

	assert.Equal(t, int8(5), Byte(5).Native())
	assert.Equal(t, int16(5), Short(5).Native())
	assert.Equal(t, int32(5), Int(5).Native())
	assert.Equal(t, int64(5), Long(5).Native())
	assert.Equal(t, float32(0.5), Float(0.5).Native())
	assert.Equal(t, 0.5, Double(0.5).Native())
	assert.Equal(t, "s", String("s").Native())
	assert.Equal(t, []int32{1}, IntArray([]int32{1}).Native())
	assert.Nil(t, Value{}.Native())
	assert.True(t, Value{}.IsZero())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Long(1)), "kind is part of equality")
	assert.False(t, Int(1).Equal(Int(2)))

	nan := math.Float64frombits(0x7ff8000000000001)
	assert.True(t, Double(nan).Equal(Double(nan)))

	assert.True(t, LongArray([]int64{1, 2}).Equal(LongArray([]int64{1, 2})))
	assert.False(t, LongArray([]int64{1, 2}).Equal(LongArray([]int64{2, 1})))

	a := sampleTree()
	b := sampleTree()
	assert.True(t, a.Equal(b))

	_ = b.Root.Put("int", Int(0))
	assert.False(t, a.Equal(b))
}

func TestValueClone(t *testing.T) {
	orig := sampleTree()
	cp := CompoundValue(orig.Root).Clone()
	c, _ := cp.AsCompound()
	require.True(t, c.Equal(orig.Root))

	ints, _ := c.Get("ints")
	arr, _ := ints.AsInts()
	arr[0] = 99

	player, _ := c.GetCompound("player")
	_ = player.Put("name", String("Alex"))

	origInts, _ := orig.Root.Get("ints")
	origArr, _ := origInts.AsInts()
	assert.Equal(t, int32(1), origArr[0])

	origPlayer, _ := orig.Root.GetCompound("player")
	name, _ := origPlayer.Get("name")
	assert.Equal(t, "'Steve'", name.String())
}

func TestInfer(t *testing.T) {
	testCases := []struct {
		name   string
		native any
		kind   Kind
	}{
		{"int", 7, KindLong},
		{"int8", int8(7), KindLong},
		{"uint32", uint32(7), KindLong},
		{"float32", float32(1.5), KindDouble},
		{"float64", 1.5, KindDouble},
		{"bool", true, KindByte},
		{"string", "x", KindString},
		{"int8 slice", []int8{1}, KindByteArray},
		{"byte slice", []byte{1}, KindByteArray},
		{"int16 slice", []int16{1}, KindIntArray},
		{"uint16 slice", []uint16{1}, KindIntArray},
		{"int32 slice", []int32{1}, KindIntArray},
		{"uint32 slice", []uint32{1}, KindIntArray},
		{"int64 slice", []int64{1}, KindLongArray},
		{"int slice", []int{1}, KindLongArray},
		{"list", NewList(KindEnd), KindList},
		{"any slice", []any{1, 2}, KindList},
		{"compound", NewCompound(), KindCompound},
		{"map", map[string]any{"a": 1.0}, KindCompound},
		{"value", Short(1), KindShort},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Infer(tc.native)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, v.Kind())
		})
	}

	_, err := Infer(nil)
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = Infer(struct{}{})
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = Infer([]any{1, "mixed"})
	assert.ErrorIs(t, err, ErrListKindMismatch)
	_, err = Infer(Value{})
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = Infer([]uint32{math.MaxUint32})
	assert.ErrorIs(t, err, ErrKindOverflow)

	v, err := Infer([]uint16{0, math.MaxUint16})
	require.NoError(t, err)
	assert.Equal(t, IntArray([]int32{0, math.MaxUint16}), v)
}

func TestInferNested(t *testing.T) {
	v, err := Infer(map[string]any{
		"name": "Steve",
		"pos":  []any{0.5, 64.0, -12.25},
		"inv": []any{
			map[string]any{"id": "stone", "count": 64},
		},
	})
	require.NoError(t, err)
	c, _ := v.AsCompound()
	assert.Equal(t, []string{"inv", "name", "pos"}, c.Names())

	pos, ok := c.GetList("pos")
	require.True(t, ok)
	assert.Equal(t, KindDouble, pos.ElemKind())

	inv, _ := c.GetList("inv")
	assert.Equal(t, KindCompound, inv.ElemKind())
	item, _ := inv.At(0).AsCompound()
	count, _ := item.Get("count")
	assert.Equal(t, KindLong, count.Kind())
}

func TestPlain(t *testing.T) {
	in := map[string]any{
		"name": "Steve",
		"pos":  []any{0.5, 64.0},
		"inv": []any{
			map[string]any{"id": "stone", "count": int64(64)},
		},
		"heights": []int32{1, 2},
	}
	v, err := Infer(in)
	require.NoError(t, err)

	assert.Equal(t, in, v.Plain())
	assert.Equal(t, int16(3), Short(3).Plain())
	assert.Nil(t, Value{}.Plain())

	// Plain output infers back to an equal tree
	again, err := Infer(v.Plain())
	require.NoError(t, err)
	assert.True(t, v.Equal(again))
}
