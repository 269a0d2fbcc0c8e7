package nbt

import (
	"bytes"
	"encoding/binary"
)

// wire builds raw NBT byte streams for decoder tests.
type wire struct {
	buf bytes.Buffer
}

func (w *wire) kind(k Kind) *wire {
	w.buf.WriteByte(byte(k))
	return w
}

func (w *wire) raw(b ...byte) *wire {
	w.buf.Write(b)
	return w
}

func (w *wire) str(s string) *wire {
	_ = binary.Write(&w.buf, binary.BigEndian, uint16(len(s)))
	w.buf.WriteString(s)
	return w
}

func (w *wire) i16(n int16) *wire {
	_ = binary.Write(&w.buf, binary.BigEndian, n)
	return w
}

func (w *wire) i32(n int32) *wire {
	_ = binary.Write(&w.buf, binary.BigEndian, n)
	return w
}

func (w *wire) i64(n int64) *wire {
	_ = binary.Write(&w.buf, binary.BigEndian, n)
	return w
}

func (w *wire) named(k Kind, name string) *wire {
	return w.kind(k).str(name)
}

func (w *wire) end() *wire {
	return w.kind(KindEnd)
}

func (w *wire) bytes() []byte {
	return bytes.Clone(w.buf.Bytes())
}

// sampleTree builds a tree exercising every kind.
func sampleTree() *Tree {
	t := NewTree("Level")
	root := t.Root
	_ = root.Put("byte", Byte(-7))
	_ = root.Put("short", Short(-1234))
	_ = root.Put("int", Int(123456))
	_ = root.Put("long", Long(-9876543210))
	_ = root.Put("float", Float(3.5))
	_ = root.Put("double", Double(3.7))
	_ = root.Put("string", String("ma boîte dans ton œil"))
	_ = root.Put("bytes", ByteArray([]int8{0, 1, -1, 127, -128}))
	_ = root.Put("ints", IntArray([]int32{1, -2, 1 << 30}))
	_ = root.Put("longs", LongArray([]int64{1 << 40, -5}))

	doubles := NewList(KindEnd)
	_ = doubles.Append(Double(0.5))
	_ = doubles.Append(Double(64))
	_ = root.Put("pos", ListValue(doubles))

	_ = root.Put("empty", ListValue(NewList(KindEnd)))
	_ = root.Put("typedEmpty", ListValue(NewList(KindInt)))

	nested := NewCompound()
	_ = nested.Put("name", String("Steve"))
	_ = nested.Put("health", Short(20))
	_ = root.Put("player", CompoundValue(nested))

	items := NewList(KindCompound)
	for i := range 3 {
		item := NewCompound()
		_ = item.Put("slot", Byte(int8(i)))
		_ = item.Put("id", String("minecraft:stone"))
		_ = items.Append(CompoundValue(item))
	}
	_ = root.Put("inventory", ListValue(items))

	lists := NewList(KindList)
	inner := NewList(KindString)
	_ = inner.Append(String("a"))
	_ = lists.Append(ListValue(inner))
	_ = lists.Append(ListValue(NewList(KindEnd)))
	_ = root.Put("lists", ListValue(lists))
	return t
}
