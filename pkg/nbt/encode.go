package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// Encoder writes NBT documents to a stream. Output is buffered and flushed
// at the end of every Encode call. A failed call discards whatever it left
// in the buffer, so the encoder can be reused for the next document; bytes
// already flushed to the underlying writer are not taken back.
type Encoder struct {
	out      io.Writer
	w        *bufio.Writer
	scratch  [8]byte
	chunk    []byte
	MaxDepth int // zero means DefaultMaxDepth
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{out: w, w: bufio.NewWriter(w)}
}

// Marshal encodes t into a new byte slice.
func Marshal(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes t as a named root compound.
func (e *Encoder) Encode(t *Tree) error {
	root := t.Root
	if root == nil {
		root = NewCompound()
	}
	return e.EncodeNamed(t.Name, CompoundValue(root))
}

// EncodeNamed writes a single named tag of any kind.
func (e *Encoder) EncodeNamed(name string, v Value) error {
	if err := e.encodeNamed(name, v); err != nil {
		e.w.Reset(e.out)
		return err
	}
	return nil
}

func (e *Encoder) encodeNamed(name string, v Value) error {
	if v.kind == KindEnd || !v.kind.Valid() {
		return fmt.Errorf("%w: cannot encode %s", ErrInvalidKind, v.kind)
	}
	if err := e.w.WriteByte(v.kind.ID()); err != nil {
		return err
	}
	if err := e.writeString(name); err != nil {
		return err
	}
	if err := e.writePayload(v, 0); err != nil {
		return err
	}
	return e.w.Flush()
}

// enter bounds nesting the same way Decoder does, which also stops a
// container that holds itself.
func (e *Encoder) enter(depth int) error {
	limit := e.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if depth >= limit {
		return fmt.Errorf("%w: more than %d levels", ErrDepthExceeded, limit)
	}
	return nil
}

func (e *Encoder) writeU16(u uint16) error {
	binary.BigEndian.PutUint16(e.scratch[:2], u)
	_, err := e.w.Write(e.scratch[:2])
	return err
}

func (e *Encoder) writeU32(u uint32) error {
	binary.BigEndian.PutUint32(e.scratch[:4], u)
	_, err := e.w.Write(e.scratch[:4])
	return err
}

func (e *Encoder) writeU64(u uint64) error {
	binary.BigEndian.PutUint64(e.scratch[:8], u)
	_, err := e.w.Write(e.scratch[:8])
	return err
}

func (e *Encoder) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %d-byte string", ErrMalformedText, len(s))
	}
	if err := e.writeU16(uint16(len(s))); err != nil {
		return err
	}
	_, err := e.w.WriteString(s)
	return err
}

func (e *Encoder) writeCount(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d elements exceed a 32-bit count", ErrKindOverflow, n)
	}
	return e.writeU32(uint32(n))
}

func (e *Encoder) writePayload(v Value, depth int) error {
	switch v.kind {
	case KindByte:
		return e.w.WriteByte(byte(v.bits))
	case KindShort:
		return e.writeU16(uint16(v.bits))
	case KindInt, KindFloat:
		return e.writeU32(uint32(v.bits))
	case KindLong, KindDouble:
		return e.writeU64(v.bits)
	case KindString:
		return e.writeString(v.ref.(string))
	case KindByteArray:
		s := v.ref.([]int8)
		if err := e.writeCount(len(s)); err != nil {
			return err
		}
		_, err := e.w.Write(bytesOf(s))
		return err
	case KindIntArray:
		return writeArray(e, v.ref.([]int32))
	case KindLongArray:
		return writeArray(e, v.ref.([]int64))
	case KindList:
		return e.writeList(v.ref.(*List), depth)
	case KindCompound:
		return e.writeCompound(v.ref.(*Compound), depth)
	}
	return fmt.Errorf("%w: cannot encode %s", ErrInvalidKind, v.kind)
}

// writeArray converts elements to big-endian through a reusable chunk so
// the tree's own storage is never modified.
func writeArray[T int32 | int64](e *Encoder, s []T) error {
	if err := e.writeCount(len(s)); err != nil {
		return err
	}
	if e.chunk == nil {
		e.chunk = make([]byte, 4096)
	}
	var width int
	switch any(s).(type) {
	case []int32:
		width = 4
	default:
		width = 8
	}
	per := len(e.chunk) / width
	for len(s) > 0 {
		k := min(len(s), per)
		b := e.chunk[:k*width]
		for i, x := range s[:k] {
			if width == 4 {
				binary.BigEndian.PutUint32(b[i*4:], uint32(x))
			} else {
				binary.BigEndian.PutUint64(b[i*8:], uint64(x))
			}
		}
		if _, err := e.w.Write(b); err != nil {
			return err
		}
		s = s[k:]
	}
	return nil
}

func (e *Encoder) writeList(l *List, depth int) error {
	if err := e.enter(depth); err != nil {
		return err
	}
	if err := e.w.WriteByte(l.elem.ID()); err != nil {
		return err
	}
	if err := e.writeCount(len(l.items)); err != nil {
		return err
	}
	for _, item := range l.items {
		if err := e.writePayload(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeCompound(c *Compound, depth int) error {
	if err := e.enter(depth); err != nil {
		return err
	}
	for _, en := range c.entries {
		if err := e.w.WriteByte(en.value.kind.ID()); err != nil {
			return err
		}
		if err := e.writeString(en.name); err != nil {
			return err
		}
		if err := e.writePayload(en.value, depth+1); err != nil {
			return err
		}
	}
	return e.w.WriteByte(KindEnd.ID())
}
