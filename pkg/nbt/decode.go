package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"unicode/utf8"
	"unsafe"
)

const (
	// DefaultMaxDepth bounds container nesting while decoding.
	DefaultMaxDepth = 512

	// arrays and lists are read in chunks of at most this many bytes so a
	// corrupt count fails on the short stream before its full size is
	// allocated
	chunkBytes = 64 << 10
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// Decoder reads NBT documents from a stream. Readers that do not implement
// io.ByteReader are wrapped in a bufio.Reader, which may read past the end
// of the document.
type Decoder struct {
	r        byteReader
	off      int64
	scratch  [8]byte
	MaxDepth int // zero means DefaultMaxDepth
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br}
}

// Unmarshal decodes a single document from data. Bytes after the root
// compound are ignored.
func Unmarshal(data []byte) (*Tree, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.off
}

// Decode reads one document whose root must be a Compound.
func (d *Decoder) Decode() (*Tree, error) {
	start := d.off
	name, v, err := d.DecodeNamed()
	if err != nil {
		return nil, err
	}
	root, ok := v.AsCompound()
	if !ok {
		return nil, &DecodeError{
			Offset: start,
			ID:     v.kind.ID(),
			Err:    fmt.Errorf("%w: root is %s", ErrKindMismatch, v.kind),
		}
	}
	return &Tree{Name: name, Root: root}, nil
}

// DecodeNamed reads one named tag of any kind.
func (d *Decoder) DecodeNamed() (string, Value, error) {
	start := d.off
	k, err := d.readKind()
	if err != nil {
		return "", Value{}, err
	}
	if k == KindEnd {
		return "", Value{}, &DecodeError{Offset: start, Err: ErrUnexpectedEnd}
	}
	name, err := d.readString()
	if err != nil {
		return "", Value{}, err
	}
	v, err := d.readPayload(k, 0)
	if err != nil {
		return "", Value{}, err
	}
	return name, v, nil
}

func (d *Decoder) fail(offset int64, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}

func (d *Decoder) readFull(p []byte) error {
	n, err := io.ReadFull(d.r, p)
	d.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return d.fail(d.off, ErrTruncatedStream)
		}
		return fmt.Errorf("nbt: read at offset %d: %w", d.off, err)
	}
	return nil
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, d.fail(d.off, ErrTruncatedStream)
		}
		return 0, fmt.Errorf("nbt: read at offset %d: %w", d.off, err)
	}
	d.off++
	return b, nil
}

func (d *Decoder) readU16() (uint16, error) {
	if err := d.readFull(d.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(d.scratch[:2]), nil
}

func (d *Decoder) readU32() (uint32, error) {
	if err := d.readFull(d.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(d.scratch[:4]), nil
}

func (d *Decoder) readU64() (uint64, error) {
	if err := d.readFull(d.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(d.scratch[:8]), nil
}

func (d *Decoder) readKind() (Kind, error) {
	start := d.off
	id, err := d.readByte()
	if err != nil {
		return 0, err
	}
	k, err := KindOf(id)
	if err != nil {
		return 0, &DecodeError{Offset: start, ID: id, Err: ErrInvalidKind}
	}
	return k, nil
}

func (d *Decoder) readString() (string, error) {
	n, err := d.readU16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	start := d.off
	buf := make([]byte, n)
	if err := d.readFull(buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", d.fail(start, ErrMalformedText)
	}
	// buf is never touched again
	return unsafe.String(&buf[0], len(buf)), nil
}

func (d *Decoder) readCount() (int, error) {
	start := d.off
	u, err := d.readU32()
	if err != nil {
		return 0, err
	}
	n := int32(u)
	if n < 0 {
		return 0, d.fail(start, fmt.Errorf("%w: %d", ErrNegativeLength, n))
	}
	return int(n), nil
}

func (d *Decoder) enter(depth int) error {
	limit := d.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if depth >= limit {
		return d.fail(d.off, ErrDepthExceeded)
	}
	return nil
}

func (d *Decoder) readPayload(k Kind, depth int) (Value, error) {
	switch k {
	case KindByte:
		b, err := d.readByte()
		return Byte(int8(b)), err
	case KindShort:
		u, err := d.readU16()
		return Short(int16(u)), err
	case KindInt:
		u, err := d.readU32()
		return Int(int32(u)), err
	case KindLong:
		u, err := d.readU64()
		return Long(int64(u)), err
	case KindFloat:
		u, err := d.readU32()
		return Float(math.Float32frombits(u)), err
	case KindDouble:
		u, err := d.readU64()
		return Double(math.Float64frombits(u)), err
	case KindString:
		s, err := d.readString()
		return String(s), err
	case KindByteArray:
		s, err := readArray[int8](d)
		return ByteArray(s), err
	case KindIntArray:
		s, err := readArray[int32](d)
		return IntArray(s), err
	case KindLongArray:
		s, err := readArray[int64](d)
		return LongArray(s), err
	case KindList:
		l, err := d.readList(depth)
		return ListValue(l), err
	case KindCompound:
		c, err := d.readCompound(depth)
		return CompoundValue(c), err
	}
	return Value{}, d.fail(d.off, ErrUnexpectedEnd)
}

// readArray reads a count and that many big-endian elements straight into
// the returned slice.
func readArray[T fixedInt](d *Decoder) ([]T, error) {
	n, err := d.readCount()
	if err != nil {
		return nil, err
	}
	var zero T
	step := chunkBytes / int(unsafe.Sizeof(zero))
	out := make([]T, 0, min(n, step))
	for len(out) < n {
		k := min(n-len(out), step)
		out = slices.Grow(out, k)
		seg := out[len(out) : len(out)+k]
		if err := d.readFull(bytesOf(seg)); err != nil {
			return nil, err
		}
		fromBigEndian(seg)
		out = out[:len(out)+k]
	}
	return out, nil
}

func (d *Decoder) readList(depth int) (*List, error) {
	if err := d.enter(depth); err != nil {
		return nil, err
	}
	elem, err := d.readKind()
	if err != nil {
		return nil, err
	}
	start := d.off
	n, err := d.readCount()
	if err != nil {
		return nil, err
	}
	if elem == KindEnd && n > 0 {
		return nil, d.fail(start, fmt.Errorf("%w: list of %d end tags", ErrUnexpectedEnd, n))
	}
	l := &List{elem: elem, items: make([]Value, 0, min(n, chunkBytes/int(unsafe.Sizeof(Value{}))))}
	for range n {
		v, err := d.readPayload(elem, depth+1)
		if err != nil {
			return nil, err
		}
		l.items = append(l.items, v)
	}
	return l, nil
}

func (d *Decoder) readCompound(depth int) (*Compound, error) {
	if err := d.enter(depth); err != nil {
		return nil, err
	}
	c := NewCompound()
	for {
		start := d.off
		k, err := d.readKind()
		if err != nil {
			return nil, err
		}
		if k == KindEnd {
			return c, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		if c.Has(name) {
			return nil, &DecodeError{Offset: start, Name: name, Err: ErrDuplicateName}
		}
		v, err := d.readPayload(k, depth+1)
		if err != nil {
			return nil, err
		}
		c.put(name, v)
	}
}
