package nbt

import (
	"fmt"
	"strings"
)

// Kind identifies the declared type of a tag. Values are wire ids and must
// never change.
type Kind byte

const (
	KindEnd       Kind = 0
	KindByte      Kind = 1
	KindShort     Kind = 2
	KindInt       Kind = 3
	KindLong      Kind = 4
	KindFloat     Kind = 5
	KindDouble    Kind = 6
	KindByteArray Kind = 7
	KindString    Kind = 8
	KindList      Kind = 9
	KindCompound  Kind = 10
	KindIntArray  Kind = 11
	KindLongArray Kind = 12
)

// Shape groups kinds by how their payload is laid out on the wire.
type Shape uint8

const (
	ShapeNone      Shape = iota // End marker, no payload
	ShapeFixed                  // fixed-width number
	ShapeText                   // u16 length + UTF-8
	ShapeArray                  // i32 count + fixed-width elements
	ShapeList                   // element kind + i32 count + payloads
	ShapeCompound               // named tags until End
)

type kindInfo struct {
	name  string
	short string
	shape Shape
	width int // payload width for fixed kinds, element width for arrays
}

var registry = [...]kindInfo{
	KindEnd:       {"TAG_End", "end", ShapeNone, 0},
	KindByte:      {"TAG_Byte", "byte", ShapeFixed, 1},
	KindShort:     {"TAG_Short", "short", ShapeFixed, 2},
	KindInt:       {"TAG_Int", "int", ShapeFixed, 4},
	KindLong:      {"TAG_Long", "long", ShapeFixed, 8},
	KindFloat:     {"TAG_Float", "float", ShapeFixed, 4},
	KindDouble:    {"TAG_Double", "double", ShapeFixed, 8},
	KindByteArray: {"TAG_Byte_Array", "bytearray", ShapeArray, 1},
	KindString:    {"TAG_String", "string", ShapeText, 0},
	KindList:      {"TAG_List", "list", ShapeList, 0},
	KindCompound:  {"TAG_Compound", "compound", ShapeCompound, 0},
	KindIntArray:  {"TAG_Int_Array", "intarray", ShapeArray, 4},
	KindLongArray: {"TAG_Long_Array", "longarray", ShapeArray, 8},
}

// KindOf maps a wire id to its Kind.
func KindOf(id byte) (Kind, error) {
	if int(id) >= len(registry) {
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidKind, id)
	}
	return Kind(id), nil
}

// ID returns the wire id of k.
func (k Kind) ID() byte {
	return byte(k)
}

// Valid reports whether k is a registered kind, End included.
func (k Kind) Valid() bool {
	return int(k) < len(registry)
}

// Shape returns the payload layout of k.
func (k Kind) Shape() Shape {
	if !k.Valid() {
		return ShapeNone
	}
	return registry[k].shape
}

// Width returns the byte width of a fixed kind's payload, or of one element
// for array kinds. It is zero for every other kind.
func (k Kind) Width() int {
	if !k.Valid() {
		return 0
	}
	return registry[k].width
}

// IsInteger reports whether k is one of the four signed integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindByte && k <= KindLong
}

// IsFloat reports whether k is Float or Double.
func (k Kind) IsFloat() bool {
	return k == KindFloat || k == KindDouble
}

// IsNumeric reports whether k is a fixed-width scalar.
func (k Kind) IsNumeric() bool {
	return k.Shape() == ShapeFixed
}

// IsArray reports whether k is ByteArray, IntArray or LongArray.
func (k Kind) IsArray() bool {
	return k.Shape() == ShapeArray
}

// String returns the conventional TAG_* name of k.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("TAG_Unknown(%d)", byte(k))
	}
	return registry[k].name
}

// ParseKind accepts a TAG_* name or its short lowercase form ("int",
// "bytearray", ...), case-insensitively.
func ParseKind(name string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for k, info := range registry {
		if lower == strings.ToLower(info.name) || lower == info.short {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, name)
}

// elemKind returns the scalar kind of one element of an array kind.
func (k Kind) elemKind() Kind {
	switch k {
	case KindByteArray:
		return KindByte
	case KindIntArray:
		return KindInt
	case KindLongArray:
		return KindLong
	}
	return KindEnd
}
