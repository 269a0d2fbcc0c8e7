package nbt

import (
	"encoding/binary"
	"unsafe"
)

type fixedInt interface {
	int8 | int32 | int64
}

// bytesOf views the backing memory of s as bytes without copying. Array
// payloads are read into and written from this view.
func bytesOf[T fixedInt](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}

// fromBigEndian converts elements that were read raw off the wire into host
// order, in place.
func fromBigEndian[T fixedInt](s []T) {
	switch v := any(s).(type) {
	case []int32:
		b := bytesOf(v)
		for i := range v {
			v[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
		}
	case []int64:
		b := bytesOf(v)
		for i := range v {
			v[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
		}
	}
}
