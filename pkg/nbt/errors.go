package nbt

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidKind          = errors.New("nbt: invalid kind")
	ErrUnexpectedEnd        = errors.New("nbt: unexpected end tag")
	ErrTruncatedStream      = errors.New("nbt: truncated stream")
	ErrNegativeLength       = errors.New("nbt: negative length")
	ErrMalformedText        = errors.New("nbt: malformed text")
	ErrDuplicateName        = errors.New("nbt: duplicate name")
	ErrDepthExceeded        = errors.New("nbt: nesting too deep")
	ErrKindMismatch         = errors.New("nbt: kind mismatch")
	ErrKindOverflow         = errors.New("nbt: value does not fit kind")
	ErrIncompatibleCoercion = errors.New("nbt: incompatible coercion")
	ErrListKindMismatch     = errors.New("nbt: list kind mismatch")
	ErrStringTooLong        = errors.New("nbt: string too long")
	ErrNotFound             = errors.New("nbt: not found")
	ErrInvalidPath          = errors.New("nbt: invalid path")
)

// DecodeError describes the first structural violation found while decoding.
type DecodeError struct {
	Offset int64 // byte offset where the violation was detected
	ID     byte  // offending kind id, meaningful for ErrInvalidKind
	Name   string
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidKind):
		return fmt.Sprintf("%v 0x%02x at offset %d", e.Err, e.ID, e.Offset)
	case e.Name != "":
		return fmt.Sprintf("%v %q at offset %d", e.Err, e.Name, e.Offset)
	default:
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
