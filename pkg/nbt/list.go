package nbt

import (
	"fmt"
	"iter"
	"slices"
)

// List is an ordered sequence of values sharing one element kind. A list
// whose element kind is End has not been typed yet and adopts the kind of
// the first value appended to it.
type List struct {
	elem  Kind
	items []Value
}

// NewList returns an empty list of the given element kind. Pass KindEnd for
// an untyped list.
func NewList(elem Kind) *List {
	return &List{elem: elem}
}

// listOf builds a list from values that must all share one kind.
func listOf(values []Value) (*List, error) {
	l := &List{items: make([]Value, 0, len(values))}
	for _, v := range values {
		if err := l.Append(v); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ElemKind returns the element kind, KindEnd when untyped.
func (l *List) ElemKind() Kind {
	return l.elem
}

// Len returns the number of elements.
func (l *List) Len() int {
	return len(l.items)
}

// At returns the element at index i. It panics if i is out of range.
func (l *List) At(i int) Value {
	return l.items[i]
}

func (l *List) accepts(v Value) error {
	if v.kind == KindEnd || !v.kind.Valid() {
		return fmt.Errorf("%w: cannot store %s in a list", ErrInvalidKind, v.kind)
	}
	if l.elem != KindEnd && v.kind != l.elem {
		return fmt.Errorf("%w: %s element in list of %s", ErrListKindMismatch, v.kind, l.elem)
	}
	return nil
}

// Append adds v at the end. An untyped list takes v's kind.
func (l *List) Append(v Value) error {
	if err := l.accepts(v); err != nil {
		return err
	}
	l.elem = v.kind
	l.items = append(l.items, v)
	return nil
}

// Set replaces the element at index i.
func (l *List) Set(i int, v Value) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(l.items))
	}
	if err := l.accepts(v); err != nil {
		return err
	}
	l.items[i] = v
	return nil
}

// RemoveAt removes and returns the element at index i. The element kind is
// kept even when the list becomes empty.
func (l *List) RemoveAt(i int) (Value, error) {
	if i < 0 || i >= len(l.items) {
		return Value{}, fmt.Errorf("%w: index %d of %d", ErrNotFound, i, len(l.items))
	}
	v := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	return v, nil
}

// SetKind declares the element kind of an empty list. A non-empty list only
// accepts its current kind.
func (l *List) SetKind(k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidKind, byte(k))
	}
	if len(l.items) > 0 && k != l.elem {
		return fmt.Errorf("%w: list of %d %s cannot become %s", ErrListKindMismatch, len(l.items), l.elem, k)
	}
	l.elem = k
	return nil
}

// Clear drops every element, keeping the element kind.
func (l *List) Clear() {
	clear(l.items)
	l.items = l.items[:0]
}

// All iterates over the elements in order.
func (l *List) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Equal reports whether both lists have the same element kind and equal
// elements in the same order.
func (l *List) Equal(o *List) bool {
	if l == nil || o == nil {
		return l == o
	}
	if l.elem != o.elem || len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of l.
func (l *List) Clone() *List {
	out := &List{elem: l.elem, items: make([]Value, len(l.items))}
	for i, v := range l.items {
		out.items[i] = v.Clone()
	}
	return out
}
