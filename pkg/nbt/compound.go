package nbt

import (
	"fmt"
	"iter"
	"slices"
)

type entry struct {
	name  string
	value Value
}

// Compound is an ordered mapping from unique names to values. Iteration and
// encoding follow insertion order; replacing a name keeps its position and
// deleting one closes the gap.
type Compound struct {
	entries []entry
	index   map[string]int
}

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{index: make(map[string]int)}
}

// Len returns the number of entries.
func (c *Compound) Len() int {
	return len(c.entries)
}

// Has reports whether name is present.
func (c *Compound) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Get returns the value stored under name.
func (c *Compound) Get(name string) (Value, bool) {
	i, ok := c.index[name]
	if !ok {
		return Value{}, false
	}
	return c.entries[i].value, true
}

// Kind returns the kind stored under name.
func (c *Compound) Kind(name string) (Kind, bool) {
	v, ok := c.Get(name)
	return v.kind, ok
}

// GetCompound returns the nested compound stored under name.
func (c *Compound) GetCompound(name string) (*Compound, bool) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	return v.AsCompound()
}

// GetList returns the list stored under name.
func (c *Compound) GetList(name string) (*List, bool) {
	v, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	return v.AsList()
}

// Put stores v under name. An existing entry is replaced in place; a new
// name is appended. Containers are stored by reference, and a compound that
// ends up holding itself cannot be encoded (ErrDepthExceeded).
func (c *Compound) Put(name string, v Value) error {
	if v.kind == KindEnd || !v.kind.Valid() {
		return fmt.Errorf("%w: cannot store %s under %q", ErrInvalidKind, v.kind, name)
	}
	c.put(name, v)
	return nil
}

func (c *Compound) put(name string, v Value) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[name]; ok {
		c.entries[i].value = v
		return
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, value: v})
}

// Set stores a native Go value under name, inferring its kind: whole
// numbers become Long, decimals Double, text String. See Infer for the full
// mapping. Use SetKind afterwards to narrow the stored kind.
func (c *Compound) Set(name string, native any) error {
	v, err := Infer(native)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	return c.Put(name, v)
}

// SetAs stores a native Go value under name with an explicit kind.
func (c *Compound) SetAs(name string, kind Kind, native any) error {
	v, err := New(kind, native)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	return c.Put(name, v)
}

// SetKind re-tags the entry stored under name, converting its value with
// Coerce. The entry keeps its position. On failure the compound is left
// unchanged.
func (c *Compound) SetKind(name string, target Kind) error {
	i, ok := c.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	v, err := Coerce(c.entries[i].value, target)
	if err != nil {
		return fmt.Errorf("set kind of %q: %w", name, err)
	}
	c.entries[i].value = v
	return nil
}

// Delete removes name and reports whether it was present. Later inserts
// append at the end rather than reusing the freed position.
func (c *Compound) Delete(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	delete(c.index, name)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].name] = j
	}
	return true
}

// Names returns the entry names in order.
func (c *Compound) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// All iterates over the entries in insertion order.
func (c *Compound) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, e := range c.entries {
			if !yield(e.name, e.value) {
				return
			}
		}
	}
}

// Equal reports whether both compounds hold equal values under the same
// names in the same order.
func (c *Compound) Equal(o *Compound) bool {
	if c == nil || o == nil {
		return c == o
	}
	if len(c.entries) != len(o.entries) {
		return false
	}
	for i := range c.entries {
		if c.entries[i].name != o.entries[i].name || !c.entries[i].value.Equal(o.entries[i].value) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of c.
func (c *Compound) Clone() *Compound {
	out := &Compound{
		entries: make([]entry, len(c.entries)),
		index:   make(map[string]int, len(c.entries)),
	}
	for i, e := range c.entries {
		out.entries[i] = entry{name: e.name, value: e.value.Clone()}
		out.index[e.name] = i
	}
	return out
}

// Tree is a decoded document: a root compound and its name, which is often
// empty but preserved across a round trip.
type Tree struct {
	Name string
	Root *Compound
}

// NewTree returns a tree with an empty root compound.
func NewTree(name string) *Tree {
	return &Tree{Name: name, Root: NewCompound()}
}

// Equal reports whether both trees have the same name and equal roots.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Name == o.Name && t.Root.Equal(o.Root)
}
