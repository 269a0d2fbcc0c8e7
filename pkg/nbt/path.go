package nbt

import (
	"fmt"
	"strconv"
	"strings"
)

// PathElem is one step of a Path: a compound entry name or a list index.
type PathElem struct {
	Name    string
	Index   int
	IsIndex bool
}

// Path addresses a value below a root compound, e.g.
//
//	Data.Player.Inventory[0].id
//	"odd.name"[2]
//
// Names containing '.', '[' or '"' must be double-quoted; inside quotes,
// backslash escapes the next character.
type Path []PathElem

// ParsePath parses the textual form of a path. The empty string addresses
// the root itself.
func ParsePath(s string) (Path, error) {
	var p Path
	i := 0
	for i < len(s) {
		var name string
		quoted := s[i] == '"'
		if quoted {
			var sb strings.Builder
			j := i + 1
			for ; j < len(s) && s[j] != '"'; j++ {
				if s[j] == '\\' && j+1 < len(s) {
					j++
				}
				sb.WriteByte(s[j])
			}
			if j >= len(s) {
				return nil, fmt.Errorf("%w: unterminated quote in %q", ErrInvalidPath, s)
			}
			name = sb.String()
			i = j + 1
		} else {
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			name = s[i:j]
			if name == "" && (j >= len(s) || s[j] == '.') {
				return nil, fmt.Errorf("%w: empty name at %d in %q", ErrInvalidPath, i, s)
			}
			i = j
		}
		if quoted || name != "" {
			p = append(p, PathElem{Name: name})
		}

		for i < len(s) && s[i] == '[' {
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated index in %q", ErrInvalidPath, s)
			}
			n, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, s[i+1:i+end], s)
			}
			p = append(p, PathElem{Index: n, IsIndex: true})
			i += end + 1
		}

		if i < len(s) {
			if s[i] != '.' || i == len(s)-1 {
				return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrInvalidPath, s[i], i, s)
			}
			i++
		}
	}
	return p, nil
}

// String returns the textual form of p, quoting names where needed.
func (p Path) String() string {
	var sb strings.Builder
	for i, e := range p {
		if e.IsIndex {
			fmt.Fprintf(&sb, "[%d]", e.Index)
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		if e.Name == "" || strings.ContainsAny(e.Name, `.["\`) {
			sb.WriteByte('"')
			for _, r := range e.Name {
				if r == '"' || r == '\\' {
					sb.WriteByte('\\')
				}
				sb.WriteRune(r)
			}
			sb.WriteByte('"')
		} else {
			sb.WriteString(e.Name)
		}
	}
	return sb.String()
}

func (e PathElem) step(cur Value, at Path) (Value, error) {
	if e.IsIndex {
		l, ok := cur.AsList()
		if !ok {
			return Value{}, fmt.Errorf("%w: %q is %s, not a list", ErrNotFound, at.String(), cur.kind)
		}
		if e.Index >= l.Len() {
			return Value{}, fmt.Errorf("%w: %q has %d elements", ErrNotFound, at.String(), l.Len())
		}
		return l.At(e.Index), nil
	}
	c, ok := cur.AsCompound()
	if !ok {
		return Value{}, fmt.Errorf("%w: %q is %s, not a compound", ErrNotFound, at.String(), cur.kind)
	}
	v, ok := c.Get(e.Name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q has no entry %q", ErrNotFound, at.String(), e.Name)
	}
	return v, nil
}

// Lookup returns the value addressed by p below root.
func Lookup(root *Compound, p Path) (Value, error) {
	cur := CompoundValue(root)
	for i, e := range p {
		v, err := e.step(cur, p[:i])
		if err != nil {
			return Value{}, err
		}
		cur = v
	}
	return cur, nil
}

// Assign stores v at p. The parent of the addressed value must exist; the
// last step may name a new compound entry but must index an existing list
// element.
func Assign(root *Compound, p Path, v Value) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: cannot replace the root", ErrInvalidPath)
	}
	parent, err := Lookup(root, p[:len(p)-1])
	if err != nil {
		return err
	}
	last := p[len(p)-1]
	if last.IsIndex {
		l, ok := parent.AsList()
		if !ok {
			return fmt.Errorf("%w: %q is %s, not a list", ErrNotFound, p[:len(p)-1].String(), parent.kind)
		}
		return l.Set(last.Index, v)
	}
	c, ok := parent.AsCompound()
	if !ok {
		return fmt.Errorf("%w: %q is %s, not a compound", ErrNotFound, p[:len(p)-1].String(), parent.kind)
	}
	return c.Put(last.Name, v)
}

// Remove deletes the value at p from its parent compound or list.
func Remove(root *Compound, p Path) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: cannot remove the root", ErrInvalidPath)
	}
	parent, err := Lookup(root, p[:len(p)-1])
	if err != nil {
		return err
	}
	last := p[len(p)-1]
	if last.IsIndex {
		l, ok := parent.AsList()
		if !ok {
			return fmt.Errorf("%w: %q is %s, not a list", ErrNotFound, p[:len(p)-1].String(), parent.kind)
		}
		_, err := l.RemoveAt(last.Index)
		return err
	}
	c, ok := parent.AsCompound()
	if !ok || !c.Delete(last.Name) {
		return fmt.Errorf("%w: %q", ErrNotFound, p.String())
	}
	return nil
}
