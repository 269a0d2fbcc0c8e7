package nbt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer renders trees in the conventional indented form:
//
//	TAG_Compound(''): {
//	  TAG_Short('Health'): 20
//	  TAG_List('Pos') of TAG_Double: [0.5, 64, -12.25]
//	}
type Printer struct {
	Indent   string // per level, two spaces when empty
	MaxElems int    // longer arrays and scalar lists are elided; 0 prints all

	// Optional decorators for kind names and quoted entry names, used by
	// terminals that render colour.
	KindStyle func(string) string
	NameStyle func(string) string
}

// Fprint writes t to w.
func (p Printer) Fprint(w io.Writer, t *Tree) error {
	root := t.Root
	if root == nil {
		root = NewCompound()
	}
	return p.FprintNamed(w, t.Name, CompoundValue(root))
}

// FprintNamed writes a single named value to w.
func (p Printer) FprintNamed(w io.Writer, name string, v Value) error {
	if p.Indent == "" {
		p.Indent = "  "
	}
	pw := &prettyWriter{w: bufio.NewWriter(w), p: p}
	pw.value(name, true, v, 0)
	pw.print("\n")
	if pw.err != nil {
		return pw.err
	}
	return pw.w.Flush()
}

// String renders t with the default Printer.
func (t *Tree) String() string {
	var sb strings.Builder
	_ = Printer{}.Fprint(&sb, t)
	return sb.String()
}

type prettyWriter struct {
	w   *bufio.Writer
	p   Printer
	err error
}

func (pw *prettyWriter) print(parts ...string) {
	for _, s := range parts {
		if pw.err != nil {
			return
		}
		_, pw.err = pw.w.WriteString(s)
	}
}

func (pw *prettyWriter) value(name string, named bool, v Value, depth int) {
	prefix := strings.Repeat(pw.p.Indent, depth)
	pw.print(prefix, style(pw.p.KindStyle, v.kind.String()))
	if named {
		pw.print("(", style(pw.p.NameStyle, quote(name)), ")")
	}

	switch v.kind {
	case KindCompound:
		c := v.ref.(*Compound)
		if c.Len() == 0 {
			pw.print(": {}")
			return
		}
		pw.print(": {\n")
		for _, e := range c.entries {
			pw.value(e.name, true, e.value, depth+1)
			pw.print("\n")
		}
		pw.print(prefix, "}")

	case KindList:
		l := v.ref.(*List)
		pw.print(" of ", style(pw.p.KindStyle, l.elem.String()), ": ")
		switch {
		case len(l.items) == 0:
			pw.print("[]")
		case l.elem.IsNumeric():
			pw.print(joinElems(len(l.items), pw.p.MaxElems, func(i int) string { return l.items[i].String() }))
		default:
			pw.print("[\n")
			for _, item := range l.items {
				pw.value("", false, item, depth+1)
				pw.print("\n")
			}
			pw.print(prefix, "]")
		}

	case KindByteArray, KindIntArray, KindLongArray:
		pw.print(": ", v.format(pw.p.MaxElems))

	default:
		pw.print(": ", v.String())
	}
}

func style(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// String formats the payload of v. Containers are summarized rather than
// expanded; use Printer for a full dump.
func (v Value) String() string {
	return v.format(0)
}

func (v Value) format(maxElems int) string {
	switch v.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 32)
	case KindDouble:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindString:
		return quote(v.ref.(string))
	case KindByteArray:
		s := v.ref.([]int8)
		return joinElems(len(s), maxElems, func(i int) string { return strconv.Itoa(int(s[i])) })
	case KindIntArray:
		s := v.ref.([]int32)
		return joinElems(len(s), maxElems, func(i int) string { return strconv.Itoa(int(s[i])) })
	case KindLongArray:
		s := v.ref.([]int64)
		return joinElems(len(s), maxElems, func(i int) string { return strconv.FormatInt(s[i], 10) })
	case KindList:
		l := v.ref.(*List)
		return fmt.Sprintf("[%d x %s]", l.Len(), l.elem)
	case KindCompound:
		return fmt.Sprintf("{%d entries}", v.ref.(*Compound).Len())
	}
	return v.kind.String()
}

func joinElems(n, maxElems int, elem func(int) string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	shown := n
	if maxElems > 0 && n > maxElems {
		shown = maxElems
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elem(i))
	}
	if shown < n {
		fmt.Fprintf(&sb, ", ... %d more", n-shown)
	}
	sb.WriteByte(']')
	return sb.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
