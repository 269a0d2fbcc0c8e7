package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ssargent/nbt/pkg/nbt"
)

// useColor reports whether output written to w should carry ANSI colour.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printerFor returns the configured printer, coloured when w is a terminal.
func (e *env) printerFor(w io.Writer) nbt.Printer {
	p := e.cfg.Printer()
	if !useColor(e.cfg.Output.Color, w) {
		return p
	}

	kind := color.New(color.FgCyan)
	kind.EnableColor()
	name := color.New(color.FgYellow, color.Bold)
	name.EnableColor()

	p.KindStyle = func(s string) string { return kind.Sprint(s) }
	p.NameStyle = func(s string) string { return name.Sprint(s) }
	return p
}

// status colours short confirmation messages.
func status(w io.Writer, mode string, format string, args ...any) {
	c := color.New(color.FgGreen)
	if useColor(mode, w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(w, format, args...)
}
