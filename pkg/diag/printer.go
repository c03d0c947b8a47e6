package diag

import (
	"io"

	"github.com/fatih/color"
)

// Printer renders diagnostics to a writer, optionally coloured.
type Printer struct {
	w       io.Writer
	static  *color.Color
	runtime *color.Color
}

// NewPrinter returns a printer writing to w. Colour escapes are only emitted
// when useColor is set.
func NewPrinter(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		w:       w,
		static:  color.New(color.FgRed),
		runtime: color.New(color.FgRed, color.Bold),
	}
	if useColor {
		p.static.EnableColor()
		p.runtime.EnableColor()
	} else {
		p.static.DisableColor()
		p.runtime.DisableColor()
	}
	return p
}

// Print writes one diagnostic followed by a newline.
func (p *Printer) Print(d Diagnostic) {
	c := p.static
	if d.Phase == PhaseRuntime {
		c = p.runtime
	}
	c.Fprintln(p.w, d.String())
}

// Sink adapts the printer for use with NewReporter.
func (p *Printer) Sink() Sink {
	return p.Print
}
