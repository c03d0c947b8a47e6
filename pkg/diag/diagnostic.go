package diag

import (
	"fmt"

	"lox/interpreter-go/pkg/token"
)

// Phase identifies the pipeline stage that produced a diagnostic.
type Phase int

const (
	PhaseScan Phase = iota
	PhaseParse
	PhaseResolve
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseParse:
		return "parse"
	case PhaseResolve:
		return "resolve"
	case PhaseRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("unknown_phase_%d", int(p))
	}
}

// Static reports whether diagnostics of this phase prevent interpretation.
func (p Phase) Static() bool {
	return p != PhaseRuntime
}

// Diagnostic is a single reported error. Where holds the offending lexeme
// and is empty for line-only errors. AtEnd marks errors at end of input.
type Diagnostic struct {
	Phase   Phase
	Line    int
	Where   string
	AtEnd   bool
	Message string
}

// AtToken builds a diagnostic anchored on a token.
func AtToken(phase Phase, tok token.Token, message string) Diagnostic {
	return Diagnostic{Phase: phase, Line: tok.Line, Where: tok.Lexeme, AtEnd: tok.Kind == token.EOF, Message: message}
}

func (d Diagnostic) String() string {
	if d.Phase == PhaseRuntime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	switch {
	case d.AtEnd:
		return fmt.Sprintf("[line %d] Error at end: %s", d.Line, d.Message)
	case d.Where == "":
		return fmt.Sprintf("[line %d] Error: %s", d.Line, d.Message)
	default:
		return fmt.Sprintf("[line %d] Error at '%s': %s", d.Line, d.Where, d.Message)
	}
}

func (d Diagnostic) Error() string {
	return d.String()
}
