package diag

import "lox/interpreter-go/pkg/token"

// Sink receives every diagnostic as soon as it is reported.
type Sink func(Diagnostic)

// Reporter accumulates diagnostics for one top-level run and tracks the two
// error signals callers care about: a static (scan, parse or resolve) error
// and an uncaught runtime error.
type Reporter struct {
	sink            Sink
	diagnostics     []Diagnostic
	hadError        bool
	hadRuntimeError bool
}

// NewReporter creates a reporter forwarding to sink, which may be nil.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Report records a diagnostic and flags the matching error signal.
func (r *Reporter) Report(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
	if d.Phase.Static() {
		r.hadError = true
	} else {
		r.hadRuntimeError = true
	}
	if r.sink != nil {
		r.sink(d)
	}
}

// Error reports a line-only lexical error.
func (r *Reporter) Error(line int, message string) {
	r.Report(Diagnostic{Phase: PhaseScan, Line: line, Message: message})
}

// ErrorAt reports a static error anchored on a token.
func (r *Reporter) ErrorAt(phase Phase, tok token.Token, message string) {
	r.Report(AtToken(phase, tok, message))
}

// RuntimeError reports an uncaught runtime error.
func (r *Reporter) RuntimeError(tok token.Token, message string) {
	r.Report(Diagnostic{Phase: PhaseRuntime, Line: tok.Line, Where: tok.Lexeme, Message: message})
}

func (r *Reporter) HadError() bool        { return r.hadError }
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Diagnostics returns a copy of everything reported since the last Reset.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Reset clears both error signals and the collected diagnostics.
func (r *Reporter) Reset() {
	r.diagnostics = nil
	r.hadError = false
	r.hadRuntimeError = false
}
