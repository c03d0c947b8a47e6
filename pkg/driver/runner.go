package driver

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/astprint"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/scanner"
)

// Exit codes for the two error signals.
const (
	ExitOK           = 0
	ExitStaticError  = 65
	ExitRuntimeError = 70
)

// Result describes the outcome of one top-level run.
type Result struct {
	HadError        bool
	HadRuntimeError bool
	Diagnostics     []diag.Diagnostic
}

// ExitCode maps the error signals to process exit codes.
func (r Result) ExitCode() int {
	switch {
	case r.HadError:
		return ExitStaticError
	case r.HadRuntimeError:
		return ExitRuntimeError
	default:
		return ExitOK
	}
}

// Binding is a global name and its printed value.
type Binding struct {
	Name  string
	Value string
}

// Runner wires the scan, parse, resolve and interpret phases together over
// one interpreter, so globals persist across calls.
type Runner struct {
	cfg      *Config
	logger   *slog.Logger
	reporter *diag.Reporter
	interp   *interpreter.Interpreter
}

// NewRunner creates a runner writing program output to out. Every
// diagnostic is forwarded to sink as it is reported; sink may be nil.
func NewRunner(cfg *Config, out io.Writer, logger *slog.Logger, sink diag.Sink) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reporter := diag.NewReporter(sink)
	interp := interpreter.New(out, reporter, interpreter.WithMaxCallDepth(cfg.MaxCallDepth))
	for name, val := range cfg.Globals {
		interp.Globals().Define(name, val)
	}
	return &Runner{cfg: cfg, logger: logger, reporter: reporter, interp: interp}
}

// Run executes a complete program. Interpretation only starts when no
// static error was reported.
func (r *Runner) Run(source string) Result {
	r.reporter.Reset()
	start := time.Now()

	stmts, ok := r.parse(source)
	if !ok {
		return r.result()
	}
	res := resolver.New(r.reporter, nil).Resolve(stmts)
	r.logger.Debug("resolved", "locals", len(res), "errors", r.reporter.HadError())
	if r.reporter.HadError() {
		return r.result()
	}

	r.interp.Interpret(stmts, res)
	r.logger.Debug("interpreted", "elapsed", time.Since(start), "runtime_error", r.reporter.HadRuntimeError())
	return r.result()
}

// RunREPLLine runs one interactive line. A line holding a single
// expression is evaluated and its value printed; anything else runs as a
// program against the same globals.
func (r *Runner) RunREPLLine(line string) Result {
	if expr, ok := r.probeExpression(line); ok {
		r.reporter.Reset()
		res := resolver.New(r.reporter, nil).Resolve([]ast.Stmt{ast.NewExpressionStatement(expr)})
		if r.reporter.HadError() {
			return r.result()
		}
		r.logger.Debug("evaluating expression line")
		r.interp.EvaluateAndPrint(expr, res)
		return r.result()
	}
	return r.Run(line)
}

// probeExpression parses line as a bare expression against a scratch
// reporter, so failed probes leave no diagnostics behind.
func (r *Runner) probeExpression(line string) (ast.Expr, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return nil, false
	}
	scratch := diag.NewReporter(nil)
	tokens := scanner.New(line, scratch).ScanTokens()
	if scratch.HadError() {
		return nil, false
	}
	expr, ok := parser.New(tokens, scratch).ParseExpression()
	if !ok || scratch.HadError() {
		return nil, false
	}
	return expr, true
}

// PrintAST parses source and writes each statement in the given form
// ("paren" or "rpn") instead of running it.
func (r *Runner) PrintAST(source, mode string, w io.Writer) (Result, error) {
	var render func(ast.Stmt) string
	switch mode {
	case "paren":
		render = astprint.ParenStmt
	case "rpn":
		render = astprint.RPNStmt
	default:
		return Result{}, fmt.Errorf("driver: unknown AST print mode %q (want paren or rpn)", mode)
	}
	r.reporter.Reset()
	stmts, ok := r.parse(source)
	if !ok {
		return r.result(), nil
	}
	if _, err := io.WriteString(w, astprint.Program(stmts, render)); err != nil {
		return r.result(), fmt.Errorf("driver: write AST: %w", err)
	}
	return r.result(), nil
}

// Globals lists the current global bindings in name order.
func (r *Runner) Globals() []Binding {
	env := r.interp.Globals()
	values := env.Snapshot()
	keys := env.Keys()
	out := make([]Binding, 0, len(keys))
	for _, name := range keys {
		out = append(out, Binding{Name: name, Value: interpreter.Stringify(values[name])})
	}
	return out
}

func (r *Runner) parse(source string) ([]ast.Stmt, bool) {
	tokens := scanner.New(source, r.reporter).ScanTokens()
	r.logger.Debug("scanned", "tokens", len(tokens))
	stmts := parser.New(tokens, r.reporter).Parse()
	r.logger.Debug("parsed", "statements", len(stmts), "errors", r.reporter.HadError())
	return stmts, !r.reporter.HadError()
}

func (r *Runner) result() Result {
	return Result{
		HadError:        r.reporter.HadError(),
		HadRuntimeError: r.reporter.HadRuntimeError(),
		Diagnostics:     r.reporter.Diagnostics(),
	}
}
