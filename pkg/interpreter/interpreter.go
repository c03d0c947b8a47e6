package interpreter

import (
	"fmt"
	"io"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// DefaultMaxCallDepth bounds nested calls before a "Stack overflow." error.
const DefaultMaxCallDepth = 1024

// Interpreter evaluates resolved statements against a persistent global
// environment. It is not safe for concurrent use.
type Interpreter struct {
	globals     *runtime.Environment
	resolutions resolver.Resolutions
	out         io.Writer
	reporter    *diag.Reporter
	maxDepth    int
	depth       int
	now         func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxCallDepth sets the call depth guard. Zero disables it.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) { i.maxDepth = depth }
}

// WithClock replaces the time source behind the clock() native.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// New returns an interpreter writing program output to out and uncaught
// runtime errors to reporter.
func New(out io.Writer, reporter *diag.Reporter, opts ...Option) *Interpreter {
	i := &Interpreter{
		globals:     runtime.NewEnvironment(nil),
		resolutions: make(resolver.Resolutions),
		out:         out,
		reporter:    reporter,
		maxDepth:    DefaultMaxCallDepth,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.defineNatives()
	return i
}

func (i *Interpreter) defineNatives() {
	i.globals.Define("clock", &runtime.NativeFunctionValue{
		Name:  "clock",
		Arity: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(i.now().UnixMilli()) / 1000.0}, nil
		},
	})
}

// Globals returns the interpreter's global environment.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Interpret executes stmts in order. The first uncaught runtime error is
// reported and stops execution; output already written stays written. A
// break escaping every loop stops execution silently.
func (i *Interpreter) Interpret(stmts []ast.Stmt, res resolver.Resolutions) {
	i.merge(res)
	for _, stmt := range stmts {
		if err := i.evaluateStatement(stmt, i.globals); err != nil {
			i.report(err)
			return
		}
	}
}

// EvaluateAndPrint evaluates a single expression and prints its value.
func (i *Interpreter) EvaluateAndPrint(expr ast.Expr, res resolver.Resolutions) {
	i.merge(res)
	val, err := i.evaluateExpression(expr, i.globals)
	if err == nil {
		err = i.print(val)
	}
	if err != nil {
		i.report(err)
	}
}

func (i *Interpreter) merge(res resolver.Resolutions) {
	for expr, depth := range res {
		i.resolutions[expr] = depth
	}
}

func (i *Interpreter) print(val runtime.Value) error {
	if _, err := fmt.Fprintln(i.out, Stringify(val)); err != nil {
		return fmt.Errorf("interpreter: write output: %w", err)
	}
	return nil
}

func (i *Interpreter) report(err error) {
	switch e := err.(type) {
	case breakSignal:
		// Escaped every loop; execution just stops.
	case *RuntimeError:
		i.reporter.RuntimeError(e.Token, e.Message)
	default:
		i.reporter.Report(diag.Diagnostic{Phase: diag.PhaseRuntime, Message: err.Error()})
	}
}

// RuntimeError is an uncaught error raised while evaluating a program.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func runtimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

type breakSignal struct{}

func (breakSignal) Error() string {
	return "break"
}

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
