package interpreter

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
	"lox/interpreter-go/pkg/token"
)

func runSource(t *testing.T, interp *Interpreter, reporter *diag.Reporter, src string) {
	t.Helper()
	stmts := parser.New(scanner.New(src, reporter).ScanTokens(), reporter).Parse()
	res := resolver.New(reporter, nil).Resolve(stmts)
	if reporter.HadError() {
		t.Fatalf("unexpected static errors: %v", reporter.Diagnostics())
	}
	interp.Interpret(stmts, res)
}

func run(t *testing.T, src string, opts ...Option) (string, *diag.Reporter) {
	t.Helper()
	var out bytes.Buffer
	reporter := diag.NewReporter(nil)
	interp := New(&out, reporter, opts...)
	runSource(t, interp, reporter, src)
	return out.String(), reporter
}

func lines(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n") + "\n"
}

func TestEvaluateStringLiteral(t *testing.T) {
	interp := New(&bytes.Buffer{}, diag.NewReporter(nil))
	val, err := interp.evaluateExpression(ast.Str("hello"), interp.Globals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	str, ok := val.(runtime.StringValue)
	if !ok || str.Val != "hello" {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestInterpretHandBuiltTree(t *testing.T) {
	var out bytes.Buffer
	reporter := diag.NewReporter(nil)
	interp := New(&out, reporter)
	program := []ast.Stmt{
		ast.VarDecl("a", ast.Num(1)),
		ast.PrintStmt(ast.Bin(ast.Var("a"), token.Plus, "+", ast.Num(2))),
		ast.ClassDecl("Box", ""),
		ast.PrintStmt(ast.Call(ast.Var("Box"))),
	}
	interp.Interpret(program, nil)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
	}
	if got, want := out.String(), lines("3", "Box instance"); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestEvaluatePrograms(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "print 1 + 2 * 3;", lines("7")},
		{"division", "print 10 / 4;", lines("2.5")},
		{"negation", "print -3 - -1;", lines("-2")},
		{"integral float", "print 3.0;", lines("3")},
		{"float noise", "print 0.1 + 0.2;", lines("0.30000000000000004")},
		{"infinity", "print 1 / 0; print -1 / 0;", lines("Infinity", "-Infinity")},
		{"concat", `print "a" + "b";`, lines("ab")},
		{"string plus number", `print "n=" + 3; print "x" + 2.5;`, lines("n=3", "x2.5")},
		{"nil", "print nil; print !nil;", lines("nil", "true")},
		{"equality", `print 1 == 1; print 1 == "1"; print nil == nil; print nil == false; print "a" != "b";`,
			lines("true", "false", "true", "false", "true")},
		{"comparison", "print 1 < 2; print 2 <= 1; print 3 >= 3; print 4 > 5;", lines("true", "false", "true", "false")},
		{"ternary", `print 1 > 2 ? "yes" : "no"; print true ? 1 : 2 ? 3 : 4;`, lines("no", "1")},
		{"logical operands", `print nil or "default"; print 0 and "x"; print false and missing();`,
			lines("default", "x", "false")},
		{"block scoping", `var a = "global"; { var a = "inner"; print a; } print a;`, lines("inner", "global")},
		{"assignment value", "var a; var b; a = b = 5; print a; print b;", lines("5", "5")},
		{"uninitialized var", "var a; print a;", lines("nil")},
		{"for loop", "for (var i = 0; i < 3; i = i + 1) print i;", lines("0", "1", "2")},
		{"while", "var i = 3; while (i > 0) { print i; i = i - 1; }", lines("3", "2", "1")},
		{"if else", `if (nil) print "then"; else print "else";`, lines("else")},
		{"for break", "for (var i = 0; ; i = i + 1) { if (i == 3) break; print i; }", lines("0", "1", "2")},
		{"fib", `
fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
print fib(10);`, lines("55")},
		{"implicit nil return", "fun f() {} fun g() { return; } print f(); print g();", lines("nil", "nil")},
		{"function text", "fun f() {} print f; print fun () {}; print clock;",
			lines("<fn f>", "<lambda fn>", "<native fn clock()>")},
		{"lambda currying", "var add = fun (a) { return fun (b) { return a + b; }; }; print add(1)(2);", lines("3")},
		{"class text", "class A {} print A; print A();", lines("A", "A instance")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, reporter := run(t, tc.src)
			if reporter.HadRuntimeError() {
				t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
			}
			if out != tc.want {
				t.Fatalf("output = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestClosures(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"independent counters", `
fun makeCounter() {
  var i = 0;
  fun count() { i = i + 1; return i; }
  return count;
}
var c1 = makeCounter();
var c2 = makeCounter();
print c1();
print c1();
print c2();`, lines("1", "2", "1")},
		{"shared environment", `
var get;
var set;
fun make() {
  var v = 0;
  fun g() { return v; }
  fun s(x) { v = x; }
  get = g;
  set = s;
}
make();
set(42);
print get();`, lines("42")},
		{"lexical not dynamic", `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}`, lines("global", "global")},
		{"loop closures share frame", `
var fs;
{
  var i = 0;
  fun f() { return i; }
  fs = f;
  i = 10;
}
print fs();`, lines("10")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, reporter := run(t, tc.src)
			if reporter.HadRuntimeError() {
				t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
			}
			if out != tc.want {
				t.Fatalf("output = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestBreakOnlyExitsNearestLoop(t *testing.T) {
	out, reporter := run(t, `
var i = 0;
while (i < 3) {
  var j = 0;
  while (true) {
    if (j == 2) break;
    j = j + 1;
  }
  print i + j;
  i = i + 1;
}`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
	}
	if want := lines("2", "3", "4"); out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestBreakInFunctionExitsCallersLoop(t *testing.T) {
	out, reporter := run(t, `
var n = 0;
while (n < 3) {
  fun f() { break; }
  n = n + 1;
  f();
  print n;
}
print "done " + n;`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
	}
	if want := lines("done 1"); out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestBreakInLoopConditionCallStopsLoop(t *testing.T) {
	out, reporter := run(t, `
var g;
var i = 0;
while (i < 1) {
  fun stop() { break; }
  g = stop;
  i = i + 1;
}
while (g()) { print "body"; }
print "after";`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
	}
	if want := lines("after"); out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestBreakOutsideAnyLoopStopsSilently(t *testing.T) {
	out, reporter := run(t, `
var g;
var i = 0;
while (i < 1) {
  fun f() { print "in f"; break; }
  g = f;
  i = i + 1;
}
print "before";
g();
print "after";`)
	if reporter.HadRuntimeError() || len(reporter.Diagnostics()) != 0 {
		t.Fatalf("break must not be reported: %v", reporter.Diagnostics())
	}
	if want := lines("before", "in f"); out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestBreakFromExpressionCallIsNotReported(t *testing.T) {
	var out bytes.Buffer
	reporter := diag.NewReporter(nil)
	interp := New(&out, reporter)
	runSource(t, interp, reporter, `
var g;
while (g == nil) {
  fun f() { break; }
  g = f;
}`)
	p := parser.New(scanner.New("g()", reporter).ScanTokens(), reporter)
	expr, ok := p.ParseExpression()
	if !ok {
		t.Fatalf("expression did not parse: %v", reporter.Diagnostics())
	}
	interp.EvaluateAndPrint(expr, nil)
	if len(reporter.Diagnostics()) != 0 || out.Len() != 0 {
		t.Fatalf("got output %q, diagnostics %v", out.String(), reporter.Diagnostics())
	}
}

func TestClasses(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"super dispatch", `
class Animal { speak() { print "..."; } }
class Dog < Animal { speak() { print "Woof"; super.speak(); } }
Dog().speak();`, lines("Woof", "...")},
		{"initializer and fields", `
class Point {
  init(x, y) { this.x = x; this.y = y; }
  sum() { return this.x + this.y; }
}
var p = Point(1, 2);
print p.sum();
print p;`, lines("3", "Point instance")},
		{"initializer returns instance", `
class A { init() { this.v = 1; return; } }
var a = A();
print a.init() == a;
print a.v;`, lines("true", "1")},
		{"bound method keeps this", `
class C { init(n) { this.n = n; } get() { return this.n; } }
var m = C(7).get;
print m();`, lines("7")},
		{"field shadows method", `
class C { m() { return "method"; } }
var c = C();
c.m = fun () { return "field"; };
print c.m();`, lines("field")},
		{"inherited initializer arity", `
class A { init(x) { this.x = x; } }
class B < A {}
print B(5).x;`, lines("5")},
		{"super skips own class", `
class A { method() { print "A method"; } }
class B < A {
  method() { print "B method"; }
  test() { super.method(); }
}
class C < B {}
C().test();`, lines("A method")},
		{"this inside closure", `
class Thing {
  getCallback() {
    fun localFunction() { print this; }
    return localFunction;
  }
}
Thing().getCallback()();`, lines("Thing instance")},
		{"inherited method", `
class A { hello() { return "hi"; } }
class B < A {}
print B().hello();`, lines("hi")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, reporter := run(t, tc.src)
			if reporter.HadRuntimeError() {
				t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
			}
			if out != tc.want {
				t.Fatalf("output = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		out     string
		message string
		line    int
	}{
		{"string plus bool", `print "a" + true;`, "", "Operands of '+' must be numbers or strings.", 1},
		{"number plus string", `print 2 + "x";`, "", "Operands of '+' must be numbers or strings.", 1},
		{"negate string", `print 1; print -"x"; print 2;`, lines("1"), "Operand must be a number.", 1},
		{"compare mixed", `print 1 < "2";`, "", "Operands must be numbers.", 1},
		{"undefined read", "print missing;", "", "Undefined variable 'missing'.", 1},
		{"undefined assign", "x = 1;", "", "Undefined variable 'x'.", 1},
		{"call non-callable", `"str"();`, "", "Can only call functions and classes.", 1},
		{"function arity", "fun f(a) {} f(1, 2);", "", "Expected 1 arguments but got 2.", 1},
		{"class arity", "class A {} A(1);", "", "Expected 0 arguments but got 1.", 1},
		{"property on number", "var x = 1; print x.y;", "", "Only instances have properties.", 1},
		{"field on number", "var x = 1; x.y = 2;", "", "Only instances have fields.", 1},
		{"undefined property", "class A {} print A().nope;", "", "Undefined property 'nope'.", 1},
		{"non-class superclass", "var NotClass = 1; class B < NotClass {}", "", "Superclass must be a class.", 1},
		{"line number", "print 1;\n\nprint nil + 1;", lines("1"), "Operands of '+' must be numbers or strings.", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, reporter := run(t, tc.src)
			if out != tc.out {
				t.Fatalf("output = %q, want %q", out, tc.out)
			}
			if !reporter.HadRuntimeError() || reporter.HadError() {
				t.Fatalf("expected only a runtime error, got %v", reporter.Diagnostics())
			}
			diags := reporter.Diagnostics()
			if len(diags) != 1 || diags[0].Message != tc.message || diags[0].Line != tc.line {
				t.Fatalf("diagnostics = %v, want %q on line %d", diags, tc.message, tc.line)
			}
		})
	}
}

func TestCallDepthGuard(t *testing.T) {
	out, reporter := run(t, "fun f() { return f(); } f(); print 1;", WithMaxCallDepth(50))
	if out != "" {
		t.Fatalf("expected execution to stop, got %q", out)
	}
	diags := reporter.Diagnostics()
	if len(diags) != 1 || diags[0].Message != "Stack overflow." {
		t.Fatalf("diagnostics = %v", diags)
	}

	out, reporter = run(t, "fun down(n) { if (n == 0) return 0; return down(n - 1); } print down(40);", WithMaxCallDepth(50))
	if reporter.HadRuntimeError() || out != lines("0") {
		t.Fatalf("recursion within the limit failed: %q %v", out, reporter.Diagnostics())
	}
}

func TestClockNative(t *testing.T) {
	fixed := time.Unix(1700000000, 500000000)
	out, reporter := run(t, "print clock();", WithClock(func() time.Time { return fixed }))
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %v", reporter.Diagnostics())
	}
	if want := lines("1.7000000005E9"); out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	reporter := diag.NewReporter(nil)
	interp := New(&out, reporter)
	runSource(t, interp, reporter, "var a = 1; fun inc() { a = a + 1; return a; }")
	runSource(t, interp, reporter, "print inc(); print a;")
	if got, want := out.String(), lines("2", "2"); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if _, err := interp.Globals().Get("inc"); err != nil {
		t.Fatalf("expected inc in globals: %v", err)
	}
}

func TestEvaluateAndPrint(t *testing.T) {
	var out bytes.Buffer
	reporter := diag.NewReporter(nil)
	interp := New(&out, reporter)
	runSource(t, interp, reporter, "var x = 20;")

	expr, ok := parser.New(scanner.New("x * 2 + 2", reporter).ScanTokens(), reporter).ParseExpression()
	if !ok {
		t.Fatalf("expression failed to parse: %v", reporter.Diagnostics())
	}
	interp.EvaluateAndPrint(expr, resolver.New(reporter, nil).Resolve([]ast.Stmt{ast.ExprStmt(expr)}))
	if got := out.String(); got != lines("42") {
		t.Fatalf("output = %q", got)
	}

	bad, _ := parser.New(scanner.New("-nil", reporter).ScanTokens(), reporter).ParseExpression()
	interp.EvaluateAndPrint(bad, nil)
	if !reporter.HadRuntimeError() {
		t.Fatalf("expected runtime error for -nil")
	}
}

func TestStringify(t *testing.T) {
	class := &runtime.ClassValue{Name: "Cake"}
	cases := []struct {
		val  runtime.Value
		want string
	}{
		{runtime.NilValue{}, "nil"},
		{runtime.BoolValue{Val: true}, "true"},
		{runtime.NumberValue{Val: 42}, "42"},
		{runtime.NumberValue{Val: -0.5}, "-0.5"},
		{runtime.NumberValue{Val: 9999999}, "9999999"},
		{runtime.NumberValue{Val: 1e7}, "1.0E7"},
		{runtime.NumberValue{Val: 1e21}, "1.0E21"},
		{runtime.NumberValue{Val: -2.5e10}, "-2.5E10"},
		{runtime.NumberValue{Val: 123456789}, "1.23456789E8"},
		{runtime.NumberValue{Val: 0.001}, "0.001"},
		{runtime.NumberValue{Val: 0.00015}, "1.5E-4"},
		{runtime.NumberValue{Val: math.Inf(1)}, "Infinity"},
		{&runtime.NativeFunctionValue{Name: "clock"}, "<native fn clock()>"},
		{runtime.StringValue{Val: "hi"}, "hi"},
		{class, "Cake"},
		{runtime.NewInstance(class), "Cake instance"},
	}
	for _, tc := range cases {
		if got := Stringify(tc.val); got != tc.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", tc.val, got, tc.want)
		}
	}
}
