package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/driver"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	chdir(t, t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"lox"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI(t, "-V")
	if code != 0 || out != "lox "+driver.Version+"\n" {
		t.Fatalf("-V = %d %q", code, out)
	}
	code, out, _ = runCLI(t, "-h")
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("-h = %d %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{"-x"},
		{"a.lox", "b.lox"},
		{"-e", "print 1;", "a.lox"},
		{"-w"},
		{"-p"},
		{"-p", "paren"},
		{"-p", "tree", "-e", "1;"},
	}
	for _, args := range cases {
		if code, _, _ := runCLI(t, args...); code != exitUsage {
			t.Fatalf("%v: exit code = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestEvalExitCodes(t *testing.T) {
	cases := []struct {
		src    string
		code   int
		stdout string
		stderr string
	}{
		{"print 1 + 2;", 0, "3\n", ""},
		{"print ;", driver.ExitStaticError, "", "[line 1] Error at ';': Expect expression.\n"},
		{"print 1; print -nil;", driver.ExitRuntimeError, "1\n", "Operand must be a number.\n[line 1]\n"},
	}
	for _, tc := range cases {
		code, out, errOut := runCLI(t, "-n", "-e", tc.src)
		if code != tc.code || out != tc.stdout || errOut != tc.stderr {
			t.Fatalf("%q: got (%d, %q, %q), want (%d, %q, %q)", tc.src, code, out, errOut, tc.code, tc.stdout, tc.stderr)
		}
	}
}

func TestRunScriptFile(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.lox", "var greeting = \"hello\";\nprint greeting;\n")
	code, out, errOut := runCLI(t, script)
	if code != 0 || out != "hello\n" {
		t.Fatalf("run script = %d %q %q", code, out, errOut)
	}

	code, _, errOut = runCLI(t, filepath.Join(dir, "missing.lox"))
	if code != exitNoInput || !strings.Contains(errOut, "failed to read") {
		t.Fatalf("missing script = %d %q", code, errOut)
	}
}

func TestPrintASTFlag(t *testing.T) {
	code, out, _ := runCLI(t, "-p", "paren", "-e", "1 + 2;")
	if code != 0 || out != "(; (+ 1 2))\n" {
		t.Fatalf("-p paren = %d %q", code, out)
	}
	code, out, _ = runCLI(t, "-p", "rpn", "-e", "print 1 + 2;")
	if code != 0 || out != "1 2 + print\n" {
		t.Fatalf("-p rpn = %d %q", code, out)
	}
}

func TestConfigHandling(t *testing.T) {
	dir := t.TempDir()
	strict := writeFile(t, dir, "strict.yml", "requires: \">= 9.0.0\"\n")
	if code, _, errOut := runCLI(t, "-c", strict, "-e", "print 1;"); code != exitConfig || !strings.Contains(errOut, "does not satisfy") {
		t.Fatalf("requires violation = %d %q", code, errOut)
	}

	broken := writeFile(t, dir, "broken.yml", "colour: false\n")
	if code, _, _ := runCLI(t, "-c", broken, "-e", "print 1;"); code != exitConfig {
		t.Fatalf("unknown field should be a config error, got %d", code)
	}

	globals := writeFile(t, dir, "globals.yml", "globals:\n  name: world\n")
	code, out, _ := runCLI(t, "-c", globals, "-e", "print \"hello \" + name;")
	if code != 0 || out != "hello world\n" {
		t.Fatalf("config globals = %d %q", code, out)
	}
}

func TestConfigDiscoveredFromWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, driver.ConfigFileName, "globals:\n  answer: 42\n")
	sub := filepath.Join(root, "scripts")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	chdir(t, sub)
	var stdout, stderr bytes.Buffer
	code := run([]string{"lox", "-e", "print answer;"}, &stdout, &stderr)
	if code != 0 || stdout.String() != "42\n" {
		t.Fatalf("discovered config = %d %q %q", code, stdout.String(), stderr.String())
	}
}

type scriptedReader struct {
	lines   []string
	history []string
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func TestREPLSession(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printer := diag.NewPrinter(&stderr, false)
	runner := driver.NewRunner(nil, &stdout, nil, printer.Sink())
	in := &scriptedReader{lines: []string{
		"var a = 2;",
		"",
		"a * 21",
		"print a +;",
		":globals",
		":bogus",
		":quit",
		"print \"unreachable\";",
	}}
	if code := repl(in, runner, "> ", &stdout, &stderr, false); code != 0 {
		t.Fatalf("repl exit code = %d", code)
	}
	out := stdout.String()
	for _, want := range []string{"42\n", "a = 2\n", "clock = <native fn clock()>\n", "unknown command :bogus"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "unreachable") {
		t.Fatalf(":quit did not stop the loop")
	}
	if stderr.String() != "[line 1] Error at ';': Expect expression.\n" {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if len(in.history) != 6 {
		t.Fatalf("history = %v", in.history)
	}
}

func TestREPLEndsOnEOF(t *testing.T) {
	var stdout bytes.Buffer
	runner := driver.NewRunner(nil, &stdout, nil, nil)
	if code := repl(&scriptedReader{}, runner, "> ", &stdout, io.Discard, false); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
}

type failingReader struct{}

func (failingReader) Prompt(string) (string, error) { return "", errors.New("tty gone") }
func (failingReader) AppendHistory(string)          {}

func TestREPLReadError(t *testing.T) {
	var stderr bytes.Buffer
	runner := driver.NewRunner(nil, io.Discard, nil, nil)
	if code := repl(failingReader{}, runner, "> ", io.Discard, &stderr, false); code != exitIOErr {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "tty gone") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

// syncBuffer is written by the watch loop while the test polls it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, output so far %q", want, buf.String())
}

func TestWatchReRunsOnChange(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "watched.lox", "print \"first\";\n")

	var stdout, stderr syncBuffer
	newRunner := func() *driver.Runner {
		return driver.NewRunner(nil, &stdout, nil, diag.NewPrinter(&stderr, false).Sink())
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- watchFile(ctx, script, newRunner, &stderr) }()

	waitFor(t, &stdout, "first\n")
	writeFile(t, dir, "watched.lox", "print \"second\";\n")
	waitFor(t, &stdout, "second\n")
	writeFile(t, dir, "other.lox", "print \"ignored\";\n")
	cancel()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("watch exit code = %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
	if strings.Contains(stdout.String(), "ignored") {
		t.Fatalf("unrelated file triggered a run")
	}
	if !strings.Contains(stderr.String(), "changed, re-running") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd %s: %v", prev, err)
		}
	})
}
