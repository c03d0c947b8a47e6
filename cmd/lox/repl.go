package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"lox/interpreter-go/pkg/driver"
)

// lineReader is the subset of *liner.State the REPL loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runREPL(cfg *driver.Config, runner *driver.Runner, stdout, stderr io.Writer, useColor bool) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// History is best-effort in both directions.
	history := cfg.HistoryPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	code := repl(ln, runner, cfg.Prompt, stdout, stderr, useColor)

	if history != "" {
		if f, err := os.Create(history); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return code
}

func repl(in lineReader, runner *driver.Runner, prompt string, stdout, stderr io.Writer, useColor bool) int {
	info := color.New(color.FgCyan)
	if useColor {
		info.EnableColor()
	} else {
		info.DisableColor()
	}
	info.Fprintf(stdout, "lox %s, :help for commands\n", driver.Version)

	for {
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintf(stderr, "read input: %v\n", err)
			return exitIOErr
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(trimmed, ":") {
			if quit := replCommand(trimmed, runner, stdout, info); quit {
				return 0
			}
			continue
		}
		runner.RunREPLLine(line)
	}
}

// replCommand handles :help, :globals and :quit.
func replCommand(cmd string, runner *driver.Runner, out io.Writer, info *color.Color) (quit bool) {
	switch strings.Fields(cmd)[0] {
	case ":quit", ":q":
		return true
	case ":globals":
		for _, b := range runner.Globals() {
			fmt.Fprintf(out, "%s = %s\n", b.Name, b.Value)
		}
	case ":help":
		info.Fprintln(out, "Enter statements, or a bare expression to print its value.")
		info.Fprintln(out, "  :globals  list global bindings")
		info.Fprintln(out, "  :quit     leave the REPL")
	default:
		info.Fprintf(out, "unknown command %s\n", cmd)
	}
	return false
}
