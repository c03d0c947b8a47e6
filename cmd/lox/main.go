package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/driver"
)

// sysexits-style process exit codes.
const (
	exitUsage   = 64
	exitNoInput = 66
	exitIOErr   = 74
	exitConfig  = 78
)

type options struct {
	help       bool
	version    bool
	verbose    bool
	noColor    bool
	watch      bool
	configPath string
	eval       string
	hasEval    bool
	astMode    string
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	opts, args, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		printUsage(stderr)
		return exitUsage
	}
	if opts.help {
		printUsage(stdout)
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "lox %s\n", driver.Version)
		return 0
	}
	switch {
	case len(args) > 1:
		fmt.Fprintf(stderr, "too many arguments: expected at most one script\n")
		printUsage(stderr)
		return exitUsage
	case opts.hasEval && len(args) == 1:
		fmt.Fprintf(stderr, "-e cannot be combined with a script path\n")
		return exitUsage
	case opts.watch && len(args) == 0:
		fmt.Fprintf(stderr, "-w requires a script path\n")
		return exitUsage
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitConfig
	}
	if err := cfg.CheckVersion(driver.Version); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitConfig
	}

	useColor := cfg.Color && !opts.noColor && !color.NoColor
	var logger *slog.Logger
	if opts.verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	newRunner := func() *driver.Runner {
		printer := diag.NewPrinter(stderr, useColor)
		return driver.NewRunner(cfg, stdout, logger, printer.Sink())
	}

	if opts.astMode != "" {
		source, code := readSource(opts, args, stderr)
		if code != 0 {
			return code
		}
		res, err := newRunner().PrintAST(source, opts.astMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return exitUsage
		}
		return res.ExitCode()
	}

	switch {
	case opts.hasEval:
		return newRunner().Run(opts.eval).ExitCode()
	case opts.watch:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watchFile(ctx, args[0], newRunner, stderr)
	case len(args) == 1:
		return runFile(args[0], newRunner(), stderr)
	default:
		return runREPL(cfg, newRunner(), stdout, stderr, useColor)
	}
}

func parseArgs(argv []string) (*options, []string, error) {
	parsed, optind, err := getopt.Getopts(argv, "hVvnwc:e:p:")
	if err != nil {
		return nil, nil, err
	}
	opts := &options{}
	for _, opt := range parsed {
		switch opt.Option {
		case 'h':
			opts.help = true
		case 'V':
			opts.version = true
		case 'v':
			opts.verbose = true
		case 'n':
			opts.noColor = true
		case 'w':
			opts.watch = true
		case 'c':
			opts.configPath = opt.Value
		case 'e':
			opts.eval = opt.Value
			opts.hasEval = true
		case 'p':
			opts.astMode = opt.Value
		}
	}
	return opts, argv[optind:], nil
}

func loadConfig(explicit string) (*driver.Config, error) {
	if explicit != "" {
		return driver.LoadConfig(explicit)
	}
	path, err := driver.FindConfig(".")
	if err != nil {
		if errors.Is(err, driver.ErrConfigNotFound) {
			return driver.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return driver.LoadConfig(path)
}

func readSource(opts *options, args []string, stderr io.Writer) (string, int) {
	if opts.hasEval {
		return opts.eval, 0
	}
	if len(args) == 0 {
		fmt.Fprintf(stderr, "-p requires -e or a script path\n")
		return "", exitUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "failed to read %s: %v\n", args[0], err)
		return "", exitNoInput
	}
	return string(data), 0
}

func runFile(path string, runner *driver.Runner, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read %s: %v\n", path, err)
		return exitNoInput
	}
	return runner.Run(string(data)).ExitCode()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lox [-vn] [-c config]              start the REPL")
	fmt.Fprintln(w, "  lox [-vn] [-c config] [-w] <file>  run a script")
	fmt.Fprintln(w, "  lox [-vn] [-c config] -e <code>    run a snippet")
	fmt.Fprintln(w, "  lox -p paren|rpn (-e <code> | <file>)")
	fmt.Fprintln(w, "  lox -h | -V")
}
