// Command lox is the Lox interpreter's CLI entry point: run a script file,
// or drop into an interactive prompt when given no arguments.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/loxlang/lox/internal/lox"
	"github.com/loxlang/lox/internal/report"
)

func main() {
	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintln(os.Stderr, "usage: lox [script]")
		os.Exit(1)
	}
}

// runFile executes an entire source file in one shot. Per spec, any
// reported error (scan, parse, resolve, or runtime) makes the process
// exit non-zero.
func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: cannot read %s: %s\n", path, err)
		return 1
	}

	rep := report.New()
	l := lox.New()
	l.Run(string(source), rep)
	rep.WriteTo(os.Stderr)

	if rep.HadError {
		return 1
	}
	return 0
}

// runPrompt is a REPL: one line of source per iteration, sharing a single
// Lox pipeline (and so a single global environment) across lines, with the
// error flag reset between lines so one bad line doesn't wedge the
// session.
func runPrompt() {
	prompt := color.New(color.FgCyan)
	errColor := color.New(color.FgRed)

	l := lox.New()
	rep := report.New()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		prompt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stderr)
			return
		}
		l.Run(scanner.Text(), rep)
		for _, d := range rep.Diagnostics() {
			errColor.Fprintln(os.Stderr, d.String())
		}
		rep.Reset()
	}
}
