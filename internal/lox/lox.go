// Package lox wires together the scanner, parser, resolver, and
// interpreter into the single pipeline the CLI drives: source text in,
// side effects (print output) and a reported error state out.
package lox

import (
	"github.com/loxlang/lox/internal/interp"
	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/report"
	"github.com/loxlang/lox/internal/resolver"
)

// Lox holds the pieces that must survive across multiple calls to Run: the
// interpreter's global environment, in particular, so that a REPL session
// accumulates var/fun/class declarations line over line.
type Lox struct {
	interp *interp.Interpreter
}

// New creates a Lox pipeline with a fresh global environment.
func New() *Lox {
	return &Lox{interp: interp.New()}
}

// Run scans, parses, resolves, and interprets source, reporting every
// error it encounters through rep. It stops at the first stage that
// reports an error: a program with scan/parse errors is never resolved or
// executed, and a program with resolve errors is never executed, matching
// jlox's staged hadError checks.
func (l *Lox) Run(source string, rep *report.Reporter) {
	stmts := parser.Parse(source, rep)
	if rep.HadError {
		return
	}

	locals := resolver.Resolve(stmts, rep)
	if rep.HadError {
		return
	}

	if err := l.interp.Interpret(stmts, locals); err != nil {
		rep.RuntimeError(err)
	}
}
