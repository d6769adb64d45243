// Package report implements Lox's uniform diagnostic model: a single
// reporter shared by the scanner, parser, resolver, and interpreter that
// renders errors in the form "[line L] Error<where>: <message>" and tracks
// whether any error has been reported since the last reset.
package report

import (
	"fmt"
	"io"

	"github.com/loxlang/lox/internal/token"
)

// Diagnostic is one reported problem, already resolved to a line and an
// optional "where" clause.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Reporter accumulates diagnostics and exposes the "had error since last
// reset" flag the CLI driver uses to pick an exit code.
type Reporter struct {
	HadError bool
	diags    []Diagnostic
}

// New returns a ready-to-use Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Error reports a problem attributed to a bare source line (used by the
// scanner, which has no token to point at yet).
func (r *Reporter) Error(line int, message string) {
	r.report(Diagnostic{Line: line, Message: message})
}

// ErrorAt reports a problem attributed to a token: "at end" for EOF, or
// "at '<lexeme>'" otherwise.
func (r *Reporter) ErrorAt(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = " at end"
	}
	r.report(Diagnostic{Line: tok.Line, Where: where, Message: message})
}

// runtimeErr is the minimal shape the interpreter's RuntimeError satisfies;
// declared here (rather than importing internal/interp) to avoid a
// report<->interp import cycle, since interp already depends on report.
type runtimeErr interface {
	error
	Tok() token.Token
}

// RuntimeError reports err, attributing it to its token the same way
// ErrorAt does, matching jlox's single reportError path for both parse
// and runtime errors.
func (r *Reporter) RuntimeError(err error) {
	if re, ok := err.(runtimeErr); ok {
		r.ErrorAt(re.Tok(), re.Error())
		return
	}
	r.Error(0, err.Error())
}

func (r *Reporter) report(d Diagnostic) {
	r.HadError = true
	r.diags = append(r.diags, d)
}

// Reset clears the HadError flag and the accumulated diagnostics; the CLI
// driver calls this between prompt-mode lines.
func (r *Reporter) Reset() {
	r.HadError = false
	r.diags = nil
}

// Diagnostics returns every diagnostic reported since the last Reset.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// WriteTo writes every accumulated diagnostic to w, one per line, in the
// spec's "[line L] Error<where>: <message>" wire format.
func (r *Reporter) WriteTo(w io.Writer) {
	for _, d := range r.diags {
		fmt.Fprintln(w, d.String())
	}
}
