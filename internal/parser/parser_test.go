package parser_test

import (
	"testing"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/report"
)

func mustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	rep := report.New()
	stmts := parser.Parse(source, rep)
	if rep.HadError {
		t.Fatalf("unexpected diagnostics for %q: %v", source, rep.Diagnostics())
	}
	return stmts
}

func mustFail(t *testing.T, source string) *report.Reporter {
	t.Helper()
	rep := report.New()
	parser.Parse(source, rep)
	if !rep.HadError {
		t.Fatalf("expected a parse error for %q, got none", source)
	}
	return rep
}

func TestParseExpressionStatement(t *testing.T) {
	stmts := mustParse(t, `1 + 2;`)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	exprStmt, ok := stmts[0].(*ast.Expression)
	if !ok {
		t.Fatalf("got %T, want *ast.Expression", stmts[0])
	}
	bin, ok := exprStmt.Expr.(*ast.Binary)
	if !ok {
		t.Fatalf("got %T, want *ast.Binary", exprStmt.Expr)
	}
	if bin.Op.Lexeme != "+" {
		t.Errorf("got operator %q", bin.Op.Lexeme)
	}
}

func TestParsePrecedence(t *testing.T) {
	stmts := mustParse(t, `1 + 2 * 3;`)
	bin := stmts[0].(*ast.Expression).Expr.(*ast.Binary)
	if bin.Op.Lexeme != "+" {
		t.Fatalf("top operator should be '+', got %q", bin.Op.Lexeme)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op.Lexeme != "*" {
		t.Fatalf("right side should be a '*' binary, got %#v", bin.Right)
	}
}

func TestParseVarDeclaration(t *testing.T) {
	stmts := mustParse(t, `var x = 1;`)
	v, ok := stmts[0].(*ast.Var)
	if !ok {
		t.Fatalf("got %T, want *ast.Var", stmts[0])
	}
	if v.Name.Lexeme != "x" {
		t.Errorf("got name %q", v.Name.Lexeme)
	}
}

func TestParseForLoopIsADedicatedNode(t *testing.T) {
	stmts := mustParse(t, `for (var i = 0; i < 10; i = i + 1) print i;`)
	forStmt, ok := stmts[0].(*ast.For)
	if !ok {
		t.Fatalf("got %T, want *ast.For", stmts[0])
	}
	if forStmt.Init == nil || forStmt.Condition == nil || forStmt.Step == nil || forStmt.Body == nil {
		t.Errorf("expected all four For clauses populated, got %#v", forStmt)
	}
}

func TestParseClassWithMethods(t *testing.T) {
	stmts := mustParse(t, `class Box { open() { print "open"; } }`)
	class, ok := stmts[0].(*ast.Class)
	if !ok {
		t.Fatalf("got %T, want *ast.Class", stmts[0])
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "open" {
		t.Errorf("got methods %#v", class.Methods)
	}
}

func TestParseAssignmentTargetMustBeAssignable(t *testing.T) {
	mustFail(t, `1 = 2;`)
}

func TestParseMissingSemicolonIsAnError(t *testing.T) {
	mustFail(t, `var x = 1`)
}

func TestParseRecoversAfterErrorAndParsesSubsequentStatements(t *testing.T) {
	rep := report.New()
	stmts := parser.Parse("var x = ;\nvar y = 2;", rep)
	if !rep.HadError {
		t.Fatalf("expected an error from the first statement")
	}
	var sawY bool
	for _, s := range stmts {
		if v, ok := s.(*ast.Var); ok && v.Name.Lexeme == "y" {
			sawY = true
		}
	}
	if !sawY {
		t.Errorf("expected the parser to recover and still parse 'var y = 2;', got %#v", stmts)
	}
}

func TestParseCallChainAndPropertyAccess(t *testing.T) {
	stmts := mustParse(t, `a.b.c();`)
	exprStmt := stmts[0].(*ast.Expression)
	call, ok := exprStmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("got %T, want *ast.Call", exprStmt.Expr)
	}
	get, ok := call.Callee.(*ast.Get)
	if !ok || get.Name.Lexeme != "c" {
		t.Fatalf("got callee %#v", call.Callee)
	}
}

func TestParseEachCallProducesADistinctNode(t *testing.T) {
	// Two structurally identical literal expressions parsed from separate
	// source positions must remain distinct *ast.Literal pointers, since the
	// resolver keys its resolution map on node identity.
	stmts := mustParse(t, `1; 1;`)
	a := stmts[0].(*ast.Expression).Expr.(*ast.Literal)
	b := stmts[1].(*ast.Expression).Expr.(*ast.Literal)
	if a == b {
		t.Fatalf("two separately parsed literals must not share identity")
	}
}
