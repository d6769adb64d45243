package resolver_test

import (
	"testing"

	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/report"
	"github.com/loxlang/lox/internal/resolver"
)

// mustParseAndResolve parses source and resolves it, returning diagnostics
// from resolution only. It fatals on parse errors so test cases focus on
// resolver behavior.
func mustParseAndResolve(t *testing.T, source string) *report.Reporter {
	t.Helper()
	rep := report.New()
	stmts := parser.Parse(source, rep)
	if rep.HadError {
		t.Fatalf("unexpected parse error: %s", rep.Diagnostics()[0].Message)
	}
	resolver.Resolve(stmts, rep)
	return rep
}

func assertNoDiags(t *testing.T, rep *report.Reporter) {
	t.Helper()
	if rep.HadError {
		t.Errorf("expected no diagnostics, got: %v", rep.Diagnostics())
	}
}

func assertHasMessage(t *testing.T, rep *report.Reporter, substr string) {
	t.Helper()
	for _, d := range rep.Diagnostics() {
		if d.Message == substr {
			return
		}
	}
	t.Errorf("expected a diagnostic with message %q, got: %v", substr, rep.Diagnostics())
}

func TestResolveValidProgramHasNoDiagnostics(t *testing.T) {
	rep := mustParseAndResolve(t, `
		fun outer() {
			var a = 1;
			fun inner() { return a; }
			return inner();
		}
		print outer();
	`)
	assertNoDiags(t, rep)
}

func TestUseBeforeReadyInSameScopeIsAnError(t *testing.T) {
	rep := mustParseAndResolve(t, `var a = "outer"; { var a = a; }`)
	assertHasMessage(t, rep, "Can't read local variable in its own initializer.")
}

func TestDuplicateLocalDeclarationIsAnError(t *testing.T) {
	rep := mustParseAndResolve(t, `{ var a = 1; var a = 2; }`)
	assertHasMessage(t, rep, "Already a variable with this name in this scope.")
}

func TestTopLevelReturnIsAnError(t *testing.T) {
	rep := mustParseAndResolve(t, `return 1;`)
	assertHasMessage(t, rep, "Can't return from top-level code.")
}

func TestReturnInsideFunctionIsFine(t *testing.T) {
	rep := mustParseAndResolve(t, `fun f() { return 1; }`)
	assertNoDiags(t, rep)
}

func TestThisInsideMethodIsFine(t *testing.T) {
	rep := mustParseAndResolve(t, `
		class Box {
			show() { print this; }
		}
	`)
	assertNoDiags(t, rep)
}

func TestShadowingInNestedScopeIsNotADuplicateError(t *testing.T) {
	rep := mustParseAndResolve(t, `var a = 1; { var a = 2; print a; }`)
	assertNoDiags(t, rep)
}

func TestForLoopVariableVisibleInConditionStepAndBody(t *testing.T) {
	rep := mustParseAndResolve(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	assertNoDiags(t, rep)
}
