package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/loxlang/lox/internal/interp"
	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/report"
	"github.com/loxlang/lox/internal/resolver"
)

// run executes src through Parse -> Resolve -> Interpret and returns
// everything printed, failing the test if any error was reported.
func run(t *testing.T, src string) string {
	t.Helper()
	out, rep := runRaw(t, src)
	if rep.HadError {
		t.Fatalf("unexpected errors for %q:\n%s", src, diagText(rep))
	}
	return out
}

func runRaw(t *testing.T, src string) (string, *report.Reporter) {
	t.Helper()
	rep := report.New()
	stmts := parser.Parse(src, rep)
	if rep.HadError {
		return "", rep
	}
	locals := resolver.Resolve(stmts, rep)
	if rep.HadError {
		return "", rep
	}
	in := interp.New()
	var buf bytes.Buffer
	in.Stdout = &buf
	if err := in.Interpret(stmts, locals); err != nil {
		rep.RuntimeError(err)
	}
	return buf.String(), rep
}

func diagText(rep *report.Reporter) string {
	var sb strings.Builder
	for _, d := range rep.Diagnostics() {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestPrintArithmetic(t *testing.T) {
	got := run(t, `print 1 + 2 * 3;`)
	if got != "7\n" {
		t.Errorf("got %q, want %q", got, "7\n")
	}
}

func TestStringConcatenation(t *testing.T) {
	got := run(t, `print "foo" + "bar";`)
	if got != "foobar\n" {
		t.Errorf("got %q", got)
	}
}

func TestNumberDisplayHasNoTrailingZero(t *testing.T) {
	got := run(t, `print 6.0 / 2;`)
	if got != "3\n" {
		t.Errorf("got %q, want %q", got, "3\n")
	}
}

func TestDivisionByZeroIsNotAnError(t *testing.T) {
	got := run(t, `print 1 / 0;`)
	if got != "inf\n" {
		t.Errorf("got %q, want %q", got, "inf\n")
	}
}

func TestTypeErrorOnStringPlusNumber(t *testing.T) {
	_, rep := runRaw(t, `print 1 + "x";`)
	if !rep.HadError {
		t.Fatalf("expected a runtime error, got none")
	}
}

func TestClosureCapturesDeclarationEnvironment(t *testing.T) {
	src := `
		var a = "global";
		fun showA() { print a; }
		showA();
		var b = a;
		a = "changed";
		showA();
		print b;
	`
	got := run(t, src)
	want := "global\nchanged\nglobal\n"
	if got != want {
		t.Errorf("got %# v, want %# v", pretty.Formatter(got), pretty.Formatter(want))
	}
}

func TestBlockScopingShadowsWithoutLeaking(t *testing.T) {
	src := `
		var a = 1;
		{
			var a = 2;
			print a;
		}
		print a;
	`
	got := run(t, src)
	if got != "2\n1\n" {
		t.Errorf("got %q", got)
	}
}

func TestWhileLoop(t *testing.T) {
	src := `
		var i = 0;
		var sum = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		print sum;
	`
	got := run(t, src)
	if got != "10\n" {
		t.Errorf("got %q, want %q", got, "10\n")
	}
}

func TestForLoopStepSharesInitScope(t *testing.T) {
	src := `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`
	got := run(t, src)
	if got != "0\n1\n2\n" {
		t.Errorf("got %q, want %q", got, "0\n1\n2\n")
	}
}

func TestRecursiveFunctionAndReturn(t *testing.T) {
	src := `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`
	got := run(t, src)
	if got != "55\n" {
		t.Errorf("got %q, want %q", got, "55\n")
	}
}

func TestClassFieldsAndMethods(t *testing.T) {
	src := `
		class Cake {
			taste() {
				print "The " + this.flavor + " cake is delicious!";
			}
		}
		var cake = Cake();
		cake.flavor = "German chocolate";
		cake.taste();
	`
	got := run(t, src)
	want := "The German chocolate cake is delicious!\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, rep := runRaw(t, `print undefinedThing;`)
	if !rep.HadError {
		t.Fatalf("expected an undefined-variable error")
	}
}

func TestNativeClockReturnsNumber(t *testing.T) {
	got := run(t, `print clock() >= 0;`)
	if got != "true\n" {
		t.Errorf("got %q, want %q", got, "true\n")
	}
}

func TestLogicalOperatorsShortCircuitAndReturnOperand(t *testing.T) {
	got := run(t, `print nil or "yes"; print "no" and "also";`)
	if got != "yes\nalso\n" {
		t.Errorf("got %q", got)
	}
}
