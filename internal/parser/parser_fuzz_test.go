package parser_test

import (
	"testing"

	"github.com/loxlang/lox/internal/parser"
	"github.com/loxlang/lox/internal/report"
)

// FuzzParse feeds random token streams at the parser to catch panics that
// escape declaration()'s recover. Every panic the parser itself raises
// (parseError, via errorAt) must be caught there; anything that reaches
// this test is a bug.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"print 1 + 2;",
		`var a = "hi"; print a;`,
		"fun fib(n){ if (n<2) return n; return fib(n-1)+fib(n-2); }",
		"for (var i=0;i<10;i=i+1) print i;",
		"while (true) { print 1; }",
		`class Cake{ taste(){ print this.flavor; } }`,
		"var a = 1; { var a = 2; print a; }",
		"a.b.c.d();",
		"1 = 2;",
		"var x = ;",
		"fun (",
		"class {",
		"return;",
		"(((1)))",
		")))(((",
		"",
		"   ",
		"1 +",
		"+ 1",
		"\"unterminated",
		"1 2 3 4 5;",
		"print;",
		"if (",
		"for (;;) {}",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on input %q: %v", input, r)
			}
		}()
		parser.Parse(input, report.New())
	})
}
