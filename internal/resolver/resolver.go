// Package resolver performs Lox's single pre-execution static pass: for
// every variable read, assignment, and `this` expression, it records how
// many environment hops separate the current scope from the scope that
// will define the name at runtime. The interpreter consults this map
// instead of walking the environment chain blind.
package resolver

import (
	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/report"
	"github.com/loxlang/lox/internal/token"
)

type functionKind int

const (
	kindNone functionKind = iota
	kindFunction
	kindMethod
)

// Locals maps an expression's identity (its pointer) to the number of
// environment hops from the point of use to the scope that defines it.
// Absence means "resolves to the global environment at runtime".
type Locals map[ast.Expr]int

type scope map[string]bool

type resolver struct {
	rep         *report.Reporter
	scopes      []scope
	currentFunc functionKind
	locals      Locals
}

// Resolve walks stmts, reporting use-before-ready, duplicate-local, and
// top-level-return errors through rep, and returns the resolution map the
// interpreter should use for variable/this lookups.
func Resolve(stmts []ast.Stmt, rep *report.Reporter) Locals {
	r := &resolver{rep: rep, locals: make(Locals)}
	r.resolveStmts(stmts)
	return r.locals
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Expression:
		r.resolveExpr(st.Expr)
	case *ast.Print:
		r.resolveExpr(st.Expr)
	case *ast.Var:
		r.declare(st.Name)
		if st.Initializer != nil {
			r.resolveExpr(st.Initializer)
		}
		r.define(st.Name)
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(st.Statements)
		r.endScope()
	case *ast.If:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Then)
		if st.Else != nil {
			r.resolveStmt(st.Else)
		}
	case *ast.While:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Body)
	case *ast.For:
		// A for-loop's init/condition/step/body are resolved inside their
		// own scope so a var declared in the initializer is visible to the
		// condition, step, and body — the same block-desugaring the
		// interpreter uses.
		r.beginScope()
		if st.Init != nil {
			r.resolveStmt(st.Init)
		}
		if st.Condition != nil {
			r.resolveExpr(st.Condition)
		}
		if st.Step != nil {
			r.resolveExpr(st.Step)
		}
		r.resolveStmt(st.Body)
		r.endScope()
	case *ast.Fun:
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st, kindFunction)
	case *ast.Return:
		if r.currentFunc == kindNone {
			r.rep.ErrorAt(st.Keyword, "Can't return from top-level code.")
		}
		if st.Value != nil {
			r.resolveExpr(st.Value)
		}
	case *ast.Class:
		r.declare(st.Name)
		r.define(st.Name)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		for _, method := range st.Methods {
			r.resolveFunction(method, kindMethod)
		}
		r.endScope()
	}
}

func (r *resolver) resolveExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if ready, declared := r.scopes[len(r.scopes)-1][ex.Name.Lexeme]; declared && !ready {
				r.rep.ErrorAt(ex.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(ex, ex.Name)
	case *ast.Grouping:
		r.resolveExpr(ex.Expression)
	case *ast.Unary:
		r.resolveExpr(ex.Right)
	case *ast.Binary:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *ast.Logical:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *ast.Assign:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex, ex.Name)
	case *ast.Call:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}
	case *ast.Get:
		r.resolveExpr(ex.Object)
	case *ast.Set:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)
	case *ast.This:
		r.resolveLocal(ex, ex.Keyword)
	}
}

func (r *resolver) resolveFunction(fn *ast.Fun, kind functionKind) {
	enclosing := r.currentFunc
	r.currentFunc = kind
	defer func() { r.currentFunc = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, exists := sc[name.Lexeme]; exists {
		r.rep.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *resolver) resolveLocal(e ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[e] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: resolves to the global environment.
}
