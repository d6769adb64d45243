package interp

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/loxlang/lox/internal/ast"
	"github.com/loxlang/lox/internal/resolver"
	"github.com/loxlang/lox/internal/scanner"
	"github.com/loxlang/lox/internal/token"
)

// Stmt and Expr alias the ast package's sealed node interfaces so the rest
// of this package can talk about "the tree" without importing ast
// everywhere a signature mentions a node.
type Stmt = ast.Stmt
type Expr = ast.Expr

// Interpreter walks a resolved AST, evaluating expressions and executing
// statements against a tree of Environments. One Interpreter holds the
// global environment and the current call's environment, plus the
// resolver's side-table of variable resolution distances.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  resolver.Locals
	Stdout  io.Writer
}

// New creates an Interpreter with its global environment populated with
// Lox's native functions (just clock, in this revision).
func New() *Interpreter {
	globals := NewEnvironment()
	in := &Interpreter{Globals: globals, env: globals, Stdout: os.Stdout}
	in.defineNatives()
	return in
}

func (in *Interpreter) defineNatives() {
	in.Globals.Define("clock", &NativeFunction{
		Name: "clock",
		Arty: 0,
		Fn: func(_ *Interpreter, _ []Value) (Value, error) {
			return Number{Value: float64(hiresSinceMs(hiresEpochNano())) / 1000.0}, nil
		},
	})
}

// Interpret executes stmts using the given resolution map. It stops at the
// first RuntimeError and returns it; the caller (internal/lox) is
// responsible for reporting it the way spec §7 describes.
func (in *Interpreter) Interpret(stmts []Stmt, locals resolver.Locals) error {
	in.locals = locals
	for _, s := range stmts {
		if _, err := in.execute(s); err != nil {
			return err
		}
	}
	return nil
}

// execResult threads a Return signal up through nested statement execution
// without using panic/recover: a typed, ordinary return value, checked by
// every construct (Block, If, While, For) that executes nested statements.
type execResult struct {
	isReturn bool
	value    Value
}

var noResult = execResult{}

func (in *Interpreter) execute(s Stmt) (execResult, error) {
	switch st := s.(type) {
	case *ast.Expression:
		_, err := in.eval(st.Expr)
		return noResult, err

	case *ast.Print:
		v, err := in.eval(st.Expr)
		if err != nil {
			return noResult, err
		}
		fmt.Fprintln(in.Stdout, Display(v))
		return noResult, nil

	case *ast.Var:
		var v Value = NilValue
		if st.Initializer != nil {
			var err error
			v, err = in.eval(st.Initializer)
			if err != nil {
				return noResult, err
			}
		}
		in.env.Define(st.Name.Lexeme, v)
		return noResult, nil

	case *ast.Block:
		return in.executeBlock(st.Statements, NewChild(in.env))

	case *ast.If:
		cond, err := in.eval(st.Condition)
		if err != nil {
			return noResult, err
		}
		if Truthy(cond) {
			return in.execute(st.Then)
		} else if st.Else != nil {
			return in.execute(st.Else)
		}
		return noResult, nil

	case *ast.While:
		for {
			cond, err := in.eval(st.Condition)
			if err != nil {
				return noResult, err
			}
			if !Truthy(cond) {
				return noResult, nil
			}
			res, err := in.execute(st.Body)
			if err != nil || res.isReturn {
				return res, err
			}
		}

	case *ast.For:
		// Init/Condition/Step/Body all share one child scope, mirroring the
		// resolver's handling and the classic `{ init; while(cond){body;step;} }`
		// desugaring, without actually building that nested AST.
		prev := in.env
		in.env = NewChild(prev)
		defer func() { in.env = prev }()

		if st.Init != nil {
			if _, err := in.execute(st.Init); err != nil {
				return noResult, err
			}
		}
		for {
			if st.Condition != nil {
				cond, err := in.eval(st.Condition)
				if err != nil {
					return noResult, err
				}
				if !Truthy(cond) {
					return noResult, nil
				}
			}
			res, err := in.execute(st.Body)
			if err != nil || res.isReturn {
				return res, err
			}
			if st.Step != nil {
				if _, err := in.eval(st.Step); err != nil {
					return noResult, err
				}
			}
		}

	case *ast.Fun:
		fn := &Function{Name: st.Name.Lexeme, Params: st.Params, Body: st.Body, Closure: in.env}
		in.env.Define(st.Name.Lexeme, fn)
		return noResult, nil

	case *ast.Return:
		var v Value = NilValue
		if st.Value != nil {
			var err error
			v, err = in.eval(st.Value)
			if err != nil {
				return noResult, err
			}
		}
		return execResult{isReturn: true, value: v}, nil

	case *ast.Class:
		in.env.Define(st.Name.Lexeme, nil)
		methods := make(map[string]*Function, len(st.Methods))
		for _, m := range st.Methods {
			methods[m.Name.Lexeme] = &Function{Name: m.Name.Lexeme, Params: m.Params, Body: m.Body, Closure: in.env}
		}
		class := &Class{Name: st.Name.Lexeme, Methods: methods}
		in.env.Assign(st.Name, class)
		return noResult, nil
	}
	return noResult, nil
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment before returning (including on early return/error), so a
// function call or block never leaks its scope into its caller's.
func (in *Interpreter) executeBlock(stmts []Stmt, env *Environment) (execResult, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, s := range stmts {
		res, err := in.execute(s)
		if err != nil || res.isReturn {
			return res, err
		}
	}
	return noResult, nil
}

// ---- expressions ----

func (in *Interpreter) eval(e Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return literalValue(ex.Value), nil

	case *ast.Grouping:
		return in.eval(ex.Expression)

	case *ast.Variable:
		return in.lookUpVariable(ex.Name, ex)

	case *ast.Assign:
		v, err := in.eval(ex.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := in.locals[ex]; ok {
			in.env.AssignAt(distance, ex.Name.Lexeme, v)
		} else if err := in.Globals.Assign(ex.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Unary:
		right, err := in.eval(ex.Right)
		if err != nil {
			return nil, err
		}
		switch ex.Op.Kind {
		case token.Minus:
			n, err := requireNumber(ex.Op, right)
			if err != nil {
				return nil, err
			}
			return Number{Value: -n}, nil
		case token.Bang:
			return Boolean{Value: !Truthy(right)}, nil
		}
		panic("interp: unreachable unary operator")

	case *ast.Logical:
		left, err := in.eval(ex.Left)
		if err != nil {
			return nil, err
		}
		if ex.Op.Kind == token.Or {
			if Truthy(left) {
				return left, nil
			}
		} else {
			if !Truthy(left) {
				return left, nil
			}
		}
		return in.eval(ex.Right)

	case *ast.Binary:
		return in.evalBinary(ex)

	case *ast.Call:
		return in.evalCall(ex)

	case *ast.Get:
		obj, err := in.eval(ex.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: ex.Name, Message: "Only instances have properties."}
		}
		if v, ok := inst.Fields[ex.Name.Lexeme]; ok {
			return v, nil
		}
		if m, ok := inst.Class.FindMethod(ex.Name.Lexeme); ok {
			return m.Bind(inst), nil
		}
		return nil, &RuntimeError{Token: ex.Name, Message: fmt.Sprintf("Undefined property '%s'.", ex.Name.Lexeme)}

	case *ast.Set:
		obj, err := in.eval(ex.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: ex.Name, Message: "Only instances have fields."}
		}
		v, err := in.eval(ex.Value)
		if err != nil {
			return nil, err
		}
		inst.Fields[ex.Name.Lexeme] = v
		return v, nil

	case *ast.This:
		v, err := in.lookUpVariable(ex.Keyword, ex)
		return v, err
	}
	panic(fmt.Sprintf("interp: unhandled expression %T", e))
}

func (in *Interpreter) lookUpVariable(name token.Token, e Expr) (Value, error) {
	if distance, ok := in.locals[e]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.Globals.Get(name)
}

func (in *Interpreter) evalCall(ex *ast.Call) (Value, error) {
	callee, err := in.eval(ex.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: ex.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{Token: ex.Paren, Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args))}
	}
	return fn.Call(in, args)
}

func (in *Interpreter) evalBinary(ex *ast.Binary) (Value, error) {
	left, err := in.eval(ex.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(ex.Right)
	if err != nil {
		return nil, err
	}

	switch ex.Op.Kind {
	case token.Plus:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return Number{Value: ln.Value + rn.Value}, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return String{Value: ls.Value + rs.Value}, nil
			}
		}
		return nil, &RuntimeError{Token: ex.Op, Message: "Operands must be two numbers or two strings."}

	case token.Minus:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Number{Value: ln - rn}, nil

	case token.Star:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Number{Value: ln * rn}, nil

	case token.Slash:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		// Division by zero is not special-cased: it yields IEEE-754
		// Inf/NaN, passed straight through to Display.
		return Number{Value: ln / rn}, nil

	case token.Greater:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean{Value: ln > rn}, nil

	case token.GreaterEqual:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean{Value: ln >= rn}, nil

	case token.Less:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean{Value: ln < rn}, nil

	case token.LessEqual:
		ln, rn, err := requireNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean{Value: ln <= rn}, nil

	case token.EqualEqual:
		return Boolean{Value: Equal(left, right)}, nil

	case token.BangEqual:
		return Boolean{Value: !Equal(left, right)}, nil
	}
	panic("interp: unreachable binary operator")
}

func requireNumber(op token.Token, v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, &RuntimeError{Token: op, Message: "Operand must be a number."}
	}
	return n.Value, nil
}

func requireNumbers(op token.Token, a, b Value) (float64, float64, error) {
	an, ok := a.(Number)
	if !ok {
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	bn, ok := b.(Number)
	if !ok {
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	return an.Value, bn.Value, nil
}

func literalValue(tok token.Token) Value {
	switch tok.Kind {
	case token.Number:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			panic(fmt.Sprintf("interp: scanner produced unparsable number literal %q", tok.Lexeme))
		}
		return Number{Value: f}
	case token.String:
		return String{Value: scanner.StripQuotes(tok.Lexeme)}
	case token.True:
		return Boolean{Value: true}
	case token.False:
		return Boolean{Value: false}
	case token.Nil:
		return NilValue
	}
	panic(fmt.Sprintf("interp: unhandled literal token kind %v", tok.Kind))
}
