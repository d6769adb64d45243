// Package interp implements Lox's Environment, Value/Callable model, and
// the tree-walking Interpreter itself.
package interp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/loxlang/lox/internal/token"
)

// Value is the sealed tagged union of every runtime value: Nil, Boolean,
// Number, String, or a Callable/Instance reference. The unexported marker
// method restricts implementers to this package, mirroring agent0's
// A0Value sealed interface.
type Value interface {
	value()
}

// Nil is Lox's null value. There is exactly one logical Nil; NilValue is
// the value every nil-producing expression returns.
type Nil struct{}

// Boolean wraps a Go bool.
type Boolean struct{ Value bool }

// Number wraps an IEEE-754 double. Division by zero is not
// special-cased: they propagate Go's float64 Inf/NaN results, per spec.
type Number struct{ Value float64 }

// String wraps a Go string (already stripped of its surrounding quotes).
type String struct{ Value string }

func (Nil) value()     {}
func (Boolean) value() {}
func (Number) value()  {}
func (String) value()  {}

// NilValue is the single shared Nil instance.
var NilValue = Nil{}

// Callable is the uniform contract every invocable value implements:
// native functions, user functions/closures, and classes (which construct
// instances when called).
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	Display() string
}

// NativeFunction is a built-in callable implemented in Go, e.g. clock.
type NativeFunction struct {
	Name string
	Arty int
	Fn   func(in *Interpreter, args []Value) (Value, error)
}

func (*NativeFunction) value()                {}
func (f *NativeFunction) Arity() int          { return f.Arty }
func (f *NativeFunction) Display() string     { return "<native func>" }
func (f *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return f.Fn(in, args)
}

// Function is a user-defined function or method: a declaration plus the
// environment captured at the point of declaration (its closure). This is
// what makes `var a=1; fun f(){print a;} var a=2; f();` print 1 — f closes
// over the environment as it existed when `fun f(){...}` executed, not
// whatever environment happens to be current when f is later called.
type Function struct {
	Name          string
	Params        []token.Token
	Body          []Stmt
	Closure       *Environment
	IsInitializer bool
}

func (*Function) value()      {}
func (f *Function) Arity() int { return len(f.Params) }
func (f *Function) Display() string {
	if f.Name == "" {
		return "<fun>"
	}
	return fmt.Sprintf("<fun %s>", f.Name)
}

// Call activates f: a fresh environment parented by its closure, binds each
// parameter, executes the body, and returns whatever Return produced (or
// Nil if control fell off the end).
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewChild(f.Closure)
	for i, param := range f.Params {
		env.Define(param.Lexeme, args[i])
	}
	result, err := in.executeBlock(f.Body, env)
	if err != nil {
		return nil, err
	}
	if result.isReturn {
		return result.value, nil
	}
	return NilValue, nil
}

// Bind returns a new Function identical to f except its closure is a fresh
// environment, parented by f's own closure, containing one binding
// `this -> instance`. This is how method calls see `this`.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewChild(f.Closure)
	env.Define("this", instance)
	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a callable that constructs Instances. Per this revision's
// scoped-down constructor support, calling a class always takes zero
// arguments (see DESIGN.md's Open Question ledger).
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (*Class) value()      {}
func (*Class) Arity() int  { return 0 }
func (c *Class) Display() string { return fmt.Sprintf("<class %s>", c.Name) }

func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	return &Instance{Class: c, Fields: make(map[string]Value)}, nil
}

// FindMethod looks up a method by name on this class. There is no
// superclass chain in this revision, so lookup is a single map access.
func (c *Class) FindMethod(name string) (*Function, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Instance is a runtime object: a class reference plus its own field map.
// Field access resolves fields first, then falls back to a class method
// (bound to this instance) — see the *ast.Get case of Interpreter.eval.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) value() {}

func (i *Instance) Display() string {
	return fmt.Sprintf("<%s instance>", i.Class.Name)
}

// RuntimeError is Lox's single runtime-failure type: a type mismatch,
// undefined name, arity mismatch, or undefined property, carrying the
// offending token for line attribution per spec §4.4.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Tok satisfies report's runtimeErr interface so the reporter can attribute
// the failure to a source line without importing this package.
func (e *RuntimeError) Tok() token.Token { return e.Token }

// Truthy implements Lox's total truthiness rule: nil and false are falsy,
// every other value (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Boolean:
		return val.Value
	default:
		return true
	}
}

// Equal implements Lox's equality: unlike tags are never equal; Nil==Nil is
// true; Booleans/Numbers/Strings compare their payload.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	}
	return false
}

// Display renders v in Lox's print/stringification form (spec §6).
func Display(v Value) string {
	switch val := v.(type) {
	case Nil:
		return "nil"
	case Boolean:
		if val.Value {
			return "true"
		}
		return "false"
	case Number:
		return FormatNumber(val.Value)
	case String:
		return val.Value
	case Callable:
		return val.Display()
	case *Instance:
		return val.Display()
	}
	return "?"
}

// FormatNumber renders a float64 as the shortest decimal that round-trips,
// with whole numbers rendered without a trailing ".0" — grounded on
// agent0's FormatNumber in pkg/evaluator/value_json.go. Tests check exact
// text for integral values and round-trip equality for fractional ones.
func FormatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func TypeName(v Value) string {
	switch v.(type) {
	case Nil:
		return "nil"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *Function, *NativeFunction:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	}
	return "unknown"
}
