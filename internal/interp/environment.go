package interp

import (
	"fmt"

	"github.com/loxlang/lox/internal/token"
)

// Environment is a single lexical scope's name-to-value map with an
// optional parent link. Environments form a tree; sharing by reference
// across call frames is what implements closures.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a global environment (no parent).
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewChild creates a child scope of parent — used for blocks, function
// activations, and method bindings.
func NewChild(parent *Environment) *Environment {
	return &Environment{values: make(map[string]Value), parent: parent}
}

// Define binds name to value in this scope. Redefinition overwrites.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get reads name, walking parent links, and reports an undefined-variable
// RuntimeError attributed to nameTok if it is never found.
func (e *Environment) Get(nameTok token.Token) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[nameTok.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, &RuntimeError{Token: nameTok, Message: fmt.Sprintf("Undefined variable '%s'.", nameTok.Lexeme)}
}

// Assign writes value where name is already defined, walking parent links.
// Assigning to an undefined name is a RuntimeError attributed to nameTok.
func (e *Environment) Assign(nameTok token.Token, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[nameTok.Lexeme]; ok {
			env.values[nameTok.Lexeme] = value
			return nil
		}
	}
	return &RuntimeError{Token: nameTok, Message: fmt.Sprintf("Undefined variable '%s'.", nameTok.Lexeme)}
}

// Ancestor skips exactly distance parent links and returns that
// Environment. Called only with distances the resolver computed, so
// distance always stays in range; an out-of-range distance is a programmer
// error (an internal invariant violation, not a user-facing failure) and
// panics rather than silently misbehaving.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.parent == nil {
			panic(fmt.Sprintf("interp: ancestor(%d) walked past the global environment", distance))
		}
		env = env.parent
	}
	return env
}

// GetAt reads name directly from the environment distance hops up, per the
// resolver's recorded resolution.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.Ancestor(distance).values[name]
}

// AssignAt writes value directly into the environment distance hops up.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.Ancestor(distance).values[name] = value
}
