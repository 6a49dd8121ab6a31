// Package symtab implements the scope chain used for name resolution.
//
// A Scope holds the bindings of one lexical level. Table arranges scopes in
// an arena addressed by ScopeID, with parents stored as indices, and tracks
// the scope currently being filled. Both are generic over the payload: the
// checker stores *Symbol, the interpreter stores runtime values.
package symtab

import (
	"errors"
	"fmt"
)

// ErrRedeclared is returned when a name is declared twice in one scope.
var ErrRedeclared = errors.New("already declared")

// ScopeKind is the construct that opened a scope.
type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// ScopeID addresses a scope inside a Table.
type ScopeID int32

// NoScope is the parent of the global scope.
const NoScope ScopeID = -1

// Scope is a single level of bindings.
type Scope[T any] struct {
	Kind   ScopeKind
	Parent ScopeID

	bindings map[string]T
	order    []string
}

// NewScope returns an empty scope.
func NewScope[T any](kind ScopeKind, parent ScopeID) *Scope[T] {
	return &Scope[T]{
		Kind:     kind,
		Parent:   parent,
		bindings: make(map[string]T),
	}
}

// Declare binds name in this scope. It fails with ErrRedeclared if the name
// is already bound here; enclosing scopes are not consulted.
func (s *Scope[T]) Declare(name string, value T) error {
	if _, ok := s.bindings[name]; ok {
		return fmt.Errorf("%w: %s", ErrRedeclared, name)
	}
	s.bindings[name] = value
	s.order = append(s.order, name)
	return nil
}

// LookupLocal returns the binding of name in this scope only.
func (s *Scope[T]) LookupLocal(name string) (T, bool) {
	v, ok := s.bindings[name]
	return v, ok
}

// Set replaces an existing binding and reports whether there was one.
func (s *Scope[T]) Set(name string, value T) bool {
	if _, ok := s.bindings[name]; !ok {
		return false
	}
	s.bindings[name] = value
	return true
}

// Names returns the bound names in declaration order.
func (s *Scope[T]) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of bindings.
func (s *Scope[T]) Len() int {
	return len(s.bindings)
}
