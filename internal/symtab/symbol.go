package symtab

import (
	"strings"

	"github.com/hassan/minic/internal/lexer"
	"github.com/hassan/minic/internal/semantic/types"
)

// SymbolKind tells variables from functions.
type SymbolKind uint8

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
)

func (k SymbolKind) String() string {
	if k == SymbolFunction {
		return "function"
	}
	return "variable"
}

// Symbol is a named entity recorded during checking.
//
// For a variable Type is its declared type. For a function Type is the
// return type, Params the parameter types in order and Scope the function's
// own scope holding the parameters. A function symbol is filled in while the
// definition is checked.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type types.Type
	Pos  lexer.Position

	Params []types.Type
	Scope  ScopeID

	// HasReturned is set once a return statement was checked in the body.
	HasReturned bool
}

// NewVariable returns a variable symbol.
func NewVariable(name string, typ types.Type, pos lexer.Position) *Symbol {
	return &Symbol{Name: name, Kind: SymbolVariable, Type: typ, Pos: pos, Scope: NoScope}
}

// NewFunction returns a function symbol with no parameters yet.
func NewFunction(name string, returnType types.Type, pos lexer.Position) *Symbol {
	return &Symbol{Name: name, Kind: SymbolFunction, Type: returnType, Pos: pos, Scope: NoScope}
}

// IsFunction reports whether the symbol names a function.
func (s *Symbol) IsFunction() bool {
	return s.Kind == SymbolFunction
}

// AddParam appends a parameter type to a function symbol.
func (s *Symbol) AddParam(t types.Type) {
	s.Params = append(s.Params, t)
}

// String renders the symbol for debugging, e.g. "function f(int, float) int".
func (s *Symbol) String() string {
	if !s.IsFunction() {
		return "variable " + s.Name + " " + s.Type.String()
	}
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return "function " + s.Name + "(" + strings.Join(params, ", ") + ") " + s.Type.String()
}
