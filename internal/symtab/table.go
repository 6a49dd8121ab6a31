package symtab

// Table is an arena of scopes. Scopes are never freed; leaving a scope only
// moves the current position back to its parent, so a ScopeID stays valid
// for the life of the table.
//
// DESIGN CHOICE: parents are stored as ScopeID indices into the arena, not
// as *Scope pointers. A child never owns or outlives its parent here, and
// a function symbol can record the ScopeID of its body (Symbol.Scope)
// after that scope has been left. The cost
// is one slice index per step of LookupAny, which walks:
//
//	current -> Parent -> Parent -> ... -> 0 (global) -> NoScope
//
// Table is generic so the checker can hold *Symbol values and tests can
// hold plain values with the same code.
type Table[T any] struct {
	scopes  []*Scope[T]
	current ScopeID
}

// NewTable returns a table holding only the global scope, which is current.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		scopes:  []*Scope[T]{NewScope[T](ScopeGlobal, NoScope)},
		current: 0,
	}
}

// Global returns the root scope's ID.
func (t *Table[T]) Global() ScopeID { return 0 }

// Current returns the ID of the innermost open scope.
func (t *Table[T]) Current() ScopeID { return t.current }

// Scope returns the scope with the given ID.
func (t *Table[T]) Scope(id ScopeID) *Scope[T] {
	return t.scopes[id]
}

// Parent returns the parent of id, or NoScope for the global scope.
func (t *Table[T]) Parent(id ScopeID) ScopeID {
	return t.scopes[id].Parent
}

// EnterChild opens a new scope nested in the current one and makes it
// current.
func (t *Table[T]) EnterChild(kind ScopeKind) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, NewScope[T](kind, t.current))
	t.current = id
	return id
}

// ExitToParent makes the parent of the current scope current again.
// Leaving the global scope is a programming error.
func (t *Table[T]) ExitToParent() {
	parent := t.scopes[t.current].Parent
	if parent == NoScope {
		panic("symtab: ExitToParent at global scope")
	}
	t.current = parent
}

// Declare binds name in the current scope.
func (t *Table[T]) Declare(name string, value T) error {
	return t.scopes[t.current].Declare(name, value)
}

// LookupLocal looks name up in the current scope only.
func (t *Table[T]) LookupLocal(name string) (T, bool) {
	return t.scopes[t.current].LookupLocal(name)
}

// LookupAny looks name up from the current scope outwards and also returns
// the scope that holds the binding.
func (t *Table[T]) LookupAny(name string) (T, ScopeID, bool) {
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		if v, ok := t.scopes[id].LookupLocal(name); ok {
			return v, id, true
		}
	}
	var zero T
	return zero, NoScope, false
}

// Depth returns how many scopes enclose the current one.
func (t *Table[T]) Depth() int {
	depth := 0
	for id := t.scopes[t.current].Parent; id != NoScope; id = t.scopes[id].Parent {
		depth++
	}
	return depth
}
