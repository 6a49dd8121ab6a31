package interp

import (
	"github.com/hassan/minic/internal/symtab"
)

// Stack is the runtime scope stack. Each record is a symtab.Scope holding
// values; the innermost record is last. Record 0 holds the globals.
//
// Calls are isolated: inside a function the visible records are those pushed
// since the call began, then the globals. The caller's locals are hidden.
//
// DESIGN CHOICE: the stack is a flat slice with a base index rather than a
// chain of environments linked to their parents. A function's body is
// lexically nested only in the global scope, not in whatever block made
// the call, so lookup must skip from the call's first record straight to
// record 0. With a base index that skip is one comparison:
//
//	records: [globals] [caller block] [caller block] [call] [block]
//	                                                  ^ base
//
// Lookups walk from the end down to base, then try record 0. Leaving a call
// truncates the slice back to base, which also drops any block records a
// fault or return left open.
type Stack struct {
	records []*symtab.Scope[Value]

	// base is the index of the first record of the active call, 0 outside
	// any call.
	base int
}

// NewStack returns a stack holding only the global record.
func NewStack() *Stack {
	return &Stack{
		records: []*symtab.Scope[Value]{symtab.NewScope[Value](symtab.ScopeGlobal, symtab.NoScope)},
	}
}

// Push opens a block record.
func (s *Stack) Push() {
	s.push(symtab.ScopeBlock)
}

// Pop closes the innermost record.
func (s *Stack) Pop() {
	if len(s.records)-1 <= s.base {
		panic("interp: pop of call or global record")
	}
	s.records = s.records[:len(s.records)-1]
}

// EnterCall opens the activation record of a function call and returns the
// state LeaveCall needs to restore the caller's view.
func (s *Stack) EnterCall() (saved int) {
	saved = s.base
	s.base = len(s.records)
	s.push(symtab.ScopeFunction)
	return saved
}

// LeaveCall drops every record of the current call.
func (s *Stack) LeaveCall(saved int) {
	s.records = s.records[:s.base]
	s.base = saved
}

// Depth returns the number of open records, globals included.
func (s *Stack) Depth() int {
	return len(s.records)
}

func (s *Stack) push(kind symtab.ScopeKind) {
	s.records = append(s.records, symtab.NewScope[Value](kind, symtab.ScopeID(len(s.records)-1)))
}

// visible calls fn on every visible record from the innermost outwards
// until fn returns true.
func (s *Stack) visible(fn func(*symtab.Scope[Value]) bool) {
	for i := len(s.records) - 1; i >= s.base; i-- {
		if fn(s.records[i]) {
			return
		}
	}
	if s.base > 0 {
		fn(s.records[0])
	}
}

// Declare binds name in the innermost record. A name already bound there is
// overwritten.
func (s *Stack) Declare(name string, v Value) {
	top := s.records[len(s.records)-1]
	if err := top.Declare(name, v); err != nil {
		top.Set(name, v)
	}
}

// Lookup finds the nearest visible binding of name.
func (s *Stack) Lookup(name string) (v Value, ok bool) {
	s.visible(func(rec *symtab.Scope[Value]) bool {
		v, ok = rec.LookupLocal(name)
		return ok
	})
	return v, ok
}

// Assign stores v into the nearest visible binding of name, converted to
// the type that binding already has. When no binding exists the name is
// declared in the innermost record. It returns the stored value.
func (s *Stack) Assign(name string, v Value) (Value, error) {
	var (
		stored Value
		err    error
		found  bool
	)
	s.visible(func(rec *symtab.Scope[Value]) bool {
		old, ok := rec.LookupLocal(name)
		if !ok {
			return false
		}
		found = true
		if stored, err = convert(v, old.Type); err == nil {
			rec.Set(name, stored)
		}
		return true
	})
	if !found {
		s.Declare(name, v)
		return v, nil
	}
	return stored, err
}
