package symtab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/minic/internal/lexer"
	"github.com/hassan/minic/internal/semantic/types"
)

func TestScope_DeclareAndLookup(t *testing.T) {
	s := NewScope[int](ScopeBlock, NoScope)
	require.NoError(t, s.Declare("x", 1))
	require.NoError(t, s.Declare("y", 2))

	v, ok := s.LookupLocal("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.LookupLocal("z")
	assert.False(t, ok)

	assert.Equal(t, []string{"x", "y"}, s.Names())
	assert.Equal(t, 2, s.Len())
}

func TestScope_Redeclare(t *testing.T) {
	s := NewScope[string](ScopeGlobal, NoScope)
	require.NoError(t, s.Declare("x", "first"))

	err := s.Declare("x", "second")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRedeclared))
	assert.Equal(t, "already declared: x", err.Error())

	v, _ := s.LookupLocal("x")
	assert.Equal(t, "first", v, "failed declaration must not overwrite")
}

func TestScope_Set(t *testing.T) {
	s := NewScope[int](ScopeBlock, NoScope)
	assert.False(t, s.Set("x", 1))
	require.NoError(t, s.Declare("x", 1))
	assert.True(t, s.Set("x", 5))
	v, _ := s.LookupLocal("x")
	assert.Equal(t, 5, v)
}

func TestTable_Chaining(t *testing.T) {
	tbl := NewTable[string]()
	require.NoError(t, tbl.Declare("g", "global"))

	fn := tbl.EnterChild(ScopeFunction)
	require.NoError(t, tbl.Declare("p", "param"))
	block := tbl.EnterChild(ScopeBlock)
	assert.Equal(t, 2, tbl.Depth())

	v, id, ok := tbl.LookupAny("g")
	require.True(t, ok)
	assert.Equal(t, "global", v)
	assert.Equal(t, tbl.Global(), id)

	_, id, ok = tbl.LookupAny("p")
	require.True(t, ok)
	assert.Equal(t, fn, id)

	_, ok = tbl.LookupLocal("g")
	assert.False(t, ok, "local lookup ignores enclosing scopes")

	_, _, ok = tbl.LookupAny("missing")
	assert.False(t, ok)

	assert.Equal(t, block, tbl.Current())
	assert.Equal(t, fn, tbl.Parent(block))
	assert.Equal(t, NoScope, tbl.Parent(tbl.Global()))
	assert.Equal(t, ScopeBlock, tbl.Scope(block).Kind)
}

func TestTable_ShadowingDoesNotTouchOuterBinding(t *testing.T) {
	tbl := NewTable[int]()
	require.NoError(t, tbl.Declare("x", 1))

	tbl.EnterChild(ScopeBlock)
	require.NoError(t, tbl.Declare("x", 2), "shadowing in a child scope is allowed")
	v, _, _ := tbl.LookupAny("x")
	assert.Equal(t, 2, v)

	tbl.ExitToParent()
	v, _, _ = tbl.LookupAny("x")
	assert.Equal(t, 1, v)

	err := tbl.Declare("x", 3)
	assert.ErrorIs(t, err, ErrRedeclared)
}

func TestTable_ChildrenSeeEveryAncestor(t *testing.T) {
	// Every name declared in a scope resolves from any descendant unless a
	// nearer scope shadows it.
	tbl := NewTable[int]()
	names := []string{"a", "b", "c", "d"}
	for depth, name := range names {
		require.NoError(t, tbl.Declare(name, depth))
		tbl.EnterChild(ScopeBlock)
	}
	for depth, name := range names {
		v, _, ok := tbl.LookupAny(name)
		require.True(t, ok, name)
		assert.Equal(t, depth, v)
	}
}

func TestTable_ExitGlobalPanics(t *testing.T) {
	tbl := NewTable[int]()
	assert.Panics(t, tbl.ExitToParent)
}

func TestSymbol(t *testing.T) {
	v := NewVariable("x", types.Float, lexer.Position{Line: 3})
	assert.False(t, v.IsFunction())
	assert.Equal(t, "variable x float", v.String())

	f := NewFunction("f", types.Int, lexer.Position{Line: 1})
	f.AddParam(types.Int)
	f.AddParam(types.String)
	assert.True(t, f.IsFunction())
	assert.Equal(t, "function f(int, string) int", f.String())
	assert.Equal(t, "function", f.Kind.String())
	assert.Equal(t, NoScope, f.Scope)
}
