package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_BlockShadowing(t *testing.T) {
	s := NewStack()
	s.Declare("x", IntValue(1))
	s.Push()
	s.Declare("x", IntValue(2))

	v, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int)

	s.Pop()
	v, _ = s.Lookup("x")
	assert.Equal(t, int64(1), v.Int)
}

func TestStack_CallSeesOnlyItselfAndGlobals(t *testing.T) {
	s := NewStack()
	s.Declare("g", IntValue(1))
	s.Push()
	s.Declare("local", IntValue(2))

	saved := s.EnterCall()
	_, ok := s.Lookup("local")
	assert.False(t, ok)
	_, ok = s.Lookup("g")
	assert.True(t, ok)

	s.Push()
	s.Declare("inner", IntValue(3))
	s.LeaveCall(saved)

	_, ok = s.Lookup("inner")
	assert.False(t, ok)
	_, ok = s.Lookup("local")
	assert.True(t, ok)
	assert.Equal(t, 2, s.Depth())
}

func TestStack_AssignConvertsToBindingType(t *testing.T) {
	s := NewStack()
	s.Declare("i", IntValue(0))
	s.Push()

	stored, err := s.Assign("i", FloatValue(4.8))
	require.NoError(t, err)
	assert.Equal(t, IntValue(4), stored)

	got, _ := s.Lookup("i")
	assert.Equal(t, IntValue(4), got)

	stored, err = s.Assign("fresh", StringValue("s"))
	require.NoError(t, err)
	assert.Equal(t, StringValue("s"), stored)
	s.Pop()
	_, ok := s.Lookup("fresh")
	assert.False(t, ok, "a fresh name is declared in the innermost record")
}

func TestStack_PopGlobalPanics(t *testing.T) {
	s := NewStack()
	assert.Panics(t, s.Pop)

	s.EnterCall()
	assert.Panics(t, s.Pop)
}
