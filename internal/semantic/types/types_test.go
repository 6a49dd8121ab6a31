package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Type
		ok   bool
	}{
		{"int", Int, true},
		{"float", Float, true},
		{"string", String, true},
		{"bool", Invalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.name, got.String())
			}
		})
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		op          string
		left, right Type
		want        Type
		ok          bool
	}{
		{"+", Int, Int, Int, true},
		{"+", Int, Float, Float, true},
		{"+", Float, Int, Float, true},
		{"/", Float, Float, Float, true},
		{"+", String, String, String, true},
		{"*", String, Int, String, true},
		{"*", Int, String, Invalid, false},
		{"-", String, String, Invalid, false},
		{"+", String, Int, Invalid, false},
		{"%", Int, Int, Int, true},
		{"%", Float, Int, Invalid, false},
		{"<<", Int, Int, Int, true},
		{">>", Float, Int, Invalid, false},
		{"&", Int, Int, Int, true},
		{"&&", Int, Int, Int, true},
		{"||", Float, Float, Invalid, false},
		{"<", Int, Float, Int, true},
		{">=", Float, Int, Int, true},
		{"==", String, String, Int, true},
		{"!=", String, Int, Invalid, false},
		{"+", Invalid, String, Invalid, true},
		{"%", Float, Invalid, Invalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.left.String()+tt.op+tt.right.String(), func(t *testing.T) {
			got, ok := Result(tt.op, tt.left, tt.right)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_SymmetryOnlyWhereDefined(t *testing.T) {
	for _, op := range append(append([]string{}, arithmeticOps...), comparisonOps...) {
		l, lok := Result(op, Int, Float)
		r, rok := Result(op, Float, Int)
		assert.True(t, lok && rok, op)
		assert.Equal(t, l, r, op)
	}
	_, ok := Result("*", Int, String)
	assert.False(t, ok, "repetition is string * int only")
}

func TestAssignable(t *testing.T) {
	tests := []struct {
		target, value Type
		ok, narrowing bool
	}{
		{Int, Int, true, false},
		{Float, Int, true, false},
		{Int, Float, true, true},
		{Float, Float, true, false},
		{String, String, true, false},
		{String, Int, false, false},
		{Int, String, false, false},
		{Invalid, String, true, false},
		{Int, Invalid, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.target.String()+"<-"+tt.value.String(), func(t *testing.T) {
			ok, narrowing := Assignable(tt.target, tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.narrowing, narrowing)
		})
	}
}
