package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/minic/internal/semantic/types"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{IntValue(-12), "-12"},
		{FloatValue(2), "2.0"},
		{FloatValue(0.1), "0.1"},
		{FloatValue(1e-7), "1e-07"},
		{FloatValue(math.Inf(1)), "+Inf"},
		{StringValue("hi"), "hi"},
		{Value{}, "<invalid>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestValue_Truthy(t *testing.T) {
	assert.True(t, IntValue(-1).Truthy())
	assert.False(t, IntValue(0).Truthy())
	assert.True(t, FloatValue(0.5).Truthy())
	assert.False(t, FloatValue(0).Truthy())
	assert.True(t, StringValue("x").Truthy())
	assert.False(t, StringValue("").Truthy())
	assert.False(t, Value{}.Truthy())
}

func TestConvert(t *testing.T) {
	v, err := convert(FloatValue(-2.9), types.Int)
	require.NoError(t, err)
	assert.Equal(t, IntValue(-2), v)

	v, err = convert(IntValue(3), types.Float)
	require.NoError(t, err)
	assert.Equal(t, FloatValue(3), v)

	_, err = convert(StringValue("3"), types.Int)
	assert.EqualError(t, err, "cannot convert string to int")
}

func TestBinary(t *testing.T) {
	v, err := binary("*", StringValue("ab"), IntValue(2))
	require.NoError(t, err)
	assert.Equal(t, StringValue("abab"), v)

	v, err = binary("*", StringValue(""), IntValue(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, StringValue(""), v)

	_, err = binary("*", StringValue("x"), IntValue(maxStringLen+1))
	assert.ErrorIs(t, err, errStringTooLong)

	v, err = binary("<", IntValue(1), FloatValue(1.5))
	require.NoError(t, err)
	assert.Equal(t, IntValue(1), v)

	_, err = binary("%", FloatValue(1), FloatValue(2))
	assert.EqualError(t, err, "illegal operation float % float")

	_, err = binary("/", IntValue(1), IntValue(0))
	assert.ErrorIs(t, err, errDivisionByZero)
}
