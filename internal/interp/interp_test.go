package interp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/minic/internal/parser"
	"github.com/hassan/minic/internal/semantic/types"
)

func run(t *testing.T, source string, opts Options) (string, *Interpreter, error) {
	t.Helper()
	prog, errs := parser.ParseSource(source, "test.mc")
	require.Empty(t, errs)
	var out bytes.Buffer
	in := New(&out, opts)
	err := in.Run(context.Background(), prog)
	return out.String(), in, err
}

func TestInterpreter_Output(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "int x = 2; int y = 3; print x + y * 2;", "8\n"},
		{
			"while factorial",
			"int n = 5; int r = 1; while (n > 0) { r = r * n; n = n - 1; } print r;",
			"120\n",
		},
		{
			"recursive factorial",
			"int fact(int n) { if (n <= 1) return 1; else return n * fact(n - 1); } print fact(5);",
			"120\n",
		},
		{"string repetition", `string s = "ab" * 3; print s;`, "ababab\n"},
		{"negative repetition", `int k = 0 - 2; print "ab" * k, "x";`, ", x\n"},
		{"concatenation", `string a = "foo" + "bar"; print a;`, "foobar\n"},
		{"print list", `print 1, 2.5, "s";`, "1, 2.5, s\n"},
		{"integral float", "float f = 3; print f, 1.0 / 4, 1e21;", "3.0, 0.25, 1e+21\n"},
		{"truncating division", "print 7 / 2, (0 - 7) / 2, 7 % 3, (0 - 7) % 3;", "3, -3, 1, -1\n"},
		{"mixed promotion", "print 1 + 0.5, 3 / 2.0;", "1.5, 1.5\n"},
		{"bitwise and shifts", "print 6 & 3, 6 | 3, 6 ^ 3, 1 << 4, 256 >> 2;", "2, 7, 5, 16, 64\n"},
		{"relational", `print 1 < 2, 2 <= 1, 1.5 > 1, "a" < "b", "b" == "b", 3 != 3;`, "1, 0, 1, 1, 1, 0\n"},
		{"logical", "print 2 && 3, 0 && 1, 0 || 5, 0 || 0;", "1, 0, 1, 0\n"},
		{"narrowing declaration", "float f = 1.9; int i = f; print i;", "1\n"},
		{"widening assignment", "float f = 0; f = 2; print f;", "2.0\n"},
		{"narrowing assignment", "int i = 0; i = 2.7; print i;", "2\n"},
		{"chained assignment", "int a = 0; float b = 0; a = b = 3; print a, b;", "3, 3.0\n"},
		{"assignment expression value", "int a = 0; print (a = 4) + 1, a;", "5, 4\n"},
		{
			"if else",
			`int x = 3; if (x > 2) print "big"; else print "small"; if (0) print "no";`,
			"big\n",
		},
		{
			"break and continue",
			"int i = 0; while (i < 10) { i = i + 1; if (i % 2 == 0) continue; if (i > 6) break; print i; }",
			"1\n3\n5\n",
		},
		{
			"repeat runs once",
			"int i = 10; repeat { print i; i = i + 1; } until i > 0;",
			"10\n",
		},
		{
			"repeat until true",
			"int i = 0; repeat i = i + 1; until i == 3; print i;",
			"3\n",
		},
		{
			"repeat with continue checks condition",
			"int i = 0; repeat { i = i + 1; continue; print 99; } until i >= 2; print i;",
			"2\n",
		},
		{
			"nested loops break inner only",
			"int i = 0; while (i < 2) { int j = 0; while (1) { j = j + 1; if (j == 2) break; } print i, j; i = i + 1; }",
			"0, 2\n1, 2\n",
		},
		{
			"return from inside loop",
			"int first(int n) { int i = 0; while (1) { if (i * i >= n) return i; i = i + 1; } return 0 - 1; } print first(10);",
			"4\n",
		},
		{
			"block shadowing",
			"int x = 1; { int x = 2; print x; } print x;",
			"2\n1\n",
		},
		{
			"assignment reaches outer record",
			"int x = 1; { x = 5; } print x;",
			"5\n",
		},
		{
			"function sees globals",
			"int g = 10; int addg(int a) { return a + g; } print addg(1); g = 20; print addg(1);",
			"11\n21\n",
		},
		{
			"function updates global",
			"int count = 0; int bump() { count = count + 1; return count; } bump(); bump(); print count;",
			"2\n",
		},
		{
			"return value coerced",
			"int half(int n) { return n / 2.0; } float f(int n) { return n; } print half(5), f(2);",
			"2, 2.0\n",
		},
		{
			"parameters coerced",
			"float twice(float x) { return x * 2; } print twice(3);",
			"6.0\n",
		},
		{
			"fall off the end",
			`string s() { if (0) return "x"; } print s(), "after";`,
			", after\n",
		},
		{
			"two parameter recursion",
			"int pow(int b, int e) { if (e == 0) return 1; return b * pow(b, e - 1); } print pow(2, 10);",
			"1024\n",
		},
		{"labeled", "here: print 1;", "1\n"},
		{"stray break at top level", "print 1; break; continue; print 2;", "1\n2\n"},
		{
			"stray break in function body",
			"int f() { print 1; if (1) { break; print 9; } print 2; return 3; } print f();",
			"1\n2\n3\n",
		},
		{"top level return stops", "print 1; return 0; print 2;", "1\n"},
		{
			"later elements",
			"int a = 1; print a; int b = a + 1; print b;",
			"1\n2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.source, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestInterpreter_CallIsolation(t *testing.T) {
	source := `
int fact(int n) {
	int r = 1;
	if (n > 1) r = n * fact(n - 1);
	return r;
}
int n = 7;
int got = fact(5);
print n, got;
`
	out, in, err := run(t, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, "7, 120\n", out)

	_, ok := in.Global("r")
	assert.False(t, ok, "locals of a call leak into the globals")
	assert.Equal(t, 1, in.stack.Depth(), "records left on the stack")
}

func TestInterpreter_CallerLocalsInvisible(t *testing.T) {
	source := `
int peek() { return hidden; }
{ int hidden = 1; print peek(); }
`
	_, _, err := run(t, source, Options{})
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "undefined variable 'hidden'", rerr.Message)
	assert.Equal(t, 2, rerr.Line)
}

func TestInterpreter_RuntimeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		output string
		want   string
	}{
		{"int division by zero", "print 1;\nint z = 0; print 4 / z; print 2;", "1\n", "Runtime error: division by zero: line 2"},
		{"modulo by zero", "int z = 0; print 4 % z;", "", "Runtime error: division by zero: line 1"},
		{"float division by zero", "float z = 0; print 1.5 / z;", "", "Runtime error: division by zero: line 1"},
		{"negative shift", "int s = 0 - 1; print 1 << s;", "", "Runtime error: negative shift count: line 1"},
		{"undefined variable", "print nope;", "", "Runtime error: undefined variable 'nope': line 1"},
		{"undefined function", "print nope(1);", "", "Runtime error: call of undefined function 'nope': line 1"},
		{
			"arity mismatch",
			"int f(int a) { return a; }\nprint f(1, 2);",
			"",
			"Runtime error: function 'f' expects 1 arguments, got 2: line 2",
		},
		{"illegal operation", `print "a" - 1;`, "", "Runtime error: illegal operation string - int: line 1"},
		{
			"huge repetition",
			"string s = \"ab\" * 9223372036854775807;",
			"",
			"Runtime error: string repetition too long: line 1",
		},
		{
			"repetition past the length bound",
			"string s = \"abcd\" * 268435457;",
			"",
			"Runtime error: string repetition too long: line 1",
		},
		{"string into int", `int i = 0; i = "s";`, "", "Runtime error: cannot convert string to int: line 1"},
		{
			"fault inside block releases records",
			"int f() { { int x = 1; return x / 0; } }\nprint f();",
			"",
			"Runtime error: division by zero: line 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, in, err := run(t, tt.source, Options{})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.output, out)

			var rerr *RuntimeError
			assert.ErrorAs(t, err, &rerr)
			assert.Equal(t, 1, in.stack.Depth())
		})
	}
}

func TestInterpreter_CallDepthLimit(t *testing.T) {
	source := "int down(int n) { return down(n + 1); }\nprint down(0);"
	_, in, err := run(t, source, Options{MaxCallDepth: 50})

	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "maximum call depth 50 exceeded in call of 'down'", rerr.Message)
	assert.Equal(t, 1, rerr.Line)
	assert.Equal(t, 0, in.depth)
	assert.Equal(t, 1, in.stack.Depth())
}

func TestInterpreter_CallDepthClampedToLimit(t *testing.T) {
	source := "int f(int n) { if (n == 0) return 0; return f(n - 1); }\nprint f(20000000);"
	_, in, err := run(t, source, Options{MaxCallDepth: 100000000})

	assert.Equal(t, MaxCallDepthLimit, in.maxDepth)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "maximum call depth 100000 exceeded in call of 'f'", rerr.Message)
	assert.Equal(t, 1, in.stack.Depth())
}

func TestInterpreter_DefaultCallDepth(t *testing.T) {
	source := "int sum(int n) { if (n == 0) return 0; return n + sum(n - 1); } print sum(5000);"
	out, _, err := run(t, source, Options{})
	require.NoError(t, err)
	assert.Equal(t, "12502500\n", out)
}

func TestInterpreter_Cancel(t *testing.T) {
	prog, errs := parser.ParseSource("int i = 0; while (1) { i = i + 1; }", "test.mc")
	require.Empty(t, errs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(&bytes.Buffer{}, Options{}).Run(ctx, prog)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInterpreter_GlobalsPersistAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	in := New(&out, Options{})
	for _, src := range []string{"int x = 41; int inc(int v) { return v + 1; }", "print inc(x);"} {
		prog, errs := parser.ParseSource(src, "test.mc")
		require.Empty(t, errs)
		require.NoError(t, in.Run(context.Background(), prog))
	}
	assert.Equal(t, "42\n", out.String())

	x, ok := in.Global("x")
	require.True(t, ok)
	assert.Equal(t, types.Int, x.Type)
	assert.Equal(t, int64(41), x.Int)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestInterpreter_WriteError(t *testing.T) {
	prog, errs := parser.ParseSource("print 1;", "test.mc")
	require.Empty(t, errs)
	err := New(failingWriter{}, Options{}).Run(context.Background(), prog)
	require.EqualError(t, err, "print: disk full")
}
