package scenario

import (
	"testing"

	"github.com/nalgeon/be"
)

const doc = "# Arithmetic\n" +
	"\n" +
	"Some prose.\n" +
	"\n" +
	"```\n" +
	"not a test\n" +
	"```\n" +
	"\n" +
	"## Test: precedence\n" +
	"\n" +
	"```minic\n" +
	"print 1 + 2 * 3;\n" +
	"```\n" +
	"\n" +
	"```output\n" +
	"7\n" +
	"Program finished\n" +
	"```\n" +
	"\n" +
	"## Test: undeclared\n" +
	"\n" +
	"```minic\n" +
	"print x;\n" +
	"```\n" +
	"\n" +
	"```diagnostics\n" +
	"Error: Usage of undeclared variable 'x': line 1\n" +
	"```\n" +
	"\n" +
	"```output\n" +
	"```\n"

func TestExtract(t *testing.T) {
	cases, err := Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	c := cases[0]
	be.Equal(t, c.Name, "precedence")
	be.Equal(t, c.Input, "print 1 + 2 * 3;\n")
	be.Equal(t, len(c.Assertions), 1)
	be.Equal(t, c.Assertions[0].Kind, Output)
	be.Equal(t, c.Assertions[0].Content, "7\nProgram finished\n")
	be.Equal(t, c.Assertions[0].Line, 16)

	c = cases[1]
	be.Equal(t, c.Name, "undeclared")
	stderr, ok := c.Expect(Kind.Stderr)
	be.True(t, ok)
	be.Equal(t, stderr, "Error: Usage of undeclared variable 'x': line 1\n")
	stdout, ok := c.Expect(func(k Kind) bool { return k == Output })
	be.True(t, ok)
	be.Equal(t, stdout, "")
	_, ok = c.Expect(func(k Kind) bool { return k == Tree })
	be.True(t, !ok)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"fence outside test",
			"```output\n1\n```\n",
			"scenario: line 2: output fence outside of a test",
		},
		{
			"unknown fence",
			"## Test: a\n\n```minic\nprint 1;\n```\n\n```stdout\n1\n```\n",
			`scenario: line 8: unknown fence "stdout" in test "a"`,
		},
		{
			"no input",
			"## Test: a\n\n```output\n1\n```\n",
			`scenario: line 1: test "a" has no minic fence`,
		},
		{
			"no assertions",
			"## Test: a\n\n```minic\nprint 1;\n```\n\n## Test: b\n",
			`scenario: line 1: test "a" has no assertion fences`,
		},
		{
			"two inputs",
			"## Test: a\n\n```minic\nprint 1;\n```\n\n```minic\nprint 2;\n```\n",
			`scenario: line 8: second minic fence in test "a"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.doc))
			be.True(t, err != nil)
			be.Equal(t, err.Error(), tt.want)
		})
	}
}
