// Package scenario extracts end-to-end test cases from Markdown.
//
// A case starts at a heading "Test: <name>" and holds one ```minic fence
// with the program followed by one or more assertion fences:
//
//	output          expected standard output of `minic run`
//	diagnostics     expected checker diagnostics
//	syntax          expected syntax errors
//	runtime-error   expected runtime fault
//	tree            expected output of `minic tree`
//
// Fences with no language are prose and ignored.
package scenario

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputFence is the language of the program fence.
const InputFence = "minic"

// Kind is the language of an assertion fence.
type Kind string

const (
	Output       Kind = "output"
	Diagnostics  Kind = "diagnostics"
	Syntax       Kind = "syntax"
	RuntimeError Kind = "runtime-error"
	Tree         Kind = "tree"
)

func (k Kind) valid() bool {
	switch k {
	case Output, Diagnostics, Syntax, RuntimeError, Tree:
		return true
	}
	return false
}

// Stderr reports whether the assertion is about standard error.
func (k Kind) Stderr() bool {
	return k == Diagnostics || k == Syntax || k == RuntimeError
}

// Assertion is one expected result. Content keeps its final newline.
type Assertion struct {
	Kind    Kind
	Content string
	Line    int
}

// Case is one scenario.
type Case struct {
	Name       string
	Input      string
	Line       int
	Assertions []Assertion
}

// Expect returns the joined content of every assertion selected by keep,
// in document order, and whether any was selected.
func (c *Case) Expect(keep func(Kind) bool) (string, bool) {
	var (
		b     strings.Builder
		found bool
	)
	for _, a := range c.Assertions {
		if keep(a.Kind) {
			b.WriteString(a.Content)
			found = true
		}
	}
	return b.String(), found
}

// Extract parses a Markdown document and returns its cases.
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var (
		cases   []Case
		current *Case
	)
	finish := func() error {
		if current == nil {
			return nil
		}
		if err := current.validate(); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := plainText(n, markdown)
			if name, ok := strings.CutPrefix(heading, "Test: "); ok {
				if err := finish(); err != nil {
					return ast.WalkStop, err
				}
				current = &Case{Name: strings.TrimSpace(name), Line: lineOf(n, markdown)}
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(markdown))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lineOf(n, markdown)
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, lang)
			}
			content := blockContent(n, markdown)
			switch {
			case lang == InputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: second %s fence in test %q", line, InputFence, current.Name)
				}
				current.Input = content
			case Kind(lang).valid():
				current.Assertions = append(current.Assertions, Assertion{Kind: Kind(lang), Content: content, Line: line})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence %q in test %q", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := finish(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return cases, nil
}

func (c *Case) validate() error {
	if c.Input == "" {
		return fmt.Errorf("line %d: test %q has no %s fence", c.Line, c.Name, InputFence)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("line %d: test %q has no assertion fences", c.Line, c.Name)
	}
	return nil
}

func plainText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf is the 1-based line of the node's first content line. Headings
// and empty fences fall back to 1.
func lineOf(node ast.Node, source []byte) int {
	if node.Type() != ast.TypeBlock || node.Lines().Len() == 0 {
		return 1
	}
	return bytes.Count(source[:node.Lines().At(0).Start], []byte("\n")) + 1
}
