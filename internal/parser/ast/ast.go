// Package ast defines the abstract syntax tree built by the parser.
//
// The node set is closed: expressions implement Expr, instructions implement
// Stmt, and the remaining structural nodes (Program, Element, Declaration,
// Init, FunctionDef, Param) are concrete types. Consumers dispatch with type
// switches over these sets.
//
// The parser builds each node once; nothing mutates the tree afterwards.
// A child may be nil where the parser recovered from a syntax error.
package ast

import (
	"github.com/hassan/minic/internal/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	// Pos returns the position of the first token of the node.
	Pos() lexer.Position

	// Line returns the source line used in diagnostics.
	Line() int
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by all instruction nodes.
type Stmt interface {
	Node
	stmtNode()
}

// BaseNode carries the start position shared by every node.
type BaseNode struct {
	StartPos lexer.Position
}

func (b *BaseNode) Pos() lexer.Position { return b.StartPos }
func (b *BaseNode) Line() int           { return b.StartPos.Line }

// Program is the root of the tree: a sequence of elements in source order.
type Program struct {
	BaseNode
	Elements []*Element
}

// Element is one run of the top-level grammar: declarations, then function
// definitions, then instructions. Any of the three lists may be empty.
type Element struct {
	BaseNode
	Declarations []*Declaration
	Functions    []*FunctionDef
	Instructions []Stmt
}

// Declaration declares one or more variables of the same type:
//
//	int a = 1, b = 2;
type Declaration struct {
	BaseNode
	TypeName string
	Inits    []*Init
}

// Init is a single "name = expression" inside a declaration.
type Init struct {
	BaseNode
	Name  string
	Value Expr
}

// FunctionDef is a top-level function definition.
type FunctionDef struct {
	BaseNode
	ReturnType string
	Name       string
	Params     []*Param
	Body       *CompoundStmt
}

// Param is a typed function parameter.
type Param struct {
	BaseNode
	TypeName string
	Name     string
}
