package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes node to w as an indented tree, one construct per line, each
// nesting level marked with "| ":
//
//	DECL
//	| =
//	| | x
//	| | 2
//	PRINT
//	| +
//	| | x
//	| | 1
//
// Parentheses are not shown; nil children left by error recovery print
// nothing.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.node(node, 0)
	return p.err
}

// Sprint returns the tree Fprint would write.
func Sprint(node Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, node)
	return sb.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("| ", indent), fmt.Sprintf(format, args...))
}

func (p *printer) declarations(decls []*Declaration, indent int) {
	if len(decls) == 0 {
		return
	}
	p.line(indent, "DECL")
	for _, d := range decls {
		if d == nil {
			continue
		}
		for _, init := range d.Inits {
			p.node(init, indent+1)
		}
	}
}

func (p *printer) stmts(list []Stmt, indent int) {
	for _, s := range list {
		p.node(s, indent)
	}
}

func (p *printer) exprs(list []Expr, indent int) {
	for _, e := range list {
		p.node(e, indent)
	}
}

func (p *printer) node(n Node, indent int) {
	switch n := n.(type) {
	case nil:
	case *Program:
		for _, el := range n.Elements {
			p.node(el, indent)
		}
	case *Element:
		p.declarations(n.Declarations, indent)
		for _, fn := range n.Functions {
			p.node(fn, indent)
		}
		p.stmts(n.Instructions, indent)
	case *Declaration:
		p.declarations([]*Declaration{n}, indent)
	case *Init:
		p.line(indent, "=")
		p.line(indent+1, "%s", n.Name)
		p.node(n.Value, indent+1)
	case *FunctionDef:
		p.line(indent, "FUNDEF")
		p.line(indent+1, "%s", n.Name)
		p.line(indent+1, "RET %s", n.ReturnType)
		for _, param := range n.Params {
			p.node(param, indent+1)
		}
		p.node(n.Body, indent+1)
	case *Param:
		p.line(indent, "ARG %s", n.Name)

	case *PrintStmt:
		p.line(indent, "PRINT")
		p.exprs(n.Values, indent+1)
	case *LabeledStmt:
		p.line(indent, "LABEL")
		p.line(indent+1, "%s", n.Label)
		p.node(n.Body, indent+1)
	case *AssignStmt:
		p.line(indent, "=")
		p.line(indent+1, "%s", n.Name)
		p.node(n.Value, indent+1)
	case *IfStmt:
		p.line(indent, "IF")
		p.node(n.Cond, indent+1)
		p.node(n.Then, indent+1)
		if n.Else != nil {
			p.line(indent, "ELSE")
			p.node(n.Else, indent+1)
		}
	case *WhileStmt:
		p.line(indent, "WHILE")
		p.node(n.Cond, indent+1)
		p.node(n.Body, indent+1)
	case *RepeatStmt:
		p.line(indent, "REPEAT")
		p.stmts(n.Body, indent+1)
		p.line(indent, "UNTIL")
		p.node(n.Cond, indent+1)
	case *ReturnStmt:
		p.line(indent, "RETURN")
		p.node(n.Value, indent+1)
	case *BreakStmt:
		p.line(indent, "BREAK")
	case *ContinueStmt:
		p.line(indent, "CONTINUE")
	case *CompoundStmt:
		if n == nil {
			return
		}
		p.declarations(n.Declarations, indent)
		p.stmts(n.Body, indent)
	case *ExprStmt:
		p.node(n.X, indent)

	case *IntegerLiteral:
		p.line(indent, "%s", n.Raw)
	case *FloatLiteral:
		p.line(indent, "%s", n.Raw)
	case *StringLiteral:
		p.line(indent, "%s", n.Raw)
	case *Variable:
		p.line(indent, "%s", n.Name)
	case *ParenExpr:
		p.node(n.X, indent)
	case *CallExpr:
		p.line(indent, "FUNCALL")
		p.line(indent+1, "%s", n.Name)
		p.exprs(n.Args, indent+1)
	case *BinaryExpr:
		p.line(indent, "%s", n.Op)
		p.node(n.Left, indent+1)
		p.node(n.Right, indent+1)
	case *AssignExpr:
		p.line(indent, "=")
		p.line(indent+1, "%s", n.Name)
		p.node(n.Value, indent+1)
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}
