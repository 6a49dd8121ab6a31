// Package semantic type checks a parsed program.
//
// The checker walks the tree once, in source order, keeping a scope chain of
// symbols. Every finding becomes a Diagnostic and checking always runs to the
// end, so a single pass reports every independent problem. The tree is not
// modified.
//
// Names must be declared before use. Functions are registered before their
// body is checked, so recursion works, but a function cannot be called above
// its definition.
package semantic

import (
	"errors"
	"fmt"

	"github.com/hassan/minic/internal/parser/ast"
	"github.com/hassan/minic/internal/semantic/types"
	"github.com/hassan/minic/internal/symtab"
)

// Checker performs type checking on a program.
type Checker struct {
	table *symtab.Table[*symtab.Symbol]
	diags []*Diagnostic

	// function is the function whose body is being checked, nil at top
	// level.
	function *symtab.Symbol

	// loopDepth counts the loops enclosing the current statement within the
	// current function.
	loopDepth int
}

// New creates a checker with an empty global scope.
func New() *Checker {
	return &Checker{table: symtab.NewTable[*symtab.Symbol]()}
}

// Check type checks prog and returns its diagnostics in the order they were
// found. A nil program yields no diagnostics.
func Check(prog *ast.Program) []*Diagnostic {
	return New().Check(prog)
}

// Check type checks prog. Declarations made by earlier calls stay visible,
// so a Checker may be fed a program in pieces.
func (c *Checker) Check(prog *ast.Program) []*Diagnostic {
	c.diags = nil
	if prog == nil {
		return nil
	}
	for _, el := range prog.Elements {
		for _, decl := range el.Declarations {
			c.checkDeclaration(decl)
		}
		for _, fn := range el.Functions {
			c.checkFunction(fn)
		}
		c.checkStmts(el.Instructions)
	}
	return c.diags
}

// Lookup resolves name in the global scope; it exists for tools and tests
// inspecting the result of a check.
func (c *Checker) Lookup(name string) (*symtab.Symbol, bool) {
	return c.table.Scope(c.table.Global()).LookupLocal(name)
}

func (c *Checker) checkDeclaration(decl *ast.Declaration) {
	declType, ok := types.Lookup(decl.TypeName)
	if !ok {
		c.errorf(decl, "Unknown type '%s'", decl.TypeName)
	}
	for _, init := range decl.Inits {
		valueType := c.checkExpr(init.Value)
		c.checkAssignable(init, declType, valueType)
		c.declareVariable(init, init.Name, declType)
	}
}

// declareVariable registers a variable in the current scope, reporting a
// redeclaration in the same scope or a clash with a function name.
func (c *Checker) declareVariable(at ast.Node, name string, typ types.Type) bool {
	if sym, _, ok := c.table.LookupAny(name); ok && sym.IsFunction() {
		c.errorf(at, "Name '%s' is already bound to a function", name)
		return false
	}
	err := c.table.Declare(name, symtab.NewVariable(name, typ, at.Pos()))
	if errors.Is(err, symtab.ErrRedeclared) {
		c.errorf(at, "Variable '%s' already declared", name)
		return false
	}
	return true
}

func (c *Checker) checkFunction(fn *ast.FunctionDef) {
	retType, ok := types.Lookup(fn.ReturnType)
	if !ok {
		c.errorf(fn, "Unknown type '%s'", fn.ReturnType)
	}
	sym := symtab.NewFunction(fn.Name, retType, fn.Pos())

	if existing, ok := c.table.LookupLocal(fn.Name); ok {
		if existing.IsFunction() {
			c.errorf(fn, "Redefinition of function '%s'", fn.Name)
		} else {
			c.errorf(fn, "Variable '%s' already declared", fn.Name)
		}
	} else if err := c.table.Declare(fn.Name, sym); err != nil {
		c.errorf(fn, "%v", err)
	}

	sym.Scope = c.table.EnterChild(symtab.ScopeFunction)
	defer c.table.ExitToParent()

	for _, param := range fn.Params {
		paramType, ok := types.Lookup(param.TypeName)
		if !ok {
			c.errorf(param, "Unknown type '%s'", param.TypeName)
		}
		sym.AddParam(paramType)
		if _, dup := c.table.LookupLocal(param.Name); dup {
			c.errorf(param, "Duplicate parameter '%s' in function '%s'", param.Name, fn.Name)
			continue
		}
		c.declareVariable(param, param.Name, paramType)
	}

	savedFunction, savedDepth := c.function, c.loopDepth
	c.function, c.loopDepth = sym, 0
	defer func() { c.function, c.loopDepth = savedFunction, savedDepth }()

	// The body's own declarations share the function scope with the
	// parameters.
	returns := false
	if fn.Body != nil {
		for _, decl := range fn.Body.Declarations {
			c.checkDeclaration(decl)
		}
		returns = c.checkStmts(fn.Body.Body)
	}

	switch {
	case !sym.HasReturned:
		c.errorf(fn, "Missing return statement in function '%s'", fn.Name)
	case !returns:
		c.warnf(fn, "Function '%s' may end without returning a value", fn.Name)
	}
}

// checkStmts checks a statement list and reports whether it always returns.
func (c *Checker) checkStmts(list []ast.Stmt) bool {
	returns := false
	for _, s := range list {
		if c.checkStmt(s) {
			returns = true
		}
	}
	return returns
}

// checkStmt checks one statement and reports whether every path through it
// ends in a return.
func (c *Checker) checkStmt(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case nil:
		return false

	case *ast.PrintStmt:
		for _, v := range s.Values {
			c.checkExpr(v)
		}
		return false

	case *ast.LabeledStmt:
		return c.checkStmt(s.Body)

	case *ast.AssignStmt:
		c.checkAssignment(s, s.Name, c.checkExpr(s.Value))
		return false

	case *ast.IfStmt:
		c.checkExpr(s.Cond)
		thenReturns := c.checkStmt(s.Then)
		elseReturns := c.checkStmt(s.Else)
		return thenReturns && elseReturns

	case *ast.WhileStmt:
		c.checkExpr(s.Cond)
		c.loopDepth++
		c.checkStmt(s.Body)
		c.loopDepth--
		return false

	case *ast.RepeatStmt:
		c.loopDepth++
		returns := c.checkStmts(s.Body)
		c.loopDepth--
		c.checkExpr(s.Cond)
		return returns

	case *ast.ReturnStmt:
		c.checkReturn(s)
		return c.function != nil

	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf(s, "break instruction outside a loop")
		}
		return false

	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf(s, "continue instruction outside a loop")
		}
		return false

	case *ast.CompoundStmt:
		c.table.EnterChild(symtab.ScopeBlock)
		defer c.table.ExitToParent()
		for _, decl := range s.Declarations {
			c.checkDeclaration(decl)
		}
		return c.checkStmts(s.Body)

	case *ast.ExprStmt:
		c.checkExpr(s.X)
		return false

	default:
		panic(fmt.Sprintf("semantic: unexpected statement %T", stmt))
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	valueType := c.checkExpr(s.Value)
	if c.function == nil {
		c.errorf(s, "return instruction outside a function")
		return
	}
	c.function.HasReturned = true

	ok, narrowing := types.Assignable(c.function.Type, valueType)
	switch {
	case !ok:
		c.errorf(s, "Improper returned type, expected %s, got %s", c.function.Type, valueType)
	case narrowing:
		c.warnf(s, "Returned value of type %s narrowed to %s", valueType, c.function.Type)
	}
}

// checkAssignable reports an incompatible or narrowing store of value into
// a slot of type target.
func (c *Checker) checkAssignable(at ast.Node, target, value types.Type) {
	ok, narrowing := types.Assignable(target, value)
	switch {
	case !ok:
		c.errorf(at, "Assignment of %s to %s", value, target)
	case narrowing:
		c.warnf(at, "Assignment of %s to %s", value, target)
	}
}

// checkAssignment checks "name = value" and returns the variable's type.
func (c *Checker) checkAssignment(at ast.Node, name string, value types.Type) types.Type {
	sym, _, ok := c.table.LookupAny(name)
	if !ok {
		c.errorf(at, "Usage of undeclared variable '%s'", name)
		return types.Invalid
	}
	if sym.IsFunction() {
		c.errorf(at, "'%s' is a function, not a variable", name)
		return types.Invalid
	}
	c.checkAssignable(at, sym.Type, value)
	return sym.Type
}

func (c *Checker) errorf(at ast.Node, format string, args ...any) {
	c.report(SeverityError, at, format, args...)
}

func (c *Checker) warnf(at ast.Node, format string, args ...any) {
	c.report(SeverityWarning, at, format, args...)
}

func (c *Checker) report(sev Severity, at ast.Node, format string, args ...any) {
	c.diags = append(c.diags, &Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Line:     at.Line(),
	})
}
