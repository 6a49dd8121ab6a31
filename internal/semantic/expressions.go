package semantic

import (
	"fmt"

	"github.com/hassan/minic/internal/parser/ast"
	"github.com/hassan/minic/internal/semantic/types"
)

// checkExpr returns the static type of an expression. Errors yield
// types.Invalid, which suppresses follow-up diagnostics in the enclosing
// expression.
func (c *Checker) checkExpr(expr ast.Expr) types.Type {
	switch e := expr.(type) {
	case nil:
		return types.Invalid

	case *ast.IntegerLiteral:
		return types.Int
	case *ast.FloatLiteral:
		return types.Float
	case *ast.StringLiteral:
		return types.String

	case *ast.Variable:
		sym, _, ok := c.table.LookupAny(e.Name)
		if !ok {
			c.errorf(e, "Usage of undeclared variable '%s'", e.Name)
			return types.Invalid
		}
		if sym.IsFunction() {
			c.errorf(e, "'%s' is a function, not a variable", e.Name)
			return types.Invalid
		}
		return sym.Type

	case *ast.ParenExpr:
		return c.checkExpr(e.X)

	case *ast.CallExpr:
		return c.checkCall(e)

	case *ast.BinaryExpr:
		left := c.checkExpr(e.Left)
		right := c.checkExpr(e.Right)
		result, ok := types.Result(e.Op, left, right)
		if !ok {
			c.errorf(e, "Illegal operation, %s %s %s", left, e.Op, right)
			return types.Invalid
		}
		return result

	case *ast.AssignExpr:
		return c.checkAssignment(e, e.Name, c.checkExpr(e.Value))

	default:
		panic(fmt.Sprintf("semantic: unexpected expression %T", expr))
	}
}

// checkCall checks a call against the callee's signature and returns the
// callee's return type. Arguments are paired with parameters by position.
func (c *Checker) checkCall(call *ast.CallExpr) types.Type {
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = c.checkExpr(arg)
	}

	sym, _, ok := c.table.LookupAny(call.Name)
	if !ok {
		c.errorf(call, "Call of undefined fun '%s'", call.Name)
		return types.Invalid
	}
	if !sym.IsFunction() {
		c.errorf(call, "'%s' is not a function", call.Name)
		return types.Invalid
	}

	if len(argTypes) != len(sym.Params) {
		c.errorf(call, "Improper number of args in %s call, expected %d, got %d",
			call.Name, len(sym.Params), len(argTypes))
		return sym.Type
	}
	for i, argType := range argTypes {
		ok, narrowing := types.Assignable(sym.Params[i], argType)
		switch {
		case !ok:
			c.errorf(call, "Improper argument type in %s call, argument %d expected %s, got %s",
				call.Name, i+1, sym.Params[i], argType)
		case narrowing:
			c.warnf(call, "Argument %d of %s call narrowed from %s to %s",
				i+1, call.Name, argType, sym.Params[i])
		}
	}
	return sym.Type
}
