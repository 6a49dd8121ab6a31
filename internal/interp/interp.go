// Package interp executes a checked minic program by walking its tree.
//
// Values live in a Stack of activation records. break, continue and return
// travel back up the evaluation as a control result, never as an error; an
// error returned from the interpreter is always a fault that ends the run.
package interp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hassan/minic/internal/parser/ast"
	"github.com/hassan/minic/internal/semantic/types"
)

const (
	// DefaultMaxCallDepth bounds nested calls when Options leaves it unset.
	DefaultMaxCallDepth = 10000

	// MaxCallDepthLimit is the largest bound New accepts; larger requests
	// are clamped to it.
	//
	// Every interpreted call recurses through eval, call, execBody,
	// execList and exec on the goroutine stack, several frames per call
	// and more when the call sits inside nested blocks or expressions.
	// At this depth that stays well inside Go's 1 GB stack ceiling, so a
	// runaway recursion ends as a RuntimeError rather than a fatal stack
	// overflow.
	MaxCallDepthLimit = 100000
)

// RuntimeError is a fault that stops interpretation.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error: %s: line %d", e.Message, e.Line)
}

// Options tunes an Interpreter.
type Options struct {
	MaxCallDepth int
}

// Interpreter runs programs, writing print output to its writer. Globals
// and functions persist across calls to Run.
type Interpreter struct {
	out       io.Writer
	stack     *Stack
	functions map[string]*ast.FunctionDef
	maxDepth  int
	depth     int
	ctx       context.Context
}

// New creates an interpreter printing to out.
func New(out io.Writer, opts Options) *Interpreter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	opts.MaxCallDepth = min(opts.MaxCallDepth, MaxCallDepthLimit)
	return &Interpreter{
		out:       out,
		stack:     NewStack(),
		functions: make(map[string]*ast.FunctionDef),
		maxDepth:  opts.MaxCallDepth,
	}
}

// Run executes prog. It stops at the first runtime fault, or with ctx's
// error once ctx is done. A return at top level ends the program.
func (in *Interpreter) Run(ctx context.Context, prog *ast.Program) error {
	if prog == nil {
		return nil
	}
	in.ctx = ctx
	defer func() { in.ctx = nil }()

	for _, el := range prog.Elements {
		for _, decl := range el.Declarations {
			if err := in.declare(decl); err != nil {
				return err
			}
		}
		for _, fn := range el.Functions {
			// The first definition wins, as it does for the checker.
			if _, ok := in.functions[fn.Name]; !ok {
				in.functions[fn.Name] = fn
			}
		}
		ctl, err := in.execBody(el.Instructions)
		if err != nil {
			return err
		}
		if ctl.kind == ctlReturn {
			return nil
		}
	}
	return nil
}

// Global returns the value of a global variable after a run.
func (in *Interpreter) Global(name string) (Value, bool) {
	return in.stack.records[0].LookupLocal(name)
}

type ctlKind uint8

const (
	ctlNormal ctlKind = iota
	ctlBreak
	ctlContinue
	ctlReturn
)

// control is how a statement finished.
type control struct {
	kind  ctlKind
	value Value
}

var normal = control{}

func (in *Interpreter) faultf(n ast.Node, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line()
	}
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

func (in *Interpreter) checkContext() error {
	if in.ctx == nil {
		return nil
	}
	return in.ctx.Err()
}

func (in *Interpreter) declare(decl *ast.Declaration) error {
	t, ok := types.Lookup(decl.TypeName)
	if !ok {
		return in.faultf(decl, "unknown type '%s'", decl.TypeName)
	}
	for _, init := range decl.Inits {
		v := zeroValue(t)
		if init.Value != nil {
			got, err := in.eval(init.Value)
			if err != nil {
				return err
			}
			if v, err = convert(got, t); err != nil {
				return in.faultf(init, "%v", err)
			}
		}
		in.stack.Declare(init.Name, v)
	}
	return nil
}

func (in *Interpreter) execList(stmts []ast.Stmt) (control, error) {
	for _, s := range stmts {
		if err := in.checkContext(); err != nil {
			return normal, err
		}
		ctl, err := in.exec(s)
		if err != nil || ctl.kind != ctlNormal {
			return ctl, err
		}
	}
	return normal, nil
}

// execBody runs the instructions of a function body or of the top level.
// No loop encloses them, so a stray break or continue only ends the
// instruction it escaped from and execution goes on with the next one. A
// return ends the body.
func (in *Interpreter) execBody(stmts []ast.Stmt) (control, error) {
	for _, s := range stmts {
		if err := in.checkContext(); err != nil {
			return normal, err
		}
		ctl, err := in.exec(s)
		if err != nil || ctl.kind == ctlReturn {
			return ctl, err
		}
	}
	return normal, nil
}

func (in *Interpreter) exec(s ast.Stmt) (control, error) {
	switch s := s.(type) {
	case nil:
		return normal, nil
	case *ast.PrintStmt:
		return normal, in.print(s)
	case *ast.LabeledStmt:
		return in.exec(s.Body)
	case *ast.AssignStmt:
		_, err := in.assign(s, s.Name, s.Value)
		return normal, err
	case *ast.ExprStmt:
		_, err := in.eval(s.X)
		return normal, err
	case *ast.IfStmt:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return in.exec(s.Then)
		}
		return in.exec(s.Else)
	case *ast.WhileStmt:
		return in.execWhile(s)
	case *ast.RepeatStmt:
		return in.execRepeat(s)
	case *ast.ReturnStmt:
		if s.Value == nil {
			return control{kind: ctlReturn}, nil
		}
		v, err := in.eval(s.Value)
		if err != nil {
			return normal, err
		}
		return control{kind: ctlReturn, value: v}, nil
	case *ast.BreakStmt:
		return control{kind: ctlBreak}, nil
	case *ast.ContinueStmt:
		return control{kind: ctlContinue}, nil
	case *ast.CompoundStmt:
		if s == nil {
			return normal, nil
		}
		in.stack.Push()
		defer in.stack.Pop()
		return in.execBlock(s)
	default:
		panic(fmt.Sprintf("interp: unexpected statement %T", s))
	}
}

// execBlock runs a block's declarations and statements in the current
// record.
func (in *Interpreter) execBlock(b *ast.CompoundStmt) (control, error) {
	for _, decl := range b.Declarations {
		if err := in.declare(decl); err != nil {
			return normal, err
		}
	}
	return in.execList(b.Body)
}

func (in *Interpreter) execWhile(s *ast.WhileStmt) (control, error) {
	for {
		if err := in.checkContext(); err != nil {
			return normal, err
		}
		cond, err := in.eval(s.Cond)
		if err != nil {
			return normal, err
		}
		if !cond.Truthy() {
			return normal, nil
		}
		ctl, err := in.exec(s.Body)
		if err != nil {
			return normal, err
		}
		switch ctl.kind {
		case ctlBreak:
			return normal, nil
		case ctlReturn:
			return ctl, nil
		}
	}
}

// execRepeat runs the body at least once and stops when the condition,
// checked after each pass, becomes true.
func (in *Interpreter) execRepeat(s *ast.RepeatStmt) (control, error) {
	for {
		if err := in.checkContext(); err != nil {
			return normal, err
		}
		ctl, err := in.execList(s.Body)
		if err != nil {
			return normal, err
		}
		switch ctl.kind {
		case ctlBreak:
			return normal, nil
		case ctlReturn:
			return ctl, nil
		}
		cond, err := in.eval(s.Cond)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return normal, nil
		}
	}
}

func (in *Interpreter) print(s *ast.PrintStmt) error {
	parts := make([]string, 0, len(s.Values))
	for _, e := range s.Values {
		v, err := in.eval(e)
		if err != nil {
			return err
		}
		parts = append(parts, v.String())
	}
	if _, err := io.WriteString(in.out, strings.Join(parts, ", ")+"\n"); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

func (in *Interpreter) assign(n ast.Node, name string, value ast.Expr) (Value, error) {
	v, err := in.eval(value)
	if err != nil {
		return Value{}, err
	}
	stored, err := in.stack.Assign(name, v)
	if err != nil {
		return Value{}, in.faultf(n, "%v", err)
	}
	return stored, nil
}

func (in *Interpreter) eval(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case nil:
		return Value{}, in.faultf(nil, "invalid expression")
	case *ast.IntegerLiteral:
		return IntValue(e.Value), nil
	case *ast.FloatLiteral:
		return FloatValue(e.Value), nil
	case *ast.StringLiteral:
		return StringValue(e.Value), nil
	case *ast.Variable:
		v, ok := in.stack.Lookup(e.Name)
		if !ok {
			return Value{}, in.faultf(e, "undefined variable '%s'", e.Name)
		}
		return v, nil
	case *ast.ParenExpr:
		if e.X == nil {
			return Value{}, in.faultf(e, "invalid expression")
		}
		return in.eval(e.X)
	case *ast.AssignExpr:
		return in.assign(e, e.Name, e.Value)
	case *ast.CallExpr:
		return in.call(e)
	case *ast.BinaryExpr:
		return in.evalBinary(e)
	default:
		panic(fmt.Sprintf("interp: unexpected expression %T", e))
	}
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	l, err := in.eval(e.Left)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case "&&":
		if !l.Truthy() {
			return IntValue(0), nil
		}
		r, err := in.eval(e.Right)
		return boolValue(r.Truthy()), err
	case "||":
		if l.Truthy() {
			return IntValue(1), nil
		}
		r, err := in.eval(e.Right)
		return boolValue(r.Truthy()), err
	}
	r, err := in.eval(e.Right)
	if err != nil {
		return Value{}, err
	}
	v, err := binary(e.Op, l, r)
	if err != nil {
		return Value{}, in.faultf(e, "%v", err)
	}
	return v, nil
}

// call evaluates the arguments in the caller's records, then runs the body
// in a fresh activation record that sees only itself and the globals.
func (in *Interpreter) call(e *ast.CallExpr) (Value, error) {
	fn, ok := in.functions[e.Name]
	if !ok {
		return Value{}, in.faultf(e, "call of undefined function '%s'", e.Name)
	}
	if len(e.Args) != len(fn.Params) {
		return Value{}, in.faultf(e, "function '%s' expects %d arguments, got %d", e.Name, len(fn.Params), len(e.Args))
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if in.depth >= in.maxDepth {
		return Value{}, in.faultf(e, "maximum call depth %d exceeded in call of '%s'", in.maxDepth, e.Name)
	}
	if err := in.checkContext(); err != nil {
		return Value{}, err
	}
	in.depth++
	saved := in.stack.EnterCall()
	defer func() {
		in.stack.LeaveCall(saved)
		in.depth--
	}()

	for i, p := range fn.Params {
		t, ok := types.Lookup(p.TypeName)
		if !ok {
			return Value{}, in.faultf(p, "unknown type '%s'", p.TypeName)
		}
		v, err := convert(args[i], t)
		if err != nil {
			return Value{}, in.faultf(e, "argument %d of '%s': %v", i+1, e.Name, err)
		}
		in.stack.Declare(p.Name, v)
	}

	retType, ok := types.Lookup(fn.ReturnType)
	if !ok {
		return Value{}, in.faultf(fn, "unknown type '%s'", fn.ReturnType)
	}
	if fn.Body == nil {
		return zeroValue(retType), nil
	}
	for _, decl := range fn.Body.Declarations {
		if err := in.declare(decl); err != nil {
			return Value{}, err
		}
	}
	ctl, err := in.execBody(fn.Body.Body)
	if err != nil {
		return Value{}, err
	}
	if ctl.kind != ctlReturn || ctl.value.Type == types.Invalid {
		return zeroValue(retType), nil
	}
	v, err := convert(ctl.value, retType)
	if err != nil {
		return Value{}, in.faultf(e, "return value of '%s': %v", e.Name, err)
	}
	return v, nil
}
