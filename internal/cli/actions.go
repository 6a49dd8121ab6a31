package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hassan/minic/internal/interp"
	"github.com/hassan/minic/internal/lexer"
	"github.com/hassan/minic/internal/parser"
	"github.com/hassan/minic/internal/parser/ast"
	"github.com/hassan/minic/internal/semantic"
)

func (a *app) read(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(src), nil
}

// parse reads and parses path, printing every syntax error. A program with
// syntax errors is not returned.
func (a *app) parse(path string) (*ast.Program, error) {
	src, err := a.read(path)
	if err != nil {
		return nil, err
	}
	prog, errs := parser.ParseSource(src, path)
	for _, err := range errs {
		a.log.Diag(err)
	}
	if len(errs) > 0 {
		a.log.Debugf("%s: %d syntax errors", path, len(errs))
		return nil, errFailed
	}
	a.log.Debugf("%s: parsed %d elements", path, len(prog.Elements))
	return prog, nil
}

// typeCheck prints the checker's diagnostics and reports whether they fail
// the program.
func (a *app) typeCheck(prog *ast.Program) (failed bool) {
	diags := semantic.Check(prog)
	for _, d := range diags {
		a.log.Diag(d)
	}
	failed = semantic.HasErrors(diags) || (a.cfg.WarningsAsErrors && len(diags) > 0)
	a.log.Debugf("check: %d diagnostics", len(diags))
	return failed
}

func (a *app) check(_ context.Context, path string) error {
	prog, err := a.parse(path)
	if err != nil {
		return err
	}
	if a.typeCheck(prog) {
		return errFailed
	}
	fmt.Fprintln(a.stdout, "Type correct")
	return nil
}

func (a *app) run(ctx context.Context, path string) error {
	prog, err := a.parse(path)
	if err != nil {
		return err
	}
	failed := a.typeCheck(prog)
	if failed && !a.cfg.RunOnErrors {
		return errFailed
	}

	in := interp.New(a.stdout, interp.Options{MaxCallDepth: a.cfg.MaxCallDepth})
	if err := in.Run(ctx, prog); err != nil {
		var rerr *interp.RuntimeError
		if errors.As(err, &rerr) {
			a.log.Diag(rerr)
			return errFailed
		}
		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		return err
	}
	fmt.Fprintln(a.stdout, "Program finished")
	if failed {
		return errFailed
	}
	return nil
}

func (a *app) tree(_ context.Context, path string) error {
	prog, err := a.parse(path)
	if err != nil {
		return err
	}
	return ast.Fprint(a.stdout, prog)
}

func (a *app) tokens(_ context.Context, path string) error {
	src, err := a.read(path)
	if err != nil {
		return err
	}
	toks, errs := lexer.Tokenize(src, path)
	for _, tok := range toks {
		if tok.Type == lexer.TokenInvalid {
			continue
		}
		fmt.Fprintf(a.stdout, "%d:%d\t%s\n", tok.Position.Line, tok.Position.Column, tok)
	}
	for _, err := range errs {
		a.log.Diag(err)
	}
	if len(errs) > 0 {
		return errFailed
	}
	return nil
}
