package parser

import (
	"fmt"

	"github.com/hassan/minic/internal/lexer"
)

// SyntaxError reports a token the grammar could not accept.
type SyntaxError struct {
	// Token is the offending token. For lexical errors it is the INVALID
	// token covering the bad input.
	Token lexer.Token

	// Detail replaces the token description in the message; the parser sets
	// it for lexical errors.
	Detail string
}

func (e *SyntaxError) Error() string {
	if e.Token.Type == lexer.TokenEOF {
		return "Unexpected end of input"
	}
	what := e.Token.String()
	if e.Detail != "" {
		what = e.Detail
	}
	return fmt.Sprintf("Syntax error at line %d, column %d: %s",
		e.Token.Position.Line, e.Token.Position.Column, what)
}

// Pos returns where the error occurred.
func (e *SyntaxError) Pos() lexer.Position {
	return e.Token.Position
}

// bailout unwinds the parser to the nearest recovery point. It never escapes
// the package.
type bailout struct{}
