// Package lexer turns minic source text into a stream of tokens for the parser.
//
// The lexer is a boundary collaborator: it knows nothing about grammar or
// types. Its only contract with the parser is a sequence of typed tokens, each
// stamped with the line and column it started at.
package lexer

import "strconv"

// Position is a location in a source file.
//
// Line and Column are 1-based and Column counts runes, not bytes, so the
// values match what an editor shows. Offset is the 0-based byte offset.
// The zero Position means "unknown".
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// String renders the position as "file:line:column", or "line:column" when
// the filename is unknown. A position without a line renders as the
// filename alone, or "-".
func (p Position) String() string {
	if !p.IsValid() {
		if p.Filename == "" {
			return "-"
		}
		return p.Filename
	}
	s := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.Filename == "" {
		return s
	}
	return p.Filename + ":" + s
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}
