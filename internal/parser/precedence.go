package parser

import (
	"github.com/hassan/minic/internal/lexer"
)

// Precedence is a binding power; a higher level binds tighter.
//
// Levels, lowest first:
//
//	=                        right-associative
//	||
//	&&
//	|
//	^
//	&
//	== != < > <= >=          non-associative
//	<< >>
//	+ -
//	* / %
//
// All relational operators share one level, so a < b == c is a chain and is
// rejected like a < b < c.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecRelational
	PrecShift
	PrecTerm
	PrecFactor
)

// getPrecedence returns the binding power of a binary operator token, or
// PrecNone for tokens that cannot continue an expression.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenAssign:
		return PrecAssignment
	case lexer.TokenOr:
		return PrecOr
	case lexer.TokenAnd:
		return PrecAnd
	case lexer.TokenBitOr:
		return PrecBitOr
	case lexer.TokenBitXor:
		return PrecBitXor
	case lexer.TokenBitAnd:
		return PrecBitAnd
	case lexer.TokenEq,
		lexer.TokenNeq,
		lexer.TokenLess,
		lexer.TokenGreater,
		lexer.TokenLe,
		lexer.TokenGe:
		return PrecRelational
	case lexer.TokenShl, lexer.TokenShr:
		return PrecShift
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return PrecFactor
	default:
		return PrecNone
	}
}

// isRightAssociative reports whether a chain of the operator groups to the
// right: a = b = c is a = (b = c).
func isRightAssociative(tokenType lexer.TokenType) bool {
	return tokenType == lexer.TokenAssign
}

// isNonAssociative reports whether the operator may not be chained with
// another operator of the same level.
func isNonAssociative(tokenType lexer.TokenType) bool {
	return getPrecedence(tokenType) == PrecRelational
}
