package lexer

// TokenType is the kind of a token.
//
// The names returned by String are the kind names used in syntax
// diagnostics ("Syntax error at line 3, column 7: ID('x')"), so they follow
// the upper-case convention of the language's grammar.
type TokenType int

const (
	// TokenEOF marks the end of input. It is returned forever once reached.
	TokenEOF TokenType = iota

	// TokenInvalid is produced together with a lexical error so the parser
	// can report it at a position and keep going.
	TokenInvalid

	// Literals and names
	TokenTypeKeyword // int, float, string
	TokenID          // identifier
	TokenInteger     // 42
	TokenFloat       // 3.14, 1e10
	TokenString      // "text" (lexeme keeps the quotes)

	// Keywords
	TokenIf
	TokenElse
	TokenWhile
	TokenRepeat
	TokenUntil
	TokenPrint
	TokenReturn
	TokenBreak
	TokenContinue

	// Arithmetic
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %

	// Bitwise and shifts
	TokenBitOr  // |
	TokenBitAnd // &
	TokenBitXor // ^
	TokenShl    // <<
	TokenShr    // >>

	// Logical
	TokenAnd // &&
	TokenOr  // ||

	// Relational
	TokenEq      // ==
	TokenNeq     // !=
	TokenLess    // <
	TokenGreater // >
	TokenLe      // <=
	TokenGe      // >=

	TokenAssign // =

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }
	TokenSemicolon  // ;
	TokenComma      // ,
	TokenColon      // :
)

// Token is a single lexical token. Tokens are small values and are passed
// around by copy.
type Token struct {
	Type TokenType

	// Lexeme is the exact source text of the token. For string literals it
	// includes the surrounding quotes and escape sequences unprocessed.
	Lexeme string

	Position Position
}

// String renders the token the way syntax diagnostics show it: KIND('lexeme').
func (t Token) String() string {
	return t.Type.String() + "('" + t.Lexeme + "')"
}

// Line is a shorthand for t.Position.Line.
func (t Token) Line() int {
	return t.Position.Line
}

var tokenNames = [...]string{
	TokenEOF:         "EOF",
	TokenInvalid:     "INVALID",
	TokenTypeKeyword: "TYPE",
	TokenID:          "ID",
	TokenInteger:     "INTEGER",
	TokenFloat:       "FLOAT",
	TokenString:      "STRING",
	TokenIf:          "IF",
	TokenElse:        "ELSE",
	TokenWhile:       "WHILE",
	TokenRepeat:      "REPEAT",
	TokenUntil:       "UNTIL",
	TokenPrint:       "PRINT",
	TokenReturn:      "RETURN",
	TokenBreak:       "BREAK",
	TokenContinue:    "CONTINUE",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenPercent:     "%",
	TokenBitOr:       "|",
	TokenBitAnd:      "&",
	TokenBitXor:      "^",
	TokenShl:         "SHL",
	TokenShr:         "SHR",
	TokenAnd:         "AND",
	TokenOr:          "OR",
	TokenEq:          "EQ",
	TokenNeq:         "NEQ",
	TokenLess:        "<",
	TokenGreater:     ">",
	TokenLe:          "LE",
	TokenGe:          "GE",
	TokenAssign:      "=",
	TokenLeftParen:   "(",
	TokenRightParen:  ")",
	TokenLeftBrace:   "{",
	TokenRightBrace:  "}",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenColon:       ":",
}

// String returns the grammar name of the token type. Single-character
// operators and delimiters are named by themselves, as in the grammar.
func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) && tokenNames[tt] != "" {
		return tokenNames[tt]
	}
	return "UNKNOWN"
}

// keywords maps reserved words to their token types. Type names share one
// token type; the parser reads the concrete name from the lexeme.
var keywords = map[string]TokenType{
	"int":      TokenTypeKeyword,
	"float":    TokenTypeKeyword,
	"string":   TokenTypeKeyword,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"repeat":   TokenRepeat,
	"until":    TokenUntil,
	"print":    TokenPrint,
	"return":   TokenReturn,
	"break":    TokenBreak,
	"continue": TokenContinue,
}

// LookupKeyword returns the keyword token type for identifier, or TokenID if
// it is not reserved.
func LookupKeyword(identifier string) TokenType {
	if tokenType, ok := keywords[identifier]; ok {
		return tokenType
	}
	return TokenID
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenIf && tt <= TokenContinue
}

// IsOperator reports whether the token type is a binary operator or '='.
func (tt TokenType) IsOperator() bool {
	return tt >= TokenPlus && tt <= TokenAssign
}

// IsLiteral reports whether the token type is a constant.
func (tt TokenType) IsLiteral() bool {
	return tt >= TokenInteger && tt <= TokenString
}
