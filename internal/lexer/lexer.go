package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer scans minic source text into tokens.
//
// The whole source is held in memory; the lexer keeps a start offset for the
// token being scanned and a current offset for the next rune to read. Line
// and column are derived from the offset of the start of the current line.
type Lexer struct {
	source   string
	filename string

	start   int
	current int

	line      int
	lineStart int
}

// New creates a Lexer for source. filename is only used in positions.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
	}
}

// NextToken returns the next token from the source.
//
// On a lexical error it returns a TokenInvalid token carrying the offending
// text and a non-nil error; the lexer has already advanced past the bad input
// so the caller may continue asking for tokens. At end of input it keeps
// returning TokenEOF.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.makeToken(TokenInvalid), err
	}

	l.start = l.current
	if l.isAtEnd() {
		return l.makeToken(TokenEOF), nil
	}

	ch := l.advance()

	if isLetter(ch) {
		return l.scanIdentifier(), nil
	}
	if isDigit(ch) {
		return l.scanNumber()
	}

	switch ch {
	case '(':
		return l.makeToken(TokenLeftParen), nil
	case ')':
		return l.makeToken(TokenRightParen), nil
	case '{':
		return l.makeToken(TokenLeftBrace), nil
	case '}':
		return l.makeToken(TokenRightBrace), nil
	case ';':
		return l.makeToken(TokenSemicolon), nil
	case ',':
		return l.makeToken(TokenComma), nil
	case ':':
		return l.makeToken(TokenColon), nil
	case '+':
		return l.makeToken(TokenPlus), nil
	case '-':
		return l.makeToken(TokenMinus), nil
	case '*':
		return l.makeToken(TokenStar), nil
	case '/':
		return l.makeToken(TokenSlash), nil
	case '%':
		return l.makeToken(TokenPercent), nil
	case '^':
		return l.makeToken(TokenBitXor), nil
	case '&':
		if l.match('&') {
			return l.makeToken(TokenAnd), nil
		}
		return l.makeToken(TokenBitAnd), nil
	case '|':
		if l.match('|') {
			return l.makeToken(TokenOr), nil
		}
		return l.makeToken(TokenBitOr), nil
	case '=':
		if l.match('=') {
			return l.makeToken(TokenEq), nil
		}
		return l.makeToken(TokenAssign), nil
	case '!':
		if l.match('=') {
			return l.makeToken(TokenNeq), nil
		}
		return l.makeToken(TokenInvalid), l.error("unexpected character '!'")
	case '<':
		if l.match('<') {
			return l.makeToken(TokenShl), nil
		}
		if l.match('=') {
			return l.makeToken(TokenLe), nil
		}
		return l.makeToken(TokenLess), nil
	case '>':
		if l.match('>') {
			return l.makeToken(TokenShr), nil
		}
		if l.match('=') {
			return l.makeToken(TokenGe), nil
		}
		return l.makeToken(TokenGreater), nil
	case '"':
		return l.scanString()
	}

	return l.makeToken(TokenInvalid), l.error(fmt.Sprintf("unexpected character %q", ch))
}

// Tokenize scans the whole source and returns every token up to and
// including EOF, together with all lexical errors found on the way.
func Tokenize(source, filename string) ([]Token, []error) {
	l := New(source, filename)
	var (
		tokens []Token
		errs   []error
	)
	for {
		tok, err := l.NextToken()
		if err != nil {
			errs = append(errs, err)
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, errs
		}
	}
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	if ch == '\n' {
		l.line++
		l.lineStart = l.current
	}
	return ch
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return ch
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return ch
}

func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// skipWhitespaceAndComments skips blanks, '#' and '//' line comments and
// '/* */' block comments. An unterminated block comment is an error.
func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.isAtEnd() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '#' || (ch == '/' && l.peekNext() == '/'):
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '*':
			l.start = l.current
			l.advance()
			l.advance()
			closed := false
			for !l.isAtEnd() {
				if l.peek() == '*' && l.peekNext() == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return l.error("unterminated block comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanIdentifier() Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	tok := l.makeToken(LookupKeyword(text))
	return tok
}

// scanNumber scans an INTEGER or FLOAT literal: digits, an optional fraction
// and an optional exponent. A literal with a fraction or exponent is a FLOAT.
func (l *Lexer) scanNumber() (Token, error) {
	kind := TokenInteger
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		kind = TokenFloat
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		saved, savedLine, savedLineStart := l.current, l.line, l.lineStart
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if isDigit(l.peek()) {
			kind = TokenFloat
			for isDigit(l.peek()) {
				l.advance()
			}
		} else {
			l.current, l.line, l.lineStart = saved, savedLine, savedLineStart
		}
	}

	if isLetter(l.peek()) {
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		return l.makeToken(TokenInvalid), l.error(fmt.Sprintf("malformed number %q", l.source[l.start:l.current]))
	}

	return l.makeToken(kind), nil
}

// scanString scans a double-quoted literal. The opening quote has already
// been consumed. Strings may not span lines.
func (l *Lexer) scanString() (Token, error) {
	for !l.isAtEnd() {
		switch l.peek() {
		case '"':
			l.advance()
			return l.makeToken(TokenString), nil
		case '\n':
			return l.makeToken(TokenInvalid), l.error("unterminated string literal")
		case '\\':
			l.advance()
			if !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			l.advance()
		}
	}
	return l.makeToken(TokenInvalid), l.error("unterminated string literal")
}

func (l *Lexer) makeToken(tokenType TokenType) Token {
	return Token{
		Type:     tokenType,
		Lexeme:   l.source[l.start:l.current],
		Position: l.startPosition(),
	}
}

// startPosition is the position of the first rune of the current token.
func (l *Lexer) startPosition() Position {
	lineStart := l.lineStart
	line := l.line
	// The token may itself contain a newline (an unterminated string stops
	// before it, but a block comment does not); walk back to its own line.
	if l.start < lineStart {
		line = 1
		lineStart = 0
		for i := 0; i < l.start; i++ {
			if l.source[i] == '\n' {
				line++
				lineStart = i + 1
			}
		}
	}
	return Position{
		Filename: l.filename,
		Line:     line,
		Column:   utf8.RuneCountInString(l.source[lineStart:l.start]) + 1,
		Offset:   l.start,
	}
}

// Error is a lexical error at a source position.
type Error struct {
	Pos     Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (l *Lexer) error(message string) error {
	return &Error{Pos: l.startPosition(), Message: message}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
