// Package parser builds an AST from minic tokens.
//
// Statements and declarations are parsed by recursive descent; expressions
// use precedence climbing over the table in precedence.go.
//
// Errors are collected rather than returned on the first one. A failing
// construct panics with bailout; the nearest enclosing recovery point
// (declaration, statement, function definition or parenthesised group)
// recovers, skips to a synchronising token and leaves the construct out of
// the tree. Only the first error of each failed construct is reported.
package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/hassan/minic/internal/lexer"
	"github.com/hassan/minic/internal/parser/ast"
)

// TokenSource supplies tokens to the parser. *lexer.Lexer implements it.
type TokenSource interface {
	NextToken() (lexer.Token, error)
}

// Parser converts a stream of tokens into an AST.
type Parser struct {
	src TokenSource

	// current is the token being examined; ahead holds tokens already read
	// from src for lookahead.
	current  lexer.Token
	previous lexer.Token
	ahead    []lexer.Token

	// consumed counts advances; recovery uses it to guarantee progress.
	consumed int

	errors []error

	// panicMode suppresses further reports until the parser resynchronises.
	panicMode bool
}

// New creates a parser reading from src.
func New(src TokenSource) *Parser {
	p := &Parser{src: src}
	p.current = p.read()
	return p
}

// ParseSource parses source text in one call.
func ParseSource(source, filename string) (*ast.Program, []error) {
	return New(lexer.New(source, filename)).ParseProgram()
}

// ParseProgram parses the whole token stream.
//
//	program := element*
//
// The returned program is never nil. When errors is non-empty the tree is a
// best-effort partial tree.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	prog := &ast.Program{BaseNode: ast.BaseNode{StartPos: p.current.Position}}
	for !p.isAtEnd() {
		prog.Elements = append(prog.Elements, p.parseElement())
	}
	return prog, p.errors
}

// parseElement parses one run of the top-level grammar:
//
//	element := declaration* fundef* instruction*
//
// The instruction list ends at the next type name, which starts a new
// element.
func (p *Parser) parseElement() *ast.Element {
	el := &ast.Element{BaseNode: ast.BaseNode{StartPos: p.current.Position}}

	for p.check(lexer.TokenTypeKeyword) && !p.atFunctionDef() {
		if decl := p.parseDeclaration(); decl != nil {
			el.Declarations = append(el.Declarations, decl)
		}
	}
	for p.atFunctionDef() {
		if fn := p.parseFunctionDef(); fn != nil {
			el.Functions = append(el.Functions, fn)
		}
	}
	for !p.isAtEnd() && !p.check(lexer.TokenTypeKeyword) {
		if stmt := p.parseStatement(); stmt != nil {
			el.Instructions = append(el.Instructions, stmt)
		}
	}
	return el
}

// atFunctionDef reports whether the next tokens are TYPE ID '('.
func (p *Parser) atFunctionDef() bool {
	return p.check(lexer.TokenTypeKeyword) &&
		p.peek(1).Type == lexer.TokenID &&
		p.peek(2).Type == lexer.TokenLeftParen
}

// parseDeclaration parses
//
//	declaration := TYPE init (',' init)* ';'
//	init        := ID '=' expression
//
// On error it skips past the next ';' and returns nil.
func (p *Parser) parseDeclaration() (decl *ast.Declaration) {
	start := p.consumed
	defer func() {
		if r := recover(); r != nil {
			p.rethrowUnlessBailout(r)
			p.syncStatement(start)
			decl = nil
		}
	}()

	typeTok := p.expect(lexer.TokenTypeKeyword)
	decl = &ast.Declaration{
		BaseNode: ast.BaseNode{StartPos: typeTok.Position},
		TypeName: typeTok.Lexeme,
	}
	for {
		name := p.expect(lexer.TokenID)
		p.expect(lexer.TokenAssign)
		decl.Inits = append(decl.Inits, &ast.Init{
			BaseNode: ast.BaseNode{StartPos: name.Position},
			Name:     name.Lexeme,
			Value:    p.parseExpression(),
		})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenSemicolon)
	return decl
}

// parseFunctionDef parses
//
//	fundef := TYPE ID '(' [TYPE ID (',' TYPE ID)*] ')' compound
//
// Errors in the header skip the whole definition, body included.
func (p *Parser) parseFunctionDef() (fn *ast.FunctionDef) {
	start := p.consumed
	defer func() {
		if r := recover(); r != nil {
			p.rethrowUnlessBailout(r)
			p.syncFunction(start)
			fn = nil
		}
	}()

	typeTok := p.expect(lexer.TokenTypeKeyword)
	name := p.expect(lexer.TokenID)
	fn = &ast.FunctionDef{
		BaseNode:   ast.BaseNode{StartPos: typeTok.Position},
		ReturnType: typeTok.Lexeme,
		Name:       name.Lexeme,
	}

	p.expect(lexer.TokenLeftParen)
	if !p.check(lexer.TokenRightParen) {
		for {
			paramType := p.expect(lexer.TokenTypeKeyword)
			paramName := p.expect(lexer.TokenID)
			fn.Params = append(fn.Params, &ast.Param{
				BaseNode: ast.BaseNode{StartPos: paramType.Position},
				TypeName: paramType.Lexeme,
				Name:     paramName.Lexeme,
			})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRightParen)

	if !p.check(lexer.TokenLeftBrace) {
		p.fail()
	}
	fn.Body = p.parseCompound()
	return fn
}

// parseStatement parses one instruction. On error it skips to the end of the
// instruction and returns nil.
func (p *Parser) parseStatement() (stmt ast.Stmt) {
	start := p.consumed
	defer func() {
		if r := recover(); r != nil {
			p.rethrowUnlessBailout(r)
			p.syncStatement(start)
			stmt = nil
		}
	}()

	switch p.current.Type {
	case lexer.TokenPrint:
		return p.parsePrint()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenRepeat:
		return p.parseRepeat()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenBreak:
		tok := p.advance()
		p.expect(lexer.TokenSemicolon)
		return &ast.BreakStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}
	case lexer.TokenContinue:
		tok := p.advance()
		p.expect(lexer.TokenSemicolon)
		return &ast.ContinueStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}
	case lexer.TokenLeftBrace:
		return p.parseCompound()
	case lexer.TokenID:
		switch p.peek(1).Type {
		case lexer.TokenColon:
			return p.parseLabeled()
		case lexer.TokenAssign:
			return p.parseAssignment()
		}
	}

	pos := p.current.Position
	x := p.parseExpression()
	p.expect(lexer.TokenSemicolon)
	return &ast.ExprStmt{BaseNode: ast.BaseNode{StartPos: pos}, X: x}
}

// parsePrint parses PRINT expression (',' expression)* ';'.
func (p *Parser) parsePrint() *ast.PrintStmt {
	tok := p.advance()
	stmt := &ast.PrintStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}
	stmt.Values = p.parseExpressionList()
	p.expect(lexer.TokenSemicolon)
	return stmt
}

// parseLabeled parses ID ':' instruction.
func (p *Parser) parseLabeled() *ast.LabeledStmt {
	label := p.advance()
	p.expect(lexer.TokenColon)
	return &ast.LabeledStmt{
		BaseNode: ast.BaseNode{StartPos: label.Position},
		Label:    label.Lexeme,
		Body:     p.parseStatement(),
	}
}

// parseAssignment parses ID '=' expression ';'.
func (p *Parser) parseAssignment() *ast.AssignStmt {
	name := p.advance()
	p.expect(lexer.TokenAssign)
	stmt := &ast.AssignStmt{
		BaseNode: ast.BaseNode{StartPos: name.Position},
		Name:     name.Lexeme,
		Value:    p.parseExpression(),
	}
	p.expect(lexer.TokenSemicolon)
	return stmt
}

// parseIf parses IF '(' condition ')' instruction [ELSE instruction].
// An else always belongs to the nearest if.
func (p *Parser) parseIf() *ast.IfStmt {
	tok := p.advance()
	stmt := &ast.IfStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}
	stmt.Cond = p.parseCondition()
	stmt.Then = p.parseStatement()
	if p.match(lexer.TokenElse) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

// parseWhile parses WHILE '(' condition ')' instruction.
func (p *Parser) parseWhile() *ast.WhileStmt {
	tok := p.advance()
	stmt := &ast.WhileStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}
	stmt.Cond = p.parseCondition()
	stmt.Body = p.parseStatement()
	return stmt
}

// parseRepeat parses REPEAT instruction+ UNTIL condition ';'.
func (p *Parser) parseRepeat() *ast.RepeatStmt {
	tok := p.advance()
	stmt := &ast.RepeatStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}
	if p.check(lexer.TokenUntil) {
		p.fail()
	}
	for !p.check(lexer.TokenUntil) && !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if s := p.parseStatement(); s != nil {
			stmt.Body = append(stmt.Body, s)
		}
	}
	p.expect(lexer.TokenUntil)
	stmt.Cond = p.parseExpression()
	p.expect(lexer.TokenSemicolon)
	return stmt
}

// parseReturn parses RETURN expression ';'.
func (p *Parser) parseReturn() *ast.ReturnStmt {
	tok := p.advance()
	stmt := &ast.ReturnStmt{
		BaseNode: ast.BaseNode{StartPos: tok.Position},
		Value:    p.parseExpression(),
	}
	p.expect(lexer.TokenSemicolon)
	return stmt
}

// parseCompound parses '{' declaration* instruction* '}'.
func (p *Parser) parseCompound() *ast.CompoundStmt {
	tok := p.expect(lexer.TokenLeftBrace)
	block := &ast.CompoundStmt{BaseNode: ast.BaseNode{StartPos: tok.Position}}

	for p.check(lexer.TokenTypeKeyword) {
		if decl := p.parseDeclaration(); decl != nil {
			block.Declarations = append(block.Declarations, decl)
		}
	}
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if stmt := p.parseStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
	}
	p.expect(lexer.TokenRightBrace)
	return block
}

// parseCondition parses '(' expression ')'. A malformed condition is
// reported, skipped up to the closing parenthesis and returned as nil so the
// instruction that follows is still parsed.
func (p *Parser) parseCondition() ast.Expr {
	var cond ast.Expr
	p.parenthesized(func() {
		cond = p.parseExpression()
	})
	return cond
}

// parseExpressionList parses expression (',' expression)*.
func (p *Parser) parseExpressionList() []ast.Expr {
	list := []ast.Expr{p.parseExpression()}
	for p.match(lexer.TokenComma) {
		list = append(list, p.parseExpression())
	}
	return list
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseBinary(PrecAssignment)
}

// parseBinary parses an expression whose operators all bind at least as
// tightly as minPrec.
func (p *Parser) parseBinary(minPrec Precedence) ast.Expr {
	left := p.parseOperand()

	for {
		op := p.current
		prec := getPrecedence(op.Type)
		if prec == PrecNone || prec < minPrec {
			return left
		}

		if op.Type == lexer.TokenAssign {
			target, ok := left.(*ast.Variable)
			if !ok {
				p.fail()
			}
			p.advance()
			left = &ast.AssignExpr{
				BaseNode: target.BaseNode,
				Name:     target.Name,
				Value:    p.parseBinary(prec),
			}
			continue
		}

		p.advance()
		next := prec + 1
		if isRightAssociative(op.Type) {
			next = prec
		}
		right := p.parseBinary(next)
		left = &ast.BinaryExpr{
			BaseNode: ast.BaseNode{StartPos: startOf(left, op)},
			Op:       op.Lexeme,
			Left:     left,
			Right:    right,
		}

		if isNonAssociative(op.Type) && getPrecedence(p.current.Type) == prec {
			p.fail()
		}
	}
}

// parseOperand parses a constant, a variable, a call or a parenthesised
// expression.
func (p *Parser) parseOperand() ast.Expr {
	tok := p.current
	base := ast.BaseNode{StartPos: tok.Position}

	switch tok.Type {
	case lexer.TokenInteger:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.failDetail("integer constant " + tok.Lexeme + " out of range")
		}
		p.advance()
		return &ast.IntegerLiteral{BaseNode: base, Raw: tok.Lexeme, Value: v}

	case lexer.TokenFloat:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.failDetail("float constant " + tok.Lexeme + " out of range")
		}
		p.advance()
		return &ast.FloatLiteral{BaseNode: base, Raw: tok.Lexeme, Value: v}

	case lexer.TokenString:
		p.advance()
		return &ast.StringLiteral{BaseNode: base, Raw: tok.Lexeme, Value: unquote(tok.Lexeme)}

	case lexer.TokenID:
		p.advance()
		if !p.check(lexer.TokenLeftParen) {
			return &ast.Variable{BaseNode: base, Name: tok.Lexeme}
		}
		call := &ast.CallExpr{BaseNode: base, Name: tok.Lexeme}
		ok := p.parenthesized(func() {
			if !p.check(lexer.TokenRightParen) {
				call.Args = p.parseExpressionList()
			}
		})
		if !ok {
			return nil
		}
		return call

	case lexer.TokenLeftParen:
		paren := &ast.ParenExpr{BaseNode: base}
		p.parenthesized(func() {
			paren.X = p.parseExpression()
		})
		return paren
	}

	p.fail()
	return nil
}

// parenthesized parses '(' inner ')'. When inner fails, the error has been
// reported, the tokens up to the matching ')' are skipped and false is
// returned. If no matching ')' is found before the end of the instruction
// the failure propagates to the enclosing recovery point.
func (p *Parser) parenthesized(inner func()) (ok bool) {
	p.expect(lexer.TokenLeftParen)
	defer func() {
		if r := recover(); r != nil {
			p.rethrowUnlessBailout(r)
			p.syncParen()
			ok = false
		}
	}()
	inner()
	p.expect(lexer.TokenRightParen)
	return true
}

// Token handling

// read returns the next token from the source. Lexical errors are reported
// here and the INVALID token is dropped, so the grammar never sees it.
func (p *Parser) read() lexer.Token {
	for {
		tok, err := p.src.NextToken()
		if err == nil {
			return tok
		}
		detail := err.Error()
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			detail = lexErr.Message
		}
		p.errors = append(p.errors, &SyntaxError{Token: tok, Detail: detail})
		if tok.Type == lexer.TokenEOF {
			return tok
		}
	}
}

// advance consumes the current token and returns it.
func (p *Parser) advance() lexer.Token {
	p.previous = p.current
	if len(p.ahead) > 0 {
		p.current = p.ahead[0]
		p.ahead = p.ahead[1:]
	} else if p.current.Type != lexer.TokenEOF {
		p.current = p.read()
	}
	p.consumed++
	return p.previous
}

// peek returns the token n positions after the current one.
func (p *Parser) peek(n int) lexer.Token {
	if n == 0 {
		return p.current
	}
	for len(p.ahead) < n {
		last := p.current
		if len(p.ahead) > 0 {
			last = p.ahead[len(p.ahead)-1]
		}
		if last.Type == lexer.TokenEOF {
			return last
		}
		p.ahead = append(p.ahead, p.read())
	}
	return p.ahead[n-1]
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) match(tokenType lexer.TokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given type or fails at the current token.
func (p *Parser) expect(tokenType lexer.TokenType) lexer.Token {
	if !p.check(tokenType) {
		p.fail()
	}
	return p.advance()
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}

// Error handling

// fail reports the current token as unexpected and unwinds to the nearest
// recovery point.
func (p *Parser) fail() {
	p.report(&SyntaxError{Token: p.current})
	panic(bailout{})
}

func (p *Parser) failDetail(detail string) {
	p.report(&SyntaxError{Token: p.current, Detail: detail})
	panic(bailout{})
}

func (p *Parser) report(err *SyntaxError) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errors = append(p.errors, err)
}

func (p *Parser) rethrowUnlessBailout(r any) {
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
}

// syncStatement skips to the end of a failed declaration or instruction: it
// consumes up to and including the next ';', or stops before a '}' or EOF.
// A construct that failed on its first token only drops that token.
func (p *Parser) syncStatement(start int) {
	p.panicMode = false
	if p.consumed == start {
		if !p.isAtEnd() {
			p.advance()
		}
		return
	}
	for !p.isAtEnd() {
		switch p.current.Type {
		case lexer.TokenSemicolon:
			p.advance()
			return
		case lexer.TokenRightBrace:
			return
		}
		p.advance()
	}
}

// syncFunction skips a failed function definition: everything up to a ';'
// or a '}' that leaves the braces balanced.
func (p *Parser) syncFunction(start int) {
	p.panicMode = false
	if p.consumed == start && !p.isAtEnd() {
		p.advance()
	}
	depth := 0
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Type {
		case lexer.TokenLeftBrace:
			depth++
		case lexer.TokenRightBrace:
			depth--
			if depth <= 0 {
				return
			}
		case lexer.TokenSemicolon:
			if depth == 0 {
				return
			}
		}
	}
}

// syncParen skips to and consumes the ')' matching an already consumed '('.
// Reaching ';', '{', '}' or EOF first re-raises the failure.
func (p *Parser) syncParen() {
	depth := 0
	for {
		switch p.current.Type {
		case lexer.TokenLeftParen:
			depth++
		case lexer.TokenRightParen:
			if depth == 0 {
				p.advance()
				p.panicMode = false
				return
			}
			depth--
		case lexer.TokenSemicolon, lexer.TokenLeftBrace, lexer.TokenRightBrace, lexer.TokenEOF:
			panic(bailout{})
		}
		p.advance()
	}
}

// startOf is the position of expression x, or of tok when x was lost to
// error recovery.
func startOf(x ast.Expr, tok lexer.Token) lexer.Position {
	if x == nil {
		return tok.Position
	}
	return x.Pos()
}

// unquote strips the quotes from a string literal and resolves the escapes
// \n, \t, \\ and \". Any other escaped character stands for itself.
func unquote(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	s = strings.TrimSuffix(s, `"`)
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 == len(s) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
