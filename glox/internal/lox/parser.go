package lox

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// errParse is a sentinel panicked by the parser's helpers to unwind to the
// nearest declaration boundary for synchronization, mirroring the
// panic/recover pattern used to drive error recovery in a predictive parser.
var errParse = fmt.Errorf("parse error")

// Parser is a recursive-descent parser over a token stream produced by
// Scanner. It keeps going after an error, resynchronizing at the next
// statement boundary, so one pass can surface every syntax error.
type Parser struct {
	tokens  []*Token
	current int
	errs    *multierror.Error
}

func NewParser(tokens []*Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token stream into a program (a list of top-level
// statements). The returned error is nil, or a *multierror.Error aggregating
// every parse error encountered.
func (p *Parser) Parse() ([]Stmt, error) {
	var statements []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errs.ErrorOrNil()
}

// declaration → varDecl | classDecl | funDecl | statement
func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r != errParse {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(Var):
		return p.varDeclaration()
	case p.match(Class):
		return p.classDeclaration()
	case p.match(Fun):
		return p.function("function")
	default:
		return p.statement()
	}
}

// classDecl → "class" IDENT ( "<" IDENT )? "{" function* "}"
func (p *Parser) classDeclaration() Stmt {
	name := p.consume(Identifier, "Expect class name.")

	var super *VarExpr
	if p.match(Less) {
		p.consume(Identifier, "Expect superclass name.")
		super = NewVarExpr(p.previous())
	}

	p.consume(LeftBrace, "Expect '{' before class body.")
	var methods []*FunctionStmt
	for !p.check(RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(RightBrace, "Expect '}' after class body.")

	return NewClassStmt(name, super, methods)
}

// function → IDENT "(" params? ")" "{" block
func (p *Parser) function(kind string) *FunctionStmt {
	name := p.consume(Identifier, "Expect "+kind+" name.")
	p.consume(LeftParen, "Expect '(' after "+kind+" name.")

	var params []*Token
	if !p.check(RightParen) {
		for {
			if len(params) >= 255 {
				p.reportError(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(Identifier, "Expect parameter name."))
			if !p.match(Comma) {
				break
			}
		}
	}
	p.consume(RightParen, "Expect ')' after parameters.")

	p.consume(LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()
	return NewFunctionStmt(name, params, body)
}

// varDecl → "var" IDENT ( "=" expression )? ";"
func (p *Parser) varDeclaration() Stmt {
	name := p.consume(Identifier, "Expect variable name.")

	var initializer Expr
	if p.match(Equal) {
		initializer = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after variable declaration.")
	return NewVarStmt(name, initializer)
}

// statement → exprStmt | printStmt | block | ifStmt | whileStmt | forStmt | returnStmt
func (p *Parser) statement() Stmt {
	switch {
	case p.match(Print):
		return p.printStatement()
	case p.match(LeftBrace):
		return NewBlockStmt(p.block())
	case p.match(If):
		return p.ifStatement()
	case p.match(While):
		return p.whileStatement()
	case p.match(For):
		return p.forStatement()
	case p.match(Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

// block → "{" declaration* "}"
func (p *Parser) block() []Stmt {
	var statements []Stmt
	for !p.check(RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(RightBrace, "Expect '}' after block.")
	return statements
}

// ifStmt → "if" "(" expression ")" statement ( "else" statement )?
func (p *Parser) ifStatement() Stmt {
	p.consume(LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(Else) {
		elseBranch = p.statement()
	}
	return NewIfStmt(cond, thenBranch, elseBranch)
}

// whileStmt → "while" "(" expression ")" statement
func (p *Parser) whileStatement() Stmt {
	p.consume(LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(RightParen, "Expect ')' after condition.")
	body := p.statement()
	return NewWhileStmt(cond, body)
}

// forStmt → "for" "(" ( varDecl | exprStmt | ";" ) expression? ";" expression? ")" statement
//
// Desugars into the equivalent block/while: the condition and increment fold
// into a single while loop, which is wrapped in an outer block together with
// the initializer when there is one, so the interpreter never needs a
// dedicated for-loop node.
func (p *Parser) forStatement() Stmt {
	p.consume(LeftParen, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(Semicolon):
		initializer = nil
	case p.match(Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var cond Expr
	if !p.check(Semicolon) {
		cond = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(RightParen) {
		increment = p.expression()
	}
	p.consume(RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = NewBlockStmt([]Stmt{body, NewExprStmt(increment)})
	}
	if cond == nil {
		cond = NewLiteralExpr(true)
	}
	body = NewWhileStmt(cond, body)

	if initializer != nil {
		body = NewBlockStmt([]Stmt{initializer, body})
	}
	return body
}

// returnStmt → "return" expression? ";"
func (p *Parser) returnStatement() Stmt {
	keyword := p.previous()
	var val Expr
	if !p.check(Semicolon) {
		val = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after return value.")
	return NewReturnStmt(keyword, val)
}

// printStmt → "print" expression ";"
func (p *Parser) printStatement() Stmt {
	val := p.expression()
	p.consume(Semicolon, "Expect ';' after value.")
	return NewPrintStmt(val)
}

// exprStmt → expression ";"
func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(Semicolon, "Expect ';' after expression.")
	return NewExprStmt(expr)
}

// expression → assignment
func (p *Parser) expression() Expr {
	return p.assignment()
}

// assignment → ( call "." )? IDENT "=" assignment | logic_or
func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.match(Equal) {
		equals := p.previous()
		val := p.assignment()

		switch target := expr.(type) {
		case *VarExpr:
			return NewAssignExpr(target.Name, val)
		case *GetExpr:
			return NewSetExpr(target.Obj, target.Name, val)
		default:
			// Reported without entering error-recovery: this is a semantic
			// mistake, not a token stream the parser failed to follow.
			p.reportError(equals, "Invalid assignment target.")
		}
	}
	return expr
}

// logic_or → logic_and ( "or" logic_and )*
func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(Or) {
		op := p.previous()
		right := p.and()
		expr = NewLogicalExpr(expr, op, right)
	}
	return expr
}

// logic_and → equality ( "and" equality )*
func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(And) {
		op := p.previous()
		right := p.equality()
		expr = NewLogicalExpr(expr, op, right)
	}
	return expr
}

// equality → comparison ( ("!="|"==") comparison )*
func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(BangEqual, EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = NewBinaryExpr(expr, op, right)
	}
	return expr
}

// comparison → term ( (">"|">="|"<"|"<=") term )*
func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(Greater, GreaterEqual, Less, LessEqual) {
		op := p.previous()
		right := p.term()
		expr = NewBinaryExpr(expr, op, right)
	}
	return expr
}

// term → factor ( ("-"|"+") factor )*
func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(Minus, Plus) {
		op := p.previous()
		right := p.factor()
		expr = NewBinaryExpr(expr, op, right)
	}
	return expr
}

// factor → unary ( ("*"|"/") unary )*
func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(Star, Slash) {
		op := p.previous()
		right := p.unary()
		expr = NewBinaryExpr(expr, op, right)
	}
	return expr
}

// unary → ("!"|"-") unary | call
func (p *Parser) unary() Expr {
	if p.match(Bang, Minus) {
		op := p.previous()
		right := p.unary()
		return NewUnaryExpr(op, right)
	}
	return p.call()
}

// call → primary ( "(" args? ")" | "." IDENT )*
func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(LeftParen):
			expr = p.finishCall(expr)
		case p.match(Dot):
			name := p.consume(Identifier, "Expect property name after '.'.")
			expr = NewGetExpr(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RightParen) {
		for {
			if len(args) >= 255 {
				p.reportError(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(Comma) {
				break
			}
		}
	}
	paren := p.consume(RightParen, "Expect ')' after arguments.")
	return NewCallExpr(callee, paren, args)
}

// primary → NUMBER | STRING | "true" | "false" | "nil" | "this" | IDENT
//
//	| "(" expression ")" | "super" "." IDENT
func (p *Parser) primary() Expr {
	switch {
	case p.match(False):
		return NewLiteralExpr(false)
	case p.match(True):
		return NewLiteralExpr(true)
	case p.match(Nil):
		return NewLiteralExpr(nil)
	case p.match(Number, String):
		return NewLiteralExpr(p.previous().Literal)
	case p.match(Super):
		keyword := p.previous()
		p.consume(Dot, "Expect '.' after 'super'.")
		method := p.consume(Identifier, "Expect superclass method name.")
		return NewSuperExpr(keyword, method)
	case p.match(This):
		return NewThisExpr(p.previous())
	case p.match(Identifier):
		return NewVarExpr(p.previous())
	case p.match(LeftParen):
		expr := p.expression()
		p.consume(RightParen, "Expect ')' after expression.")
		return NewGroupExpr(expr)
	}

	p.reportError(p.peek(), "Expect expression.")
	panic(errParse)
}

// match, check, advance and friends

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ TokenType, message string) *Token {
	if p.check(typ) {
		return p.advance()
	}
	p.reportError(p.peek(), message)
	panic(errParse)
}

func (p *Parser) check(typ TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) advance() *Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() *Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() *Token {
	return p.tokens[p.current-1]
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so the declarations after a syntax error can still be parsed and reported.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == Semicolon {
			return
		}
		switch p.peek().Type {
		case Class, Fun, Var, For, If, While, Print, Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) reportError(token *Token, message string) {
	p.errs = multierror.Append(p.errs, newParseError(token, message))
}
