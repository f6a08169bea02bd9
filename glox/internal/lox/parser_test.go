package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseStatements(t *testing.T, source string) []Stmt {
	t.Helper()
	tokens, err := NewScanner(source).Scan()
	require.NoError(t, err)
	statements, err := NewParser(tokens).Parse()
	require.NoError(t, err)
	return statements
}

func TestParseVarDeclaration(t *testing.T) {
	statements := parseStatements(t, "var a = 1;")
	require.Len(t, statements, 1)
	varStmt, ok := statements[0].(*VarStmt)
	require.True(t, ok)
	assert.Equal(t, "a", varStmt.Name.Lexeme)
	lit, ok := varStmt.Init.(*LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, 1.0, lit.Val)
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3).
	statements := parseStatements(t, "1 + 2 * 3;")
	exprStmt := statements[0].(*ExprStmt)
	bin := exprStmt.Expr.(*BinaryExpr)
	assert.Equal(t, Plus, bin.Op.Type)
	assert.IsType(t, &LiteralExpr{}, bin.Lhs)
	mul := bin.Rhs.(*BinaryExpr)
	assert.Equal(t, Star, mul.Op.Type)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	statements := parseStatements(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, statements, 1)

	outer, ok := statements[0].(*BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)
	assert.IsType(t, &VarStmt{}, outer.Stmts[0])

	whileStmt, ok := outer.Stmts[1].(*WhileStmt)
	require.True(t, ok)
	assert.IsType(t, &BinaryExpr{}, whileStmt.Cond)

	body, ok := whileStmt.Body.(*BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
	assert.IsType(t, &PrintStmt{}, body.Stmts[0])
	assert.IsType(t, &ExprStmt{}, body.Stmts[1])
}

func TestParseForWithoutConditionDefaultsTrue(t *testing.T) {
	statements := parseStatements(t, "for (;;) print 1;")
	whileStmt := statements[0].(*WhileStmt)
	lit, ok := whileStmt.Cond.(*LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, true, lit.Val)
}

func TestParseAssignmentTargets(t *testing.T) {
	statements := parseStatements(t, "a = 1; a.b = 2;")
	require.Len(t, statements, 2)

	assign := statements[0].(*ExprStmt).Expr.(*AssignExpr)
	assert.Equal(t, "a", assign.Name.Lexeme)

	set := statements[1].(*ExprStmt).Expr.(*SetExpr)
	assert.Equal(t, "b", set.Name.Lexeme)
}

func TestParseInvalidAssignmentTargetReportsErrorButKeepsGoing(t *testing.T) {
	tokens, err := NewScanner("1 = 2; var a = 3;").Scan()
	require.NoError(t, err)
	statements, err := NewParser(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid assignment target.")
	// Parsing continued past the bad statement.
	require.Len(t, statements, 2)
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	statements := parseStatements(t, `
		class Base {}
		class Derived < Base {
			init(x) { this.x = x; }
			greet() { return this.x; }
		}
	`)
	require.Len(t, statements, 2)

	derived, ok := statements[1].(*ClassStmt)
	require.True(t, ok)
	assert.Equal(t, "Derived", derived.Name.Lexeme)
	require.NotNil(t, derived.Super)
	assert.Equal(t, "Base", derived.Super.Name.Lexeme)
	require.Len(t, derived.Methods, 2)
	assert.Equal(t, "init", derived.Methods[0].Name.Lexeme)
	assert.Equal(t, "greet", derived.Methods[1].Name.Lexeme)
}

func TestParseCallWithArguments(t *testing.T) {
	statements := parseStatements(t, "foo(1, 2, 3);")
	call := statements[0].(*ExprStmt).Expr.(*CallExpr)
	assert.Len(t, call.Args, 3)
}

func TestParseFunctionDeclaration(t *testing.T) {
	statements := parseStatements(t, "fun add(a, b) { return a + b; }")
	fn, ok := statements[0].(*FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Lexeme)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
	assert.IsType(t, &ReturnStmt{}, fn.Body[0])
}

func TestParseMissingSemicolonReportsError(t *testing.T) {
	tokens, err := NewScanner("var a = 1").Scan()
	require.NoError(t, err)
	_, err = NewParser(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expect ';' after variable declaration.")
}

func TestParseTooManyArgumentsReportsError(t *testing.T) {
	var src string
	src = "foo("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"

	tokens, err := NewScanner(src).Scan()
	require.NoError(t, err)
	_, err = NewParser(tokens).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't have more than 255 arguments.")
}
