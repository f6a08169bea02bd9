package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveSource(t *testing.T, source string) (*Interpreter, error) {
	t.Helper()
	tokens, err := NewScanner(source).Scan()
	require.NoError(t, err)
	statements, err := NewParser(tokens).Parse()
	require.NoError(t, err)

	interpreter := NewInterpreter(&bytes.Buffer{}, NewSimpleReporter(&bytes.Buffer{}), false)
	resolver := NewResolver(interpreter)
	return interpreter, resolver.Resolve(statements)
}

func TestResolveReadInOwnInitializerIsStaticError(t *testing.T) {
	_, err := resolveSource(t, "var a = 1; { var a = a; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't read local variable in its own initializer.")
}

func TestResolveRedeclareInSameScopeIsStaticError(t *testing.T) {
	_, err := resolveSource(t, "{ var a = 1; var a = 2; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already a variable with this name in this scope.")
}

func TestResolveRedeclareAtGlobalScopeIsAllowed(t *testing.T) {
	_, err := resolveSource(t, "var a = 1; var a = 2;")
	require.NoError(t, err)
}

func TestResolveReturnOutsideFunctionIsStaticError(t *testing.T) {
	_, err := resolveSource(t, "return 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't return from top-level code.")
}

func TestResolveReturnValueFromInitializerIsStaticError(t *testing.T) {
	_, err := resolveSource(t, `
		class Foo {
			init() { return 1; }
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't return a value from an initializer.")
}

func TestResolveReturnBareFromInitializerIsAllowed(t *testing.T) {
	_, err := resolveSource(t, `
		class Foo {
			init() { return; }
		}
	`)
	require.NoError(t, err)
}

func TestResolveThisOutsideClassIsStaticError(t *testing.T) {
	_, err := resolveSource(t, "print this;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't use 'this' outside of a class.")
}

func TestResolveSuperOutsideClassIsStaticError(t *testing.T) {
	_, err := resolveSource(t, "print super.foo;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't use 'super' outside of a class.")
}

func TestResolveSuperWithNoSuperclassIsStaticError(t *testing.T) {
	_, err := resolveSource(t, `
		class Foo {
			bar() { return super.bar(); }
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't use 'super' in a class with no superclass.")
}

func TestResolveClassInheritingFromItselfIsStaticError(t *testing.T) {
	_, err := resolveSource(t, "class Foo < Foo {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A class can't inherit from itself.")
}

func TestResolveValidSubclassUsingSuperIsClean(t *testing.T) {
	_, err := resolveSource(t, `
		class Base { greet() { return "base"; } }
		class Derived < Base {
			greet() { return super.greet(); }
		}
	`)
	require.NoError(t, err)
}

func TestResolveRecordsLocalDistanceForBlockScopedVariable(t *testing.T) {
	tokens, err := NewScanner("{ var a = 1; print a; }").Scan()
	require.NoError(t, err)
	statements, err := NewParser(tokens).Parse()
	require.NoError(t, err)

	interpreter := NewInterpreter(&bytes.Buffer{}, NewSimpleReporter(&bytes.Buffer{}), false)
	resolver := NewResolver(interpreter)
	require.NoError(t, resolver.Resolve(statements))

	block := statements[0].(*BlockStmt)
	printStmt := block.Stmts[1].(*PrintStmt)
	varExpr := printStmt.Expr.(*VarExpr)

	steps, ok := interpreter.locals[varExpr]
	require.True(t, ok)
	assert.Equal(t, 0, steps)
}
