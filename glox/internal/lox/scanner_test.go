package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTypes(t *testing.T, source string) []TokenType {
	t.Helper()
	tokens, err := NewScanner(source).Scan()
	require.NoError(t, err)
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanPunctuationAndOperators(t *testing.T) {
	types := scanTypes(t, "(){},.-+;*! != = == > >= < <= /")
	assert.Equal(t, []TokenType{
		LeftParen, RightParen, LeftBrace, RightBrace, Comma, Dot, Minus, Plus,
		Semicolon, Star, Bang, BangEqual, Equal, EqualEqual, Greater,
		GreaterEqual, Less, LessEqual, Slash, EOF,
	}, types)
}

func TestScanLineComment(t *testing.T) {
	tokens, err := NewScanner("1 // a comment\n2").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1.0, tokens[0].Literal)
	assert.Equal(t, 2.0, tokens[1].Literal)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestScanSlashIsDivisionNotComment(t *testing.T) {
	types := scanTypes(t, "6 / 2")
	assert.Equal(t, []TokenType{Number, Slash, Number, EOF}, types)
}

func TestScanStringLiteral(t *testing.T) {
	tokens, err := NewScanner(`"hello world"`).Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, String, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Literal)
}

func TestScanStringWithEitherDelimiter(t *testing.T) {
	tokens, err := NewScanner(`'hi'`).Scan()
	require.NoError(t, err)
	assert.Equal(t, "hi", tokens[0].Literal)
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	_, err := NewScanner(`"hello`).Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unterminated string.")
}

func TestScanMultilineString(t *testing.T) {
	tokens, err := NewScanner("\"a\nb\"\nprint 1;").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "a\nb", tokens[0].Literal)
	// the print keyword is on the third physical line
	assert.Equal(t, 3, tokens[1].Line)
}

func TestScanNumbers(t *testing.T) {
	tokens, err := NewScanner("123 45.67").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 123.0, tokens[0].Literal)
	assert.Equal(t, 45.67, tokens[1].Literal)
}

func TestScanNumberEdgeCasesAreNotOneNumberToken(t *testing.T) {
	// "1." is NUMBER(1) followed by DOT; ".1" is DOT followed by NUMBER(1).
	types := scanTypes(t, "1. .1")
	assert.Equal(t, []TokenType{Number, Dot, Dot, Number, EOF}, types)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	tokens, err := NewScanner("foo_bar and class _x1").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, Identifier, tokens[0].Type)
	assert.Equal(t, And, tokens[1].Type)
	assert.Equal(t, Class, tokens[2].Type)
	assert.Equal(t, Identifier, tokens[3].Type)
}

func TestScanUnknownCharacterIsSkippedAndReported(t *testing.T) {
	tokens, err := NewScanner("1 @ 2").Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected character.")
	// scanning continues past the bad character
	require.Len(t, tokens, 3)
	assert.Equal(t, 1.0, tokens[0].Literal)
	assert.Equal(t, 2.0, tokens[1].Literal)
}

func TestScanTracksLineNumbers(t *testing.T) {
	tokens, err := NewScanner("1\n2\n\n3").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 4, tokens[2].Line)
	assert.Equal(t, 4, tokens[3].Line) // EOF on the last line
}

func TestScanEmptySourceYieldsOnlyEOF(t *testing.T) {
	types := scanTypes(t, "")
	assert.Equal(t, []TokenType{EOF}, types)
}
