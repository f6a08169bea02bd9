package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "LEFT_PAREN", LeftParen.String())
	assert.Equal(t, "EOF", EOF.String())
	assert.Equal(t, "UNKNOWN", TokenType(9999).String())
}

func TestTokenString(t *testing.T) {
	tok := NewToken(Number, "1.5", 1.5, 3)
	assert.Equal(t, "NUMBER 1.5 1.5", tok.String())

	tok = NewToken(Identifier, "a", nil, 1)
	assert.Equal(t, "IDENTIFIER a", tok.String())
}

func TestKeywordsCoverAllReservedWords(t *testing.T) {
	reserved := []string{
		"and", "class", "else", "false", "for", "fun", "if", "nil",
		"or", "print", "return", "super", "this", "true", "var", "while",
	}
	for _, word := range reserved {
		_, ok := keywords[word]
		assert.Truef(t, ok, "expected %q to be a reserved keyword", word)
	}
	assert.Len(t, keywords, len(reserved))
}
