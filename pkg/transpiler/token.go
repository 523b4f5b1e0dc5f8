package transpiler

import (
	"fmt"
	"strconv"
)

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	INTEGER    TokenType = iota // decimal integer literal
	IDENTIFIER                  // keyword or variable name
	OPERATOR                    // one of + - * / @ : = !
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	INTEGER:    "INTEGER",
	IDENTIFIER: "IDENTIFIER",
	OPERATOR:   "OPERATOR",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer. Tokens are plain
// values and are never mutated after the Lexer returns them.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
	Col    int    // 1-based column of the first character
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-8q  line %d", t.Type, t.Lexeme, t.Line)
}

// Int returns the value of an INTEGER token's literal.
func (t Token) Int() int {
	n, _ := strconv.Atoi(t.Lexeme)
	return n
}

// IsIdent reports whether t is an identifier with the given name.
func (t Token) IsIdent(name string) bool {
	return t.Type == IDENTIFIER && t.Lexeme == name
}

// IsOp reports whether t is the single-character operator op.
func (t Token) IsOp(op rune) bool {
	return t.Type == OPERATOR && t.Lexeme == string(op)
}
