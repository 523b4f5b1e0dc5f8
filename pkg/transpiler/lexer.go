package transpiler

import "unicode"

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // 1-based column of the next rune
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// scanInt collects a run of decimal digits into one INTEGER token.
// The first digit must still be at l.peek().
func (l *Lexer) scanInt() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: INTEGER, Lexeme: string(l.src[start:l.pos]), Line: line, Col: col}
}

// scanIdent collects a run of letters and underscores into one
// IDENTIFIER token. Keywords are not split out here: the code generator
// resolves identifier meaning from context, so the lexer keeps them as
// plain identifiers.
func (l *Lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && isIdentRune(l.peek()) {
		l.advance()
	}
	return Token{Type: IDENTIFIER, Lexeme: string(l.src[start:l.pos]), Line: line, Col: col}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '@', ':', '=', '!':
		return true
	}
	return false
}

// Lex scans src left to right and returns the complete token sequence.
// Integer literals are maximal runs of digits, identifiers maximal runs
// of letters and underscores, operators always a single character.
// The first character outside the grammar aborts the whole scan.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			break
		}
		r := l.peek()
		switch {
		case isDigit(r):
			tokens = append(tokens, l.scanInt())
		case isIdentRune(r):
			tokens = append(tokens, l.scanIdent())
		case isOperator(r):
			tokens = append(tokens, Token{Type: OPERATOR, Lexeme: string(r), Line: l.line, Col: l.col})
			l.advance()
		default:
			return nil, &Error{Kind: UnrecognizedCharacter, Line: l.line, Col: l.col, Text: string(r)}
		}
	}
	return tokens, nil
}
