package transpiler

import "fmt"

// ErrorKind classifies the fatal errors the front end can report. Every
// one of them aborts the whole run; no partial output is kept.
type ErrorKind int

const (
	UnrecognizedCharacter ErrorKind = iota
	MissingEqualityBeforeThen
	MissingIdentifierBeforeDef
	UnrecognizedIdentifier
	UnrecognizedToken
)

// errorKindNames is indexed by ErrorKind.
var errorKindNames = [...]string{
	UnrecognizedCharacter:      "UnrecognizedCharacter",
	MissingEqualityBeforeThen:  "MissingEqualityBeforeThen",
	MissingIdentifierBeforeDef: "MissingIdentifierBeforeDef",
	UnrecognizedIdentifier:     "UnrecognizedIdentifier",
	UnrecognizedToken:          "UnrecognizedToken",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a fatal lex or codegen error, carrying the source position it
// was detected at and the offending source text.
type Error struct {
	Kind ErrorKind
	Line int
	Col  int
	Text string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnrecognizedCharacter:
		return fmt.Sprintf("line %d:%d: unrecognized character %q", e.Line, e.Col, e.Text)
	case MissingEqualityBeforeThen:
		return fmt.Sprintf("line %d:%d: then must immediately follow = or !", e.Line, e.Col)
	case MissingIdentifierBeforeDef:
		return fmt.Sprintf("line %d:%d: def must immediately follow an identifier", e.Line, e.Col)
	case UnrecognizedIdentifier:
		return fmt.Sprintf("line %d:%d: unrecognized identifier %q", e.Line, e.Col, e.Text)
	default:
		return fmt.Sprintf("line %d:%d: unrecognized token %q", e.Line, e.Col, e.Text)
	}
}

func errAt(kind ErrorKind, tok Token) *Error {
	return &Error{Kind: kind, Line: tok.Line, Col: tok.Col, Text: tok.Lexeme}
}
