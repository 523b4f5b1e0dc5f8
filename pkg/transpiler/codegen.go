package transpiler

import (
	"fmt"
	"strings"
)

// registry tracks which variable names have been declared so far in the
// pass. Membership decides declaration vs. reassignment; names are kept
// in first-declaration order.
type registry struct {
	names []string
	seen  map[string]bool
}

func newRegistry() *registry {
	return &registry{seen: make(map[string]bool)}
}

func (r *registry) declared(name string) bool {
	return r.seen[name]
}

func (r *registry) declare(name string) {
	if !r.seen[name] {
		r.seen[name] = true
		r.names = append(r.names, name)
	}
}

// CodeGen walks the token sequence once and emits the C program that
// emulates it on a bounded integer stack. Each token is translated with
// at most one token of lookahead and one of lookback; there is no AST.
type CodeGen struct {
	toks  []Token
	i     int // index of the token being translated
	opts  Options
	out   strings.Builder
	vars  *registry
	depth int // brace depth inside main, for indentation only
}

func newCodeGen(toks []Token, opts Options) *CodeGen {
	return &CodeGen{toks: toks, opts: opts, vars: newRegistry()}
}

// prev returns the token before the current one, if there is one.
func (cg *CodeGen) prev() (Token, bool) {
	if cg.i == 0 {
		return Token{}, false
	}
	return cg.toks[cg.i-1], true
}

// next returns the token after the current one, if there is one.
func (cg *CodeGen) next() (Token, bool) {
	if cg.i+1 >= len(cg.toks) {
		return Token{}, false
	}
	return cg.toks[cg.i+1], true
}

// stmt writes one indented line into the main body.
func (cg *CodeGen) stmt(format string, args ...any) {
	indent := cg.depth + 1
	if indent < 1 {
		// Unbalanced end/! tokens are emitted anyway and left for the C
		// compiler to reject; keep the indentation sane regardless.
		indent = 1
	}
	for d := 0; d < indent; d++ {
		cg.out.WriteString("    ")
	}
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

// trace writes the comment naming the source token the next statement
// was generated from.
func (cg *CodeGen) trace(tok Token) {
	cg.stmt("/* %d:%d %s %q */", tok.Line, tok.Col, tok.Type, tok.Lexeme)
}

func (cg *CodeGen) genToken(tok Token) error {
	switch tok.Type {
	case INTEGER:
		cg.stmt("push(%d);", tok.Int())
		return nil
	case IDENTIFIER:
		return cg.genIdent(tok)
	case OPERATOR:
		return cg.genOperator(tok)
	}
	return errAt(UnrecognizedToken, tok)
}

// genIdent resolves an identifier by context. Priority order matters:
// keywords shadow declared variables, declared variables shadow the
// fresh-declaration case, and only an identifier that is none of those
// and not a declaration target is an error.
func (cg *CodeGen) genIdent(tok Token) error {
	switch tok.Lexeme {
	case "echo":
		cg.stmt(`printf("%%d\n", pop());`)
	case "peek":
		cg.stmt(`a = pop(); push(a); printf("%%d\n", a);`)
	case "end":
		cg.depth--
		cg.stmt("}")
	case "then":
		// The branch itself was opened when the preceding = was
		// translated; then only validates adjacency.
		prev, ok := cg.prev()
		if !ok || prev.Type != OPERATOR || (prev.Lexeme != "=" && prev.Lexeme != "!") {
			return errAt(MissingEqualityBeforeThen, tok)
		}
	case "def":
		prev, ok := cg.prev()
		if !ok || prev.Type != IDENTIFIER {
			return errAt(MissingIdentifierBeforeDef, tok)
		}
		name := prev.Lexeme
		if cg.vars.declared(name) {
			cg.stmt("%s = pop();", name)
		} else {
			cg.stmt("int %s = pop();", name)
			cg.vars.declare(name)
		}
	default:
		// A declaration target emits nothing; the following def token
		// performs the declare or assign.
		if next, ok := cg.next(); ok && next.IsIdent("def") {
			return nil
		}
		if !cg.vars.declared(tok.Lexeme) {
			return errAt(UnrecognizedIdentifier, tok)
		}
		cg.stmt("push(%s);", tok.Lexeme)
	}
	return nil
}

func (cg *CodeGen) genOperator(tok Token) error {
	switch tok.Lexeme {
	case "+", "-", "*", "/":
		// The value pushed first is the left operand.
		cg.stmt("a = pop(); push(pop() %s a);", tok.Lexeme)
	case "@":
		// Swap the top two elements.
		cg.stmt("a = pop(); b = pop(); push(a); push(b);")
	case ":":
		// Duplicate the top element.
		cg.stmt("a = pop(); push(a); push(a);")
	case "=":
		if next, ok := cg.next(); ok && next.IsIdent("then") {
			cg.stmt("b = pop(); a = pop(); if (a == b) {")
			cg.depth++
		} else {
			cg.stmt("b = pop(); a = pop(); push(a == b);")
		}
	case "!":
		cg.depth--
		cg.stmt("} else {")
		cg.depth++
	default:
		// Unreachable through Lex, which only produces the fixed
		// operator set.
		return errAt(UnrecognizedToken, tok)
	}
	return nil
}

// prologue is the fixed runtime the emitted program starts with: the
// bounded stack, the two scratch registers, and guarded push/pop. The
// two %d verbs are the stack capacity.
const prologue = `#include <stdio.h>
#include <stdlib.h>

int stack[%d];
int sp = 0;
int a, b;

void push(int v) {
    if (sp >= %d) {
        fprintf(stderr, "Stack Overflow\n");
        exit(1);
    }
    stack[sp++] = v;
}

int pop(void) {
    if (sp <= 0) {
        fprintf(stderr, "Stack Underflow\n");
        exit(1);
    }
    return stack[--sp];
}

int main(void) {
`

// Generate translates the token sequence into a complete C program.
// The pass is pure: the same tokens and options always produce the same
// text byte for byte.
func Generate(toks []Token, opts Options) (string, error) {
	cg := newCodeGen(toks, opts)
	fmt.Fprintf(&cg.out, prologue, opts.StackCapacity, opts.StackCapacity)
	for cg.i = 0; cg.i < len(cg.toks); cg.i++ {
		tok := cg.toks[cg.i]
		if cg.opts.TraceComments {
			cg.trace(tok)
		}
		if err := cg.genToken(tok); err != nil {
			return "", err
		}
	}
	cg.depth = 0
	cg.stmt("return 0;")
	cg.out.WriteString("}\n")
	return cg.out.String(), nil
}
