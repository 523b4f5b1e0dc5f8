// Package machine executes postfix token sequences directly on a
// bounded integer stack, with the same observable behavior as the C
// programs the transpiler emits. The CLI's -run mode, the REPL, and the
// end-to-end tests all run programs here instead of handing the
// generated C to an external compiler.
package machine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"stackc/pkg/transpiler"
)

var (
	// ErrOverflow matches the emitted program's "Stack Overflow" abort.
	ErrOverflow = errors.New("stack overflow")
	// ErrUnderflow matches the emitted program's "Stack Underflow" abort.
	ErrUnderflow = errors.New("stack underflow")
	// ErrDivideByZero is the machine's version of the arithmetic fault
	// the emitted C program would die with.
	ErrDivideByZero = errors.New("division by zero")
	// ErrUnterminatedBlock is reported when a branch opened by = then
	// never reaches its end. The generated C would be rejected by the C
	// compiler instead; the machine has no downstream compiler to defer
	// to, so it fails at run time.
	ErrUnterminatedBlock = errors.New("unterminated block")
)

// Machine is a bounded integer stack machine with a variable table.
// State persists across Run calls, which is what lets the REPL feed it
// one line at a time.
type Machine struct {
	stack    []int
	vars     map[string]int
	capacity int

	// Output is where echo and peek write. If nil, os.Stdout is used.
	Output io.Writer
}

// New returns a machine whose stack holds at most capacity values.
func New(capacity int) *Machine {
	return &Machine{
		stack:    make([]int, 0, capacity),
		vars:     make(map[string]int),
		capacity: capacity,
	}
}

// Depth returns the current stack depth.
func (m *Machine) Depth() int {
	return len(m.stack)
}

func (m *Machine) out() io.Writer {
	if m.Output == nil {
		return os.Stdout
	}
	return m.Output
}

func (m *Machine) push(v int) error {
	if len(m.stack) >= m.capacity {
		return ErrOverflow
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *Machine) pop() (int, error) {
	if len(m.stack) == 0 {
		return 0, ErrUnderflow
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

// skipBranch scans forward from start for the end of the branch that
// execution is leaving, skipping over nested branches. With stopAtElse
// it stops at a ! boundary as well as end; otherwise only end
// terminates. It returns the index of the boundary token.
func skipBranch(toks []transpiler.Token, start int, stopAtElse bool) (int, error) {
	depth := 0
	for j := start; j < len(toks); j++ {
		t := toks[j]
		switch {
		case t.IsOp('=') && j+1 < len(toks) && toks[j+1].IsIdent("then"):
			depth++
		case t.IsIdent("end"):
			if depth == 0 {
				return j, nil
			}
			depth--
		case t.IsOp('!'):
			if depth == 0 && stopAtElse {
				return j, nil
			}
		}
	}
	return 0, ErrUnterminatedBlock
}

// Run executes the token sequence. Dispatch mirrors the code
// generator's: the same one-token lookaround resolves identifiers, and
// malformed programs fail with the same front-end errors.
func (m *Machine) Run(toks []transpiler.Token) error {
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		var err error
		switch tok.Type {
		case transpiler.INTEGER:
			err = m.push(tok.Int())
		case transpiler.IDENTIFIER:
			i, err = m.runIdent(toks, i)
		case transpiler.OPERATOR:
			i, err = m.runOperator(toks, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) runIdent(toks []transpiler.Token, i int) (int, error) {
	tok := toks[i]
	switch tok.Lexeme {
	case "echo":
		v, err := m.pop()
		if err != nil {
			return i, err
		}
		fmt.Fprintf(m.out(), "%d\n", v)
	case "peek":
		v, err := m.pop()
		if err != nil {
			return i, err
		}
		if err := m.push(v); err != nil {
			return i, err
		}
		fmt.Fprintf(m.out(), "%d\n", v)
	case "end":
		// Block close; nothing to do when reached in straight-line
		// execution.
	case "then":
		if i == 0 || toks[i-1].Type != transpiler.OPERATOR ||
			(toks[i-1].Lexeme != "=" && toks[i-1].Lexeme != "!") {
			return i, &transpiler.Error{Kind: transpiler.MissingEqualityBeforeThen, Line: tok.Line, Col: tok.Col, Text: tok.Lexeme}
		}
	case "def":
		if i == 0 || toks[i-1].Type != transpiler.IDENTIFIER {
			return i, &transpiler.Error{Kind: transpiler.MissingIdentifierBeforeDef, Line: tok.Line, Col: tok.Col, Text: tok.Lexeme}
		}
		v, err := m.pop()
		if err != nil {
			return i, err
		}
		m.vars[toks[i-1].Lexeme] = v
	default:
		if i+1 < len(toks) && toks[i+1].IsIdent("def") {
			// Declaration target; the def token does the work.
			return i, nil
		}
		v, ok := m.vars[tok.Lexeme]
		if !ok {
			return i, &transpiler.Error{Kind: transpiler.UnrecognizedIdentifier, Line: tok.Line, Col: tok.Col, Text: tok.Lexeme}
		}
		return i, m.push(v)
	}
	return i, nil
}

func (m *Machine) runOperator(toks []transpiler.Token, i int) (int, error) {
	tok := toks[i]
	switch tok.Lexeme {
	case "+", "-", "*", "/":
		a, err := m.pop()
		if err != nil {
			return i, err
		}
		left, err := m.pop()
		if err != nil {
			return i, err
		}
		var v int
		switch tok.Lexeme {
		case "+":
			v = left + a
		case "-":
			v = left - a
		case "*":
			v = left * a
		case "/":
			if a == 0 {
				return i, ErrDivideByZero
			}
			v = left / a
		}
		return i, m.push(v)
	case "@":
		a, err := m.pop()
		if err != nil {
			return i, err
		}
		b, err := m.pop()
		if err != nil {
			return i, err
		}
		if err := m.push(a); err != nil {
			return i, err
		}
		return i, m.push(b)
	case ":":
		a, err := m.pop()
		if err != nil {
			return i, err
		}
		if err := m.push(a); err != nil {
			return i, err
		}
		return i, m.push(a)
	case "=":
		b, err := m.pop()
		if err != nil {
			return i, err
		}
		a, err := m.pop()
		if err != nil {
			return i, err
		}
		if i+1 < len(toks) && toks[i+1].IsIdent("then") {
			if a == b {
				// Fall through into the branch; the then token itself
				// executes as a no-op.
				return i, nil
			}
			// Condition false: resume after the matching ! (running the
			// else branch) or after the matching end.
			j, err := skipBranch(toks, i+2, true)
			if err != nil {
				return i, err
			}
			return j, nil
		}
		if a == b {
			return i, m.push(1)
		}
		return i, m.push(0)
	case "!":
		// Reached at the end of a taken if branch: skip the else part.
		j, err := skipBranch(toks, i+1, false)
		if err != nil {
			return i, err
		}
		return j, nil
	default:
		return i, &transpiler.Error{Kind: transpiler.UnrecognizedToken, Line: tok.Line, Col: tok.Col, Text: tok.Lexeme}
	}
}
