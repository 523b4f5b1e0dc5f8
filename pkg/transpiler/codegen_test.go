package transpiler

import (
	"errors"
	"strings"
	"testing"
)

// plain returns options without trace comments, so tests can match
// emitted statements directly.
func plain() Options {
	opts := DefaultOptions()
	opts.TraceComments = false
	return opts
}

func compile(t *testing.T, src string, opts Options) string {
	t.Helper()
	out, err := Compile(src, opts)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", src, err)
	}
	return out
}

func TestGenerateStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Integer push",
			input: "42",
			want:  []string{"push(42);"},
		},
		{
			name:  "Echo",
			input: "1 echo",
			want:  []string{`printf("%d\n", pop());`},
		},
		{
			name:  "Peek",
			input: "1 peek",
			want:  []string{`a = pop(); push(a); printf("%d\n", a);`},
		},
		{
			name:  "Subtraction operand order",
			input: "5 3 -",
			want:  []string{"push(5);", "push(3);", "a = pop(); push(pop() - a);"},
		},
		{
			name:  "Addition",
			input: "4 6 +",
			want:  []string{"a = pop(); push(pop() + a);"},
		},
		{
			name:  "Multiplication and division",
			input: "6 7 * 2 /",
			want:  []string{"a = pop(); push(pop() * a);", "a = pop(); push(pop() / a);"},
		},
		{
			name:  "Swap",
			input: "1 2 @",
			want:  []string{"a = pop(); b = pop(); push(a); push(b);"},
		},
		{
			name:  "Duplicate",
			input: "7 :",
			want:  []string{"a = pop(); push(a); push(a);"},
		},
		{
			name:  "Equality without then pushes a boolean",
			input: "5 5 =",
			want:  []string{"b = pop(); a = pop(); push(a == b);"},
		},
		{
			name:  "Equality with then opens a branch",
			input: "5 5 = then 1 echo end",
			want:  []string{"b = pop(); a = pop(); if (a == b) {", "}"},
		},
		{
			name:  "Else branch",
			input: "5 5 = then 1 echo ! 2 echo end",
			want:  []string{"} else {"},
		},
		{
			name:  "First declaration",
			input: "3 x def",
			want:  []string{"int x = pop();"},
		},
		{
			name:  "Declared variable pushes its value",
			input: "3 x def x echo",
			want:  []string{"push(x);"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := compile(t, tt.input, plain())
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Compile(%q) output missing %q\n%s", tt.input, want, out)
				}
			}
		})
	}
}

func TestGenerateRedeclarationAssigns(t *testing.T) {
	out := compile(t, "1 x def 2 x def", plain())
	if c := strings.Count(out, "int x = pop();"); c != 1 {
		t.Errorf("expected exactly one declaration of x, got %d\n%s", c, out)
	}
	if !strings.Contains(out, "\n    x = pop();") {
		t.Errorf("expected plain assignment for redeclaration\n%s", out)
	}
}

func TestGenerateDeclarationTargetEmitsNothing(t *testing.T) {
	// Neither the fresh target nor the already-declared one may emit a
	// push of its own.
	out := compile(t, "1 x def 2 x def", plain())
	if strings.Contains(out, "push(x);") {
		t.Errorf("declaration target emitted a push\n%s", out)
	}
}

func TestGenerateKeywordsShadowVariables(t *testing.T) {
	// A variable named like a keyword can be declared (the def rule only
	// looks at the token kind) but every later use resolves the keyword.
	out := compile(t, "1 echo def", plain())
	if !strings.Contains(out, `printf("%d\n", pop());`) {
		t.Errorf("echo before def did not emit a pop-and-print\n%s", out)
	}
	if !strings.Contains(out, "int echo = pop();") {
		t.Errorf("def after echo did not declare\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"then after integer", "5 then", MissingEqualityBeforeThen},
		{"then first", "then", MissingEqualityBeforeThen},
		{"then after equality result", "5 5 = 1 then", MissingEqualityBeforeThen},
		{"def after integer", "5 def", MissingIdentifierBeforeDef},
		{"def first", "def", MissingIdentifierBeforeDef},
		{"def after operator", "1 2 + def", MissingIdentifierBeforeDef},
		{"bare unknown identifier", "foo", UnrecognizedIdentifier},
		{"unknown identifier mid-program", "1 2 foo +", UnrecognizedIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.input, plain())
			if err == nil {
				t.Fatalf("Compile(%q): expected error", tt.input)
			}
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("Compile(%q): error %v is not a *Error", tt.input, err)
			}
			if cerr.Kind != tt.kind {
				t.Errorf("Compile(%q): kind = %v, want %v", tt.input, cerr.Kind, tt.kind)
			}
		})
	}
}

func TestGenerateFailsFast(t *testing.T) {
	out, err := Compile("1 2 + foo", plain())
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("expected no partial output, got %d bytes", len(out))
	}
}

func TestGenerateTraceComments(t *testing.T) {
	opts := DefaultOptions()
	out := compile(t, "5 echo", opts)
	if !strings.Contains(out, `/* 1:1 INTEGER "5" */`) {
		t.Errorf("missing trace comment for the integer token\n%s", out)
	}
	if !strings.Contains(out, `/* 1:3 IDENTIFIER "echo" */`) {
		t.Errorf("missing trace comment for echo\n%s", out)
	}
	plainOut := compile(t, "5 echo", plain())
	if strings.Contains(plainOut, "/*") {
		t.Errorf("trace comments emitted while disabled\n%s", plainOut)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	src := "4 6 + sum def sum peek 10 = then 1 echo ! 0 echo end"
	first := compile(t, src, DefaultOptions())
	second := compile(t, src, DefaultOptions())
	if first != second {
		t.Error("two runs over identical source differ")
	}
}

func TestGenerateStackCapacity(t *testing.T) {
	opts := plain()
	opts.StackCapacity = 64
	out := compile(t, "1", opts)
	if !strings.Contains(out, "int stack[64];") || !strings.Contains(out, "sp >= 64") {
		t.Errorf("capacity not applied\n%s", out)
	}
}

func TestGenerateCompleteProgram(t *testing.T) {
	want := `#include <stdio.h>
#include <stdlib.h>

int stack[256];
int sp = 0;
int a, b;

void push(int v) {
    if (sp >= 256) {
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
    push(4);
    push(6);
    a = pop(); push(pop() + a);
    int sum = pop();
    push(sum);
    printf("%d\n", pop());
    return 0;
}
`
	got := compile(t, "4 6 + sum def sum echo", plain())
	if got != want {
		t.Errorf("complete program mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateBranchIndentation(t *testing.T) {
	out := compile(t, "5 5 = then 1 echo ! 2 echo end", plain())
	if !strings.Contains(out, "\n        push(1);") {
		t.Errorf("true branch not indented one level deeper\n%s", out)
	}
	if !strings.Contains(out, "\n    } else {") {
		t.Errorf("else boundary not at block level\n%s", out)
	}
	if !strings.Contains(out, "\n    }\n") {
		t.Errorf("end not at block level\n%s", out)
	}
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	if r.declared("x") {
		t.Error("empty registry claims x")
	}
	r.declare("x")
	r.declare("y")
	r.declare("x")
	if !r.declared("x") || !r.declared("y") {
		t.Error("declared names missing")
	}
	if len(r.names) != 2 {
		t.Errorf("registry grew on redeclaration: %v", r.names)
	}
	if r.names[0] != "x" || r.names[1] != "y" {
		t.Errorf("insertion order lost: %v", r.names)
	}
}
