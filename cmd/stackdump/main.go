// stackdump prints the token stream and the generated C for a postfix
// source file. Debugging aid for the transpiler itself.
package main

import (
	"fmt"
	"os"

	"stackc/pkg/transpiler"
)

const testSource = `4 6 +
sum def
sum echo
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	tokens, err := transpiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	program, err := transpiler.Generate(tokens, transpiler.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Println("Generated C")
	fmt.Print(program)
}
