// Package transpiler translates a minimal postfix stack language into a
// standalone C program that emulates it on a bounded integer stack.
//
// The front end has two stages: Lex turns the raw source into a flat
// token sequence, and Generate walks that sequence exactly once,
// resolving context-sensitive identifiers with a one-token
// lookahead/lookback window and emitting one C statement per token.
package transpiler

// Compile runs the full front end over src and returns the generated C
// program text.
func Compile(src string, opts Options) (string, error) {
	tokens, err := Lex(src)
	if err != nil {
		return "", err
	}
	return Generate(tokens, opts)
}
