package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"stackc/pkg/machine"
	"stackc/pkg/transpiler"
)

func main() {
	inPath := flag.String("in", "", "input postfix source file")
	outPath := flag.String("out", "", "output C file path (default: input with .c extension)")
	runProgram := flag.Bool("run", false, "run the program on the built-in stack machine instead of writing C")
	build := flag.Bool("cc", false, "invoke the external C compiler on the generated file")
	configPath := flag.String("config", "", "YAML options file")
	flag.Parse()

	opts := transpiler.DefaultOptions()
	if *configPath != "" {
		var err error
		opts, err = transpiler.LoadOptions(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(1)
		}
	}

	if *inPath == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			repl(opts)
			return
		}
		transpileStdin(opts)
		return
	}

	source, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", *inPath, err)
		os.Exit(1)
	}

	tokens, err := transpiler.Lex(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	if *runProgram {
		m := machine.New(opts.StackCapacity)
		if err := m.Run(tokens); err != nil {
			fmt.Fprintln(os.Stderr, "runtime error:", err)
			os.Exit(1)
		}
		return
	}

	program, err := transpiler.Generate(tokens, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	target := *outPath
	if target == "" {
		target = strings.TrimSuffix(*inPath, filepath.Ext(*inPath)) + ".c"
	}
	if err := os.WriteFile(target, []byte(program), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %q: %v\n", target, err)
		os.Exit(1)
	}

	if *build {
		bin := strings.TrimSuffix(target, ".c")
		cmd := exec.Command(opts.Compiler, target, "-o", bin)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", opts.Compiler, err)
			os.Exit(1)
		}
	}
}

// transpileStdin handles piped input: the whole of stdin is one program,
// and the generated C goes to stdout.
func transpileStdin(opts transpiler.Options) {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read stdin:", err)
		os.Exit(1)
	}
	program, err := transpiler.Compile(string(source), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Print(program)
}

// repl feeds lines to one persistent machine, so variables and stack
// contents carry over between lines. Lookaround does not cross lines:
// a declaration like "x def" has to be entered on a single line.
func repl(opts transpiler.Options) {
	m := machine.New(opts.StackCapacity)
	sc := bufio.NewScanner(os.Stdin)
	fmt.Println("stackc repl (ctrl-d to exit)")
	fmt.Print("> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			tokens, err := transpiler.Lex(line)
			if err == nil {
				err = m.Run(tokens)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		}
		fmt.Print("> ")
	}
	fmt.Println()
}
