package transpiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls code generation and the surrounding toolchain glue.
type Options struct {
	// StackCapacity is the size of the emitted program's integer stack.
	StackCapacity int `yaml:"stack_capacity"`
	// TraceComments prefixes each emitted statement with a comment
	// naming the source token it came from.
	TraceComments bool `yaml:"trace_comments"`
	// Compiler is the external C compiler invoked by the CLI's -cc
	// mode, e.g. "cc" or "gcc".
	Compiler string `yaml:"compiler"`
}

// DefaultOptions returns the options used when no config file is given.
func DefaultOptions() Options {
	return Options{
		StackCapacity: 256,
		TraceComments: true,
		Compiler:      "cc",
	}
}

// LoadOptions reads a YAML options file over the defaults, so a config
// file only needs to name the fields it changes.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}
	if opts.StackCapacity <= 0 {
		return opts, fmt.Errorf("%s: stack_capacity must be positive", path)
	}
	return opts, nil
}
