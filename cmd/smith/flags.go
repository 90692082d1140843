package main

import (
	"github.com/dhamidi/smith/smith"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

// generatorFlags are shared by every command that generates programs.
type generatorFlags struct {
	start     string
	seed      int64
	maxDepth  int
	separator string
	trace     bool
}

func (f *generatorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "start production (presets supply their own)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", smith.DefaultMaxDepth, "nesting depth after which generation steers towards the shortest derivations")
	cmd.Flags().StringVar(&f.separator, "separator", smith.DefaultSeparator, "text between elements of syntactic productions")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "log every random draw")
}

func (f *generatorFlags) options() []smith.Option {
	return append([]smith.Option{smith.WithSeed(f.seed)}, f.shared()...)
}

// shared omits the seed, which batch runs assign per program.
func (f *generatorFlags) shared() []smith.Option {
	opts := []smith.Option{
		smith.WithMaxDepth(f.maxDepth),
		smith.WithSeparator(f.separator),
	}
	if f.trace {
		opts = append(opts, smith.WithTrace())
	}
	return opts
}

// load resolves the grammar argument and the start production.
func (f *generatorFlags) load(args []string) (ebnf.Grammar, string, string, error) {
	name := "expr"
	if len(args) > 0 {
		name = args[0]
	}
	grammar, err := smith.Load(name)
	if err != nil {
		return nil, "", "", err
	}
	start := f.start
	if start == "" {
		start = smith.DefaultStart(name)
	}
	return grammar, name, start, nil
}
