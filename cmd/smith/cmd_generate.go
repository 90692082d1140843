package main

import (
	"fmt"

	"github.com/dhamidi/smith/smith"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newGenerateCmd() *cobra.Command {
	var flags generatorFlags

	cmd := &cobra.Command{
		Use:   "generate [grammar]",
		Short: "Print a random program derived from a grammar",
		Long: `Print a random program derived from a grammar.

The grammar is the name of an embedded preset (expr, json, java) or a path
to an .ebnf file. It defaults to expr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, name, start, err := flags.load(args)
			if err != nil {
				return err
			}

			gen := smith.New(grammar, flags.options()...)
			out, err := gen.Generate(start)
			if err != nil {
				return err
			}
			commonlog.GetLogger("smith").Infof("%s: generated %s with seed %d", name, start, gen.Seed())

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
