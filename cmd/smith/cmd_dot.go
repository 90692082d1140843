package main

import (
	"fmt"

	"github.com/dhamidi/smith/smith"
	"github.com/dhamidi/smith/view"
	"github.com/spf13/cobra"
)

func newDotCmd() *cobra.Command {
	var flags generatorFlags

	cmd := &cobra.Command{
		Use:   "dot [grammar]",
		Short: "Print the derivation tree of a random program in Graphviz DOT format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, _, start, err := flags.load(args)
			if err != nil {
				return err
			}

			tree, err := smith.New(grammar, flags.options()...).Tree(start)
			if err != nil {
				return err
			}

			out, err := view.NewDotTree(view.NewTree(tree)).Output()
			if err != nil {
				return fmt.Errorf("render dot: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
