package main

import (
	"fmt"

	"github.com/dhamidi/smith/smith"
	"github.com/dhamidi/smith/view"
	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	var flags generatorFlags

	cmd := &cobra.Command{
		Use:   "tree [grammar]",
		Short: "Print the derivation tree of a random program as JSON",
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

			if err := view.NewJSONTree(view.NewTree(tree)).Encode(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
