package main

import (
	"github.com/dhamidi/smith/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server for .ebnf files",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, seed)
			return server.RunStdio()
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "seed of the samples shown on hover")

	return cmd
}
