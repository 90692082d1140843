package main

import (
	"fmt"

	"github.com/dhamidi/smith/batch"
	"github.com/dhamidi/smith/ebnf/parse"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var flags generatorFlags
	var count int
	var workers int

	cmd := &cobra.Command{
		Use:   "check [grammar]",
		Short: "Generate programs and verify that each one parses with the grammar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, name, start, err := flags.load(args)
			if err != nil {
				return err
			}

			programs, err := batch.Run(cmd.Context(), batch.Options{
				Grammar:   grammar,
				Start:     start,
				Seed:      flags.seed,
				Count:     count,
				Workers:   workers,
				Generator: flags.shared(),
			})
			if err != nil {
				return err
			}

			failed := 0
			for _, p := range programs {
				filename := fmt.Sprintf("%s#seed=%d", name, p.Seed)
				if err := parse.ParseText(grammar, []byte(p.Text), filename, start); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n%s\n\n", err, p.Text)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d programs parse as %s\n", len(programs)-failed, len(programs), start)
			if failed > 0 {
				return fmt.Errorf("%d programs failed to parse", failed)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of programs to check")
	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "number of programs generated in parallel")

	return cmd
}
