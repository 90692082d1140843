package main

import (
	"fmt"

	"github.com/dhamidi/smith/batch"
	"github.com/dhamidi/smith/config"
	"github.com/dhamidi/smith/smith"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var profilePath string
	var ext string
	var printProfile bool
	var flags generatorFlags
	var count, workers int
	var output string

	cmd := &cobra.Command{
		Use:   "batch [grammar]",
		Short: "Generate many programs in parallel",
		Long: `Generate many programs in parallel.

Settings come from a YAML profile (--profile) and are overridden by flags
given on the command line. With --output, every program is written to its
own file together with a manifest.yaml recording the seed of each program.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := config.Default()
			if profilePath != "" {
				var err error
				if profile, err = config.Load(profilePath); err != nil {
					return err
				}
			}

			changed := cmd.Flags().Changed
			if len(args) > 0 {
				profile.Grammar = args[0]
				if !changed("start") {
					profile.Start = ""
				}
			}
			if changed("start") {
				profile.Start = flags.start
			}
			if changed("seed") {
				profile.Seed = flags.seed
			}
			if changed("max-depth") {
				profile.MaxDepth = flags.maxDepth
			}
			if changed("separator") {
				profile.Separator = flags.separator
			}
			if changed("trace") {
				profile.Trace = flags.trace
			}
			if changed("count") {
				profile.Count = count
			}
			if changed("workers") {
				profile.Workers = workers
			}
			if changed("output") {
				profile.Output = output
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			if printProfile {
				data, err := profile.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			grammar, err := smith.Load(profile.Grammar)
			if err != nil {
				return err
			}

			programs, err := batch.Run(cmd.Context(), batch.Options{
				Grammar:   grammar,
				Start:     profile.Start,
				Seed:      profile.Seed,
				Count:     profile.Count,
				Workers:   profile.Workers,
				Generator: profile.Options(),
			})
			if err != nil {
				return err
			}

			if profile.Output == "" {
				for _, p := range programs {
					fmt.Fprintf(cmd.OutOrStdout(), "// seed %d\n%s\n", p.Seed, p.Text)
				}
				return nil
			}

			m, err := batch.Write(profile.Output, profile.Grammar, profile.Start, ext, programs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d programs in %s\n", m.RunID, len(m.Programs), profile.Output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "YAML generation profile")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of programs")
	cmd.Flags().IntVarP(&workers, "workers", "j", 1, "number of programs generated in parallel")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to write programs and manifest to")
	cmd.Flags().StringVar(&ext, "ext", ".txt", "file extension of written programs")
	cmd.Flags().BoolVar(&printProfile, "print-profile", false, "print the effective profile and exit")

	return cmd
}
