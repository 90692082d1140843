package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/dhamidi/smith/ebnflex"
	"github.com/dhamidi/smith/grammars"
	"github.com/dhamidi/smith/smith"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfListCmd())
	cmd.AddCommand(newEbnfTokenizeCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Parse and verify an EBNF grammar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if startProduction == "" {
				startProduction = smith.DefaultStart(name)
			}

			grammar, err := loadGrammar(name)
			if err != nil {
				printErrors(cmd, err)
				return err
			}

			if startProduction == "" {
				return nil
			}
			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(cmd, err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range grammars.Names() {
				preset, _ := grammars.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-16s start %s\n", preset.Name, preset.File, preset.Start)
			}
			return nil
		},
	}
}

func newEbnfTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "tokenize <grammar> <file>",
		Short:         "Split a file into the tokens of a grammar",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := smith.Load(args[0])
			if err != nil {
				return err
			}
			input, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			tokens, err := ebnflex.NewLexer(grammar, input, args[1]).Tokenize()
			if err != nil {
				return err
			}
			for _, tok := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			if bad := ebnflex.Errors(tokens); len(bad) > 0 {
				return fmt.Errorf("%s: unexpected %q", bad[0].Position, bad[0].Literal)
			}
			return nil
		},
	}
}

// loadGrammar parses without wrapping so that the error list of ebnf.Parse
// stays intact.
func loadGrammar(name string) (ebnf.Grammar, error) {
	if preset, ok := grammars.Lookup(name); ok {
		f, err := preset.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ebnf.Parse(preset.File, f)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ebnf.Parse(name, f)
}

func printErrors(cmd *cobra.Command, err error) {
	out := cmd.ErrOrStderr()
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(out, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(out, err)
	}
}
