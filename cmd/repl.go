// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/dtacheck/diagnostic"
	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/repl"
)

// REPLCommand creates the "repl" cobra command.
func REPLCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cobra.Command{
		Use:   "repl",
		Short: "Check .dta statements interactively",
		Long: `Start an interactive checker for .dta statements.

Each statement is read until all of its delimiters are closed and then
checked. Diagnostics are printed with the offending input underlined; a
statement without problems is echoed back in normalized form. With a
signature table, Tab completes command names. Use Ctrl-D to exit and
Ctrl-C to discard a partial statement.

Example session:
  dtacheck> {set $x 1}
  error[arity]: calling ` + "`set`" + ` with too many arguments
  ...
  dtacheck> {with game
            {set $x}}
  {with game {set $x}}`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if err := runREPL(cfg); err != nil {
				fmt.Fprintln(os.Stderr, "dtacheck repl:", err) //nolint:errcheck // best-effort output
				exit(exitUsage)
			}
		},
	}
}

func runREPL(cfg cmdConfig) error {
	color, err := diagnostic.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return err
	}
	sigs := cfg.signatures
	if sigs == nil {
		if sigs, err = loadSignatures(viper.GetString("signatures")); err != nil {
			return err
		}
	}
	analyzers, err := lint.SelectAnalyzers(cfg.checks)
	if err != nil {
		return err
	}
	return repl.RunRepl(filepath.Base(os.Args[0])+"> ",
		repl.WithSignatures(sigs),
		repl.WithAnalyzers(analyzers),
		repl.WithColor(color),
	)
}

func init() {
	rootCmd.AddCommand(REPLCommand())
}
