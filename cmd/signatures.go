// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/dtacheck/signature"
)

var signaturesCmd = &cobra.Command{
	Use:   "signatures [flags] [command words...]",
	Short: "Inspect a function signature table",
	Long: `Inspect the function signature table given with --signatures.

With no arguments every command path in the table is printed in table
format. With arguments the words are looked up the same way the arity
check looks up the leading symbols of a statement, and the bounds that
would apply are printed.

Examples:
  dtacheck signatures -s funcs                 # Dump the table
  dtacheck signatures -s funcs with game       # Bounds of {with game ...}`,
	Run: func(cmd *cobra.Command, args []string) {
		code := runSignatures(viper.GetString("signatures"), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if code != exitClean {
			exit(code)
		}
	},
}

func runSignatures(path string, args []string, stdout, stderr io.Writer) int {
	fail := func(err error) int {
		fmt.Fprintln(stderr, "dtacheck signatures:", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	if path == "" {
		return fail(errors.New("no signature table given (use --signatures)"))
	}
	sigs, err := signature.LoadFile(path)
	if err != nil {
		return fail(err)
	}
	if len(args) == 0 {
		sigs.Walk(func(words []string, fn *signature.Function) {
			if len(fn.Children) > 0 && !fn.Bounded() {
				return
			}
			fmt.Fprintf(stdout, "%s %d %d\n", strings.Join(words, " "), fn.MinArgs, fn.MaxArgs) //nolint:errcheck // best-effort output
		})
		return exitClean
	}

	fn, depth := sigs.Lookup(args)
	if depth == 0 {
		fmt.Fprintf(stdout, "%s: not in table, any number of arguments\n", args[0]) //nolint:errcheck // best-effort output
		return exitFindings
	}
	fmt.Fprintf(stdout, "%s: %s\n", strings.Join(args[:depth], " "), fn.Describe()) //nolint:errcheck // best-effort output
	return exitClean
}

func init() {
	rootCmd.AddCommand(signaturesCmd)
}
