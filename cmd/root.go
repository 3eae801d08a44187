// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dtacheck",
	Short: "dtacheck: static checks for .dta game data scripts",
	Long: `dtacheck validates .dta scripts: the S-expression data files, with a
small textual preprocessor, that describe game data and behavior.

Getting started:
  dtacheck check songs.dta               Check a single file
  dtacheck check config/...              Check every .dta file under config/
  dtacheck check -s funcs songs.dta      Check command arity against a signature table
  dtacheck signatures -s funcs set       Show the bounds of a command
  dtacheck repl                          Check script text interactively
  dtacheck lsp                           Run the language server

Script overview:
  (...) arrays, [...] properties and {...} statements may nest freely.
  Words are symbols unless they are integers (12), floats (1.5) or
  variables ($name). 'quoted symbols' and "strings" may contain spaces.
  ; starts a comment that runs to the end of the line.
  #ifdef/#ifndef/#else/#endif, #define NAME (...), #include, #merge,
  #undef and #autorun are preprocessor directives.

Configuration:
  Flags may also be set in $HOME/.dtacheck.yaml (or the file given by
  --config) and in DTACHECK_* environment variables, for example
  DTACHECK_SIGNATURES=funcs or DTACHECK_LOG_LEVEL=debug.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd.ErrOrStderr())
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dtacheck:", err)
		exit(exitUsage)
	}
}

// Exit codes shared by all commands.
const (
	exitClean    = 0
	exitFindings = 1
	exitUsage    = 2
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dtacheck.yaml)")
	flags.String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.StringP("signatures", "s", "",
		"Function signature table used to check command arity.")
	flags.String("log-level", "warn",
		`Log level: "debug", "info", "warn", or "error".`)
	flags.String("log-file", "",
		"Also write JSON logs to this file.")

	for _, name := range []string{"color", "signatures", "log-level", "log-file"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".dtacheck" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".dtacheck")
	}

	viper.SetEnvPrefix("dtacheck")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.  A config file named
	// explicitly must be readable.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "dtacheck:", err)
		os.Exit(exitUsage)
	}
}
