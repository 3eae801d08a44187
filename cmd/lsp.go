// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/lsp"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass
// WithSignatures or WithChecks to configure the server without flags.
func LSPCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the .dta Language Server Protocol server",
		Long: `Start an LSP server for .dta script files.

The language server publishes the same diagnostics as the check command
while files are edited, folds multi-line lists and comment blocks, and
describes the signature of the command under the cursor.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  dtacheck lsp                           Start with stdio transport
  dtacheck lsp -s funcs                  Check arity against a signature table
  dtacheck lsp --port 7998               Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "dtacheck lsp --stdio" for .dta files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			serverOpts, err := cfg.serverOptions(viper.GetString("signatures"))
			if err != nil {
				fmt.Fprintln(os.Stderr, "dtacheck lsp:", err) //nolint:errcheck // best-effort output
				exit(exitUsage)
			}
			srv := lsp.New(serverOpts...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				logger.Info("lsp server listening", "addr", addr)
				err = srv.RunTCP(addr)
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err) //nolint:errcheck // best-effort output
				exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

// serverOptions resolves the configured checks and signature table into
// server options.  A table injected by the embedder takes precedence over
// path.
func (c *cmdConfig) serverOptions(path string) ([]lsp.Option, error) {
	opts := []lsp.Option{lsp.WithLogger(logger)}
	sigs := c.signatures
	if sigs == nil {
		var err error
		if sigs, err = loadSignatures(path); err != nil {
			return nil, err
		}
	}
	if sigs != nil {
		opts = append(opts, lsp.WithSignatures(sigs))
	}
	analyzers, err := lint.SelectAnalyzers(c.checks)
	if err != nil {
		return nil, err
	}
	return append(opts, lsp.WithAnalyzers(analyzers)), nil
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
