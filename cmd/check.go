// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/dtacheck/diagnostic"
	"github.com/luthersystems/dtacheck/lint"
	"github.com/luthersystems/dtacheck/parser/token"
	"github.com/luthersystems/dtacheck/signature"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Check .dta files for syntax, arity and preprocessor errors",
	Long: `Check .dta files for syntax, arity and preprocessor errors.

Each check is an independent analyzer that examines the tokens or the parsed
tree of a file and reports diagnostics. Arity is only checked against a
signature table given with --signatures; without one every command accepts
any number of arguments.

With no files, reads from stdin. With files, checks each file and reports
all findings to stderr.

Signature tables have one command per line: the command path followed by
the minimum and maximum number of arguments. Lines starting with # are
comments.
  set 2 2
  with game 1 3

Exit codes:
  0  No problems found
  1  One or more errors were reported (or warnings, with --strict)
  2  Bad invocation (invalid flags, unreadable files, bad signature table)

To suppress a specific diagnostic, add a comment on the same line:
  {set $x} ; nolint:arity

To suppress all checks on a line:
  {set $x} ; nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc(false, 80) + `
Examples:
  dtacheck check songs.dta                           # Check a single file
  dtacheck check -s funcs config/...                 # Check a tree with a signature table
  dtacheck check --json songs.dta                    # Output diagnostics as JSON
  dtacheck check --checks=arity songs.dta            # Run only specific checks
  dtacheck check --list                              # List available checks
  dtacheck check --exclude='build' ./...             # Exclude a directory
  cat songs.dta | dtacheck check                     # Check stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := checkOptionsFromConfig()
		code := runCheck(cmd.Context(), opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if code != exitClean {
			exit(code)
		}
	},
}

type checkOptions struct {
	Signatures string
	Checks     []string
	Excludes   []string
	JSON       bool
	Short      bool
	List       bool
	Strict     bool
	Jobs       int
	Color      string
}

func checkOptionsFromConfig() checkOptions {
	return checkOptions{
		Signatures: viper.GetString("signatures"),
		Checks:     viper.GetStringSlice("checks"),
		Excludes:   viper.GetStringSlice("exclude"),
		JSON:       viper.GetBool("json"),
		Short:      viper.GetBool("short"),
		List:       viper.GetBool("list"),
		Strict:     viper.GetBool("strict"),
		Jobs:       viper.GetInt("jobs"),
		Color:      viper.GetString("color"),
	}
}

// checkedFile is the result of checking one input.
type checkedFile struct {
	name   string
	source []byte
	diags  []lint.Diagnostic
}

// runCheck checks the files named by args, or stdin, and returns the exit
// code.
func runCheck(ctx context.Context, opts checkOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.List {
		for _, name := range lint.AnalyzerNames() {
			fmt.Fprintln(stdout, name) //nolint:errcheck // best-effort output
		}
		return exitClean
	}
	fail := func(err error) int {
		fmt.Fprintln(stderr, "dtacheck check:", err) //nolint:errcheck // best-effort output
		return exitUsage
	}

	color, err := diagnostic.ParseColorMode(opts.Color)
	if err != nil {
		return fail(err)
	}
	analyzers, err := lint.SelectAnalyzers(opts.Checks)
	if err != nil {
		return fail(err)
	}
	sigs, err := loadSignatures(opts.Signatures)
	if err != nil {
		return fail(err)
	}
	l := &lint.Linter{
		Analyzers:  analyzers,
		Signatures: sigs,
		Logger:     logger,
	}

	var files []*checkedFile
	if len(args) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return fail(fmt.Errorf("reading stdin: %w", err))
		}
		files = []*checkedFile{{name: "<stdin>", source: src}}
	} else {
		paths, err := expandArgs(args, opts.Excludes)
		if err != nil {
			return fail(err)
		}
		for _, path := range paths {
			files = append(files, &checkedFile{name: path})
		}
	}

	if err := checkFiles(ctx, l, files, opts.Jobs); err != nil {
		return fail(err)
	}

	var all []lint.Diagnostic
	for _, f := range files {
		all = append(all, f.diags...)
	}
	logger.Info("checked files", "files", len(files), "diagnostics", len(all))

	switch {
	case opts.JSON:
		if err := lint.FormatJSON(stdout, all); err != nil {
			return fail(err)
		}
	case opts.Short:
		lint.FormatText(stderr, all)
	default:
		renderCheckedFiles(stderr, color, files)
	}

	if lint.HasErrors(all, opts.Strict) {
		return exitFindings
	}
	return exitClean
}

// checkFiles reads and lints files concurrently.  Files without source are
// read from disk.
func checkFiles(ctx context.Context, l *lint.Linter, files []*checkedFile, jobs int) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, f := range files {
		g.Go(func() error {
			if f.source == nil {
				src, err := os.ReadFile(f.name) //nolint:gosec // CLI tool reads user-specified files
				if err != nil {
					return err
				}
				f.source = src
			}
			diags, err := l.LintFileContext(ctx, f.source, f.name)
			if err != nil {
				return err
			}
			f.diags = diags
			return nil
		})
	}
	return g.Wait()
}

// loadSignatures loads the signature table at path.  An empty path yields
// a nil table.
func loadSignatures(path string) (*signature.Function, error) {
	if path == "" {
		logger.Debug("no signature table; arity is unconstrained")
		return nil, nil
	}
	sigs, err := signature.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("signature table: %w", err)
	}
	logger.Debug("loaded signature table", "path", path, "commands", sigs.Len())
	return sigs, nil
}

// renderCheckedFiles renders the diagnostics of files with source
// snippets.
func renderCheckedFiles(w io.Writer, color diagnostic.ColorMode, files []*checkedFile) {
	sources := make(map[string][]byte, len(files))
	var ds []diagnostic.Diagnostic
	for _, f := range files {
		if len(f.diags) == 0 {
			continue
		}
		sources[f.name] = f.source
		lines := token.NewLineIndex(f.name, f.source)
		for _, d := range f.diags {
			ds = append(ds, lint.RenderDiagnostic(d, lines))
		}
	}
	r := &diagnostic.Renderer{Color: color, SourceReader: diagnostic.MapSource(sources)}
	_ = r.RenderAll(w, ds)
}

func init() {
	rootCmd.AddCommand(checkCmd)

	flags := checkCmd.Flags()
	flags.Bool("json", false,
		"Output diagnostics as JSON.")
	flags.Bool("short", false,
		"Output diagnostics one per line, without source snippets.")
	flags.StringSlice("checks", nil,
		"Comma-separated list of checks to run (default: all).")
	flags.Bool("list", false,
		"List available checks and exit.")
	flags.StringArray("exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	flags.Bool("strict", false,
		"Exit with status 1 when only warnings were reported.")
	flags.IntP("jobs", "j", 0,
		"Number of files to check concurrently (default: GOMAXPROCS).")

	for _, name := range []string{"json", "short", "checks", "list", "exclude", "strict", "jobs"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}
